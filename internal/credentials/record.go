package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const recordVersion = 1

// ErrIntegrity reports a persisted credential record that is malformed or
// partial. Such a vault cannot authenticate anybody.
var ErrIntegrity = errors.New("credential record is corrupt")

type masterRecord struct {
	Version   int       `json:"v"`
	Salt      []byte    `json:"salt"`
	Verifier  []byte    `json:"verifier"`
	CreatedAt time.Time `json:"created_at"`
}

type securityQARecord struct {
	Version        int    `json:"v"`
	Question       string `json:"question"`
	Salt           []byte `json:"salt"`
	AnswerVerifier []byte `json:"answer_verifier"`
}

func decodeMaster(raw []byte) (*masterRecord, error) {
	var r masterRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("%w: master credential: %v", ErrIntegrity, err)
	}
	if r.Version != recordVersion || len(r.Salt) == 0 || len(r.Verifier) == 0 {
		return nil, fmt.Errorf("%w: master credential: missing fields", ErrIntegrity)
	}
	return &r, nil
}

func decodeSecurityQA(raw []byte) (*securityQARecord, error) {
	var r securityQARecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("%w: security question: %v", ErrIntegrity, err)
	}
	if r.Version != recordVersion || r.Question == "" || len(r.Salt) == 0 || len(r.AnswerVerifier) == 0 {
		return nil, fmt.Errorf("%w: security question: missing fields", ErrIntegrity)
	}
	return &r, nil
}
