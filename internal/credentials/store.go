package credentials

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/kasa/internal/cryptox"
	"github.com/dmitrijs2005/kasa/internal/dbx"
	"github.com/dmitrijs2005/kasa/internal/repositories/metadata"
)

// Store is the persistence contract for the master credential and the
// security Q&A.
//
// Errors are returned only for storage failures and ErrIntegrity; a wrong
// secret or an absent record is a false result, never an error.
type Store interface {
	HasMasterCredential(ctx context.Context) (bool, error)
	SetMasterCredential(ctx context.Context, password string) error
	VerifyPassword(ctx context.Context, password string) (bool, error)
	SetSecurityQA(ctx context.Context, question, answer string) error
	SecurityQuestion(ctx context.Context) (string, bool, error)
	VerifySecurityAnswer(ctx context.Context, answer string) (bool, error)
	Create(ctx context.Context, password, question, answer string) error
	Wipe(ctx context.Context) error
}

// vaultKeys are the records that make up a vault. The theme is a device
// preference and is not one of them.
var vaultKeys = []string{
	metadata.KeyMasterCredential,
	metadata.KeySecurityQA,
	metadata.KeyNotes,
	metadata.KeyLockState,
}

// SQLiteStore keeps the records in the metadata table.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

func (s *SQLiteStore) getMetadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}

func (s *SQLiteStore) loadMaster(ctx context.Context) (*masterRecord, error) {
	raw, err := s.getMetadataRepo().Get(ctx, metadata.KeyMasterCredential)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return decodeMaster(raw)
}

func (s *SQLiteStore) loadSecurityQA(ctx context.Context) (*securityQARecord, error) {
	raw, err := s.getMetadataRepo().Get(ctx, metadata.KeySecurityQA)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return decodeSecurityQA(raw)
}

// HasMasterCredential reports whether a well-formed master credential is
// stored.
func (s *SQLiteStore) HasMasterCredential(ctx context.Context) (bool, error) {
	rec, err := s.loadMaster(ctx)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

func (s *SQLiteStore) putMaster(ctx context.Context, repo metadata.Repository, password string) error {
	salt := cryptox.NewSalt()
	rec := masterRecord{
		Version:   recordVersion,
		Salt:      salt,
		Verifier:  cryptox.Verifier([]byte(password), salt),
		CreatedAt: s.now().UTC(),
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode master credential: %w", err)
	}
	return repo.Set(ctx, metadata.KeyMasterCredential, raw)
}

func (s *SQLiteStore) putSecurityQA(ctx context.Context, repo metadata.Repository, question, answer string) error {
	salt := cryptox.NewSalt()
	rec := securityQARecord{
		Version:        recordVersion,
		Question:       question,
		Salt:           salt,
		AnswerVerifier: cryptox.Verifier([]byte(NormalizeAnswer(answer)), salt),
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode security question: %w", err)
	}
	return repo.Set(ctx, metadata.KeySecurityQA, raw)
}

// SetMasterCredential replaces the master credential with a verifier for
// password under a fresh salt. Length policy is the caller's business.
func (s *SQLiteStore) SetMasterCredential(ctx context.Context, password string) error {
	return s.putMaster(ctx, s.getMetadataRepo(), password)
}

// VerifyPassword checks password against the stored verifier in constant
// time. Returns false when no credential is stored.
func (s *SQLiteStore) VerifyPassword(ctx context.Context, password string) (bool, error) {
	rec, err := s.loadMaster(ctx)
	if err != nil || rec == nil {
		return false, err
	}
	return cryptox.Matches([]byte(password), rec.Salt, rec.Verifier), nil
}

// SetSecurityQA replaces the recovery question. The answer is normalized
// before hashing.
func (s *SQLiteStore) SetSecurityQA(ctx context.Context, question, answer string) error {
	return s.putSecurityQA(ctx, s.getMetadataRepo(), question, answer)
}

// SecurityQuestion returns the stored question text; ok is false when no
// question was ever set.
func (s *SQLiteStore) SecurityQuestion(ctx context.Context) (question string, ok bool, err error) {
	rec, err := s.loadSecurityQA(ctx)
	if err != nil || rec == nil {
		return "", false, err
	}
	return rec.Question, true, nil
}

func (s *SQLiteStore) VerifySecurityAnswer(ctx context.Context, answer string) (bool, error) {
	rec, err := s.loadSecurityQA(ctx)
	if err != nil || rec == nil {
		return false, err
	}
	return cryptox.Matches([]byte(NormalizeAnswer(answer)), rec.Salt, rec.AnswerVerifier), nil
}

// Create starts a new vault in one transaction: every vault record is
// removed, then the master credential and the security Q&A are written.
// Either all of it is applied or none.
func (s *SQLiteStore) Create(ctx context.Context, password, question, answer string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.DeleteMany(ctx, vaultKeys...); err != nil {
			return err
		}
		if err := s.putMaster(ctx, repo, password); err != nil {
			return err
		}
		return s.putSecurityQA(ctx, repo, question, answer)
	})
	if err != nil {
		return fmt.Errorf("failed to create vault: %w", err)
	}
	return nil
}

// Wipe irreversibly removes the master credential, the security Q&A, the
// note collection and the failed-login counter in one transaction. The
// theme preference survives.
func (s *SQLiteStore) Wipe(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).DeleteMany(ctx, vaultKeys...)
	})
	if err != nil {
		return fmt.Errorf("failed to wipe vault: %w", err)
	}
	return nil
}
