package credentials

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeAnswer is the canonical form a security answer is hashed in:
// NFC, surrounding whitespace trimmed, inner whitespace runs collapsed to a
// single space, then Unicode case folded. "  Rex " and "rex" are the same
// answer.
func NormalizeAnswer(answer string) string {
	s := norm.NFC.String(answer)
	s = strings.Join(strings.Fields(s), " ")
	return cases.Fold().String(s)
}
