package service

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Pseudonymizer convierte el respondent_id en un hash con clave; el id original nunca se persiste.
type Pseudonymizer struct {
	key []byte
}

// NewPseudonymizer acepta una clave vacia (hash sin clave) o de hasta 64 bytes; las mas largas se recortan.
func NewPseudonymizer(key string) *Pseudonymizer {
	k := []byte(key)
	if len(k) > blake2b.Size {
		k = k[:blake2b.Size]
	}
	return &Pseudonymizer{key: k}
}

func (p *Pseudonymizer) Hash(respondentID string) string {
	normalized := strings.ToLower(strings.TrimSpace(respondentID))
	if normalized == "" {
		return ""
	}
	var key []byte
	if p != nil {
		key = p.key
	}
	h, err := blake2b.New256(key)
	if err != nil {
		sum := blake2b.Sum256([]byte(normalized))
		return hex.EncodeToString(sum[:])
	}
	h.Write([]byte(normalized))
	return hex.EncodeToString(h.Sum(nil))
}
