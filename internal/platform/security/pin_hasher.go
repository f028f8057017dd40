// Package security provides the one-way digest used to store account PINs.
package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Supported algorithm names
const (
	AlgorithmSHA256     = "sha256"
	AlgorithmSHA512     = "sha512"
	AlgorithmSHA3_256   = "sha3-256"
	AlgorithmBlake2b256 = "blake2b-256"
)

var algorithms = map[string]func() hash.Hash{
	AlgorithmSHA256:   sha256.New,
	AlgorithmSHA512:   sha512.New,
	AlgorithmSHA3_256: sha3.New256,
	AlgorithmBlake2b256: func() hash.Hash {
		h, _ := blake2b.New256(nil) // only fails for oversized keys
		return h
	},
}

// PinHasher digests PINs deterministically: the same input always yields the
// same bytes. With a pepper it computes an HMAC keyed by the pepper.
type PinHasher struct {
	algorithm string
	newHash   func() hash.Hash
	pepper    []byte
}

func NewPinHasher(algorithm, pepper string) (*PinHasher, error) {
	name := strings.ToLower(strings.TrimSpace(algorithm))
	if name == "" {
		name = AlgorithmSHA256
	}
	newHash, ok := algorithms[name]
	if !ok {
		return nil, fmt.Errorf("unsupported pin hash algorithm: %s", algorithm)
	}
	h := &PinHasher{algorithm: name, newHash: newHash}
	if pepper != "" {
		h.pepper = []byte(pepper)
	}
	return h, nil
}

func (h *PinHasher) Algorithm() string {
	return h.algorithm
}

// Hash returns the digest of secret.
func (h *PinHasher) Hash(secret string) []byte {
	var d hash.Hash
	if h.pepper != nil {
		d = hmac.New(h.newHash, h.pepper)
	} else {
		d = h.newHash()
	}
	d.Write([]byte(secret))
	return d.Sum(nil)
}

// Matches compares secret against a stored digest in constant time.
func (h *PinHasher) Matches(secret string, digest []byte) bool {
	return subtle.ConstantTimeCompare(h.Hash(secret), digest) == 1
}
