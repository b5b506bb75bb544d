package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrPlaintextSecret = errors.New("admin secret is not hashed")

// SecretVerifier checks a submitted password against the configured admin secret.
type SecretVerifier interface {
	Verify(password string) (bool, error)
}

// PlaintextSecret compares by direct equality. It exists so a fresh deployment
// can be bootstrapped before a hash is generated.
type PlaintextSecret struct {
	value string
}

func (s PlaintextSecret) Verify(password string) (bool, error) {
	return password == s.value, nil
}

type hashAlgo int

const (
	algoBcrypt hashAlgo = iota + 1
	algoArgon2id
)

// HashedSecret verifies against a bcrypt or argon2id hash in constant time.
type HashedSecret struct {
	hash string
	algo hashAlgo
}

func (s HashedSecret) Verify(password string) (bool, error) {
	switch s.algo {
	case algoBcrypt:
		return verifyBcrypt(s.hash, password)
	case algoArgon2id:
		return VerifyPassword(s.hash, password)
	default:
		return false, errors.New("unknown secret hash algorithm")
	}
}

// Algorithm reports "bcrypt" or "argon2id".
func (s HashedSecret) Algorithm() string {
	if s.algo == algoArgon2id {
		return "argon2id"
	}
	return "bcrypt"
}

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// IsHashedSecret reports whether raw carries a recognised hash prefix.
func IsHashedSecret(raw string) bool {
	if strings.HasPrefix(raw, "$argon2id$") {
		return true
	}
	for _, p := range bcryptPrefixes {
		if strings.HasPrefix(raw, p) {
			return true
		}
	}
	return false
}

// ParseSecret selects the verifier for a configured secret once, at load time.
// An empty raw value yields a nil verifier. A value with a hash prefix that does
// not parse is an error rather than a silent plaintext fallback.
func ParseSecret(raw string, requireHashed bool) (SecretVerifier, error) {
	if raw == "" {
		return nil, nil
	}

	if strings.HasPrefix(raw, "$argon2id$") {
		if _, _, _, err := parseArgon2idHash(raw); err != nil {
			return nil, fmt.Errorf("parse argon2id secret: %w", err)
		}
		return HashedSecret{hash: raw, algo: algoArgon2id}, nil
	}

	for _, p := range bcryptPrefixes {
		if strings.HasPrefix(raw, p) {
			if _, err := bcrypt.Cost([]byte(raw)); err != nil {
				return nil, fmt.Errorf("parse bcrypt secret: %w", err)
			}
			return HashedSecret{hash: raw, algo: algoBcrypt}, nil
		}
	}

	if requireHashed {
		return nil, ErrPlaintextSecret
	}
	return PlaintextSecret{value: raw}, nil
}
