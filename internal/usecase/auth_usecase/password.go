package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// common picks plus the mess's own name; compared case-insensitively
var weakPasswords = map[string]struct{}{
	"password":     {},
	"password123":  {},
	"12345678":     {},
	"1234567890":   {},
	"123456789012": {},
	"qwerty":       {},
	"qwertyuiop":   {},
	"letmein":      {},
	"admin123":     {},
	"mess1234":     {},
	"messpass":     {},
	"hostel123":    {},
}

// isWeakPassword also rejects the enrollment number reused as password.
func isWeakPassword(password, enrollment string) bool {
	p := strings.ToLower(strings.TrimSpace(password))
	if enrollment != "" && p == strings.ToLower(enrollment) {
		return true
	}
	_, ok := weakPasswords[p]
	return ok
}

type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type BcryptPasswordVerifier struct{}

func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

func (BcryptPasswordVerifier) Verify(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
