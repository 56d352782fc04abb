// Package security holds the password hashing and session token
// helpers behind the dashboard API's login flow.
package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen applies when hashing new passwords. Existing hashes
// verify regardless of length, so tightening it never locks anyone out.
const MinPasswordLen = 8

var ErrPasswordTooShort = fmt.Errorf("password shorter than %d characters", MinPasswordLen)

func HashPassword(pw string) (string, error) {
	if len(pw) < MinPasswordLen {
		return "", ErrPasswordTooShort
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// NewToken returns n random bytes base64url-encoded, suitable for
// session ids. n below 1 falls back to 32 bytes.
func NewToken(n int) (string, error) {
	if n < 1 {
		n = 32
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil { return "", err }
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
