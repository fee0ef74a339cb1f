// Package auth hashes passwords and issues the revocable API tokens.
package auth

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var commonPasswords = []string{"password", "12345678", "qwerty", "welcome", "admin", "foodgram"}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plain-text password with a stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword checks a new password against the account it belongs to.
// It returns every problem found so they can be reported together.
func ValidatePassword(password string, attributes ...string) []error {
	var problems []error

	if len([]rune(password)) < MinPasswordLength {
		problems = append(problems, errors.New("this password is too short, it must contain at least 8 characters"))
	}
	if password != "" && isNumeric(password) {
		problems = append(problems, errors.New("this password is entirely numeric"))
	}

	lower := strings.ToLower(password)
	for _, common := range commonPasswords {
		if strings.Contains(lower, common) {
			problems = append(problems, errors.New("this password is too common"))
			break
		}
	}
	for _, attr := range attributes {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if i := strings.IndexByte(attr, '@'); i > 0 {
			attr = attr[:i]
		}
		if len(attr) >= 3 && strings.Contains(lower, attr) {
			problems = append(problems, errors.New("the password is too similar to your personal information"))
			break
		}
	}
	return problems
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
