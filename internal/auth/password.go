package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

// StrongPassword: не короче 8 символов, есть латинские заглавная и строчная,
// цифра и любой другой символ (кириллица тоже считается символом).
func StrongPassword(pw string) bool {
	if len([]rune(pw)) < minPasswordLen {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// NormalizeEmail: trim и нижний регистр.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func hashPassword(pw string, cost int) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
