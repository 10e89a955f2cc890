package validators

import "unicode"

// CheckPassword enforces the account password policy: at least 6
// characters with one uppercase letter, one lowercase letter and one
// digit. Returns a user-facing message, empty when the password passes.
func CheckPassword(password string) string {
	if len(password) < 6 {
		return "Password must be at least 6 characters"
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	if !upper || !lower || !digit {
		return "Password must contain at least one uppercase letter, one lowercase letter, and one number"
	}
	return ""
}
