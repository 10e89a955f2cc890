package validators

import "regexp"

var nameRe = regexp.MustCompile(`^[a-zA-Z\s]+$`)

// CheckName enforces the person-name rule: 2 to 100 characters, letters
// and spaces only. Returns a user-facing message, empty when valid.
func CheckName(name string) string {
	if len(name) < 2 || len(name) > 100 {
		return "Name must be between 2 and 100 characters"
	}
	if !nameRe.MatchString(name) {
		return "Name can only contain letters and spaces"
	}
	return ""
}
