package common

import "unicode"

// Password rules enforced at registration. Mirrors what the account portal
// tells users: at least 8 characters with upper, lower, digit and a special
// character, and no spaces.
const minPasswordLength = 8

// CheckPasswordStrength validates a candidate password. Returns an empty
// string when the password is acceptable, otherwise a user-facing reason.
func CheckPasswordStrength(password string) string {
	if len(password) < minPasswordLength {
		return "password must be at least 8 characters"
	}

	var hasUpper, hasLower, hasDigit, hasSpecial, hasSpace bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		case c == ' ':
			hasSpace = true
		default:
			hasSpecial = true
		}
	}

	switch {
	case hasSpace:
		return "password must not contain spaces"
	case !hasUpper:
		return "password must contain an uppercase letter"
	case !hasLower:
		return "password must contain a lowercase letter"
	case !hasDigit:
		return "password must contain a digit"
	case !hasSpecial:
		return "password must contain a special character"
	}
	return ""
}

// PasswordStrengthScore rates a password 0-110 for the registration form
// meter. Each satisfied rule adds to the score; the result is not a
// pass/fail signal, CheckPasswordStrength is.
func PasswordStrengthScore(password string) int {
	score := 0
	if len(password) >= minPasswordLength {
		score += 20
	}

	var hasUpper, hasLower, hasDigit, hasSpecial, hasSpace bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		case c == ' ':
			hasSpace = true
		default:
			hasSpecial = true
		}
	}

	if hasUpper {
		score += 20
	}
	if hasLower {
		score += 20
	}
	if hasDigit {
		score += 20
	}
	if hasSpecial {
		score += 20
	}
	if !hasSpace {
		score += 10
	}
	return score
}
