package services

import (
	"regexp"
	"unicode/utf8"
)

// Validation codes reported to clients.
const (
	CodeEmailMissing     = "EMAIL_MISSING"
	CodeUsernameMissing  = "USERNAME_MISSING"
	CodeRealNameMissing  = "REALNAME_MISSING"
	CodePasswordMissing  = "PASSWORD_MISSING"
	CodeEmailInvalid     = "EMAIL_INVALID"
	CodeUsernameInvalid  = "USERNAME_INVALID"
	CodeRealNameInvalid  = "REALNAME_INVALID"
	CodePasswordWeak     = "PASSWORD_WEAK"
	CodePasswordTooLong  = "PASSWORD_TOO_LONG"
	CodeUsernameRequired = "USERNAME_REQUIRED"
	CodeEmailRequired    = "EMAIL_REQUIRED"
	CodeChoiceInvalid    = "CHOICE_INVALID"
	CodeAmountInvalid    = "AMOUNT_INVALID"
)

const (
	minRealNameLength = 2
	minPasswordLength = 6
	// bcrypt rejects longer input.
	maxPasswordBytes = 72
)

var (
	emailRe    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
)

// ValidationError reports the first invalid field of a request.
type ValidationError struct {
	Code string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Code
}

func invalid(code string) error {
	return &ValidationError{Code: code}
}

// ValidateRegister checks a registration request. Fields are checked for
// presence first and for format second.
func ValidateRegister(r RegisterRequest) error {
	switch {
	case r.Email == "":
		return invalid(CodeEmailMissing)
	case r.Username == "":
		return invalid(CodeUsernameMissing)
	case r.RealName == "":
		return invalid(CodeRealNameMissing)
	case r.Password == "":
		return invalid(CodePasswordMissing)
	case !emailRe.MatchString(r.Email):
		return invalid(CodeEmailInvalid)
	case !usernameRe.MatchString(r.Username):
		return invalid(CodeUsernameInvalid)
	case utf8.RuneCountInString(r.RealName) < minRealNameLength:
		return invalid(CodeRealNameInvalid)
	case utf8.RuneCountInString(r.Password) < minPasswordLength:
		return invalid(CodePasswordWeak)
	case len(r.Password) > maxPasswordBytes:
		return invalid(CodePasswordTooLong)
	}
	return nil
}

// ValidateLogin checks a login request. Both username and email are
// required even though either one identifies the user.
func ValidateLogin(r LoginRequest) error {
	switch {
	case r.Username == "":
		return invalid(CodeUsernameRequired)
	case r.Email == "":
		return invalid(CodeEmailRequired)
	case r.Password == "":
		return invalid(CodePasswordMissing)
	case !emailRe.MatchString(r.Email):
		return invalid(CodeEmailInvalid)
	case !usernameRe.MatchString(r.Username):
		return invalid(CodeUsernameInvalid)
	case utf8.RuneCountInString(r.Password) < minPasswordLength:
		return invalid(CodePasswordWeak)
	case len(r.Password) > maxPasswordBytes:
		return invalid(CodePasswordTooLong)
	}
	return nil
}
