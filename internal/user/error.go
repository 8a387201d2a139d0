package user

import "errors"

// MinPasswordLength applies to registration and password reset.
const MinPasswordLength = 3

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username/whatsapp or password")
	ErrIdentityMismatch   = errors.New("username and whatsapp number do not match")
	ErrPasswordMismatch   = errors.New("password confirmation does not match")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrInvalidInput       = errors.New("invalid user input")
	ErrInvalidPhone       = errors.New("whatsapp number must contain digits")
)
