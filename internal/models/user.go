package models

import "errors"

// DefaultPassword is shared by every built-in account
const DefaultPassword = "secret_sauce"

// User represents a storefront account
type User struct {
	Username  string
	Password  string
	LockedOut bool
}

// Domain errors
var (
	ErrEmptyUsername = errors.New("username is required")
	ErrEmptyPassword = errors.New("password is required")
)

// DefaultUsers returns the accounts accepted by the storefront
func DefaultUsers() []User {
	return []User{
		{Username: "standard_user", Password: DefaultPassword},
		{Username: "locked_out_user", Password: DefaultPassword, LockedOut: true},
		{Username: "problem_user", Password: DefaultPassword},
		{Username: "performance_glitch_user", Password: DefaultPassword},
	}
}

// ValidateCredentials checks that both login fields were provided
func ValidateCredentials(username, password string) error {
	if username == "" {
		return ErrEmptyUsername
	}
	if password == "" {
		return ErrEmptyPassword
	}
	return nil
}

// PasswordMatches reports whether password belongs to the user
func (u User) PasswordMatches(password string) bool {
	return u.Password == password
}
