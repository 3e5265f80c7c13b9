package service

import "errors"

var (
	// ErrInvalidCredentials means no user matches the submitted username and password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUsernameTaken is returned by Register for an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrUnknownCaller means the token's id claim does not resolve to a user.
	ErrUnknownCaller = errors.New("caller does not resolve to a user")
	// ErrForbidden covers both a missing item and an item owned by someone
	// else, so callers cannot discover other users' ids.
	ErrForbidden = errors.New("forbidden")
)
