package models

// User represents a user in the database. Password is kept verbatim:
// login compares it byte for byte with the submitted one.
type User struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Password string `db:"password"`
}

// CredentialsRequest is the body of both /login and /register.
type CredentialsRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// TokenResponse is returned by a successful login or registration.
type TokenResponse struct {
	Token string `json:"token"`
}
