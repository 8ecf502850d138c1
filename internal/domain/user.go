package domain

import "time"

// User is a registered storefront user. This is a demo authentication flow:
// passwords are stored and compared in plain text, matching the original
// storefront behavior.
type User struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is the active logged-in record. It deliberately excludes the
// password and never expires on its own; it lives until logout or an
// explicit clear.
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
