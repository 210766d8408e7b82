package domain

// User is an admin account allowed into the dashboard.
type User struct {
	ID           int64  `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	IsAdmin      bool   `json:"is_admin" db:"is_admin"`
}
