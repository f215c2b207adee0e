package accounts

import "time"

// User represents an account record. PasswordHash never leaves the server:
// it is excluded from JSON and only the login path compares against it.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullname"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	AvatarURL    string    `json:"thumb,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
