package models

import "time"

// User is an administrator allowed to manage links.
type User struct {
	ID           string
	UserName     string
	PasswordHash string
	CreatedAt    time.Time
}
