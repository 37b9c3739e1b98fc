package domain

import "time"

// User is a directory entry that can own roadmaps and follow other users.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
