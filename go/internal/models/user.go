package models

import (
	"time"
)

// User represents a staff member operating the admin panel.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	Active    bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
