package models

import "time"

type User struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	RemindersEnabled bool      `json:"reminders_enabled"`
	CreatedAt        time.Time `json:"created_at"`
}
