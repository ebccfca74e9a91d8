package domain

import "time"

// LogEntry is a server-side audit/diagnostic record shown in the admin log
// viewer.
type LogEntry struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	UserID    *int64    `json:"userId"`
	Message   string    `json:"message"`
	CreatedOn time.Time `json:"createdOn"`
}
