package domain

import "time"

// Note is a user note. Shared notes are visible to every principal; private
// ones only to their owner.
type Note struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Shared      bool      `json:"shared"`
	OwnerUserID int64     `json:"ownerUserId"`
	CreatedOn   time.Time `json:"createdOn"`
	ModifiedOn  time.Time `json:"modifiedOn"`
}

// NoteWithDetails is a note with its related tags attached.
type NoteWithDetails struct {
	Note
	Tags []Tag `json:"tags"`
}
