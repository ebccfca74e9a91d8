package domain

// Tag is a label attachable to notes and archive documents.
type Tag struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
