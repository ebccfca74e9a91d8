package domain

import "time"

// Archive document types.
const (
	ArchiveTypeUnit     = "unit"
	ArchiveTypeDocument = "document"
)

// ArchiveDocument is a catalogued archive item: either a unit (a folder-like
// grouping) or a document inside one.
type ArchiveDocument struct {
	ID                          int64     `json:"id"`
	Type                        string    `json:"type"`
	ParentUnitArchiveDocumentID *int64    `json:"parentUnitArchiveDocumentId"`
	Title                       string    `json:"title"`
	Creator                     string    `json:"creator"`
	CreationDate                string    `json:"creationDate"`
	NumberOfPages               *int64    `json:"numberOfPages"`
	ContentDescription          string    `json:"contentDescription"`
	IsDigitized                 bool      `json:"isDigitized"`
	Active                      bool      `json:"active"`
	OwnerUserID                 int64     `json:"ownerUserId"`
	CreatedOn                   time.Time `json:"createdOn"`
	ModifiedOn                  time.Time `json:"modifiedOn"`
}

// ArchiveDocumentSearchResult is an archive document with its tags attached.
type ArchiveDocumentSearchResult struct {
	ArchiveDocument
	Tags []Tag `json:"tags"`
}
