package db

import (
	"context"
	"fmt"
)

// Column names stay camelCase: search criteria reference fields by their API
// names and the compiler binds them to columns verbatim.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		shared INTEGER NOT NULL DEFAULT 0,
		ownerUserId INTEGER NOT NULL,
		createdOn TEXT NOT NULL,
		modifiedOn TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS note_tags (
		noteId INTEGER NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
		tagId INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (noteId, tagId)
	)`,
	`CREATE TABLE IF NOT EXISTS archive_documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL DEFAULT 'document',
		parentUnitArchiveDocumentId INTEGER REFERENCES archive_documents(id),
		title TEXT NOT NULL,
		creator TEXT NOT NULL DEFAULT '',
		creationDate TEXT NOT NULL DEFAULT '',
		numberOfPages INTEGER,
		contentDescription TEXT NOT NULL DEFAULT '',
		isDigitized INTEGER NOT NULL DEFAULT 0,
		active INTEGER NOT NULL DEFAULT 1,
		ownerUserId INTEGER NOT NULL,
		createdOn TEXT NOT NULL,
		modifiedOn TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS archive_document_tags (
		archiveDocumentId INTEGER NOT NULL REFERENCES archive_documents(id) ON DELETE CASCADE,
		tagId INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (archiveDocumentId, tagId)
	)`,
	`CREATE TABLE IF NOT EXISTS signature_components (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		indexType TEXT NOT NULL DEFAULT 'dec'
	)`,
	`CREATE TABLE IF NOT EXISTS signature_elements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		signatureComponentId INTEGER NOT NULL REFERENCES signature_components(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		elementIndex TEXT NOT NULL DEFAULT '',
		createdOn TEXT NOT NULL,
		modifiedOn TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS signature_element_parents (
		elementId INTEGER NOT NULL REFERENCES signature_elements(id) ON DELETE CASCADE,
		parentElementId INTEGER NOT NULL REFERENCES signature_elements(id) ON DELETE CASCADE,
		PRIMARY KEY (elementId, parentElementId)
	)`,
	`CREATE TABLE IF NOT EXISTS log_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		level TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		userId INTEGER,
		message TEXT NOT NULL,
		createdOn TEXT NOT NULL
	)`,
}

// Bootstrap creates the application tables if they do not exist.
func (s *Store) Bootstrap(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}
