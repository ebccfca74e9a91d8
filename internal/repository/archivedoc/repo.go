package archivedoc

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arkiv-cloud/arkiv/internal/db"
	"github.com/arkiv-cloud/arkiv/internal/domain"
	"github.com/arkiv-cloud/arkiv/internal/domain/search"
	"github.com/arkiv-cloud/arkiv/internal/query"
)

// store is the consumer interface for archive document persistence.
type store interface {
	query.Querier
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	BeginTx(ctx context.Context) (*sql.Tx, error)
}

// Repo persists archive documents and units.
type Repo struct {
	store  store
	logger *zap.Logger
}

// New creates an archive document repository.
func New(s store, logger *zap.Logger) *Repo {
	return &Repo{store: s, logger: logger}
}

// searchableFields are the plain archive document columns criteria may
// reference. parentUnitArchiveDocumentId with an EQ-null criterion selects
// top-level units.
var searchableFields = []string{
	"type", "parentUnitArchiveDocumentId", "title", "creator", "creationDate",
	"numberOfPages", "contentDescription", "isDigitized", "active",
	"ownerUserId", "createdOn", "modifiedOn",
}

func handlers() query.HandlerMap {
	return query.HandlerMap{
		"tagIds": query.ManyToManyHandler("archive_document_tags", "archiveDocumentId", "tagId", "id"),
	}
}

// Search returns one page of archive documents. Unless includeInactive is
// set (admin listing), soft-deleted rows are excluded through a mandatory
// predicate. Tags are attached with a single batched query.
func (r *Repo) Search(
	ctx context.Context, req search.Request, includeInactive bool,
) (search.Response[domain.ArchiveDocumentSearchResult], error) {
	opts := []query.CompileOption{query.WithLogger(r.logger)}
	if !includeInactive {
		opts = append(opts, query.WithPredicate(query.TableAlias("archive_documents")+".active = 1"))
	}
	compiled := query.Compile("archive_documents", req, searchableFields, handlers(), "id", opts...)

	resp, err := query.Execute(ctx, r.store, compiled, scanSearchRow)
	if err != nil {
		return search.Response[domain.ArchiveDocumentSearchResult]{}, fmt.Errorf("search archive documents: %w", err)
	}
	if err := r.attachTags(ctx, resp.Data); err != nil {
		return search.Response[domain.ArchiveDocumentSearchResult]{}, err
	}
	return resp, nil
}

// Get returns one document with tags.
func (r *Repo) Get(ctx context.Context, id int64) (domain.ArchiveDocumentSearchResult, error) {
	rows, err := r.store.QueryContext(ctx, selectColumns+` FROM archive_documents WHERE id = ?`, id)
	if err != nil {
		return domain.ArchiveDocumentSearchResult{}, fmt.Errorf("get archive document %d: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.ArchiveDocumentSearchResult{}, fmt.Errorf("get archive document %d: %w", id, err)
		}
		return domain.ArchiveDocumentSearchResult{}, domain.ErrNotFound
	}
	doc, err := scanSearchRow(rows)
	if err != nil {
		return domain.ArchiveDocumentSearchResult{}, fmt.Errorf("get archive document %d: %w", id, err)
	}

	detailed := []domain.ArchiveDocumentSearchResult{doc}
	if err := r.attachTags(ctx, detailed); err != nil {
		return domain.ArchiveDocumentSearchResult{}, err
	}
	return detailed[0], nil
}

// Create stores a new document or unit with its tag set.
func (r *Repo) Create(
	ctx context.Context, d domain.ArchiveDocument, tagIDs []int64,
) (domain.ArchiveDocumentSearchResult, error) {
	if d.Title == "" {
		return domain.ArchiveDocumentSearchResult{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if d.Type != domain.ArchiveTypeUnit && d.Type != domain.ArchiveTypeDocument {
		return domain.ArchiveDocumentSearchResult{}, fmt.Errorf("%w: unknown archive type %q", domain.ErrValidation, d.Type)
	}
	now := db.FormatTime(time.Now())

	tx, err := r.store.BeginTx(ctx)
	if err != nil {
		return domain.ArchiveDocumentSearchResult{}, fmt.Errorf("create archive document: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO archive_documents
		 (type, parentUnitArchiveDocumentId, title, creator, creationDate, numberOfPages,
		  contentDescription, isDigitized, active, ownerUserId, createdOn, modifiedOn)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?)`,
		d.Type, d.ParentUnitArchiveDocumentID, d.Title, d.Creator, d.CreationDate,
		d.NumberOfPages, d.ContentDescription, boolToInt(d.IsDigitized),
		d.OwnerUserID, now, now)
	if err != nil {
		return domain.ArchiveDocumentSearchResult{}, fmt.Errorf("create archive document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.ArchiveDocumentSearchResult{}, fmt.Errorf("create archive document: %w", err)
	}
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO archive_document_tags (archiveDocumentId, tagId) VALUES (?, ?)`,
			id, tagID); err != nil {
			return domain.ArchiveDocumentSearchResult{}, fmt.Errorf("set archive document %d tags: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.ArchiveDocumentSearchResult{}, fmt.Errorf("create archive document: %w", err)
	}

	return r.Get(ctx, id)
}

// Update rewrites a document's fields and tag set. The owner and active
// flag are managed separately and left untouched.
func (r *Repo) Update(
	ctx context.Context, d domain.ArchiveDocument, tagIDs []int64,
) (domain.ArchiveDocumentSearchResult, error) {
	if d.Title == "" {
		return domain.ArchiveDocumentSearchResult{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if d.Type != domain.ArchiveTypeUnit && d.Type != domain.ArchiveTypeDocument {
		return domain.ArchiveDocumentSearchResult{}, fmt.Errorf("%w: unknown archive type %q", domain.ErrValidation, d.Type)
	}
	if _, err := r.Get(ctx, d.ID); err != nil {
		return domain.ArchiveDocumentSearchResult{}, err
	}

	tx, err := r.store.BeginTx(ctx)
	if err != nil {
		return domain.ArchiveDocumentSearchResult{}, fmt.Errorf("update archive document %d: %w", d.ID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE archive_documents
		 SET type = ?, parentUnitArchiveDocumentId = ?, title = ?, creator = ?, creationDate = ?,
		     numberOfPages = ?, contentDescription = ?, isDigitized = ?, modifiedOn = ?
		 WHERE id = ?`,
		d.Type, d.ParentUnitArchiveDocumentID, d.Title, d.Creator, d.CreationDate,
		d.NumberOfPages, d.ContentDescription, boolToInt(d.IsDigitized),
		db.FormatTime(time.Now()), d.ID); err != nil {
		return domain.ArchiveDocumentSearchResult{}, fmt.Errorf("update archive document %d: %w", d.ID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM archive_document_tags WHERE archiveDocumentId = ?`, d.ID); err != nil {
		return domain.ArchiveDocumentSearchResult{}, fmt.Errorf("update archive document %d: %w", d.ID, err)
	}
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO archive_document_tags (archiveDocumentId, tagId) VALUES (?, ?)`,
			d.ID, tagID); err != nil {
			return domain.ArchiveDocumentSearchResult{}, fmt.Errorf("set archive document %d tags: %w", d.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.ArchiveDocumentSearchResult{}, fmt.Errorf("update archive document %d: %w", d.ID, err)
	}

	return r.Get(ctx, d.ID)
}

// Deactivate soft-deletes a document; searches exclude it from then on.
func (r *Repo) Deactivate(ctx context.Context, id int64) error {
	res, err := r.store.ExecContext(ctx,
		`UPDATE archive_documents SET active = 0, modifiedOn = ? WHERE id = ?`,
		db.FormatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("deactivate archive document %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const selectColumns = `SELECT id, type, parentUnitArchiveDocumentId, title, creator, creationDate,
	numberOfPages, contentDescription, isDigitized, active, ownerUserId, createdOn, modifiedOn`

// attachTags loads the tags for a page of documents with one batched query.
func (r *Repo) attachTags(ctx context.Context, docs []domain.ArchiveDocumentSearchResult) error {
	if len(docs) == 0 {
		return nil
	}
	ids := make([]any, 0, len(docs))
	index := make(map[int64]int, len(docs))
	for i := range docs {
		ids = append(ids, docs[i].ID)
		index[docs[i].ID] = i
	}

	text := fmt.Sprintf(
		`SELECT adt.archiveDocumentId, t.id, t.name, t.description
		 FROM archive_document_tags adt JOIN tags t ON t.id = adt.tagId
		 WHERE adt.archiveDocumentId IN (%s) ORDER BY t.name`,
		query.Placeholders(len(ids)))
	rows, err := r.store.QueryContext(ctx, text, ids...)
	if err != nil {
		return fmt.Errorf("load archive document tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var docID int64
		var t domain.Tag
		if err := rows.Scan(&docID, &t.ID, &t.Name, &t.Description); err != nil {
			return fmt.Errorf("load archive document tags: %w", err)
		}
		if i, ok := index[docID]; ok {
			docs[i].Tags = append(docs[i].Tags, t)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load archive document tags: %w", err)
	}
	return nil
}

func scanSearchRow(rows *sql.Rows) (domain.ArchiveDocumentSearchResult, error) {
	var (
		d                 domain.ArchiveDocument
		digitized, active int64
		created, modified string
	)
	if err := rows.Scan(
		&d.ID, &d.Type, &d.ParentUnitArchiveDocumentID, &d.Title, &d.Creator, &d.CreationDate,
		&d.NumberOfPages, &d.ContentDescription, &digitized, &active,
		&d.OwnerUserID, &created, &modified,
	); err != nil {
		return domain.ArchiveDocumentSearchResult{}, err
	}
	d.IsDigitized = digitized != 0
	d.Active = active != 0

	var err error
	if d.CreatedOn, err = db.ParseTime(created); err != nil {
		return domain.ArchiveDocumentSearchResult{}, err
	}
	if d.ModifiedOn, err = db.ParseTime(modified); err != nil {
		return domain.ArchiveDocumentSearchResult{}, err
	}
	return domain.ArchiveDocumentSearchResult{ArchiveDocument: d, Tags: []domain.Tag{}}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
