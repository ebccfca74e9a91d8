package note

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arkiv-cloud/arkiv/internal/db"
	"github.com/arkiv-cloud/arkiv/internal/domain"
	"github.com/arkiv-cloud/arkiv/internal/domain/search"
	"github.com/arkiv-cloud/arkiv/internal/query"
)

// store is the consumer interface for note persistence.
type store interface {
	query.Querier
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	BeginTx(ctx context.Context) (*sql.Tx, error)
}

// Repo persists notes and searches them through the generic query engine.
type Repo struct {
	store  store
	logger *zap.Logger
}

// New creates a note repository.
func New(s store, logger *zap.Logger) *Repo {
	return &Repo{store: s, logger: logger}
}

// searchableFields are the plain note columns criteria may reference.
var searchableFields = []string{"title", "content", "shared", "ownerUserId", "createdOn", "modifiedOn"}

func handlers() query.HandlerMap {
	return query.HandlerMap{
		"tagIds": query.ManyToManyHandler("note_tags", "noteId", "tagId", "id"),
	}
}

// Search returns one page of notes visible to principalID: their own notes
// plus anything shared. The visibility restriction composes into the compiled
// query as a mandatory predicate; tags are attached with a single batched
// query afterwards.
func (r *Repo) Search(
	ctx context.Context, principalID int64, req search.Request,
) (search.Response[domain.NoteWithDetails], error) {
	alias := query.TableAlias("notes")
	compiled := query.Compile("notes", req, searchableFields, handlers(), "id",
		query.WithLogger(r.logger),
		query.WithPredicate(
			fmt.Sprintf("(%s.ownerUserId = ? OR %s.shared = 1)", alias, alias),
			principalID,
		),
	)

	resp, err := query.Execute(ctx, r.store, compiled, scanSearchRow)
	if err != nil {
		return search.Response[domain.NoteWithDetails]{}, fmt.Errorf("search notes: %w", err)
	}
	if err := r.attachTags(ctx, resp.Data); err != nil {
		return search.Response[domain.NoteWithDetails]{}, err
	}
	return resp, nil
}

// Get returns one note with tags. Private notes of other users are reported
// as forbidden.
func (r *Repo) Get(ctx context.Context, id, principalID int64) (domain.NoteWithDetails, error) {
	row := r.store.QueryRowContext(ctx,
		`SELECT id, title, content, shared, ownerUserId, createdOn, modifiedOn FROM notes WHERE id = ?`, id)
	n, err := scanNoteRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NoteWithDetails{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.NoteWithDetails{}, fmt.Errorf("get note %d: %w", id, err)
	}
	if !n.Shared && n.OwnerUserID != principalID {
		return domain.NoteWithDetails{}, domain.ErrForbidden
	}

	detailed := []domain.NoteWithDetails{{Note: n, Tags: []domain.Tag{}}}
	if err := r.attachTags(ctx, detailed); err != nil {
		return domain.NoteWithDetails{}, err
	}
	return detailed[0], nil
}

// Create stores a new note with its tag set.
func (r *Repo) Create(ctx context.Context, n domain.Note, tagIDs []int64) (domain.NoteWithDetails, error) {
	if n.Title == "" {
		return domain.NoteWithDetails{}, fmt.Errorf("%w: note title is required", domain.ErrValidation)
	}
	now := time.Now()

	tx, err := r.store.BeginTx(ctx)
	if err != nil {
		return domain.NoteWithDetails{}, fmt.Errorf("create note: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO notes (title, content, shared, ownerUserId, createdOn, modifiedOn) VALUES (?, ?, ?, ?, ?, ?)`,
		n.Title, n.Content, boolToInt(n.Shared), n.OwnerUserID, db.FormatTime(now), db.FormatTime(now))
	if err != nil {
		return domain.NoteWithDetails{}, fmt.Errorf("create note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.NoteWithDetails{}, fmt.Errorf("create note: %w", err)
	}
	if err := replaceTags(ctx, tx, id, tagIDs); err != nil {
		return domain.NoteWithDetails{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.NoteWithDetails{}, fmt.Errorf("create note: %w", err)
	}

	return r.Get(ctx, id, n.OwnerUserID)
}

// Update rewrites a note's content and tag set. Only the owner may update.
func (r *Repo) Update(ctx context.Context, n domain.Note, tagIDs []int64, principalID int64) (domain.NoteWithDetails, error) {
	current, err := r.Get(ctx, n.ID, principalID)
	if err != nil {
		return domain.NoteWithDetails{}, err
	}
	if current.OwnerUserID != principalID {
		return domain.NoteWithDetails{}, domain.ErrForbidden
	}

	tx, err := r.store.BeginTx(ctx)
	if err != nil {
		return domain.NoteWithDetails{}, fmt.Errorf("update note %d: %w", n.ID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, shared = ?, modifiedOn = ? WHERE id = ?`,
		n.Title, n.Content, boolToInt(n.Shared), db.FormatTime(time.Now()), n.ID); err != nil {
		return domain.NoteWithDetails{}, fmt.Errorf("update note %d: %w", n.ID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM note_tags WHERE noteId = ?`, n.ID); err != nil {
		return domain.NoteWithDetails{}, fmt.Errorf("update note %d: %w", n.ID, err)
	}
	if err := replaceTags(ctx, tx, n.ID, tagIDs); err != nil {
		return domain.NoteWithDetails{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.NoteWithDetails{}, fmt.Errorf("update note %d: %w", n.ID, err)
	}

	return r.Get(ctx, n.ID, principalID)
}

// Delete removes an owned note.
func (r *Repo) Delete(ctx context.Context, id, principalID int64) error {
	current, err := r.Get(ctx, id, principalID)
	if err != nil {
		return err
	}
	if current.OwnerUserID != principalID {
		return domain.ErrForbidden
	}
	if _, err := r.store.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete note %d: %w", id, err)
	}
	return nil
}

// attachTags loads the tags for a page of notes with one batched query keyed
// by the page's note ids.
func (r *Repo) attachTags(ctx context.Context, notes []domain.NoteWithDetails) error {
	if len(notes) == 0 {
		return nil
	}
	ids := make([]any, 0, len(notes))
	index := make(map[int64]int, len(notes))
	for i := range notes {
		ids = append(ids, notes[i].ID)
		index[notes[i].ID] = i
	}

	text := fmt.Sprintf(
		`SELECT nt.noteId, t.id, t.name, t.description
		 FROM note_tags nt JOIN tags t ON t.id = nt.tagId
		 WHERE nt.noteId IN (%s) ORDER BY t.name`,
		query.Placeholders(len(ids)))
	rows, err := r.store.QueryContext(ctx, text, ids...)
	if err != nil {
		return fmt.Errorf("load note tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var noteID int64
		var t domain.Tag
		if err := rows.Scan(&noteID, &t.ID, &t.Name, &t.Description); err != nil {
			return fmt.Errorf("load note tags: %w", err)
		}
		if i, ok := index[noteID]; ok {
			notes[i].Tags = append(notes[i].Tags, t)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load note tags: %w", err)
	}
	return nil
}

func replaceTags(ctx context.Context, tx *sql.Tx, noteID int64, tagIDs []int64) error {
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO note_tags (noteId, tagId) VALUES (?, ?)`, noteID, tagID); err != nil {
			return fmt.Errorf("set note %d tags: %w", noteID, err)
		}
	}
	return nil
}

func scanSearchRow(rows *sql.Rows) (domain.NoteWithDetails, error) {
	var (
		n                 domain.Note
		shared            int64
		created, modified string
	)
	if err := rows.Scan(&n.ID, &n.Title, &n.Content, &shared, &n.OwnerUserID, &created, &modified); err != nil {
		return domain.NoteWithDetails{}, err
	}
	return noteFromRow(n, shared, created, modified)
}

func scanNoteRow(row *sql.Row) (domain.Note, error) {
	var (
		n                 domain.Note
		shared            int64
		created, modified string
	)
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &shared, &n.OwnerUserID, &created, &modified); err != nil {
		return domain.Note{}, err
	}
	detailed, err := noteFromRow(n, shared, created, modified)
	return detailed.Note, err
}

func noteFromRow(n domain.Note, shared int64, created, modified string) (domain.NoteWithDetails, error) {
	var err error
	n.Shared = shared != 0
	if n.CreatedOn, err = db.ParseTime(created); err != nil {
		return domain.NoteWithDetails{}, err
	}
	if n.ModifiedOn, err = db.ParseTime(modified); err != nil {
		return domain.NoteWithDetails{}, err
	}
	return domain.NoteWithDetails{Note: n, Tags: []domain.Tag{}}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
