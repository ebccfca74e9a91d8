package tag

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arkiv-cloud/arkiv/internal/db"
	"github.com/arkiv-cloud/arkiv/internal/domain"
	"github.com/arkiv-cloud/arkiv/internal/query"
)

// store is the consumer interface for tag persistence.
type store interface {
	query.Querier
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Repo persists tags.
type Repo struct {
	store store
}

// New creates a tag repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// List returns all tags ordered by name.
func (r *Repo) List(ctx context.Context) ([]domain.Tag, error) {
	rows, err := r.store.QueryContext(ctx,
		`SELECT id, name, description FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Description); err != nil {
			return nil, fmt.Errorf("list tags: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Get returns one tag.
func (r *Repo) Get(ctx context.Context, id int64) (domain.Tag, error) {
	var t domain.Tag
	err := r.store.QueryRowContext(ctx,
		`SELECT id, name, description FROM tags WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Tag{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Tag{}, fmt.Errorf("get tag %d: %w", id, err)
	}
	return t, nil
}

// Create stores a new tag. Duplicate names are reported as ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, t domain.Tag) (domain.Tag, error) {
	if t.Name == "" {
		return domain.Tag{}, fmt.Errorf("%w: tag name is required", domain.ErrValidation)
	}
	res, err := r.store.ExecContext(ctx,
		`INSERT INTO tags (name, description) VALUES (?, ?)`, t.Name, t.Description)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return domain.Tag{}, fmt.Errorf("tag %q: %w", t.Name, domain.ErrAlreadyExists)
		}
		return domain.Tag{}, fmt.Errorf("create tag: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Tag{}, fmt.Errorf("create tag: %w", err)
	}
	t.ID = id
	return t, nil
}

// Update renames a tag or changes its description. A name collision with
// another tag is reported as ErrAlreadyExists.
func (r *Repo) Update(ctx context.Context, t domain.Tag) (domain.Tag, error) {
	if t.Name == "" {
		return domain.Tag{}, fmt.Errorf("%w: tag name is required", domain.ErrValidation)
	}
	res, err := r.store.ExecContext(ctx,
		`UPDATE tags SET name = ?, description = ? WHERE id = ?`, t.Name, t.Description, t.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return domain.Tag{}, fmt.Errorf("tag %q: %w", t.Name, domain.ErrAlreadyExists)
		}
		return domain.Tag{}, fmt.Errorf("update tag %d: %w", t.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.Tag{}, domain.ErrNotFound
	}
	return r.Get(ctx, t.ID)
}

// Delete removes a tag; association rows cascade.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	res, err := r.store.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tag %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
