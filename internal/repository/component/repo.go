package component

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arkiv-cloud/arkiv/internal/db"
	"github.com/arkiv-cloud/arkiv/internal/domain"
	"github.com/arkiv-cloud/arkiv/internal/query"
)

// store is the consumer interface for signature component persistence.
type store interface {
	query.Querier
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Repo persists signature components.
type Repo struct {
	store store
}

// New creates a signature component repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// List returns all components ordered by name.
func (r *Repo) List(ctx context.Context) ([]domain.SignatureComponent, error) {
	rows, err := r.store.QueryContext(ctx,
		`SELECT id, name, indexType FROM signature_components ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list signature components: %w", err)
	}
	defer rows.Close()

	components := []domain.SignatureComponent{}
	for rows.Next() {
		var c domain.SignatureComponent
		if err := rows.Scan(&c.ID, &c.Name, &c.IndexType); err != nil {
			return nil, fmt.Errorf("list signature components: %w", err)
		}
		components = append(components, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list signature components: %w", err)
	}
	return components, nil
}

// Get returns one component.
func (r *Repo) Get(ctx context.Context, id int64) (domain.SignatureComponent, error) {
	var c domain.SignatureComponent
	err := r.store.QueryRowContext(ctx,
		`SELECT id, name, indexType FROM signature_components WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.IndexType)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SignatureComponent{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.SignatureComponent{}, fmt.Errorf("get signature component %d: %w", id, err)
	}
	return c, nil
}

// Create stores a new component.
func (r *Repo) Create(ctx context.Context, c domain.SignatureComponent) (domain.SignatureComponent, error) {
	if c.Name == "" {
		return domain.SignatureComponent{}, fmt.Errorf("%w: component name is required", domain.ErrValidation)
	}
	if c.IndexType == "" {
		c.IndexType = "dec"
	}
	res, err := r.store.ExecContext(ctx,
		`INSERT INTO signature_components (name, indexType) VALUES (?, ?)`, c.Name, c.IndexType)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return domain.SignatureComponent{}, fmt.Errorf("component %q: %w", c.Name, domain.ErrAlreadyExists)
		}
		return domain.SignatureComponent{}, fmt.Errorf("create signature component: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.SignatureComponent{}, fmt.Errorf("create signature component: %w", err)
	}
	c.ID = id
	return c, nil
}

// Update changes a component's name or index type. The stored element
// indexes are untouched; a reindex applies the new type.
func (r *Repo) Update(ctx context.Context, c domain.SignatureComponent) (domain.SignatureComponent, error) {
	if c.Name == "" {
		return domain.SignatureComponent{}, fmt.Errorf("%w: component name is required", domain.ErrValidation)
	}
	if c.IndexType == "" {
		c.IndexType = "dec"
	}
	res, err := r.store.ExecContext(ctx,
		`UPDATE signature_components SET name = ?, indexType = ? WHERE id = ?`, c.Name, c.IndexType, c.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return domain.SignatureComponent{}, fmt.Errorf("component %q: %w", c.Name, domain.ErrAlreadyExists)
		}
		return domain.SignatureComponent{}, fmt.Errorf("update signature component %d: %w", c.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.SignatureComponent{}, domain.ErrNotFound
	}
	return r.Get(ctx, c.ID)
}

// Delete removes a component; its elements cascade.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	res, err := r.store.ExecContext(ctx, `DELETE FROM signature_components WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete signature component %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
