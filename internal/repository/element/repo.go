package element

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

// store is the consumer interface for signature element persistence.
type store interface {
	query.Querier
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	BeginTx(ctx context.Context) (*sql.Tx, error)
}

// Repo persists signature elements.
type Repo struct {
	store  store
	logger *zap.Logger
}

// New creates a signature element repository.
func New(s store, logger *zap.Logger) *Repo {
	return &Repo{store: s, logger: logger}
}

// searchableFields are the plain element columns criteria may reference.
var searchableFields = []string{"name", "description", "signatureComponentId", "createdOn", "modifiedOn"}

const componentJoin = "INNER JOIN signature_components ON signature_components.id = " +
	"signature_elements_main.signatureComponentId"

func handlers() query.HandlerMap {
	return query.HandlerMap{
		// API exposes the element order key as "index"; the column avoids
		// the SQL keyword.
		"index":         query.RenamedColumnHandler("elementIndex"),
		"parentIds":     query.ManyToManyHandler("signature_element_parents", "elementId", "parentElementId", "id"),
		"hasParents":    hasParentsHandler,
		"componentName": query.JoinedColumnHandler(componentJoin, "signature_components.name"),
	}
}

// hasParentsHandler compiles "hasParents EQ bool" into an EXISTS check over
// the parent association table.
func hasParentsHandler(c search.Criterion, alias string) *query.HandlerResult {
	if c.Op != search.OpEqual {
		return nil
	}
	want, ok := c.Value.(bool)
	if !ok {
		return nil
	}
	exists := fmt.Sprintf(
		"EXISTS (SELECT 1 FROM signature_element_parents WHERE signature_element_parents.elementId = %s.id)",
		alias)
	if want == c.Not { // want=false, or negated want=true
		exists = "NOT " + exists
	}
	return &query.HandlerResult{Where: exists, Params: []any{}}
}

// Search returns one page of elements, each carrying the name of its
// component resolved through a join.
func (r *Repo) Search(
	ctx context.Context, req search.Request,
) (search.Response[domain.SignatureElementSearchResult], error) {
	compiled := query.Compile("signature_elements", req, searchableFields, handlers(), "id",
		query.WithLogger(r.logger),
		query.WithJoin(componentJoin),
		query.WithExtraColumns("signature_components.name AS componentName"),
	)

	resp, err := query.Execute(ctx, r.store, compiled, scanSearchRow)
	if err != nil {
		return search.Response[domain.SignatureElementSearchResult]{}, fmt.Errorf("search signature elements: %w", err)
	}
	return resp, nil
}

// Get returns one element with its component name.
func (r *Repo) Get(ctx context.Context, id int64) (domain.SignatureElementSearchResult, error) {
	rows, err := r.store.QueryContext(ctx,
		`SELECT e.id, e.signatureComponentId, e.name, e.description, e.elementIndex,
		        e.createdOn, e.modifiedOn, c.name AS componentName
		 FROM signature_elements e
		 INNER JOIN signature_components c ON c.id = e.signatureComponentId
		 WHERE e.id = ?`, id)
	if err != nil {
		return domain.SignatureElementSearchResult{}, fmt.Errorf("get signature element %d: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.SignatureElementSearchResult{}, fmt.Errorf("get signature element %d: %w", id, err)
		}
		return domain.SignatureElementSearchResult{}, domain.ErrNotFound
	}
	return scanSearchRow(rows)
}

// Create stores a new element with its parent references.
func (r *Repo) Create(
	ctx context.Context, e domain.SignatureElement, parentIDs []int64,
) (domain.SignatureElementSearchResult, error) {
	if e.Name == "" {
		return domain.SignatureElementSearchResult{}, fmt.Errorf("%w: element name is required", domain.ErrValidation)
	}
	now := db.FormatTime(time.Now())

	tx, err := r.store.BeginTx(ctx)
	if err != nil {
		return domain.SignatureElementSearchResult{}, fmt.Errorf("create signature element: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO signature_elements
		 (signatureComponentId, name, description, elementIndex, createdOn, modifiedOn)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.SignatureComponentID, e.Name, e.Description, e.ElementIndex, now, now)
	if err != nil {
		return domain.SignatureElementSearchResult{}, fmt.Errorf("create signature element: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.SignatureElementSearchResult{}, fmt.Errorf("create signature element: %w", err)
	}
	for _, parentID := range parentIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO signature_element_parents (elementId, parentElementId) VALUES (?, ?)`,
			id, parentID); err != nil {
			return domain.SignatureElementSearchResult{}, fmt.Errorf("set element %d parents: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.SignatureElementSearchResult{}, fmt.Errorf("create signature element: %w", err)
	}

	return r.Get(ctx, id)
}

// Update rewrites an element's fields and parent set. The owning component
// is fixed at creation and not changed here.
func (r *Repo) Update(
	ctx context.Context, e domain.SignatureElement, parentIDs []int64,
) (domain.SignatureElementSearchResult, error) {
	if e.Name == "" {
		return domain.SignatureElementSearchResult{}, fmt.Errorf("%w: element name is required", domain.ErrValidation)
	}
	if _, err := r.Get(ctx, e.ID); err != nil {
		return domain.SignatureElementSearchResult{}, err
	}

	tx, err := r.store.BeginTx(ctx)
	if err != nil {
		return domain.SignatureElementSearchResult{}, fmt.Errorf("update signature element %d: %w", e.ID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE signature_elements SET name = ?, description = ?, elementIndex = ?, modifiedOn = ? WHERE id = ?`,
		e.Name, e.Description, e.ElementIndex, db.FormatTime(time.Now()), e.ID); err != nil {
		return domain.SignatureElementSearchResult{}, fmt.Errorf("update signature element %d: %w", e.ID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM signature_element_parents WHERE elementId = ?`, e.ID); err != nil {
		return domain.SignatureElementSearchResult{}, fmt.Errorf("update signature element %d: %w", e.ID, err)
	}
	for _, parentID := range parentIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO signature_element_parents (elementId, parentElementId) VALUES (?, ?)`,
			e.ID, parentID); err != nil {
			return domain.SignatureElementSearchResult{}, fmt.Errorf("set element %d parents: %w", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.SignatureElementSearchResult{}, fmt.Errorf("update signature element %d: %w", e.ID, err)
	}

	return r.Get(ctx, e.ID)
}

// Delete removes an element; parent association rows cascade both ways.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	res, err := r.store.ExecContext(ctx, `DELETE FROM signature_elements WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete signature element %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ByComponent returns every element of one component ordered by its index,
// for pickers that need the full set rather than a page.
func (r *Repo) ByComponent(ctx context.Context, componentID int64) ([]domain.SignatureElementSearchResult, error) {
	rows, err := r.store.QueryContext(ctx,
		`SELECT e.id, e.signatureComponentId, e.name, e.description, e.elementIndex,
		        e.createdOn, e.modifiedOn, c.name AS componentName
		 FROM signature_elements e
		 INNER JOIN signature_components c ON c.id = e.signatureComponentId
		 WHERE e.signatureComponentId = ?
		 ORDER BY e.elementIndex, e.id`, componentID)
	if err != nil {
		return nil, fmt.Errorf("list elements of component %d: %w", componentID, err)
	}
	defer rows.Close()

	elements := []domain.SignatureElementSearchResult{}
	for rows.Next() {
		e, err := scanSearchRow(rows)
		if err != nil {
			return nil, fmt.Errorf("list elements of component %d: %w", componentID, err)
		}
		elements = append(elements, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list elements of component %d: %w", componentID, err)
	}
	return elements, nil
}

// Reindex renumbers a component's elements sequentially, formatting each
// position with indexType. Elements keep their current relative order
// (index, then id as the tiebreak). Returns the number of elements touched.
func (r *Repo) Reindex(ctx context.Context, componentID int64, indexType string) (int, error) {
	tx, err := r.store.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("reindex component %d: %w", componentID, err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM signature_elements WHERE signatureComponentId = ? ORDER BY elementIndex, id`,
		componentID)
	if err != nil {
		return 0, fmt.Errorf("reindex component %d: %w", componentID, err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("reindex component %d: %w", componentID, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("reindex component %d: %w", componentID, err)
	}
	rows.Close()

	now := db.FormatTime(time.Now())
	for pos, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`UPDATE signature_elements SET elementIndex = ?, modifiedOn = ? WHERE id = ?`,
			FormatIndex(indexType, pos+1), now, id); err != nil {
			return 0, fmt.Errorf("reindex component %d: %w", componentID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("reindex component %d: %w", componentID, err)
	}
	return len(ids), nil
}

// ParentIDs returns the parent element ids of one element.
func (r *Repo) ParentIDs(ctx context.Context, id int64) ([]int64, error) {
	rows, err := r.store.QueryContext(ctx,
		`SELECT parentElementId FROM signature_element_parents WHERE elementId = ? ORDER BY parentElementId`, id)
	if err != nil {
		return nil, fmt.Errorf("load element %d parents: %w", id, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var pid int64
		if err := rows.Scan(&pid); err != nil {
			return nil, fmt.Errorf("load element %d parents: %w", id, err)
		}
		ids = append(ids, pid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load element %d parents: %w", id, err)
	}
	return ids, nil
}

func scanSearchRow(rows *sql.Rows) (domain.SignatureElementSearchResult, error) {
	var (
		e                 domain.SignatureElement
		created, modified string
		componentName     string
	)
	if err := rows.Scan(
		&e.ID, &e.SignatureComponentID, &e.Name, &e.Description, &e.ElementIndex,
		&created, &modified, &componentName,
	); err != nil {
		return domain.SignatureElementSearchResult{}, err
	}

	var err error
	if e.CreatedOn, err = db.ParseTime(created); err != nil {
		return domain.SignatureElementSearchResult{}, err
	}
	if e.ModifiedOn, err = db.ParseTime(modified); err != nil {
		return domain.SignatureElementSearchResult{}, err
	}
	return domain.SignatureElementSearchResult{SignatureElement: e, ComponentName: componentName}, nil
}
