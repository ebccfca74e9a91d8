package logentry

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

// store is the consumer interface for log entry persistence.
type store interface {
	query.Querier
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Repo persists audit log entries.
type Repo struct {
	store  store
	logger *zap.Logger
}

// New creates a log entry repository.
func New(s store, logger *zap.Logger) *Repo {
	return &Repo{store: s, logger: logger}
}

// searchableFields are the plain log entry columns criteria may reference.
// Log search is whitelist-only: no handlers, no joins.
var searchableFields = []string{"level", "category", "userId", "message", "createdOn"}

// Search returns one page of log entries, newest first.
func (r *Repo) Search(ctx context.Context, req search.Request) (search.Response[domain.LogEntry], error) {
	compiled := query.Compile("log_entries", req, searchableFields, nil, "id",
		query.WithLogger(r.logger))

	resp, err := query.Execute(ctx, r.store, compiled, scanRow)
	if err != nil {
		return search.Response[domain.LogEntry]{}, fmt.Errorf("search log entries: %w", err)
	}
	return resp, nil
}

// Insert appends an entry.
func (r *Repo) Insert(ctx context.Context, e domain.LogEntry) error {
	createdOn := e.CreatedOn
	if createdOn.IsZero() {
		createdOn = time.Now()
	}
	if _, err := r.store.ExecContext(ctx,
		`INSERT INTO log_entries (level, category, userId, message, createdOn) VALUES (?, ?, ?, ?, ?)`,
		e.Level, e.Category, e.UserID, e.Message, db.FormatTime(createdOn)); err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

// Prune deletes entries older than the cutoff and returns how many went away.
func (r *Repo) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := r.store.ExecContext(ctx,
		`DELETE FROM log_entries WHERE createdOn < ?`, db.FormatTime(olderThan))
	if err != nil {
		return 0, fmt.Errorf("prune log entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune log entries: %w", err)
	}
	return n, nil
}

func scanRow(rows *sql.Rows) (domain.LogEntry, error) {
	var (
		e       domain.LogEntry
		created string
	)
	if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.UserID, &e.Message, &created); err != nil {
		return domain.LogEntry{}, err
	}
	var err error
	if e.CreatedOn, err = db.ParseTime(created); err != nil {
		return domain.LogEntry{}, err
	}
	return e, nil
}
