package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arkiv-cloud/arkiv/internal/domain/search"
	"github.com/arkiv-cloud/arkiv/internal/metrics"
)

// ErrInvalidQuery signals a structurally broken compiled query handed to the
// executor: a programmer error in a caller, not user input.
var ErrInvalidQuery = errors.New("invalid compiled query")

// Querier is the consumer interface over the SQL store. *sql.DB satisfies it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RowScanner maps the current row of an executed data query to the caller's
// row shape.
type RowScanner[T any] func(rows *sql.Rows) (T, error)

// StoreError wraps a driver failure with the offending SQL text and bound
// parameters for diagnostics.
type StoreError struct {
	SQL    string
	Params []any
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("search query failed: %v (sql: %s, params: %v)", e.Err, e.SQL, e.Params)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Execute runs the count query, conditionally runs the data query, and
// assembles the paged response.
//
// The data query is skipped when the requested offset is at or past the total
// row count; the response still carries the correct totals. A non-positive
// page size embedded in the data query's parameters is corrected to
// search.DefaultPageSize, for both execution and the reported page size. The
// response page is recomputed from the effective offset and page size rather
// than echoed from the request.
//
// No transaction wraps the two reads and nothing is retried; a store failure
// propagates as a *StoreError.
func Execute[T any](ctx context.Context, q Querier, c Compiled, scan RowScanner[T]) (search.Response[T], error) {
	var zero search.Response[T]

	if err := validateCompiled(c); err != nil {
		return zero, err
	}
	table := strings.TrimSuffix(c.Alias, "_main")
	start := time.Now()

	var total int
	if err := q.QueryRowContext(ctx, c.Count.Text, c.Count.Params...).Scan(&total); err != nil {
		metrics.SearchQueriesTotal.WithLabelValues(table, "error").Inc()
		return zero, &StoreError{SQL: c.Count.Text, Params: c.Count.Params, Err: err}
	}

	// Compile always appends LIMIT and OFFSET as the final two data params.
	n := len(c.Data.Params)
	pageSize, _ := c.Data.Params[n-2].(int)
	offset, _ := c.Data.Params[n-1].(int)
	if pageSize <= 0 {
		pageSize = search.DefaultPageSize
		c.Data.Params[n-2] = pageSize
	}

	if total <= offset {
		metrics.SearchQueriesTotal.WithLabelValues(table, "ok").Inc()
		metrics.SearchQueryDuration.WithLabelValues(table).Observe(time.Since(start).Seconds())
		return search.NewResponse[T](nil, offset, pageSize, total), nil
	}

	rows, err := q.QueryContext(ctx, c.Data.Text, c.Data.Params...)
	if err != nil {
		metrics.SearchQueriesTotal.WithLabelValues(table, "error").Inc()
		return zero, &StoreError{SQL: c.Data.Text, Params: c.Data.Params, Err: err}
	}
	defer rows.Close()

	data := make([]T, 0, pageSize)
	for rows.Next() {
		row, err := scan(rows)
		if err != nil {
			metrics.SearchQueriesTotal.WithLabelValues(table, "error").Inc()
			return zero, &StoreError{SQL: c.Data.Text, Params: c.Data.Params, Err: err}
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		metrics.SearchQueriesTotal.WithLabelValues(table, "error").Inc()
		return zero, &StoreError{SQL: c.Data.Text, Params: c.Data.Params, Err: err}
	}

	metrics.SearchQueriesTotal.WithLabelValues(table, "ok").Inc()
	metrics.SearchQueryDuration.WithLabelValues(table).Observe(time.Since(start).Seconds())
	return search.NewResponse(data, offset, pageSize, total), nil
}

// validateCompiled rejects structurally broken compiled queries before any
// store call.
func validateCompiled(c Compiled) error {
	if c.Data.Text == "" {
		return fmt.Errorf("%w: empty data query text", ErrInvalidQuery)
	}
	if c.Count.Text == "" {
		return fmt.Errorf("%w: empty count query text", ErrInvalidQuery)
	}
	if c.Data.Params == nil || c.Count.Params == nil {
		return fmt.Errorf("%w: missing parameter list", ErrInvalidQuery)
	}
	n := len(c.Data.Params)
	if n < 2 {
		return fmt.Errorf("%w: data query lacks paging parameters", ErrInvalidQuery)
	}
	if _, ok := c.Data.Params[n-2].(int); !ok {
		return fmt.Errorf("%w: data query limit parameter is not an int", ErrInvalidQuery)
	}
	if _, ok := c.Data.Params[n-1].(int); !ok {
		return fmt.Errorf("%w: data query offset parameter is not an int", ErrInvalidQuery)
	}
	return nil
}
