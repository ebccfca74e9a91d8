package query

import (
	"fmt"
	"strings"

	"github.com/arkiv-cloud/arkiv/internal/domain/search"
)

// HandlerResult is a compiled predicate produced by a field handler, plus the
// join it needs, if any. Params are positional and paired with Where.
type HandlerResult struct {
	Join   string
	Where  string
	Params []any
}

// FieldHandler overrides compilation for a single field name. It receives the
// criterion and the stable alias of the primary table, and returns nil to
// decline, falling back to generic compilation.
type FieldHandler func(c search.Criterion, alias string) *HandlerResult

// HandlerMap maps field names to their compilation overrides.
type HandlerMap map[string]FieldHandler

// ManyToManyHandler builds a handler for "field matches any of these ids"
// filtering through a join table. It compiles an EXISTS subquery correlated on
// the primary key, so result rows are never multiplied. Only ANY_OF criteria
// are handled; anything else declines.
//
// joinTable is the association table, ownerColumn the column referencing the
// primary table's key, relatedColumn the column holding the related ids.
func ManyToManyHandler(joinTable, ownerColumn, relatedColumn, primaryKey string) FieldHandler {
	return func(c search.Criterion, alias string) *HandlerResult {
		if c.Op != search.OpAnyOf {
			return nil
		}
		values := c.Values()

		// An empty id set matches nothing, or everything when negated.
		if len(values) == 0 {
			if c.Not {
				return &HandlerResult{Where: "1 = 1", Params: []any{}}
			}
			return &HandlerResult{Where: "1 = 0", Params: []any{}}
		}

		exists := fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s WHERE %s.%s = %s.%s AND %s.%s IN (%s))",
			joinTable,
			joinTable, ownerColumn, alias, primaryKey,
			joinTable, relatedColumn, Placeholders(len(values)),
		)
		if c.Not {
			exists = "NOT " + exists
		}

		params := make([]any, 0, len(values))
		for _, v := range values {
			params = append(params, BindValue(v))
		}
		return &HandlerResult{Where: exists, Params: params}
	}
}

// JoinedColumnHandler builds a handler for a field that lives on a joined
// table. The criterion compiles generically against joinedColumn, and the
// supplied join is attached to the query (deduplicated across criteria).
func JoinedColumnHandler(join, joinedColumn string) FieldHandler {
	return func(c search.Criterion, alias string) *HandlerResult {
		where, params, ok := compileOperator(c, joinedColumn)
		if !ok {
			return &HandlerResult{Join: join, Where: "1 = 1", Params: []any{}}
		}
		return &HandlerResult{Join: join, Where: where, Params: params}
	}
}

// RenamedColumnHandler builds a handler for a field whose API name differs
// from its column on the primary table. The criterion compiles generically
// against the renamed column.
func RenamedColumnHandler(column string) FieldHandler {
	return func(c search.Criterion, alias string) *HandlerResult {
		where, params, ok := compileOperator(c, alias+"."+column)
		if !ok {
			return &HandlerResult{Where: "1 = 1", Params: []any{}}
		}
		return &HandlerResult{Where: where, Params: params}
	}
}

// Placeholders returns n comma-separated bind markers.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
