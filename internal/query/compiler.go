package query

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/arkiv-cloud/arkiv/internal/domain/search"
	"github.com/arkiv-cloud/arkiv/internal/metrics"
)

// CompiledQuery is a parameterized SQL statement and its positional bind
// values, strictly ordered and paired.
type CompiledQuery struct {
	Text   string
	Params []any
}

// Compiled couples the paged data query with its matching count query. Alias
// is the stable name assigned to the primary table, exposed so callers can
// phrase additional predicates against it (see WithPredicate).
type Compiled struct {
	Data  CompiledQuery
	Count CompiledQuery
	Alias string
}

type compileConfig struct {
	logger     *zap.Logger
	predicates []mandatoryPredicate
	joins      []string
	extraCols  []string
}

type mandatoryPredicate struct {
	expr   string
	params []any
}

// CompileOption customizes a single compilation.
type CompileOption func(*compileConfig)

// WithLogger sets the logger used for skipped-criterion diagnostics.
func WithLogger(l *zap.Logger) CompileOption {
	return func(cfg *compileConfig) { cfg.logger = l }
}

// WithPredicate AND-combines a mandatory predicate with the request's
// criteria. The expression may reference the primary table through the alias
// returned by TableAlias. This is the supported way to impose visibility or
// ownership restrictions; compiled SQL text is never patched after the fact.
func WithPredicate(expr string, params ...any) CompileOption {
	return func(cfg *compileConfig) {
		cfg.predicates = append(cfg.predicates, mandatoryPredicate{expr: expr, params: params})
	}
}

// WithJoin attaches a join clause to both queries. Identical clauses are
// deduplicated against handler-supplied joins.
func WithJoin(join string) CompileOption {
	return func(cfg *compileConfig) { cfg.joins = append(cfg.joins, join) }
}

// WithExtraColumns adds display columns to the data query's select list,
// typically columns from a joined table.
func WithExtraColumns(cols ...string) CompileOption {
	return func(cfg *compileConfig) { cfg.extraCols = append(cfg.extraCols, cols...) }
}

// TableAlias returns the stable alias assigned to a table for compilation.
func TableAlias(table string) string {
	return table + "_main"
}

// Compile turns a filter request into a paged data query and a matching count
// query for one table. It is pure: no I/O, safe for concurrent use.
//
// Criteria compile through the handler in handlers for their field if one
// exists and accepts; otherwise generically against the aliased table.
// allowed lists the plain columns expected in generic criteria; unknown
// fields are logged but still compiled, since a field may only exist through
// a caller-supplied join. Malformed criteria are skipped, never an error.
//
// Ordering is fixed: primary key descending. primaryKey defaults to "id".
func Compile(
	table string,
	req search.Request,
	allowed []string,
	handlers HandlerMap,
	primaryKey string,
	opts ...CompileOption,
) Compiled {
	cfg := compileConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if primaryKey == "" {
		primaryKey = "id"
	}
	alias := TableAlias(table)

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		allowedSet[f] = struct{}{}
	}

	var (
		where  []string
		params = make([]any, 0, len(req.Query))
		joins  = make([]string, 0, len(cfg.joins))
		seen   = make(map[string]struct{})
	)
	addJoin := func(join string) {
		if join == "" {
			return
		}
		if _, dup := seen[join]; dup {
			return
		}
		seen[join] = struct{}{}
		joins = append(joins, join)
	}
	for _, j := range cfg.joins {
		addJoin(j)
	}

	for _, c := range req.Query {
		if err := c.Validate(); err != nil {
			cfg.logger.Warn("skipping malformed search criterion",
				zap.String("table", table), zap.Error(err))
			metrics.SearchCriteriaFlagged.WithLabelValues("malformed").Inc()
			continue
		}

		if h, ok := handlers[c.Field]; ok && h != nil {
			if res := h(c, alias); res != nil {
				addJoin(res.Join)
				where = append(where, res.Where)
				params = append(params, res.Params...)
				continue
			}
		}

		if _, ok := allowedSet[c.Field]; !ok {
			// Tolerated: the field may come from a join added via options,
			// but it is worth a trace when it does not.
			cfg.logger.Warn("search criterion on field outside whitelist",
				zap.String("table", table), zap.String("field", c.Field))
			metrics.SearchCriteriaFlagged.WithLabelValues("unknown_field").Inc()
		}

		frag, fragParams, ok := compileOperator(c, alias+"."+c.Field)
		if !ok {
			continue
		}
		where = append(where, frag)
		params = append(params, fragParams...)
	}

	for _, p := range cfg.predicates {
		where = append(where, p.expr)
		params = append(params, p.params...)
	}

	var b strings.Builder
	fmt.Fprintf(&b, " FROM %s AS %s", table, alias)
	for _, j := range joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	body := b.String()

	columns := alias + ".*"
	if len(cfg.extraCols) > 0 {
		columns += ", " + strings.Join(cfg.extraCols, ", ")
	}

	// DISTINCT on both queries: joins, many-to-many ones in particular, can
	// multiply rows, and callers must never see duplicates or inflated counts.
	dataText := fmt.Sprintf("SELECT DISTINCT %s%s ORDER BY %s.%s DESC LIMIT ? OFFSET ?",
		columns, body, alias, primaryKey)
	countText := fmt.Sprintf("SELECT COUNT(DISTINCT %s.%s)%s", alias, primaryKey, body)

	dataParams := make([]any, 0, len(params)+2)
	dataParams = append(dataParams, params...)
	dataParams = append(dataParams, req.PageSize, req.Offset())

	countParams := make([]any, 0, len(params))
	countParams = append(countParams, params...)

	return Compiled{
		Data:  CompiledQuery{Text: dataText, Params: dataParams},
		Count: CompiledQuery{Text: countText, Params: countParams},
		Alias: alias,
	}
}

var comparisonOps = map[search.Operator]string{
	search.OpGreaterThan:    ">",
	search.OpGreaterOrEqual: ">=",
	search.OpLessThan:       "<",
	search.OpLessOrEqual:    "<=",
}

// compileOperator compiles one validated criterion against a column
// expression. The third return is false when the criterion imposes no
// restriction at all (empty negated ANY_OF).
func compileOperator(c search.Criterion, column string) (string, []any, bool) {
	switch c.Op {
	case search.OpAnyOf:
		values := c.Values()
		// An empty IN-list is undefined SQL, so both edge cases compile to
		// explicit truisms: no value matches nothing; negated, nothing is
		// excluded.
		if len(values) == 0 {
			if c.Not {
				return "", nil, false
			}
			return "1 = 0", nil, true
		}
		// Negation folds into NOT IN here; the generic NOT wrap below would
		// double-negate.
		op := "IN"
		if c.Not {
			op = "NOT IN"
		}
		params := make([]any, 0, len(values))
		for _, v := range values {
			params = append(params, BindValue(v))
		}
		return fmt.Sprintf("%s %s (%s)", column, op, Placeholders(len(values))), params, true

	case search.OpFragment:
		value, _ := c.Value.(string)
		return negate(column+" LIKE ?", c.Not), []any{"%" + value + "%"}, true

	case search.OpIsEmpty:
		return negate("("+column+" IS NULL OR "+column+" = '')", c.Not), nil, true

	case search.OpEqual:
		if c.Value == nil {
			return negate(column+" IS NULL", c.Not), nil, true
		}
		return negate(column+" = ?", c.Not), []any{BindValue(c.Value)}, true

	default:
		return negate(column+" "+comparisonOps[c.Op]+" ?", c.Not), []any{BindValue(c.Value)}, true
	}
}

func negate(frag string, not bool) string {
	if not {
		return "NOT (" + frag + ")"
	}
	return frag
}

// BindValue coerces a criterion value into a bindable parameter. Booleans
// become 0/1; SQLite has no boolean literal.
func BindValue(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return v
}
