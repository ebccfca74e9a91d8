package search

import "fmt"

// Operator is the comparison applied by a single filter criterion.
type Operator string

// Operator constants, matching the wire vocabulary of the search API.
const (
	OpEqual          Operator = "EQ"
	OpGreaterThan    Operator = "GT"
	OpGreaterOrEqual Operator = "GTE"
	OpLessThan       Operator = "LT"
	OpLessOrEqual    Operator = "LTE"
	// OpAnyOf tests membership of the field's value in a supplied set.
	OpAnyOf Operator = "ANY_OF"
	// OpFragment tests substring presence (LIKE with wildcards on both sides).
	OpFragment Operator = "FRAGMENT"
	// OpIsEmpty tests for NULL or the empty string. It overlaps with
	// OpEqual against a null value; both are exposed because callers use
	// either form interchangeably.
	OpIsEmpty Operator = "IS_EMPTY"
)

// IsValid checks if the operator is one of the supported values.
func (o Operator) IsValid() bool {
	switch o {
	case OpEqual, OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual,
		OpAnyOf, OpFragment, OpIsEmpty:
		return true
	}
	return false
}

// Criterion is one field/operator/value/negation filter term. Criteria in a
// request are combined with AND; order is irrelevant.
type Criterion struct {
	Field string   `json:"field"`
	Not   bool     `json:"not,omitempty"`
	Op    Operator `json:"condition"`
	Value any      `json:"value"`
}

// Validate reports whether the criterion's value has the right shape for its
// operator. A failing criterion is skipped by the compiler, not rejected.
func (c Criterion) Validate() error {
	if c.Field == "" {
		return fmt.Errorf("criterion field is required")
	}
	if !c.Op.IsValid() {
		return fmt.Errorf("unknown operator %q for field %q", c.Op, c.Field)
	}

	switch c.Op {
	case OpAnyOf:
		values, ok := c.Value.([]any)
		if !ok || values == nil {
			return fmt.Errorf("%s on field %q requires a value list", c.Op, c.Field)
		}
		for _, v := range values {
			if !IsScalar(v) || v == nil {
				return fmt.Errorf("%s on field %q requires scalar list elements", c.Op, c.Field)
			}
		}
	case OpFragment:
		if _, ok := c.Value.(string); !ok {
			return fmt.Errorf("%s on field %q requires a string value", c.Op, c.Field)
		}
	case OpIsEmpty:
		// Value is ignored.
	default:
		if !IsScalar(c.Value) {
			return fmt.Errorf("%s on field %q requires a scalar value", c.Op, c.Field)
		}
		// A null value only makes sense for equality, where it compiles to
		// an IS NULL predicate.
		if c.Value == nil && c.Op != OpEqual {
			return fmt.Errorf("%s on field %q requires a non-null value", c.Op, c.Field)
		}
	}
	return nil
}

// Values returns the criterion's value as a list. Only meaningful for OpAnyOf
// after validation.
func (c Criterion) Values() []any {
	values, _ := c.Value.([]any)
	return values
}

// IsScalar reports whether v is a bindable scalar: nil, string, bool, or a
// numeric type produced by JSON decoding or Go callers.
func IsScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}
