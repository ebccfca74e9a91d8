package search

import (
	"encoding/json"
	"testing"
)

func TestOperator_IsValid(t *testing.T) {
	valid := []Operator{
		OpEqual, OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual,
		OpAnyOf, OpFragment, OpIsEmpty,
	}
	for _, op := range valid {
		if !op.IsValid() {
			t.Errorf("operator %s: expected valid", op)
		}
	}

	invalid := []Operator{"", "eq", "LIKE", "BETWEEN", "EQ "}
	for _, op := range invalid {
		if op.IsValid() {
			t.Errorf("operator %q: expected invalid", op)
		}
	}
}

func TestCriterion_Validate(t *testing.T) {
	tests := []struct {
		name    string
		c       Criterion
		wantErr bool
	}{
		{"eq string", Criterion{Field: "title", Op: OpEqual, Value: "x"}, false},
		{"eq number", Criterion{Field: "pages", Op: OpEqual, Value: float64(3)}, false},
		{"eq bool", Criterion{Field: "shared", Op: OpEqual, Value: true}, false},
		{"eq null", Criterion{Field: "creator", Op: OpEqual, Value: nil}, false},
		{"gt number", Criterion{Field: "pages", Op: OpGreaterThan, Value: float64(3)}, false},
		{"gt null", Criterion{Field: "pages", Op: OpGreaterThan, Value: nil}, true},
		{"lte string date", Criterion{Field: "createdOn", Op: OpLessOrEqual, Value: "2024-01-01"}, false},
		{"any_of list", Criterion{Field: "tagIds", Op: OpAnyOf, Value: []any{float64(1), float64(2)}}, false},
		{"any_of empty list", Criterion{Field: "tagIds", Op: OpAnyOf, Value: []any{}}, false},
		{"any_of scalar", Criterion{Field: "tagIds", Op: OpAnyOf, Value: float64(1)}, true},
		{"any_of nested list", Criterion{Field: "tagIds", Op: OpAnyOf, Value: []any{[]any{float64(1)}}}, true},
		{"any_of null element", Criterion{Field: "tagIds", Op: OpAnyOf, Value: []any{nil}}, true},
		{"fragment string", Criterion{Field: "title", Op: OpFragment, Value: "arch"}, false},
		{"fragment number", Criterion{Field: "title", Op: OpFragment, Value: float64(7)}, true},
		{"fragment null", Criterion{Field: "title", Op: OpFragment, Value: nil}, true},
		{"is_empty ignores value", Criterion{Field: "creator", Op: OpIsEmpty, Value: []any{"junk"}}, false},
		{"missing field", Criterion{Op: OpEqual, Value: "x"}, true},
		{"unknown operator", Criterion{Field: "title", Op: "LIKE", Value: "x"}, true},
		{"eq object value", Criterion{Field: "title", Op: OpEqual, Value: map[string]any{}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCriterion_JSONShape(t *testing.T) {
	raw := `{"field":"tagIds","not":true,"condition":"ANY_OF","value":[1,2]}`

	var c Criterion
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.Field != "tagIds" {
		t.Errorf("field: got %q", c.Field)
	}
	if !c.Not {
		t.Error("expected not=true")
	}
	if c.Op != OpAnyOf {
		t.Errorf("operator: got %q", c.Op)
	}
	if len(c.Values()) != 2 {
		t.Errorf("values: got %v", c.Values())
	}
	if err := c.Validate(); err != nil {
		t.Errorf("decoded criterion should validate: %v", err)
	}
}

func TestIsScalar(t *testing.T) {
	for _, v := range []any{nil, "x", true, float64(1), int64(2), 3} {
		if !IsScalar(v) {
			t.Errorf("%T(%v): expected scalar", v, v)
		}
	}
	for _, v := range []any{[]any{}, map[string]any{}, struct{}{}} {
		if IsScalar(v) {
			t.Errorf("%T: expected non-scalar", v)
		}
	}
}
