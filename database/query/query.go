// Package query builds warehouse SELECT statements from declarative column,
// join and filter lists and applies them to a GORM session.
package query

import (
	"fmt"
	"strings"
)

// Operator represents a filter operator.
type Operator string

const (
	OpEq      Operator = "eq"
	OpNeq     Operator = "neq"
	OpGt      Operator = "gt"
	OpGte     Operator = "gte"
	OpLt      Operator = "lt"
	OpLte     Operator = "lte"
	OpIn      Operator = "in"
	OpNin     Operator = "nin"
	OpNull    Operator = "null"
	OpNotNull Operator = "notNull"
)

// AllOperators returns all valid operators.
func AllOperators() []Operator {
	return []Operator{OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpIn, OpNin, OpNull, OpNotNull}
}

// IsValid reports whether the operator is known.
func (o Operator) IsValid() bool {
	for _, v := range AllOperators() {
		if o == v {
			return true
		}
	}
	return false
}

// Condition represents a single filter condition. Field may be qualified
// with its table ("HR_ORG_UNIT.DLC_NAME").
type Condition struct {
	Field    string
	Operator Operator
	Value    any
	Values   []string // for in, nin

	// Fold compares UPPER(Field) against upper-cased values.
	Fold bool
}

// Eq returns Field = value.
func Eq(field string, value any) Condition {
	return Condition{Field: field, Operator: OpEq, Value: value}
}

// Neq returns Field <> value.
func Neq(field string, value any) Condition {
	return Condition{Field: field, Operator: OpNeq, Value: value}
}

// Gte returns Field >= value.
func Gte(field string, value any) Condition {
	return Condition{Field: field, Operator: OpGte, Value: value}
}

// In returns Field IN values.
func In(field string, values ...string) Condition {
	return Condition{Field: field, Operator: OpIn, Values: values}
}

// InFold returns UPPER(Field) IN upper-cased values.
func InFold(field string, values ...string) Condition {
	return Condition{Field: field, Operator: OpIn, Values: values, Fold: true}
}

// NotNull returns Field IS NOT NULL for each field.
func NotNull(fields ...string) []Condition {
	conds := make([]Condition, 0, len(fields))
	for _, f := range fields {
		conds = append(conds, Condition{Field: f, Operator: OpNotNull})
	}
	return conds
}

// Validate checks the condition is well formed.
func (c Condition) Validate() error {
	if c.Field == "" {
		return fmt.Errorf("condition field is required")
	}
	if !c.Operator.IsValid() {
		return fmt.Errorf("unknown operator %q on %s", c.Operator, c.Field)
	}
	if (c.Operator == OpIn || c.Operator == OpNin) && len(c.Values) == 0 {
		return fmt.Errorf("%s on %s needs at least one value", c.Operator, c.Field)
	}
	return nil
}

func (c Condition) values() []string {
	if !c.Fold {
		return c.Values
	}
	upper := make([]string, len(c.Values))
	for i, v := range c.Values {
		upper[i] = strings.ToUpper(v)
	}
	return upper
}

func (c Condition) value() any {
	if s, ok := c.Value.(string); ok && c.Fold {
		return strings.ToUpper(s)
	}
	return c.Value
}

// JoinKind selects inner or left outer joins.
type JoinKind string

const (
	InnerJoin JoinKind = "JOIN"
	LeftJoin  JoinKind = "LEFT OUTER JOIN"
)

// Join joins Table on Left = Right.
type Join struct {
	Kind  JoinKind
	Table string
	Left  string
	Right string
}

// Select describes a SELECT over one table with optional joins.
type Select struct {
	From       string
	Columns    []string
	Joins      []Join
	Conditions []Condition
}

// Validate checks the statement is well formed.
func (s Select) Validate() error {
	if s.From == "" {
		return fmt.Errorf("select needs a table")
	}
	for _, j := range s.Joins {
		if j.Table == "" || j.Left == "" || j.Right == "" {
			return fmt.Errorf("join on %q is incomplete", j.Table)
		}
	}
	for _, c := range s.Conditions {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}
