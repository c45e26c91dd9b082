package query

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Build applies the statement to db. Identifiers are quoted with the
// dialect's quoting so upper-case warehouse names survive case folding.
func (s Select) Build(db *gorm.DB) (*gorm.DB, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	q := db.Table(s.From)
	if len(s.Columns) > 0 {
		cols := make([]string, len(s.Columns))
		for i, c := range s.Columns {
			cols[i] = q.Statement.Quote(c)
		}
		q = q.Select(strings.Join(cols, ", "))
	}
	for _, j := range s.Joins {
		kind := j.Kind
		if kind == "" {
			kind = InnerJoin
		}
		q = q.Joins(fmt.Sprintf("%s %s ON %s = %s",
			kind, q.Statement.Quote(j.Table), q.Statement.Quote(j.Left), q.Statement.Quote(j.Right)))
	}
	return ApplyConditions(q, s.Conditions), nil
}

// ApplyConditions applies conditions to a GORM query.
func ApplyConditions(db *gorm.DB, conditions []Condition) *gorm.DB {
	for _, cond := range conditions {
		db = applyCondition(db, cond)
	}
	return db
}

func applyCondition(db *gorm.DB, cond Condition) *gorm.DB {
	field := db.Statement.Quote(cond.Field)
	if cond.Fold {
		field = "UPPER(" + field + ")"
	}

	switch cond.Operator {
	case OpEq:
		return db.Where(fmt.Sprintf("%s = ?", field), cond.value())
	case OpNeq:
		return db.Where(fmt.Sprintf("%s <> ?", field), cond.value())
	case OpGt:
		return db.Where(fmt.Sprintf("%s > ?", field), cond.value())
	case OpGte:
		return db.Where(fmt.Sprintf("%s >= ?", field), cond.value())
	case OpLt:
		return db.Where(fmt.Sprintf("%s < ?", field), cond.value())
	case OpLte:
		return db.Where(fmt.Sprintf("%s <= ?", field), cond.value())
	case OpIn:
		return db.Where(fmt.Sprintf("%s IN ?", field), cond.values())
	case OpNin:
		return db.Where(fmt.Sprintf("%s NOT IN ?", field), cond.values())
	case OpNull:
		return db.Where(fmt.Sprintf("%s IS NULL", field))
	case OpNotNull:
		return db.Where(fmt.Sprintf("%s IS NOT NULL", field))
	}
	return db
}
