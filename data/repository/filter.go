package repository

import (
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"event-calendar-api/data/models"
)

type condOp int

const (
	opGte condOp = iota
	opLte
	opContains
	opEq
)

type condition struct {
	column string
	op     condOp
	val    interface{}
}

// EventFilter is an immutable AND-list of per-column conditions. The zero
// value matches every event. Conditions are added with the chained
// constructors below and translated to SQL by the repository; callers never
// see column names or operators.
type EventFilter struct {
	conds []condition
}

func NewEventFilter() EventFilter {
	return EventFilter{}
}

func (f EventFilter) with(c condition) EventFilter {
	conds := make([]condition, len(f.conds), len(f.conds)+1)
	copy(conds, f.conds)
	return EventFilter{conds: append(conds, c)}
}

// StartingOnOrAfter matches events whose start timestamp is at or after t.
func (f EventFilter) StartingOnOrAfter(t time.Time) EventFilter {
	return f.with(condition{column: "start_date_time", op: opGte, val: t})
}

// EndingOnOrBefore matches events whose end timestamp is at or before t.
func (f EventFilter) EndingOnOrBefore(t time.Time) EventFilter {
	return f.with(condition{column: "end_date_time", op: opLte, val: t})
}

// TitleContains matches titles containing s, case-insensitively. An empty
// s adds no condition.
func (f EventFilter) TitleContains(s string) EventFilter {
	if s == "" {
		return f
	}
	return f.with(condition{column: "title", op: opContains, val: s})
}

// DescriptionContains matches descriptions containing s,
// case-insensitively. An empty s adds no condition.
func (f EventFilter) DescriptionContains(s string) EventFilter {
	if s == "" {
		return f
	}
	return f.with(condition{column: "description", op: opContains, val: s})
}

// CompletedIs matches events by completion flag.
func (f EventFilter) CompletedIs(completed bool) EventFilter {
	return f.with(condition{column: "is_completed", op: opEq, val: completed})
}

func (f EventFilter) IsEmpty() bool {
	return len(f.conds) == 0
}

// Len reports the number of conditions the filter carries.
func (f EventFilter) Len() int {
	return len(f.conds)
}

// Matches evaluates the filter against an event in memory, with the same
// semantics the SQL translation has. Test doubles use it so filtered
// queries behave like the real store.
func (f EventFilter) Matches(e models.Event) bool {
	for _, c := range f.conds {
		if !c.matches(e) {
			return false
		}
	}
	return true
}

func (c condition) matches(e models.Event) bool {
	switch c.op {
	case opGte:
		return !e.StartDateTime.Before(c.val.(time.Time))
	case opLte:
		return !e.EndDateTime.After(c.val.(time.Time))
	case opContains:
		needle := strings.ToLower(c.val.(string))
		if c.column == "title" {
			return strings.Contains(strings.ToLower(e.Title), needle)
		}
		if e.Description == nil {
			return false
		}
		return strings.Contains(strings.ToLower(*e.Description), needle)
	case opEq:
		return e.IsCompleted == c.val.(bool)
	}
	return false
}

// expressions translates the filter into goqu expressions, one per
// condition, to be ANDed in a WHERE clause.
func (f EventFilter) expressions() []exp.Expression {
	exprs := make([]exp.Expression, 0, len(f.conds))
	for _, c := range f.conds {
		col := goqu.C(c.column)
		switch c.op {
		case opGte:
			exprs = append(exprs, col.Gte(c.val))
		case opLte:
			exprs = append(exprs, col.Lte(c.val))
		case opContains:
			exprs = append(exprs, col.ILike("%"+c.val.(string)+"%"))
		case opEq:
			exprs = append(exprs, col.Eq(c.val))
		}
	}
	return exprs
}
