package warehouse

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Column is a typed handle on one attribute of record type R: the warehouse
// column name plus an accessor used when records are filtered in memory.
type Column[R, T any] struct {
	Name string
	Get  func(R) T
}

func NewColumn[R, T any](name string, get func(R) T) Column[R, T] {
	return Column[R, T]{Name: name, Get: get}
}

// Ordered is satisfied by values that know how to compare themselves, such as
// time.Time.
type Ordered[T any] interface {
	Compare(T) int
}

// Predicate restricts records of type R. The same predicate can be rendered
// into a gorm query (Scope) or evaluated against a record (Match), so every
// store applies identical semantics.
//
// The zero value matches every record.
type Predicate[R any] struct {
	exprs []clause.Expression
	tests []func(R) bool
}

// Always returns the predicate that matches every record.
func Always[R any]() Predicate[R] {
	return Predicate[R]{}
}

// IsAlways reports whether p imposes no restriction.
func (p Predicate[R]) IsAlways() bool {
	return len(p.exprs) == 0
}

// Scope adds p's conditions to db. It can be passed to (*gorm.DB).Scopes.
func (p Predicate[R]) Scope(db *gorm.DB) *gorm.DB {
	for _, e := range p.exprs {
		db = db.Where(e)
	}
	return db
}

// Match reports whether r satisfies every condition of p.
func (p Predicate[R]) Match(r R) bool {
	for _, t := range p.tests {
		if !t(r) {
			return false
		}
	}
	return true
}

// And combines predicates with logical AND. And() matches everything.
func And[R any](ps ...Predicate[R]) Predicate[R] {
	var out Predicate[R]
	for _, p := range ps {
		out.exprs = append(out.exprs, p.exprs...)
		out.tests = append(out.tests, p.tests...)
	}
	return out
}

func where[R any](expr clause.Expression, test func(R) bool) Predicate[R] {
	return Predicate[R]{
		exprs: []clause.Expression{expr},
		tests: []func(R) bool{test},
	}
}

// EqualOrAlways requires col == *v when v is non-nil. A nil v matches
// everything; it never turns into an "IS NULL" comparison.
func EqualOrAlways[R any, T comparable](col Column[R, T], v *T) Predicate[R] {
	if v == nil {
		return Always[R]()
	}
	want := *v
	return where(
		clause.Eq{Column: clause.Column{Name: col.Name}, Value: want},
		func(r R) bool { return col.Get(r) == want },
	)
}

// InOrAlways requires col to be one of vs. An empty vs matches everything.
func InOrAlways[R any, T comparable](col Column[R, T], vs []T) Predicate[R] {
	if len(vs) == 0 {
		return Always[R]()
	}
	set := make(map[T]struct{}, len(vs))
	values := make([]interface{}, 0, len(vs))
	for _, v := range vs {
		if _, dup := set[v]; dup {
			continue
		}
		set[v] = struct{}{}
		values = append(values, v)
	}
	return where(
		clause.IN{Column: clause.Column{Name: col.Name}, Values: values},
		func(r R) bool {
			_, ok := set[col.Get(r)]
			return ok
		},
	)
}

// RangeOrAlways bounds col by from and to, both inclusive. Either bound may be
// nil, in which case that side is open; with both nil it matches everything.
func RangeOrAlways[R any, T Ordered[T]](col Column[R, T], from, to *T) Predicate[R] {
	switch {
	case from != nil && to != nil:
		return And(atLeast(col, *from), atMost(col, *to))
	case from != nil:
		return atLeast(col, *from)
	case to != nil:
		return atMost(col, *to)
	default:
		return Always[R]()
	}
}

// DayOrAlways restricts col to the calendar day (UTC) of *day, from midnight
// through the last nanosecond of that day.
func DayOrAlways[R any](col Column[R, time.Time], day *time.Time) Predicate[R] {
	if day == nil {
		return Always[R]()
	}
	start, end := DayBounds(*day)
	return RangeOrAlways(col, &start, &end)
}

// DateRangeOrAlways bounds a date column by whole calendar days (UTC): from
// its first instant of *from through the last instant of *to.
func DateRangeOrAlways[R any](col Column[R, time.Time], from, to *time.Time) Predicate[R] {
	var lo, hi *time.Time
	if from != nil {
		start, _ := DayBounds(*from)
		lo = &start
	}
	if to != nil {
		_, end := DayBounds(*to)
		hi = &end
	}
	return RangeOrAlways(col, lo, hi)
}

// DayBounds returns the first and last instant of t's UTC calendar day.
func DayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func atLeast[R any, T Ordered[T]](col Column[R, T], v T) Predicate[R] {
	return where(
		clause.Gte{Column: clause.Column{Name: col.Name}, Value: v},
		func(r R) bool { return col.Get(r).Compare(v) >= 0 },
	)
}

func atMost[R any, T Ordered[T]](col Column[R, T], v T) Predicate[R] {
	return where(
		clause.Lte{Column: clause.Column{Name: col.Name}, Value: v},
		func(r R) bool { return col.Get(r).Compare(v) <= 0 },
	)
}
