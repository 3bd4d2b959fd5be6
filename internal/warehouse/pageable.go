package warehouse

import (
	"errors"
	"fmt"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUnknownSortProperty = errors.New("unknown sort property")

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

type Order struct {
	Property  string
	Direction Direction
}

// Pageable selects one page of a result set. Page is zero-based.
type Pageable struct {
	Page int
	Size int
	Sort []Order
}

func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// Page is one slice of an ordered result set plus the size of the whole set.
type Page[T any] struct {
	Content       []T
	Number        int
	Size          int
	TotalElements int64
	TotalPages    int
}

func NewPage[T any](content []T, pageable Pageable, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	return Page[T]{
		Content:       content,
		Number:        pageable.Page,
		Size:          pageable.Size,
		TotalElements: total,
		TotalPages:    TotalPages(total, pageable.Size),
	}
}

// TotalPages is ceil(total/size); zero when there are no rows.
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Ordering maps an API sort property onto a warehouse column and an in-memory
// comparison.
type Ordering[R any] struct {
	Column  string
	Compare func(a, b R) int
}

type Orderings[R any] map[string]Ordering[R]

func (o Orderings[R]) Validate(sort []Order) error {
	for _, s := range sort {
		if _, ok := o[s.Property]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownSortProperty, s.Property)
		}
	}
	return nil
}

// Scope returns a gorm scope applying sort in order. Unknown properties are
// skipped; call Validate first.
func (o Orderings[R]) Scope(sort []Order) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, s := range sort {
			ord, ok := o[s.Property]
			if !ok {
				continue
			}
			db = db.Order(clause.OrderByColumn{
				Column: clause.Column{Name: ord.Column},
				Desc:   s.Direction == Desc,
			})
		}
		return db
	}
}

// Sort orders records in place. The sort is stable so rows that compare equal
// keep their stored order.
func (o Orderings[R]) Sort(records []R, sort []Order) {
	if len(sort) == 0 {
		return
	}
	slices.SortStableFunc(records, func(a, b R) int {
		for _, s := range sort {
			ord, ok := o[s.Property]
			if !ok {
				continue
			}
			c := ord.Compare(a, b)
			if s.Direction == Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}
