package warehouse

import (
	"errors"
	"strings"
	"testing"
)

func TestTotalPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total int64
		size  int
		want  int
	}{
		{0, 100, 0},
		{1, 100, 1},
		{100, 100, 1},
		{101, 100, 2},
		{24, 10, 3},
		{5, 0, 0},
	}
	for _, tc := range tests {
		if got := TotalPages(tc.total, tc.size); got != tc.want {
			t.Fatalf("TotalPages(%d, %d)=%d want %d", tc.total, tc.size, got, tc.want)
		}
	}
}

func TestNewPage_NilContentIsEmpty(t *testing.T) {
	t.Parallel()

	p := NewPage[*row](nil, Pageable{Page: 2, Size: 10}, 7)
	if p.Content == nil || len(p.Content) != 0 {
		t.Fatalf("content=%v want empty", p.Content)
	}
	if p.Number != 2 || p.TotalPages != 1 {
		t.Fatalf("page=%+v", p)
	}
}

var rowOrderings = Orderings[row]{
	"name": {Column: "name", Compare: func(a, b row) int { return strings.Compare(a.Name, b.Name) }},
	"at":   {Column: "at", Compare: func(a, b row) int { return a.At.Compare(b.At) }},
}

func TestOrderings_SortIsStable(t *testing.T) {
	t.Parallel()

	rows := []row{{Name: "b"}, {Name: "a"}, {Name: "b"}, {Name: "a"}}
	for i := range rows {
		rows[i].At = rows[i].At.AddDate(0, 0, i)
	}

	rowOrderings.Sort(rows, []Order{{Property: "name", Direction: Desc}})

	wantNames := []string{"b", "b", "a", "a"}
	wantDays := []int{0, 2, 1, 3}
	for i := range rows {
		if rows[i].Name != wantNames[i] || rows[i].At.YearDay() != 1+wantDays[i] {
			t.Fatalf("rows[%d]=%+v want name %s day offset %d", i, rows[i], wantNames[i], wantDays[i])
		}
	}
}

func TestOrderings_Validate(t *testing.T) {
	t.Parallel()

	if err := rowOrderings.Validate([]Order{{Property: "name"}, {Property: "at"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := rowOrderings.Validate([]Order{{Property: "colour"}})
	if !errors.Is(err, ErrUnknownSortProperty) {
		t.Fatalf("err=%v want ErrUnknownSortProperty", err)
	}
}

func TestPageable_Offset(t *testing.T) {
	t.Parallel()

	if got, want := (Pageable{Page: 3, Size: 25}).Offset(), 75; got != want {
		t.Fatalf("offset=%d want %d", got, want)
	}
}
