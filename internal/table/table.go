// Package table is the list-browsing contract shared by the surge list and the
// sector tracking table: columns, client-side sorting and paging.
package table

import (
	"fmt"
	"slices"
)

// Direction of a sort.
type Direction int

const (
	Unsorted Direction = iota
	Ascending
	Descending
)

// Column describes one table column over rows of type T.
type Column[T any] struct {
	ID       string
	Header   string
	Width    int
	Sortable bool
	// Compare orders two rows; required when Sortable.
	Compare func(a, b T) int
	Cell    func(row T) string
}

// Sorter holds at most one active sort column.
type Sorter struct {
	column string
	dir    Direction
}

// Toggle cycles id through ascending and descending. Selecting another
// column starts it ascending.
func (s *Sorter) Toggle(id string) {
	if s.column != id {
		s.column, s.dir = id, Ascending
		return
	}
	if s.dir == Ascending {
		s.dir = Descending
		return
	}
	s.dir = Ascending
}

// Clear removes the active sort.
func (s *Sorter) Clear() {
	s.column, s.dir = "", Unsorted
}

// Active returns the sorted column and its direction.
func (s Sorter) Active() (string, Direction) {
	return s.column, s.dir
}

// Apply returns a sorted copy of rows. Rows keep their order when unsorted
// or when the active column cannot be sorted.
func Apply[T any](rows []T, cols []Column[T], s Sorter) []T {
	out := slices.Clone(rows)
	if s.dir == Unsorted {
		return out
	}
	col, ok := find(cols, s.column)
	if !ok || !col.Sortable || col.Compare == nil {
		return out
	}
	slices.SortStableFunc(out, func(a, b T) int {
		if s.dir == Descending {
			return col.Compare(b, a)
		}
		return col.Compare(a, b)
	})
	return out
}

// Headers returns the column titles with a direction marker on the sorted column.
func Headers[T any](cols []Column[T], s Sorter) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header
		if c.ID != s.column {
			continue
		}
		switch s.dir {
		case Ascending:
			out[i] += " ↑"
		case Descending:
			out[i] += " ↓"
		}
	}
	return out
}

// Cells renders every row through the column cell functions.
func Cells[T any](rows []T, cols []Column[T]) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		line := make([]string, len(cols))
		for j, c := range cols {
			line[j] = c.Cell(r)
		}
		out[i] = line
	}
	return out
}

// Sortable returns the ids of the sortable columns, in order.
func Sortable[T any](cols []Column[T]) []string {
	var ids []string
	for _, c := range cols {
		if c.Sortable {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func find[T any](cols []Column[T], id string) (Column[T], bool) {
	for _, c := range cols {
		if c.ID == id {
			return c, true
		}
	}
	return Column[T]{}, false
}

// Pager reflects the paging metadata of the last successful fetch.
type Pager struct {
	Page  int
	Pages int
}

func (p Pager) HasPrev() bool { return p.Page > 1 }
func (p Pager) HasNext() bool { return p.Page < p.Pages }

func (p Pager) String() string {
	return fmt.Sprintf("Page %d of %d", p.Page, p.Pages)
}
