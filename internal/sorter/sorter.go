package sorter

import (
	"errors"
	"slices"
	"sync"

	"whatsflow/internal/table"
)

// ErrUnknownHeader is returned when a sort names a header the table does not have.
var ErrUnknownHeader = errors.New("unknown header")

// Direction is the order a column was last sorted in.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// DirectionOf maps an ascending flag to a Direction.
func DirectionOf(ascending bool) Direction {
	if ascending {
		return Ascending
	}
	return Descending
}

// Controller reorders table rows by column and remembers, per header
// identity, whether that header last sorted ascending.
type Controller struct {
	mu        sync.Mutex
	ascending map[string]bool
}

// NewController creates a controller with no sort history.
func NewController() *Controller {
	return &Controller{ascending: make(map[string]bool)}
}

// Sort toggles the direction stored for headerID and stably reorders t's rows
// by that header's column. The first sort of a header is ascending and each
// further sort of the same header flips direction. An empty body is toggled
// but left untouched.
func (c *Controller) Sort(t *table.Table, headerID string) (Direction, error) {
	col := t.ColumnIndex(headerID)
	if col < 0 {
		return "", ErrUnknownHeader
	}

	c.mu.Lock()
	asc := !c.ascending[headerID]
	c.ascending[headerID] = asc
	c.mu.Unlock()

	SortRows(t.Rows, col, asc)
	return DirectionOf(asc), nil
}

// Direction returns the stored direction for headerID and whether the
// header has been sorted at all.
func (c *Controller) Direction(headerID string) (Direction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	asc, ok := c.ascending[headerID]
	return DirectionOf(asc), ok
}

// Reset forgets every header's direction.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.ascending = make(map[string]bool)
	c.mu.Unlock()
}

// SortRows stably sorts rows by column col. Rows missing that column sort
// as if the cell were empty.
func SortRows(rows [][]string, col int, ascending bool) {
	if len(rows) < 2 {
		return
	}
	slices.SortStableFunc(rows, func(a, b []string) int {
		if ascending {
			return Compare(table.CellAt(a, col), table.CellAt(b, col))
		}
		return Compare(table.CellAt(b, col), table.CellAt(a, col))
	})
}

// Toggle sorts t by headerID in the direction opposite to previous, for
// callers that keep the sort state themselves. An empty previous counts as
// never sorted, so the result is ascending.
func Toggle(t *table.Table, headerID string, previous Direction) (Direction, error) {
	col := t.ColumnIndex(headerID)
	if col < 0 {
		return "", ErrUnknownHeader
	}
	asc := previous != Ascending
	SortRows(t.Rows, col, asc)
	return DirectionOf(asc), nil
}
