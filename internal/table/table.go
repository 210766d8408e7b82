package table

import (
	"errors"

	"github.com/google/uuid"
)

// ErrTableNotFound is returned when a page holds no table matching the selector.
var ErrTableNotFound = errors.New("table not found")

// Header is a column label with a stable identity. Sort state is keyed by ID,
// so a header keeps its state when its column moves.
type Header struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Table is an ordered header row plus ordered data rows of cell text.
type Table struct {
	Headers []Header   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// New builds a table from header labels, assigning each header a fresh ID.
func New(labels []string, rows [][]string) *Table {
	headers := make([]Header, len(labels))
	for i, label := range labels {
		headers[i] = Header{ID: NewHeaderID(), Label: label}
	}
	return &Table{Headers: headers, Rows: rows}
}

// NewHeaderID returns a unique header identity.
func NewHeaderID() string {
	return uuid.New().String()
}

// Labels returns the header labels in column order.
func (t *Table) Labels() []string {
	labels := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		labels[i] = h.Label
	}
	return labels
}

// ColumnIndex returns the current position of the header with the given ID,
// or -1 if no such header exists.
func (t *Table) ColumnIndex(id string) int {
	if t == nil {
		return -1
	}
	for i, h := range t.Headers {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// HeaderByLabel returns the first header whose label matches.
func (t *Table) HeaderByLabel(label string) (Header, bool) {
	for _, h := range t.Headers {
		if h.Label == label {
			return h, true
		}
	}
	return Header{}, false
}

// Cell returns the text at (row, col). Missing cells read as "".
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	return CellAt(t.Rows[row], col)
}

// CellAt returns cells[col], or "" when the row is too short.
func CellAt(cells []string, col int) string {
	if col < 0 || col >= len(cells) {
		return ""
	}
	return cells[col]
}

// RaggedRows returns the indexes of rows whose cell count differs from the header count.
func (t *Table) RaggedRows() []int {
	var ragged []int
	for i, row := range t.Rows {
		if len(row) != len(t.Headers) {
			ragged = append(ragged, i)
		}
	}
	return ragged
}

// Clone returns a deep copy. Header IDs are preserved.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	c := &Table{
		Headers: append([]Header(nil), t.Headers...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		c.Rows[i] = append([]string(nil), row...)
	}
	return c
}
