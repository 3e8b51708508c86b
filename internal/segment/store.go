package segment

import (
	"strconv"
	"strings"
)

const (
	// Count is the number of cells in an address
	Count = 4

	// MaxDigits is the maximum number of characters a cell can hold
	MaxDigits = 3

	// MaxValue is the largest numeric value a cell can hold
	MaxValue = 255

	// Separator joins cells in the external value
	Separator = "."
)

// Segments is the four-cell edit buffer, left to right in dotted order.
type Segments [Count]string

// Decompose splits an external value into cells.
// Missing parts are left empty and parts past the fourth are ignored.
// Parts are stored verbatim: "001" stays "001" until the user edits it.
func Decompose(value string) Segments {
	var s Segments
	if value == "" {
		return s
	}

	parts := strings.SplitN(value, Separator, Count+1)
	for i := 0; i < Count && i < len(parts); i++ {
		s[i] = parts[i]
	}
	return s
}

// Compose joins the cells into the external value.
func (s Segments) Compose() string {
	return strings.Join(s[:], Separator)
}

// Filled reports whether every cell holds at least one digit.
func (s Segments) Filled() bool {
	for _, v := range s {
		if v == "" {
			return false
		}
	}
	return true
}

// Normalize validates raw cell text and returns the text to store.
// ok is false when raw is not 0-3 ASCII digits; the caller must then keep
// the previous cell text.
func Normalize(raw string) (string, bool) {
	if len(raw) > MaxDigits || !isDigits(raw) {
		return "", false
	}
	if raw == "" {
		return raw, true
	}

	// At most three digits, cannot overflow
	n, _ := strconv.Atoi(raw)
	if n > MaxValue {
		return strconv.Itoa(MaxValue), true
	}
	if len(raw) > 1 && raw[0] == '0' {
		return strconv.Itoa(n), true
	}
	return raw, true
}

// Store owns the four-cell buffer and enforces per-cell validity.
type Store struct {
	cells Segments
}

// NewStore creates a store decomposed from an external value.
func NewStore(value string) *Store {
	return &Store{cells: Decompose(value)}
}

// Reset overwrites all cells from an external value.
func (s *Store) Reset(value string) {
	s.cells = Decompose(value)
}

// Apply normalizes raw and stores it into the cell at index.
// Returns false and leaves the store untouched when raw or index is invalid.
func (s *Store) Apply(index int, raw string) bool {
	if !ValidIndex(index) {
		return false
	}
	text, ok := Normalize(raw)
	if !ok {
		return false
	}
	s.cells[index] = text
	return true
}

// Segment returns the text of one cell, or "" for an invalid index.
func (s *Store) Segment(index int) string {
	if !ValidIndex(index) {
		return ""
	}
	return s.cells[index]
}

// Segments returns a copy of all cells.
func (s *Store) Segments() Segments {
	return s.cells
}

// Value returns the composed external value.
func (s *Store) Value() string {
	return s.cells.Compose()
}

// ValidIndex reports whether index addresses a cell.
func ValidIndex(index int) bool {
	return index >= 0 && index < Count
}

// isDigits reports whether s holds only ASCII digits. Empty counts.
func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
