// Package chunk filters spreadsheet rows by name and partitions the matching
// email values into fixed-size batches, then hands batches to a clipboard.
package chunk

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"chunker/internal/logging"
	"chunker/internal/table"
)

// DefaultDelimiter joins the values of a chunk for the clipboard.
const DefaultDelimiter = ", "

var (
	// ErrInvalidCapacity is returned when a chunk size is not a positive integer.
	ErrInvalidCapacity = errors.New("chunk size must be a positive whole number")

	// ErrChunkIndex is returned when a chunk index is outside the list.
	ErrChunkIndex = errors.New("chunk index out of range")
)

// Columns names the header labels the builder reads.
type Columns struct {
	Name  string
	Email string
}

// DefaultColumns returns the NAME/EMAILS layout.
func DefaultColumns() Columns {
	return Columns{Name: "NAME", Email: "EMAILS"}
}

// Criteria is one submission: who to match and how big each chunk may be.
type Criteria struct {
	Name     string
	Capacity int
}

// ParseCriteria builds Criteria from raw form text.
func ParseCriteria(name, limit string) (Criteria, error) {
	capacity, err := ParseCapacity(limit)
	if err != nil {
		return Criteria{}, err
	}
	return Criteria{Name: name, Capacity: capacity}, nil
}

// ParseCapacity converts form text to a chunk size. Surrounding whitespace is
// ignored; anything else that is not a positive integer is rejected.
func ParseCapacity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidCapacity)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCapacity, s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCapacity, n)
	}
	return n, nil
}

// Chunk is an ordered group of email values.
type Chunk []string

// Len returns the number of values in the chunk.
func (c Chunk) Len() int { return len(c) }

// Join concatenates the values with delim.
func (c Chunk) Join(delim string) string {
	return strings.Join(c, delim)
}

// BuildChunks keeps rows whose name column equals nameKey exactly, takes
// their non-empty email values in row order and cuts them into groups of
// capacity. Every chunk but the last is full. No matches yields an empty,
// non-nil result.
func BuildChunks(rows []table.Row, nameKey string, capacity int, cols Columns) ([]Chunk, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	emails := Emails(rows, nameKey, cols)
	logging.ChunkerDebug("%d of %d rows gave emails for %q", len(emails), len(rows), nameKey)
	n := len(emails) / capacity
	if len(emails)%capacity != 0 {
		n++
	}
	chunks := make([]Chunk, 0, n)
	for i := 0; i < len(emails); {
		// capacity may be close to MaxInt, so compare against what is left.
		end := len(emails)
		if capacity < end-i {
			end = i + capacity
		}
		chunks = append(chunks, Chunk(emails[i:end:end]))
		i = end
	}
	return chunks, nil
}

// Emails returns the non-empty email values of rows matching nameKey.
func Emails(rows []table.Row, nameKey string, cols Columns) []string {
	var emails []string
	for _, row := range rows {
		name, ok := row[cols.Name]
		if !ok || name != nameKey {
			continue
		}
		if email := row[cols.Email]; email != "" {
			emails = append(emails, email)
		}
	}
	return emails
}
