package session

import (
	"errors"
	"testing"

	"chunker/internal/chunk"
	"chunker/internal/clipboard"
	"chunker/internal/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows() []table.Row {
	return []table.Row{
		{"NAME": "Ann", "EMAILS": "a@x.com"},
		{"NAME": "Ann", "EMAILS": "b@x.com"},
		{"NAME": "Ann", "EMAILS": ""},
		{"NAME": "Bo", "EMAILS": "c@x.com"},
	}
}

func TestNewHasID(t *testing.T) {
	a, b := New(), New()
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestLoadTransitions(t *testing.T) {
	s := New().BeginLoad("c.xlsx")
	assert.True(t, s.Loading)

	loaded := s.Loaded("c.xlsx", rows())
	assert.False(t, loaded.Loading)
	assert.Equal(t, "c.xlsx", loaded.Source)
	assert.Len(t, loaded.Rows, 4)

	// The earlier value is untouched.
	assert.True(t, s.Loading)
	assert.Nil(t, s.Rows)

	failed := loaded.BeginLoad("bad.xlsx").LoadFailed()
	assert.False(t, failed.Loading)
	assert.Nil(t, failed.Rows)
}

func TestSubmit_ReplacesPendingAndDiscardsRows(t *testing.T) {
	s := New().Loaded("c.xlsx", rows())

	next, err := s.Submit(chunk.Criteria{Name: "Ann", Capacity: 1}, chunk.DefaultColumns())
	require.NoError(t, err)

	assert.Nil(t, next.Rows)
	assert.Equal(t, []chunk.Chunk{{"a@x.com"}, {"b@x.com"}}, next.Pending.Chunks())

	// Submitting again without a new load yields nothing.
	again, err := next.Submit(chunk.Criteria{Name: "Ann", Capacity: 1}, chunk.DefaultColumns())
	require.NoError(t, err)
	assert.Equal(t, 0, again.Pending.Len())
}

func TestSubmit_InvalidCapacityKeepsPending(t *testing.T) {
	s := New().Loaded("c.xlsx", rows())
	s, err := s.Submit(chunk.Criteria{Name: "Ann", Capacity: 5}, chunk.DefaultColumns())
	require.NoError(t, err)

	s = s.Loaded("c.xlsx", rows())
	next, err := s.Submit(chunk.Criteria{Name: "Ann", Capacity: 0}, chunk.DefaultColumns())
	assert.ErrorIs(t, err, chunk.ErrInvalidCapacity)
	assert.Nil(t, next.Rows)
	assert.Equal(t, 1, next.Pending.Len())
}

func TestConsume(t *testing.T) {
	mem := &clipboard.Memory{}
	consumer := chunk.NewConsumer(mem)

	s := New().Loaded("c.xlsx", rows())
	s, err := s.Submit(chunk.Criteria{Name: "Ann", Capacity: 1}, chunk.DefaultColumns())
	require.NoError(t, err)

	s, err = s.Consume(consumer, 1)
	require.NoError(t, err)
	assert.Equal(t, []chunk.Chunk{{"a@x.com"}}, s.Pending.Chunks())
	last, _ := mem.Last()
	assert.Equal(t, "b@x.com", last)

	mem.Err = errors.New("denied")
	after, err := s.Consume(consumer, 0)
	var ce *chunk.ClipboardError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, s.Pending.Chunks(), after.Pending.Chunks())

	_, err = s.Consume(nil, 0)
	assert.Error(t, err)
}
