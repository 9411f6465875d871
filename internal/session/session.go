// Package session holds the in-memory state of one chunking session and the
// transitions between its stages: load rows, build chunks, consume chunks.
//
// State is a value. Every transition returns a new State and leaves the
// receiver as it was, so a failed step can simply keep the old value.
package session

import (
	"errors"

	"chunker/internal/chunk"
	"chunker/internal/logging"
	"chunker/internal/table"

	"github.com/google/uuid"
)

// State is a snapshot of the session.
type State struct {
	// ID correlates log lines for this session.
	ID string

	// Source is the spreadsheet the current Rows came from.
	Source string

	// Rows are the parsed spreadsheet rows awaiting a submission.
	// They are dropped once a submission consumes them.
	Rows []table.Row

	// Pending are the chunks not yet copied.
	Pending chunk.List

	// Loading is true between BeginLoad and Loaded/LoadFailed.
	Loading bool
}

// New returns an empty session with a fresh ID.
func New() State {
	return State{ID: uuid.NewString()}
}

// BeginLoad marks a file load as in progress.
func (s State) BeginLoad(path string) State {
	logging.SessionDebug("load started: %s", path)
	s.Loading = true
	return s
}

// Loaded replaces Rows with the result of a load. Pending chunks are kept.
func (s State) Loaded(path string, rows []table.Row) State {
	logging.Session("loaded %d rows from %s", len(rows), path)
	s.Loading = false
	s.Source = path
	s.Rows = rows
	return s
}

// LoadFailed clears the loading flag and any previously loaded rows.
func (s State) LoadFailed() State {
	s.Loading = false
	s.Source = ""
	s.Rows = nil
	return s
}

// Submit runs the chunk builder over Rows and replaces Pending with the
// result. Rows are discarded whether or not the build succeeds; Pending is
// only replaced on success.
func (s State) Submit(c chunk.Criteria, cols chunk.Columns) (State, error) {
	rows := s.Rows
	s.Rows = nil
	s.Source = ""

	chunks, err := chunk.BuildChunks(rows, c.Name, c.Capacity, cols)
	if err != nil {
		logging.ChunkerWarn("submit rejected: %v", err)
		return s, err
	}

	s.Pending = chunk.NewList(chunks)
	logging.Chunker("built %d chunks (%d emails) for %q with capacity %d",
		s.Pending.Len(), s.Pending.Total(), c.Name, c.Capacity)
	return s, nil
}

// Consume copies pending chunk index through consumer. On failure the
// returned State equals s.
func (s State) Consume(consumer *chunk.Consumer, index int) (State, error) {
	if consumer == nil {
		return s, errors.New("no clipboard consumer configured")
	}
	next, err := consumer.Consume(s.Pending, index)
	if err != nil {
		return s, err
	}
	s.Pending = next
	return s, nil
}
