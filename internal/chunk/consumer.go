package chunk

import (
	"fmt"

	"chunker/internal/logging"
)

// ClipboardWriter is the host facility a chunk is copied to.
type ClipboardWriter interface {
	WriteAll(text string) error
}

// ClipboardError reports a clipboard write that did not happen.
type ClipboardError struct {
	Index int
	Err   error
}

func (e *ClipboardError) Error() string {
	return fmt.Sprintf("copy chunk %d to clipboard: %v", e.Index+1, e.Err)
}

func (e *ClipboardError) Unwrap() error { return e.Err }

// Consumer copies chunks to a clipboard and drops them from the pending list.
type Consumer struct {
	Writer    ClipboardWriter
	Delimiter string
}

// NewConsumer returns a Consumer using the default delimiter.
func NewConsumer(w ClipboardWriter) *Consumer {
	return &Consumer{Writer: w, Delimiter: DefaultDelimiter}
}

// Payload returns the clipboard text for chunk index of list.
func (c *Consumer) Payload(list List, index int) (string, error) {
	ch, err := list.At(index)
	if err != nil {
		return "", err
	}
	return ch.Join(c.delimiter()), nil
}

// Consume writes chunk index to the clipboard. On success the chunk is
// removed from the returned list; on failure list is returned as-is.
func (c *Consumer) Consume(list List, index int) (List, error) {
	text, err := c.Payload(list, index)
	if err != nil {
		return list, err
	}

	if err := c.Writer.WriteAll(text); err != nil {
		logging.ClipboardError("copy chunk %d failed: %v", index+1, err)
		return list, &ClipboardError{Index: index, Err: err}
	}

	logging.Clipboard("copied chunk %d (%d bytes)", index+1, len(text))
	return list.Remove(index)
}

func (c *Consumer) delimiter() string {
	if c.Delimiter == "" {
		return DefaultDelimiter
	}
	return c.Delimiter
}
