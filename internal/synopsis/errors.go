package synopsis

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned by FullProcess when the transcript has no content lines.
var ErrEmptyInput = errors.New("transcript has no content")

// ChunkError reports which chunk the summarization stopped at.
type ChunkError struct {
	Index int
	Total int
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("summarize chunk %d/%d: %v", e.Index+1, e.Total, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}
