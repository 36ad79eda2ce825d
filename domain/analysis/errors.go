package analysis

import (
	"errors"
	"fmt"
)

// ErrInferenceDisabled is returned by an Engine whose integration is turned
// off by configuration. The pipeline runs the heuristic path without noting
// a fallback in this case.
var ErrInferenceDisabled = errors.New("inference integration disabled")

// ErrNoResult is returned when the external process exited successfully but
// left no result file behind.
var ErrNoResult = errors.New("inference produced no result file")

// VideoOpenError indicates a video file could not be opened or decoded.
// It is fatal to the processing task.
type VideoOpenError struct {
	Path string
	Err  error
}

func (e *VideoOpenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot open video %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("cannot open video %s", e.Path)
}

func (e *VideoOpenError) Unwrap() error { return e.Err }
