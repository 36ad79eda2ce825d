// Package analysis defines the ports between the match processing pipeline
// and the two analysis paths: the external inference engine and the
// in-process heuristic motion analyzer.
package analysis

import "context"

// VideoMetadata describes an opened video file.
type VideoMetadata struct {
	FPS             float64
	FrameCount      int
	DurationSeconds float64
}

// MetadataReader opens a video file and reports its basic properties.
// Implementations substitute configured fallbacks when the container
// reports a non-positive fps or frame count.
type MetadataReader interface {
	ReadMetadata(ctx context.Context, videoPath string) (VideoMetadata, error)
}

// Spike is one heuristic motion detection: a frame whose mean absolute
// pixel difference against the previous frame exceeded the threshold.
type Spike struct {
	TimestampMs int64
	Score       float64
}

// MotionAnalyzer decodes frames sequentially and emits motion spikes.
// It is a cheap proxy for "something happened"; classification is left
// to the synthesizer.
type MotionAnalyzer interface {
	DetectMotion(ctx context.Context, videoPath string, fps float64) ([]Spike, error)
}

// Engine attempts model-based analysis of a match video. Any error returned
// is path-local: the pipeline treats it as "inference unavailable" and falls
// back to the heuristic analyzer. An empty-but-present result is valid and
// is not an error.
type Engine interface {
	Analyze(ctx context.Context, matchID, videoPath string) (*Result, error)
}
