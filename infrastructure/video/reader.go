//go:build gocv

package video

import (
	"context"

	"gocv.io/x/gocv"

	"github.com/u759/AllanAI-sub001/domain/analysis"
)

// MetadataReader implements analysis.MetadataReader using GoCV.
type MetadataReader struct {
	fallbackFPS float64
	maxSamples  int
}

// NewMetadataReader creates a reader with the configured substitutes for
// containers that report non-positive fps or frame counts.
func NewMetadataReader(fallbackFPS float64, maxSamples int) *MetadataReader {
	return &MetadataReader{fallbackFPS: fallbackFPS, maxSamples: maxSamples}
}

// ReadMetadata opens the video and reports fps, frame count and duration.
// Pure read, no side effects.
func (r *MetadataReader) ReadMetadata(ctx context.Context, videoPath string) (analysis.VideoMetadata, error) {
	capture, err := gocv.VideoCaptureFile(videoPath)
	if err != nil {
		return analysis.VideoMetadata{}, &analysis.VideoOpenError{Path: videoPath, Err: err}
	}
	defer capture.Close()

	fps := capture.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		fps = r.fallbackFPS
	}
	frames := int(capture.Get(gocv.VideoCaptureFrameCount))
	if frames <= 0 {
		frames = r.maxSamples
	}

	return analysis.VideoMetadata{
		FPS:             fps,
		FrameCount:      frames,
		DurationSeconds: float64(frames) / fps,
	}, nil
}

// Ensure MetadataReader implements analysis.MetadataReader
var _ analysis.MetadataReader = (*MetadataReader)(nil)
