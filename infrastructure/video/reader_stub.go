//go:build !gocv

package video

import (
	"context"
	"errors"

	"github.com/u759/AllanAI-sub001/domain/analysis"
)

var errNoGoCV = errors.New("video decoding not available: build with '-tags=gocv' and install OpenCV/GoCV")

// MetadataReader is a stub when GoCV/OpenCV is not available
type MetadataReader struct{}

// NewMetadataReader creates a stub reader (requires building with -tags=gocv)
func NewMetadataReader(fallbackFPS float64, maxSamples int) *MetadataReader {
	return &MetadataReader{}
}

// ReadMetadata returns an error indicating video decoding is not available
func (r *MetadataReader) ReadMetadata(ctx context.Context, videoPath string) (analysis.VideoMetadata, error) {
	return analysis.VideoMetadata{}, &analysis.VideoOpenError{Path: videoPath, Err: errNoGoCV}
}

// Ensure MetadataReader implements analysis.MetadataReader
var _ analysis.MetadataReader = (*MetadataReader)(nil)
