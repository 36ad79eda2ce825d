//go:build !gocv

package video

import (
	"context"

	"github.com/u759/AllanAI-sub001/domain/analysis"
	"github.com/u759/AllanAI-sub001/infrastructure/config"
)

// MotionAnalyzer is a stub when GoCV/OpenCV is not available
type MotionAnalyzer struct{}

// NewMotionAnalyzer creates a stub analyzer (requires building with -tags=gocv)
func NewMotionAnalyzer(cfg config.HeuristicConfig) *MotionAnalyzer {
	return &MotionAnalyzer{}
}

// DetectMotion returns an error indicating video decoding is not available
func (a *MotionAnalyzer) DetectMotion(ctx context.Context, videoPath string, fps float64) ([]analysis.Spike, error) {
	return nil, &analysis.VideoOpenError{Path: videoPath, Err: errNoGoCV}
}

// Ensure MotionAnalyzer implements analysis.MotionAnalyzer
var _ analysis.MotionAnalyzer = (*MotionAnalyzer)(nil)
