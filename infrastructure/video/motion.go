//go:build gocv

package video

import (
	"context"
	"math"

	"gocv.io/x/gocv"

	"github.com/u759/AllanAI-sub001/domain/analysis"
	"github.com/u759/AllanAI-sub001/infrastructure/config"
)

// MotionAnalyzer implements analysis.MotionAnalyzer with a frame-differencing
// pass over the video: mean absolute pixel difference of consecutive
// grayscale frames, spiking when it exceeds the configured threshold.
type MotionAnalyzer struct {
	threshold  float64
	maxSamples int
}

// NewMotionAnalyzer creates an analyzer from the heuristic configuration.
func NewMotionAnalyzer(cfg config.HeuristicConfig) *MotionAnalyzer {
	return &MotionAnalyzer{
		threshold:  cfg.MotionThreshold,
		maxSamples: cfg.MaxFrameSamples,
	}
}

// DetectMotion decodes frames sequentially and emits a spike for every frame
// whose difference against the previous frame exceeds the threshold.
// Processing stops after the configured sample cap to bound cost on long
// videos.
func (a *MotionAnalyzer) DetectMotion(ctx context.Context, videoPath string, fps float64) ([]analysis.Spike, error) {
	capture, err := gocv.VideoCaptureFile(videoPath)
	if err != nil {
		return nil, &analysis.VideoOpenError{Path: videoPath, Err: err}
	}
	defer capture.Close()

	frame := gocv.NewMat()
	defer frame.Close()
	gray := gocv.NewMat()
	defer gray.Close()
	prev := gocv.NewMat()
	defer prev.Close()
	diff := gocv.NewMat()
	defer diff.Close()

	var spikes []analysis.Spike
	for idx := 0; idx < a.maxSamples; idx++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if ok := capture.Read(&frame); !ok || frame.Empty() {
			break
		}

		gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
		if !prev.Empty() {
			gocv.AbsDiff(gray, prev, &diff)
			score := diff.Mean().Val1
			if score > a.threshold {
				spikes = append(spikes, analysis.Spike{
					TimestampMs: int64(math.Round(float64(idx) / fps * 1000)),
					Score:       score,
				})
			}
		}
		// Always advance the previous-frame buffer, spike or not.
		gray.CopyTo(&prev)
	}

	return spikes, nil
}

// Ensure MotionAnalyzer implements analysis.MotionAnalyzer
var _ analysis.MotionAnalyzer = (*MotionAnalyzer)(nil)
