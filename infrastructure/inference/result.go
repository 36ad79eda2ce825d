package inference

import (
	"encoding/json"
	"fmt"

	"github.com/u759/AllanAI-sub001/domain/analysis"
)

// defaultImportance is used when the model omits an event's importance.
const defaultImportance = 5

// resultFile is the JSON document the inference process writes. Every field
// the model may omit is a pointer or slice so absence is distinguishable
// from zero.
type resultFile struct {
	FPS        *float64          `json:"fps"`
	Events     []resultEvent     `json:"events"`
	Shots      []resultShot      `json:"shots"`
	Statistics *resultStatistics `json:"statistics"`
}

type resultEvent struct {
	Frame       *int              `json:"frame"`
	TimestampMs *int64            `json:"timestamp_ms"`
	Type        string            `json:"type"`
	Label       string            `json:"label"`
	Confidence  *float64          `json:"confidence"`
	Player      *int              `json:"player"`
	Importance  *int              `json:"importance"`
	RallyLength *int              `json:"rally_length"`
	ShotSpeed   *float64          `json:"shot_speed"`
	ShotType    string            `json:"shot_type"`
	Trajectory  [][2]float64      `json:"trajectory"`
	Detections  []resultDetection `json:"detections"`
	PreFrames   *int              `json:"pre_frames"`
	PostFrames  *int              `json:"post_frames"`
	Timestamps  []int64           `json:"timestamps"`
	Frames      []int             `json:"frames"`
}

type resultShot struct {
	Frame       *int              `json:"frame"`
	TimestampMs *int64            `json:"timestamp_ms"`
	Player      *int              `json:"player"`
	Speed       *float64          `json:"speed"`
	Accuracy    *float64          `json:"accuracy"`
	ShotType    string            `json:"shot_type"`
	Result      string            `json:"result"`
	Detections  []resultDetection `json:"detections"`
	Timestamps  []int64           `json:"timestamps"`
	Frames      []int             `json:"frames"`
}

type resultDetection struct {
	Frame      int        `json:"frame"`
	Box        *resultBox `json:"box"`
	Confidence float64    `json:"confidence"`
}

type resultBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type resultStatistics struct {
	Player1Score   *int     `json:"player1_score"`
	Player2Score   *int     `json:"player2_score"`
	TotalRallies   *int     `json:"total_rallies"`
	AvgRallyLength *float64 `json:"avg_rally_length"`
	MaxBallSpeed   *float64 `json:"max_ball_speed"`
	AvgBallSpeed   *float64 `json:"avg_ball_speed"`
}

// parseResult decodes the result file and applies field-level defaults:
// missing fps takes the configured fallback, missing importance the
// mid-range default, missing confidence the configured threshold, and
// missing lists become empty, never nil.
func parseResult(data []byte, fallbackFPS, confidenceThreshold float64) (*analysis.Result, error) {
	var file resultFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("malformed result file: %w", err)
	}

	res := &analysis.Result{
		FPS:    fallbackFPS,
		Events: make([]analysis.RawEvent, 0, len(file.Events)),
		Shots:  make([]analysis.RawShot, 0, len(file.Shots)),
	}
	if file.FPS != nil && *file.FPS > 0 {
		res.FPS = *file.FPS
	}

	for _, ev := range file.Events {
		raw := analysis.RawEvent{
			Type:       ev.Type,
			Label:      ev.Label,
			Confidence: confidenceThreshold,
			Player:     ev.Player,
			Importance: defaultImportance,
			ShotType:   ev.ShotType,
			Trajectory: ev.Trajectory,
			Detections: convertResultDetections(ev.Detections),
			Timestamps: ev.Timestamps,
			Frames:     ev.Frames,
		}
		if ev.Frame != nil {
			raw.Frame = *ev.Frame
		}
		if ev.TimestampMs != nil {
			raw.Timestamp = *ev.TimestampMs
			raw.HasTimestamp = true
		}
		if ev.Confidence != nil {
			raw.Confidence = *ev.Confidence
		}
		if ev.Importance != nil {
			raw.Importance = *ev.Importance
		}
		if ev.RallyLength != nil {
			raw.RallyLength = *ev.RallyLength
		}
		if ev.ShotSpeed != nil {
			raw.ShotSpeed = *ev.ShotSpeed
		}
		if ev.PreFrames != nil {
			raw.PreFrames = *ev.PreFrames
		}
		if ev.PostFrames != nil {
			raw.PostFrames = *ev.PostFrames
		}
		res.Events = append(res.Events, raw)
	}

	for _, sh := range file.Shots {
		raw := analysis.RawShot{
			Player:     sh.Player,
			ShotType:   sh.ShotType,
			Result:     sh.Result,
			Detections: convertResultDetections(sh.Detections),
			Timestamps: sh.Timestamps,
			Frames:     sh.Frames,
		}
		if sh.Frame != nil {
			raw.Frame = *sh.Frame
		}
		if sh.TimestampMs != nil {
			raw.Timestamp = *sh.TimestampMs
			raw.HasTimestamp = true
		}
		if sh.Speed != nil {
			raw.Speed = *sh.Speed
		}
		if sh.Accuracy != nil {
			raw.Accuracy = *sh.Accuracy
		}
		res.Shots = append(res.Shots, raw)
	}

	if file.Statistics != nil {
		res.Statistics = &analysis.RawStatistics{
			Player1Score:   file.Statistics.Player1Score,
			Player2Score:   file.Statistics.Player2Score,
			TotalRallies:   file.Statistics.TotalRallies,
			AvgRallyLength: file.Statistics.AvgRallyLength,
			MaxBallSpeed:   file.Statistics.MaxBallSpeed,
			AvgBallSpeed:   file.Statistics.AvgBallSpeed,
		}
	}

	return res, nil
}

func convertResultDetections(dets []resultDetection) []analysis.RawDetection {
	out := make([]analysis.RawDetection, 0, len(dets))
	for _, d := range dets {
		raw := analysis.RawDetection{Frame: d.Frame, Confidence: d.Confidence}
		if d.Box != nil {
			raw.HasBox = true
			raw.X = d.Box.X
			raw.Y = d.Box.Y
			raw.Width = d.Box.Width
			raw.Height = d.Box.Height
		}
		out = append(out, raw)
	}
	return out
}
