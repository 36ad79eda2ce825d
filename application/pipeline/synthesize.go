package pipeline

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/u759/AllanAI-sub001/domain/analysis"
	"github.com/u759/AllanAI-sub001/domain/match"
	"github.com/u759/AllanAI-sub001/infrastructure/config"
)

// spikeTypeOrder is the fixed round-robin used to label heuristic spikes.
// There is no semantic signal at that layer, so the assignment is a
// deterministic policy keyed on spike index modulo 6.
var spikeTypeOrder = []match.EventType{
	match.EventScore,
	match.EventRallyHighlight,
	match.EventFastestShot,
	match.EventServeAce,
	match.EventMiss,
	match.EventPlayOfTheGame,
}

const (
	// Heuristic speed model: derived from motion score, capped at a
	// plausible table-tennis ball speed.
	heuristicSpeedBase   = 18.0
	heuristicSpeedFactor = 0.6
	maxBallSpeed         = 112.0

	// Fallback singleton inserted when the heuristic finds nothing.
	fallbackImportance = 7
	fallbackShotSpeed  = 28.0
)

var eventTitles = map[match.EventType]string{
	match.EventPlayOfTheGame:  "Play of the Game",
	match.EventScore:          "Point Scored",
	match.EventRallyHighlight: "Rally Highlight",
	match.EventServeAce:       "Serve Ace",
	match.EventMiss:           "Missed Shot",
	match.EventFastestShot:    "Fastest Shot",
}

// Synthesizer converts raw analysis output, from either path, into Shot and
// Event entities satisfying the domain invariants.
type Synthesizer struct {
	cfg   config.PipelineConfig
	newID func() string
}

// SynthesizerOption is a functional option for configuring Synthesizer
type SynthesizerOption func(*Synthesizer)

// WithIDGenerator sets a custom event id generator (for testing)
func WithIDGenerator(gen func() string) SynthesizerOption {
	return func(s *Synthesizer) {
		s.newID = gen
	}
}

// NewSynthesizer creates a synthesizer with the configured context window.
func NewSynthesizer(cfg config.PipelineConfig, opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{
		cfg:   cfg,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromInference maps a normalized inference result into domain events and
// shots. The mapping is deterministic apart from event id generation.
func (s *Synthesizer) FromInference(res *analysis.Result) ([]match.Event, []match.Shot) {
	fps := res.FPS
	events := make([]match.Event, 0, len(res.Events))
	for _, raw := range res.Events {
		events = append(events, s.eventFromRaw(raw, fps))
	}
	shots := make([]match.Shot, 0, len(res.Shots))
	for i, raw := range res.Shots {
		shots = append(shots, s.shotFromRaw(raw, fps, i))
	}
	return events, shots
}

func (s *Synthesizer) eventFromRaw(raw analysis.RawEvent, fps float64) match.Event {
	ts := raw.Timestamp
	if !raw.HasTimestamp {
		ts = frameToMs(raw.Frame, fps)
	}

	pre, post := raw.PreFrames, raw.PostFrames
	if pre <= 0 {
		pre = s.cfg.PreEventFrames
	}
	if post <= 0 {
		post = s.cfg.PostEventFrames
	}
	preMs, postMs := framesToMs(pre, fps), framesToMs(post, fps)

	series := raw.Timestamps
	if len(series) == 0 {
		series = []int64{ts - preMs, ts, ts + postMs}
	}

	typ := match.ResolveEventType(raw.Type, raw.Label)
	var shotType match.ShotType
	if raw.ShotType != "" {
		shotType = match.ParseShotType(raw.ShotType)
	}

	ev := match.Event{
		ID:          s.newID(),
		Timestamp:   ts,
		Timestamps:  match.NormalizeSeries(series, ts),
		Frames:      match.NormalizeFrames(raw.Frames, raw.Frame),
		Type:        typ,
		Title:       eventTitles[typ],
		Description: eventDescription(typ, raw.Player),
		Player:      clonePlayer(raw.Player),
		Importance:  clampImportance(raw.Importance),
		Metadata: match.EventMetadata{
			ShotSpeed:      raw.ShotSpeed,
			RallyLength:    raw.RallyLength,
			ShotType:       shotType,
			BallTrajectory: trajectoryPoints(raw.Trajectory),
			FrameNumber:    raw.Frame,
			Window:         match.EventWindow{PreMs: preMs, PostMs: postMs},
			Confidence:     raw.Confidence,
			Source:         match.SourceModel,
			Detections:     convertDetections(raw.Detections, raw.Frame, raw.Confidence),
		},
	}
	return ev
}

func (s *Synthesizer) shotFromRaw(raw analysis.RawShot, fps float64, idx int) match.Shot {
	ts := raw.Timestamp
	if !raw.HasTimestamp {
		ts = frameToMs(raw.Frame, fps)
	}
	preMs := framesToMs(s.cfg.PreEventFrames, fps)
	postMs := framesToMs(s.cfg.PostEventFrames, fps)

	series := raw.Timestamps
	if len(series) == 0 {
		series = []int64{ts - preMs, ts, ts + postMs}
	}

	player := roundRobinPlayer(idx)
	if raw.Player != nil && (*raw.Player == 1 || *raw.Player == 2) {
		player = *raw.Player
	}

	return match.Shot{
		Timestamp:  ts,
		Timestamps: match.NormalizeSeries(series, ts),
		Frames:     match.NormalizeFrames(raw.Frames, raw.Frame),
		Player:     player,
		Type:       match.ParseShotType(raw.ShotType),
		Speed:      raw.Speed,
		Accuracy:   raw.Accuracy,
		Result:     match.ParseShotResult(raw.Result),
		Detections: convertDetections(raw.Detections, raw.Frame, 0),
	}
}

// FromSpikes labels heuristic motion spikes with the fixed round-robin
// policy and derives one event and one shot per spike.
func (s *Synthesizer) FromSpikes(spikes []analysis.Spike, fps float64) ([]match.Event, []match.Shot) {
	preMs := framesToMs(s.cfg.PreEventFrames, fps)
	postMs := framesToMs(s.cfg.PostEventFrames, fps)

	events := make([]match.Event, 0, len(spikes))
	shots := make([]match.Shot, 0, len(spikes))
	for i, sp := range spikes {
		typ := spikeTypeOrder[i%len(spikeTypeOrder)]
		player := roundRobinPlayer(i)
		speed := heuristicSpeed(sp.Score)
		frame := msToFrame(sp.TimestampMs, fps)
		series := match.NormalizeSeries(
			[]int64{sp.TimestampMs - preMs, sp.TimestampMs, sp.TimestampMs + postMs},
			sp.TimestampMs,
		)

		events = append(events, match.Event{
			ID:          s.newID(),
			Timestamp:   sp.TimestampMs,
			Timestamps:  series,
			Frames:      []int{frame},
			Type:        typ,
			Title:       eventTitles[typ],
			Description: eventDescription(typ, &player),
			Player:      clonePlayer(&player),
			Importance:  heuristicImportance(sp.Score),
			Metadata: match.EventMetadata{
				ShotSpeed:   speed,
				FrameNumber: frame,
				Window:      match.EventWindow{PreMs: preMs, PostMs: postMs},
				Confidence:  heuristicConfidence(sp.Score),
				Source:      match.SourceHeuristic,
			},
		})
		shots = append(shots, match.Shot{
			Timestamp:  sp.TimestampMs,
			Timestamps: append([]int64(nil), series...),
			Frames:     []int{frame},
			Player:     player,
			Type:       spikeShotType(typ),
			Speed:      speed,
			Accuracy:   heuristicAccuracy(speed),
			Result:     spikeShotResult(typ),
			Detections: []match.Detection{{Frame: frame, Confidence: heuristicConfidence(sp.Score)}},
		})
	}
	return events, shots
}

// ShotsFromEvents synthesizes one shot per event for the degraded mode where
// inference returned events but no shots. Players are assigned round-robin
// when the event carries none.
func (s *Synthesizer) ShotsFromEvents(events []match.Event) []match.Shot {
	shots := make([]match.Shot, 0, len(events))
	for i, ev := range events {
		player := roundRobinPlayer(i)
		if ev.Player != nil && (*ev.Player == 1 || *ev.Player == 2) {
			player = *ev.Player
		}
		shotType := ev.Metadata.ShotType
		if shotType == "" {
			shotType = match.ShotForehand
		}
		speed := ev.Metadata.ShotSpeed
		if speed <= 0 {
			speed = fallbackShotSpeed
		}
		shots = append(shots, match.Shot{
			Timestamp:  ev.Timestamp,
			Timestamps: append([]int64(nil), ev.Timestamps...),
			Frames:     append([]int(nil), ev.Frames...),
			Player:     player,
			Type:       shotType,
			Speed:      speed,
			Accuracy:   heuristicAccuracy(speed),
			Result:     match.ResultIn,
			Detections: cloneEventDetections(ev.Metadata.Detections),
		})
	}
	return shots
}

// FallbackPair builds the singleton event/shot inserted when the heuristic
// path produced zero spikes, so a completed match is never empty.
func (s *Synthesizer) FallbackPair(durationMs int64, fps float64) (match.Event, match.Shot) {
	ts := durationMs / 2
	preMs := framesToMs(s.cfg.PreEventFrames, fps)
	postMs := framesToMs(s.cfg.PostEventFrames, fps)
	series := match.NormalizeSeries([]int64{ts - preMs, ts, ts + postMs}, ts)
	frame := msToFrame(ts, fps)
	player := 1

	ev := match.Event{
		ID:          s.newID(),
		Timestamp:   ts,
		Timestamps:  series,
		Frames:      []int{frame},
		Type:        match.EventPlayOfTheGame,
		Title:       eventTitles[match.EventPlayOfTheGame],
		Description: "Highlight selected from the middle of the match",
		Player:      &player,
		Importance:  fallbackImportance,
		Metadata: match.EventMetadata{
			ShotSpeed:   fallbackShotSpeed,
			FrameNumber: frame,
			Window:      match.EventWindow{PreMs: preMs, PostMs: postMs},
			Confidence:  0.5,
			Source:      match.SourceHeuristic,
		},
	}
	shot := match.Shot{
		Timestamp:  ts,
		Timestamps: append([]int64(nil), series...),
		Frames:     []int{frame},
		Player:     player,
		Type:       match.ShotServe,
		Speed:      fallbackShotSpeed,
		Accuracy:   0.8,
		Result:     match.ResultIn,
	}
	return ev, shot
}

func eventDescription(t match.EventType, player *int) string {
	if player != nil && (*player == 1 || *player == 2) {
		return fmt.Sprintf("%s by player %d", eventTitles[t], *player)
	}
	return eventTitles[t]
}

// convertDetections maps raw detections 1:1. When none are present but a
// source frame exists, a single placeholder detection is synthesized with
// frame and confidence only.
func convertDetections(raws []analysis.RawDetection, frame int, confidence float64) []match.Detection {
	if len(raws) == 0 {
		if frame > 0 {
			return []match.Detection{{Frame: frame, Confidence: confidence}}
		}
		return nil
	}
	out := make([]match.Detection, 0, len(raws))
	for _, d := range raws {
		det := match.Detection{Frame: d.Frame, Confidence: d.Confidence}
		if d.HasBox {
			det.Box = &match.Box{X: d.X, Y: d.Y, Width: d.Width, Height: d.Height}
		}
		out = append(out, det)
	}
	return out
}

func cloneEventDetections(ds []match.Detection) []match.Detection {
	if ds == nil {
		return nil
	}
	out := make([]match.Detection, len(ds))
	copy(out, ds)
	return out
}

func trajectoryPoints(raw [][2]float64) []match.Point {
	if len(raw) == 0 {
		return nil
	}
	pts := make([]match.Point, len(raw))
	for i, p := range raw {
		pts[i] = match.Point{X: p[0], Y: p[1]}
	}
	return pts
}

func clonePlayer(p *int) *int {
	if p == nil || (*p != 1 && *p != 2) {
		return nil
	}
	v := *p
	return &v
}

func roundRobinPlayer(idx int) int { return idx%2 + 1 }

func frameToMs(frame int, fps float64) int64 {
	if fps <= 0 {
		return 0
	}
	return int64(math.Round(float64(frame) / fps * 1000))
}

func framesToMs(frames int, fps float64) int64 {
	return frameToMs(frames, fps)
}

func msToFrame(ms int64, fps float64) int {
	return int(math.Round(float64(ms) / 1000 * fps))
}

func heuristicSpeed(score float64) float64 {
	return math.Min(heuristicSpeedBase+score*heuristicSpeedFactor, maxBallSpeed)
}

func heuristicAccuracy(speed float64) float64 {
	acc := 1 - speed/160
	return math.Min(0.95, math.Max(0.4, acc))
}

// clampImportance bounds model-supplied importance to the 0-10 scale used
// across events.
func clampImportance(v int) int {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func heuristicImportance(score float64) int {
	imp := int(math.Round(score / 8))
	if imp < 3 {
		imp = 3
	}
	if imp > 9 {
		imp = 9
	}
	return imp
}

func heuristicConfidence(score float64) float64 {
	return math.Min(0.9, math.Max(0.3, score/100))
}

func spikeShotType(t match.EventType) match.ShotType {
	switch t {
	case match.EventServeAce:
		return match.ShotServe
	case match.EventFastestShot:
		return match.ShotSmash
	case match.EventMiss:
		return match.ShotForehand
	default:
		return match.ShotForehand
	}
}

func spikeShotResult(t match.EventType) match.ShotResult {
	if t == match.EventMiss {
		return match.ResultOut
	}
	return match.ResultIn
}
