package match

// EventType classifies a semantically meaningful instant in the match.
type EventType string

const (
	EventPlayOfTheGame  EventType = "PLAY_OF_THE_GAME"
	EventScore          EventType = "SCORE"
	EventRallyHighlight EventType = "RALLY_HIGHLIGHT"
	EventServeAce       EventType = "SERVE_ACE"
	EventMiss           EventType = "MISS"
	EventFastestShot    EventType = "FASTEST_SHOT"
)

// ScoreState is a running two-player score. Values never decrease across
// one match's chronological event sequence.
type ScoreState struct {
	Player1 int `json:"player1"`
	Player2 int `json:"player2"`
}

// Point is a 2D coordinate on the table plane, in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is a detection bounding box.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Detection is one model observation on a single frame. Box is nil for
// placeholder detections that only carry a frame number.
type Detection struct {
	Frame      int     `json:"frame"`
	Box        *Box    `json:"box,omitempty"`
	Confidence float64 `json:"confidence"`
}

// EventWindow is the padding, in milliseconds, around an event's primary
// instant that a player UI should show.
type EventWindow struct {
	PreMs  int64 `json:"preMs"`
	PostMs int64 `json:"postMs"`
}

// EventMetadata carries the optional analysis context attached to an event.
type EventMetadata struct {
	ShotSpeed      float64     `json:"shotSpeed,omitempty"`
	RallyLength    int         `json:"rallyLength,omitempty"`
	ShotType       ShotType    `json:"shotType,omitempty"`
	BallTrajectory []Point     `json:"ballTrajectory,omitempty"`
	FrameNumber    int         `json:"frameNumber,omitempty"`
	Window         EventWindow `json:"window"`
	ScoreAfter     *ScoreState `json:"scoreAfter,omitempty"`
	Confidence     float64     `json:"confidence"`
	Source         Source      `json:"source"`
	Detections     []Detection `json:"detections,omitempty"`
}

// Event is a timestamped moment of interest keyed to the video timeline.
// Timestamps is the context window around the primary Timestamp: sorted
// ascending, deduplicated, and always containing Timestamp itself.
type Event struct {
	ID          string        `json:"id"`
	Timestamp   int64         `json:"timestamp"` // ms
	Timestamps  []int64       `json:"timestamps"`
	Frames      []int         `json:"frames"`
	Type        EventType     `json:"type"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Player      *int          `json:"player,omitempty"` // 1 or 2
	Importance  int           `json:"importance"`       // 0-10
	Metadata    EventMetadata `json:"metadata"`
}

func (e Event) clone() Event {
	c := e
	if e.Player != nil {
		p := *e.Player
		c.Player = &p
	}
	c.Timestamps = append([]int64(nil), e.Timestamps...)
	c.Frames = append([]int(nil), e.Frames...)
	c.Metadata = e.Metadata.clone()
	return c
}

func (m EventMetadata) clone() EventMetadata {
	c := m
	c.BallTrajectory = append([]Point(nil), m.BallTrajectory...)
	c.Detections = cloneDetections(m.Detections)
	if m.ScoreAfter != nil {
		s := *m.ScoreAfter
		c.ScoreAfter = &s
	}
	return c
}

func cloneDetections(ds []Detection) []Detection {
	if ds == nil {
		return nil
	}
	out := make([]Detection, len(ds))
	for i, d := range ds {
		out[i] = d
		if d.Box != nil {
			b := *d.Box
			out[i].Box = &b
		}
	}
	return out
}
