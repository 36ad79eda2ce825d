package match

// ShotType classifies how a ball strike was played.
type ShotType string

const (
	ShotServe     ShotType = "SERVE"
	ShotForehand  ShotType = "FOREHAND"
	ShotBackhand  ShotType = "BACKHAND"
	ShotSmash     ShotType = "SMASH"
	ShotDefensive ShotType = "DEFENSIVE"
)

// ShotResult is the outcome of a single shot.
type ShotResult string

const (
	ResultIn  ShotResult = "IN"
	ResultOut ShotResult = "OUT"
	ResultNet ShotResult = "NET"
)

// Shot is one ball-strike observation. Timestamps follows the same
// sorted/deduplicated context-window contract as Event.Timestamps.
type Shot struct {
	Timestamp  int64       `json:"timestamp"` // ms
	Timestamps []int64     `json:"timestamps"`
	Frames     []int       `json:"frames"`
	Player     int         `json:"player"` // 1 or 2
	Type       ShotType    `json:"type"`
	Speed      float64     `json:"speed"`    // km/h
	Accuracy   float64     `json:"accuracy"` // 0-1
	Result     ShotResult  `json:"result"`
	Detections []Detection `json:"detections,omitempty"`
}

func (s Shot) clone() Shot {
	c := s
	c.Timestamps = append([]int64(nil), s.Timestamps...)
	c.Frames = append([]int(nil), s.Frames...)
	c.Detections = cloneDetections(s.Detections)
	return c
}
