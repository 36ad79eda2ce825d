package analysis

// Result is the normalized output of an inference run, after field-level
// defaulting. Slices are never nil.
type Result struct {
	FPS        float64
	Events     []RawEvent
	Shots      []RawShot
	Statistics *RawStatistics
}

// RawEvent is one model-detected event before synthesis into the domain
// model. Timestamp is in milliseconds; a zero HasTimestamp means the
// timestamp must be derived from Frame and FPS.
type RawEvent struct {
	Frame        int
	Timestamp    int64
	HasTimestamp bool
	Type         string
	Label        string
	Confidence   float64
	Player       *int
	Importance   int
	RallyLength  int
	ShotSpeed    float64
	ShotType     string
	Trajectory   [][2]float64
	Detections   []RawDetection
	PreFrames    int
	PostFrames   int
	Timestamps   []int64
	Frames       []int
}

// RawShot is one model-detected shot before synthesis.
type RawShot struct {
	Frame        int
	Timestamp    int64
	HasTimestamp bool
	Player       *int
	Speed        float64
	Accuracy     float64
	ShotType     string
	Result       string
	Detections   []RawDetection
	Timestamps   []int64
	Frames       []int
}

// RawDetection is a model detection; HasBox distinguishes a real bounding
// box from a placeholder carrying only frame and confidence.
type RawDetection struct {
	Frame      int
	X          int
	Y          int
	Width      int
	Height     int
	HasBox     bool
	Confidence float64
}

// RawStatistics are model-supplied aggregate statistics; nil pointer fields
// mean "not supplied" and take configured defaults downstream.
type RawStatistics struct {
	Player1Score   *int
	Player2Score   *int
	TotalRallies   *int
	AvgRallyLength *float64
	MaxBallSpeed   *float64
	AvgBallSpeed   *float64
}
