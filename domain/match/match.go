package match

import "time"

// Status represents the lifecycle state of a match.
// Only the processing pipeline transitions a match between states.
type Status string

const (
	StatusUploaded   Status = "UPLOADED"
	StatusProcessing Status = "PROCESSING"
	StatusComplete   Status = "COMPLETE"
	StatusFailed     Status = "FAILED"
)

// Source identifies which analysis path produced a result.
type Source string

const (
	SourceModel     Source = "MODEL"
	SourceHeuristic Source = "HEURISTIC"

	// SourceHeuristicFallback marks matches where inference was attempted
	// but produced nothing usable, so the heuristic path took over.
	SourceHeuristicFallback Source = "HEURISTIC_FALLBACK"
)

// Match is the aggregate root: one uploaded video and its full analysis.
// During processing it is owned exclusively by the orchestrating task;
// everything else reads it through the repository.
type Match struct {
	ID          string             `json:"id"`
	CreatedAt   time.Time          `json:"createdAt"`
	ProcessedAt *time.Time         `json:"processedAt,omitempty"`
	Status      Status             `json:"status"`
	Duration    float64            `json:"duration"` // seconds
	VideoPath   string             `json:"videoPath"`
	Statistics  Statistics         `json:"statistics"`
	Shots       []Shot             `json:"shots"`
	Events      []Event            `json:"events"`
	Highlights  Highlights         `json:"highlights"`
	Processing  ProcessingSummary  `json:"processing"`
}

// Statistics aggregates the final per-match numbers.
type Statistics struct {
	Player1Score   int     `json:"player1Score"`
	Player2Score   int     `json:"player2Score"`
	TotalRallies   int     `json:"totalRallies"`
	AvgRallyLength float64 `json:"avgRallyLength"`
	MaxBallSpeed   float64 `json:"maxBallSpeed"`
	AvgBallSpeed   float64 `json:"avgBallSpeed"`
}

// ProcessingSummary is the audit trail of which analysis path(s) ran and why.
type ProcessingSummary struct {
	PrimarySource         Source   `json:"primarySource"`
	UsedHeuristicFallback bool     `json:"usedHeuristicFallback"`
	Sources               []Source `json:"sources"`
	Notes                 []string `json:"notes"`
}

// AddNote appends a free-text entry to the audit trail.
func (p *ProcessingSummary) AddNote(note string) {
	p.Notes = append(p.Notes, note)
}

// Clone returns a deep copy of the match so repository readers never share
// mutable slices with the owning task.
func (m *Match) Clone() *Match {
	c := *m
	if m.ProcessedAt != nil {
		t := *m.ProcessedAt
		c.ProcessedAt = &t
	}
	c.Shots = make([]Shot, len(m.Shots))
	for i := range m.Shots {
		c.Shots[i] = m.Shots[i].clone()
	}
	c.Events = make([]Event, len(m.Events))
	for i := range m.Events {
		c.Events[i] = m.Events[i].clone()
	}
	c.Highlights = m.Highlights.clone()
	c.Processing.Sources = append([]Source(nil), m.Processing.Sources...)
	c.Processing.Notes = append([]string(nil), m.Processing.Notes...)
	return &c
}
