package match

// HighlightRef points into Match.Events by id; highlights never duplicate
// the event body, only its timing context.
type HighlightRef struct {
	EventID    string  `json:"eventId"`
	Timestamp  int64   `json:"timestamp"`
	Timestamps []int64 `json:"timestamps"`
}

// NewHighlightRef builds a reference to the given event.
func NewHighlightRef(e Event) HighlightRef {
	return HighlightRef{
		EventID:    e.ID,
		Timestamp:  e.Timestamp,
		Timestamps: append([]int64(nil), e.Timestamps...),
	}
}

// Highlights is the curated reel: play of the game plus up to three each of
// top rallies, fastest shots, and best serves.
type Highlights struct {
	PlayOfTheGame *HighlightRef  `json:"playOfTheGame,omitempty"`
	TopRallies    []HighlightRef `json:"topRallies"`
	FastestShots  []HighlightRef `json:"fastestShots"`
	BestServes    []HighlightRef `json:"bestServes"`
}

func (h Highlights) clone() Highlights {
	c := h
	if h.PlayOfTheGame != nil {
		r := *h.PlayOfTheGame
		r.Timestamps = append([]int64(nil), h.PlayOfTheGame.Timestamps...)
		c.PlayOfTheGame = &r
	}
	c.TopRallies = cloneRefs(h.TopRallies)
	c.FastestShots = cloneRefs(h.FastestShots)
	c.BestServes = cloneRefs(h.BestServes)
	return c
}

func cloneRefs(refs []HighlightRef) []HighlightRef {
	if refs == nil {
		return nil
	}
	out := make([]HighlightRef, len(refs))
	for i, r := range refs {
		out[i] = r
		out[i].Timestamps = append([]int64(nil), r.Timestamps...)
	}
	return out
}
