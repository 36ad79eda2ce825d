package pipeline

import (
	"sort"

	"github.com/u759/AllanAI-sub001/domain/match"
)

// maxHighlightsPerCategory caps each curated list.
const maxHighlightsPerCategory = 3

// CurateHighlights selects play of the game plus up to three each of top
// rallies, fastest shots, and best serves. Selections reference events by
// id; the event bodies are never duplicated.
func CurateHighlights(events []match.Event) match.Highlights {
	h := match.Highlights{
		TopRallies:   []match.HighlightRef{},
		FastestShots: []match.HighlightRef{},
		BestServes:   []match.HighlightRef{},
	}
	if len(events) == 0 {
		return h
	}

	// Highest importance wins; ties go to the earliest occurrence.
	best := 0
	for i := 1; i < len(events); i++ {
		if events[i].Importance > events[best].Importance {
			best = i
		}
	}
	ref := match.NewHighlightRef(events[best])
	h.PlayOfTheGame = &ref

	h.TopRallies = topByImportance(events, match.EventRallyHighlight)
	h.FastestShots = topByImportance(events, match.EventFastestShot)
	h.BestServes = firstN(events, match.EventServeAce)
	return h
}

func topByImportance(events []match.Event, typ match.EventType) []match.HighlightRef {
	var picked []match.Event
	for _, ev := range events {
		if ev.Type == typ {
			picked = append(picked, ev)
		}
	}
	sort.SliceStable(picked, func(i, j int) bool {
		return picked[i].Importance > picked[j].Importance
	})
	return toRefs(picked)
}

// firstN keeps the original event order; serves are not re-sorted.
func firstN(events []match.Event, typ match.EventType) []match.HighlightRef {
	var picked []match.Event
	for _, ev := range events {
		if ev.Type == typ {
			picked = append(picked, ev)
		}
	}
	return toRefs(picked)
}

func toRefs(events []match.Event) []match.HighlightRef {
	if len(events) > maxHighlightsPerCategory {
		events = events[:maxHighlightsPerCategory]
	}
	refs := make([]match.HighlightRef, 0, len(events))
	for _, ev := range events {
		refs = append(refs, match.NewHighlightRef(ev))
	}
	return refs
}
