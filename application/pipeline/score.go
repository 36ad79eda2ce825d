package pipeline

import "github.com/u759/AllanAI-sub001/domain/match"

// ScoreTracker accumulates the running two-player score for one processing
// run. It is a local accumulator, never shared between matches.
type ScoreTracker struct {
	state match.ScoreState
}

// NewScoreTracker starts a tracker at 0-0.
func NewScoreTracker() *ScoreTracker {
	return &ScoreTracker{}
}

// Apply walks events in chronological order. SCORE events attributed to
// player 1 or 2 increment that player's counter and get stamped with a copy
// of the resulting state; everything else leaves the score untouched.
func (t *ScoreTracker) Apply(events []match.Event) {
	for i := range events {
		ev := &events[i]
		if ev.Type != match.EventScore || ev.Player == nil {
			continue
		}
		switch *ev.Player {
		case 1:
			t.state.Player1++
		case 2:
			t.state.Player2++
		default:
			continue
		}
		after := t.state
		ev.Metadata.ScoreAfter = &after
	}
}

// State returns the current running score.
func (t *ScoreTracker) State() match.ScoreState {
	return t.state
}
