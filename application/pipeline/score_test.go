package pipeline

import (
	"testing"

	"github.com/u759/AllanAI-sub001/domain/match"
)

func scoreEvent(ts int64, player int) match.Event {
	return match.Event{Timestamp: ts, Type: match.EventScore, Player: &player}
}

func TestScoreTrackerAlternatingPoints(t *testing.T) {
	events := []match.Event{
		scoreEvent(1000, 1),
		scoreEvent(2000, 2),
		scoreEvent(3000, 1),
		scoreEvent(4000, 2),
		scoreEvent(5000, 1),
	}

	tr := NewScoreTracker()
	tr.Apply(events)

	if got := tr.State(); got.Player1 != 3 || got.Player2 != 2 {
		t.Fatalf("final score = %d-%d, want 3-2", got.Player1, got.Player2)
	}

	wantAfter := []match.ScoreState{
		{Player1: 1, Player2: 0},
		{Player1: 1, Player2: 1},
		{Player1: 2, Player2: 1},
		{Player1: 2, Player2: 2},
		{Player1: 3, Player2: 2},
	}
	for i, ev := range events {
		after := ev.Metadata.ScoreAfter
		if after == nil {
			t.Fatalf("event %d missing scoreAfter", i)
		}
		if *after != wantAfter[i] {
			t.Errorf("event %d scoreAfter = %+v, want %+v", i, *after, wantAfter[i])
		}
	}
}

func TestScoreTrackerIgnoresNonScoring(t *testing.T) {
	one := 1
	events := []match.Event{
		{Timestamp: 1000, Type: match.EventRallyHighlight, Player: &one},
		{Timestamp: 2000, Type: match.EventScore}, // no player attribution
		scoreEvent(3000, 2),
	}

	tr := NewScoreTracker()
	tr.Apply(events)

	if got := tr.State(); got.Player1 != 0 || got.Player2 != 1 {
		t.Fatalf("final score = %d-%d, want 0-1", got.Player1, got.Player2)
	}
	if events[0].Metadata.ScoreAfter != nil || events[1].Metadata.ScoreAfter != nil {
		t.Error("non-scoring events must not be stamped with a score")
	}
}

func TestScoreTrackerStampsIndependentCopies(t *testing.T) {
	events := []match.Event{scoreEvent(1000, 1), scoreEvent(2000, 1)}

	tr := NewScoreTracker()
	tr.Apply(events)

	if events[0].Metadata.ScoreAfter.Player1 != 1 {
		t.Errorf("first stamp = %+v, want snapshot at time of event", *events[0].Metadata.ScoreAfter)
	}
	if events[1].Metadata.ScoreAfter.Player1 != 2 {
		t.Errorf("second stamp = %+v, want 2-0", *events[1].Metadata.ScoreAfter)
	}
}
