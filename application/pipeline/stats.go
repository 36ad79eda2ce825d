package pipeline

import (
	"math"

	"github.com/u759/AllanAI-sub001/domain/analysis"
	"github.com/u759/AllanAI-sub001/domain/match"
)

const (
	// Used when inference omits the average rally length.
	defaultAvgRallyLength = 5.0

	// Derived totals never report fewer rallies than this floor.
	minDerivedRallies = 6
)

// BuildStatistics produces the final match statistics. Model-supplied
// statistics are trusted field-by-field with defaulting; otherwise the
// numbers are derived from the synthesized events and shots.
func BuildStatistics(raw *analysis.RawStatistics, events []match.Event, shots []match.Shot, score match.ScoreState) match.Statistics {
	if raw != nil {
		return statisticsFromRaw(raw)
	}
	return deriveStatistics(events, shots, score)
}

func statisticsFromRaw(raw *analysis.RawStatistics) match.Statistics {
	stats := match.Statistics{
		AvgRallyLength: defaultAvgRallyLength,
	}
	if raw.Player1Score != nil {
		stats.Player1Score = *raw.Player1Score
	}
	if raw.Player2Score != nil {
		stats.Player2Score = *raw.Player2Score
	}
	if raw.TotalRallies != nil {
		stats.TotalRallies = *raw.TotalRallies
	}
	if raw.AvgRallyLength != nil {
		stats.AvgRallyLength = *raw.AvgRallyLength
	}
	if raw.MaxBallSpeed != nil {
		stats.MaxBallSpeed = round1(*raw.MaxBallSpeed)
	}
	if raw.AvgBallSpeed != nil {
		stats.AvgBallSpeed = round1(*raw.AvgBallSpeed)
	}
	return stats
}

// deriveStatistics is the no-model path. Player scores come from the score
// tracker's final state, which on the heuristic path is a parity assignment
// over SCORE events, a known simplification.
func deriveStatistics(events []match.Event, shots []match.Shot, score match.ScoreState) match.Statistics {
	stats := match.Statistics{
		Player1Score: score.Player1,
		Player2Score: score.Player2,
		TotalRallies: len(events),
	}
	if stats.TotalRallies < minDerivedRallies {
		stats.TotalRallies = minDerivedRallies
	}

	if len(events) > 0 {
		stats.AvgRallyLength = round1(float64(len(shots)) / float64(len(events)))
	} else {
		stats.AvgRallyLength = defaultAvgRallyLength
	}

	var sum, max float64
	for _, s := range shots {
		sum += s.Speed
		if s.Speed > max {
			max = s.Speed
		}
	}
	if len(shots) > 0 {
		stats.AvgBallSpeed = round1(sum / float64(len(shots)))
	}
	stats.MaxBallSpeed = round1(max)
	return stats
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
