package match

import "testing"

func TestResolveEventType(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		label    string
		want     EventType
	}{
		{
			name:     "explicit type wins over label",
			explicit: "SCORE",
			label:    "fastest shot of the match",
			want:     EventScore,
		},
		{
			name:     "explicit type is case-insensitive",
			explicit: "serve_ace",
			label:    "",
			want:     EventServeAce,
		},
		{
			name:     "unknown explicit type falls through to label",
			explicit: "CARTWHEEL",
			label:    "long rally",
			want:     EventRallyHighlight,
		},
		{
			name:  "score label",
			label: "player scores a point off the edge",
			want:  EventScore,
		},
		{
			name:  "ace label",
			label: "unreturnable ace serve",
			want:  EventServeAce,
		},
		{
			name:  "fast label",
			label: "fast smash down the line",
			want:  EventFastestShot,
		},
		{
			name:  "miss label",
			label: "miss into the net",
			want:  EventMiss,
		},
		{
			name:  "error label maps to miss",
			label: "unforced error",
			want:  EventMiss,
		},
		{
			name:  "highlight label",
			label: "crowd highlight moment",
			want:  EventRallyHighlight,
		},
		{
			name:  "bounce label maps to score",
			label: "double bounce",
			want:  EventScore,
		},
		{
			name:  "rule order: score beats rally in combined label",
			label: "rally ends with a score",
			want:  EventScore,
		},
		{
			name:  "unmatched label defaults to play of the game",
			label: "something unusual",
			want:  EventPlayOfTheGame,
		},
		{
			name: "empty input defaults to play of the game",
			want: EventPlayOfTheGame,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveEventType(tt.explicit, tt.label); got != tt.want {
				t.Errorf("ResolveEventType(%q, %q) = %v, want %v", tt.explicit, tt.label, got, tt.want)
			}
		})
	}
}

func TestParseShotType(t *testing.T) {
	tests := []struct {
		input string
		want  ShotType
	}{
		{"SERVE", ShotServe},
		{"smash", ShotSmash},
		{" Backhand ", ShotBackhand},
		{"service", ShotServe},
		{"LOOP", ShotForehand},
		{"chop", ShotDefensive},
		{"kill", ShotSmash},
		{"unknown", ShotForehand},
		{"", ShotForehand},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseShotType(tt.input); got != tt.want {
				t.Errorf("ParseShotType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseShotResult(t *testing.T) {
	tests := []struct {
		input string
		want  ShotResult
	}{
		{"IN", ResultIn},
		{"out", ResultOut},
		{"Net", ResultNet},
		{"good", ResultIn},
		{"long", ResultOut},
		{"netted", ResultNet},
		{"fault", ResultOut},
		{"??", ResultIn},
		{"", ResultIn},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseShotResult(tt.input); got != tt.want {
				t.Errorf("ParseShotResult(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
