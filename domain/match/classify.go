package match

import "strings"

// labelRule maps a free-text label substring to an event type. Rules are
// evaluated in order; the first match wins.
type labelRule struct {
	substr string
	typ    EventType
}

var labelRules = []labelRule{
	{"score", EventScore},
	{"ace", EventServeAce},
	{"fast", EventFastestShot},
	{"miss", EventMiss},
	{"error", EventMiss},
	{"rally", EventRallyHighlight},
	{"highlight", EventRallyHighlight},
	{"bounce", EventScore},
	{"point", EventScore},
}

// ResolveEventType maps an explicit type string or a free-text label to an
// EventType. An explicit type that matches an enum value wins; otherwise the
// label is scanned against the rule table. Unrecognized input defaults to
// PLAY_OF_THE_GAME.
func ResolveEventType(explicit, label string) EventType {
	if explicit != "" {
		switch t := EventType(strings.ToUpper(strings.TrimSpace(explicit))); t {
		case EventPlayOfTheGame, EventScore, EventRallyHighlight, EventServeAce, EventMiss, EventFastestShot:
			return t
		}
	}
	lower := strings.ToLower(label)
	for _, r := range labelRules {
		if strings.Contains(lower, r.substr) {
			return r.typ
		}
	}
	return EventPlayOfTheGame
}

var shotTypeSynonyms = map[string]ShotType{
	"service": ShotServe,
	"drive":   ShotForehand,
	"loop":    ShotForehand,
	"push":    ShotBackhand,
	"flick":   ShotBackhand,
	"chop":    ShotDefensive,
	"lob":     ShotDefensive,
	"block":   ShotDefensive,
	"spike":   ShotSmash,
	"kill":    ShotSmash,
}

// ParseShotType resolves a shot-type string case-insensitively, falling back
// to a synonym table and finally to FOREHAND.
func ParseShotType(s string) ShotType {
	switch t := ShotType(strings.ToUpper(strings.TrimSpace(s))); t {
	case ShotServe, ShotForehand, ShotBackhand, ShotSmash, ShotDefensive:
		return t
	}
	if t, ok := shotTypeSynonyms[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return ShotForehand
}

var shotResultSynonyms = map[string]ShotResult{
	"good":    ResultIn,
	"valid":   ResultIn,
	"success": ResultIn,
	"long":    ResultOut,
	"wide":    ResultOut,
	"fault":   ResultOut,
	"netted":  ResultNet,
}

// ParseShotResult resolves a shot-result string case-insensitively, falling
// back to a synonym table and finally to IN.
func ParseShotResult(s string) ShotResult {
	switch r := ShotResult(strings.ToUpper(strings.TrimSpace(s))); r {
	case ResultIn, ResultOut, ResultNet:
		return r
	}
	if r, ok := shotResultSynonyms[strings.ToLower(strings.TrimSpace(s))]; ok {
		return r
	}
	return ResultIn
}
