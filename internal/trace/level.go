package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff   Level = iota
	LevelError       // serve and call scopes, kept for ring dumps only
	LevelCall        // serve and call scopes, streamed
	LevelItem        // plus per-item rewriting
	LevelDebug       // everything
)

var levelNames = [...]string{"off", "error", "call", "item", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel is case-insensitive; "" means off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(s)
	if s == "" {
		return LevelOff, nil
	}
	for i, name := range levelNames {
		if name == s {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope are recorded at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelOff:
		return false
	case LevelError, LevelCall:
		return scope <= ScopeCall
	case LevelItem:
		return scope <= ScopeItem
	}
	return true
}

// streams reports whether a stream sink writes anything at this level.
func (l Level) streams() bool {
	return l >= LevelCall
}
