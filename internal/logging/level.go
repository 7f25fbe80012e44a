package logging

import (
	"fmt"
	"strings"
)

// Level is the severity of a log entry. Levels are totally ordered;
// filtering compares severity, never string equality.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
	Critical
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "CRITICAL"}

func (l Level) String() string {
	if l < Debug || l > Critical {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel converts a level name to a Level, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return Debug, nil
	case "INFO":
		return Info, nil
	case "WARN", "WARNING":
		return Warn, nil
	case "ERROR":
		return Error, nil
	case "CRITICAL":
		return Critical, nil
	}
	return Info, fmt.Errorf("unknown log level %q", s)
}
