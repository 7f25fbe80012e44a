// Package analyze provides read-only reporting over the sysward log file:
// pattern searches, hourly histograms, and time-windowed summary reports.
// It never mutates the log.
package analyze

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when the log file to analyze does not exist.
var ErrNotFound = errors.New("log file not found")

// timeFormat matches the timestamp written by the logging package.
const timeFormat = "2006-01-02 15:04:05"

// recentMatches is how many matching lines Analyze retains.
const recentMatches = 10

// linePattern captures the leading timestamp and level of a log line.
var linePattern = regexp.MustCompile(`^\[(\d{4}-\d{2}-\d{2} (\d{2}):\d{2}:\d{2})\] \[([A-Z]+)\]`)

// HourCount is one bucket of the hourly histogram.
type HourCount struct {
	Hour  int
	Count int
}

// Analysis is the result of a pattern search over the log.
type Analysis struct {
	Pattern string
	Total   int
	// Recent holds the last matching lines in file order.
	Recent []string
	// ByHour buckets matches by hour-of-timestamp, sorted by hour.
	// Lines without a parseable timestamp count toward Total only.
	ByHour []HourCount
}

// Analyzer runs queries against one log file.
type Analyzer struct {
	// LogPath is the file analyzed.
	LogPath string
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// New creates an Analyzer over the log file at path.
func New(path string) *Analyzer {
	return &Analyzer{LogPath: path, Now: time.Now}
}

// matcher returns a match predicate for pattern: a compiled regular
// expression when pattern is valid regex syntax, a literal substring
// match otherwise.
func matcher(pattern string) func(string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return func(line string) bool { return strings.Contains(line, pattern) }
	}
	return re.MatchString
}

// Analyze counts matches of pattern in the log, retains the most recent
// matching lines, and buckets matches by hour of their leading timestamp.
func (a *Analyzer) Analyze(pattern string) (*Analysis, error) {
	f, err := os.Open(a.LogPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, a.LogPath)
		}
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	match := matcher(pattern)
	result := &Analysis{Pattern: pattern}
	hours := make(map[int]int)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !match(line) {
			continue
		}
		result.Total++

		result.Recent = append(result.Recent, line)
		if len(result.Recent) > recentMatches {
			result.Recent = result.Recent[1:]
		}

		if m := linePattern.FindStringSubmatch(line); m != nil {
			hour, _ := strconv.Atoi(m[2])
			hours[hour]++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning log file: %w", err)
	}

	for hour, count := range hours {
		result.ByHour = append(result.ByHour, HourCount{Hour: hour, Count: count})
	}
	sort.Slice(result.ByHour, func(i, j int) bool {
		return result.ByHour[i].Hour < result.ByHour[j].Hour
	})

	return result, nil
}
