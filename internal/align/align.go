// Package align drives nearest-fix matching once per measurement record and
// accumulates a run summary. It is pure: all state lives in the returned
// values, never in package-level counters.
package align

import (
	"time"

	"github.com/JulienMeloche/magnaprobe-smp-gps/internal/emlid"
)

// Measurement is one instrument observation reduced to its join key. Err
// carries a normalization failure (typically a malformed timestamp) forward
// so the skip is reported in record order instead of aborting the read.
type Measurement struct {
	// Key identifies the record in skip reports (a file line or a profile
	// filename).
	Key     string
	Instant time.Time
	Err     error
}

// Match is the per-record outcome, in input order. Either Fix is valid or
// Err explains why the record was skipped.
type Match struct {
	Measurement
	Fix emlid.Fix
	Err error
}

// Skip records one excluded measurement and the reason.
type Skip struct {
	Key    string
	Reason error
}

// Summary tallies a run. One bad record never aborts the run; it lands here.
type Summary struct {
	Matched int
	Skipped int
	Skips   []Skip
}

// AddSkip appends a non-matching record discovered outside the matching loop
// (e.g. a metadata row with no profile on disk).
func (s *Summary) AddSkip(key string, reason error) {
	s.Skipped++
	s.Skips = append(s.Skips, Skip{Key: key, Reason: reason})
}

// Run matches every measurement against the track. The result slice preserves
// input order and has one entry per input; records that fail normalization or
// fall outside the track's validity window are skipped, tallied, and the run
// continues. Each query is O(log n) and read-only against the track.
func Run(track *emlid.Track, measurements []Measurement) ([]Match, Summary) {
	out := make([]Match, 0, len(measurements))
	var sum Summary

	for _, m := range measurements {
		res := Match{Measurement: m}
		switch {
		case m.Err != nil:
			res.Err = m.Err
		default:
			fix, err := track.Match(m.Instant)
			if err != nil {
				res.Err = err
			} else {
				res.Fix = fix
			}
		}

		if res.Err != nil {
			sum.AddSkip(m.Key, res.Err)
		} else {
			sum.Matched++
		}
		out = append(out, res)
	}
	return out, sum
}
