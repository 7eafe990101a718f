package emlid

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

// ErrTimeRangeNotCovered reports a query instant that falls strictly outside
// the track's validity window. The matcher never clamps to an endpoint: a
// plausible-looking wrong coordinate is worse than an explicit failure.
var ErrTimeRangeNotCovered = errors.New("instant outside position track time range")

// Track is an ordered, de-duplicated sequence of fixes. It is built once per
// run and read-only afterward; Match never mutates it.
type Track struct {
	fixes []Fix
}

// ReadTrack parses a position file in the given dialect into a Track. The
// fixes are sorted by instant; entries sharing an instant keep the first
// occurrence. Header or column shape mismatches fail the whole run.
func ReadTrack(r io.Reader, d Dialect) (*Track, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for i := 0; i < d.headerLines(); i++ {
		if !s.Scan() {
			if err := s.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("emlid: %s file ended inside %d-line header: %w", d, d.headerLines(), ErrUnrecognizedFormat)
		}
	}

	var cols pppColumns
	if d == PPP {
		if !s.Scan() {
			if err := s.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("emlid: ppp file has no column row: %w", ErrUnrecognizedFormat)
		}
		var err error
		cols, err = locatePPPColumns(s.Text())
		if err != nil {
			return nil, err
		}
	}

	fixes := make([]Fix, 0, 1024)
	lineNo := d.headerLines()
	if d == PPP {
		lineNo++
	}
	for s.Scan() {
		lineNo++
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}

		var (
			fix Fix
			err error
		)
		switch d {
		case PPP:
			fix, err = parsePPPLine(line, cols)
		default:
			fix, err = parsePPKLine(line)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		fixes = append(fixes, fix)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(fixes) == 0 {
		return nil, fmt.Errorf("emlid: %s file contains no fixes: %w", d, ErrUnrecognizedFormat)
	}

	return NewTrack(fixes), nil
}

// ReadTrackFile opens and fully reads a position file; the handle is released
// before any matching starts.
func ReadTrackFile(path string, d Dialect) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ReadTrack(f, d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// NewTrack builds a Track from already-parsed fixes: stable-sorted by instant,
// duplicate instants resolved by keeping the first occurrence.
func NewTrack(fixes []Fix) *Track {
	sorted := make([]Fix, len(fixes))
	copy(sorted, fixes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Instant.Before(sorted[j].Instant)
	})

	deduped := sorted[:0]
	for _, f := range sorted {
		if len(deduped) > 0 && f.Instant.Equal(deduped[len(deduped)-1].Instant) {
			continue
		}
		deduped = append(deduped, f)
	}
	return &Track{fixes: deduped}
}

// Len reports the number of fixes in the track.
func (t *Track) Len() int { return len(t.fixes) }

// Window reports the validity window covered by the track. Queries outside
// [first, last] cannot be matched.
func (t *Track) Window() (first, last time.Time) {
	if len(t.fixes) == 0 {
		return time.Time{}, time.Time{}
	}
	return t.fixes[0].Instant, t.fixes[len(t.fixes)-1].Instant
}

// Match returns the fix whose instant is nearest to q. Exactly equal deltas
// resolve to the earlier fix, so repeated queries are reproducible. Queries
// strictly outside the validity window fail with ErrTimeRangeNotCovered.
// O(log n) per query.
func (t *Track) Match(q time.Time) (Fix, error) {
	if len(t.fixes) == 0 {
		return Fix{}, fmt.Errorf("emlid: empty track: %w", ErrTimeRangeNotCovered)
	}
	first, last := t.Window()
	if q.Before(first) || q.After(last) {
		return Fix{}, fmt.Errorf("emlid: %s outside [%s, %s]: %w",
			q.UTC().Format(time.RFC3339Nano),
			first.UTC().Format(time.RFC3339Nano),
			last.UTC().Format(time.RFC3339Nano),
			ErrTimeRangeNotCovered)
	}

	// Insertion point: first fix at or after q.
	i := sort.Search(len(t.fixes), func(i int) bool {
		return !t.fixes[i].Instant.Before(q)
	})
	if i == 0 {
		return t.fixes[0], nil
	}
	if i == len(t.fixes) {
		return t.fixes[len(t.fixes)-1], nil
	}

	prev := t.fixes[i-1]
	next := t.fixes[i]
	if next.Instant.Sub(q) < q.Sub(prev.Instant) {
		return next, nil
	}
	return prev, nil
}
