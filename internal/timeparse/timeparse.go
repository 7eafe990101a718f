// Package timeparse normalizes the time encodings found in field instrument
// and receiver position files into absolute UTC instants.
package timeparse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedTimestamp reports a timestamp field that does not parse under
// the selected encoding. Matched with errors.Is.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// CombineClock resolves a date-less HHMMSS clock value against a companion
// timestamp that supplies the calendar date.
//
// The instrument clock is UTC while the companion logger timestamp may lag or
// lead it across a midnight boundary, so the companion's date alone is not
// trustworthy. Of the three candidate days (companion's date and its two
// neighbors) the one whose combined instant lies closest to the companion
// timestamp is chosen; after that adjustment the two can never disagree by
// more than 12 hours.
func CombineClock(companion time.Time, clock string) (time.Time, error) {
	if companion.IsZero() {
		return time.Time{}, fmt.Errorf("timeparse: companion date missing: %w", ErrMalformedTimestamp)
	}
	hh, mm, ss, err := splitClock(clock)
	if err != nil {
		return time.Time{}, err
	}

	companion = companion.UTC()
	base := time.Date(companion.Year(), companion.Month(), companion.Day(), hh, mm, ss, 0, time.UTC)

	best := base
	bestDelta := absDuration(base.Sub(companion))
	for _, cand := range []time.Time{base.AddDate(0, 0, -1), base.AddDate(0, 0, 1)} {
		if d := absDuration(cand.Sub(companion)); d < bestDelta {
			best = cand
			bestDelta = d
		}
	}
	return best, nil
}

// splitClock parses an HHMMSS clock value. Values shorter than six digits are
// zero-padded on the left: CSV writers commonly strip the leading zero from
// morning readings (e.g. 71119 for 07:11:19), which is unambiguous.
func splitClock(clock string) (hh, mm, ss int, err error) {
	s := strings.TrimSpace(clock)
	if s == "" || len(s) > 6 {
		return 0, 0, 0, fmt.Errorf("timeparse: clock value %q: %w", clock, ErrMalformedTimestamp)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, 0, 0, fmt.Errorf("timeparse: clock value %q: %w", clock, ErrMalformedTimestamp)
		}
	}
	s = strings.Repeat("0", 6-len(s)) + s

	hh, _ = strconv.Atoi(s[0:2])
	mm, _ = strconv.Atoi(s[2:4])
	ss, _ = strconv.Atoi(s[4:6])
	if hh > 23 || mm > 59 || ss > 59 {
		return 0, 0, 0, fmt.Errorf("timeparse: clock value %q out of range: %w", clock, ErrMalformedTimestamp)
	}
	return hh, mm, ss, nil
}

// ParseDateClock combines separate date and clock tokens, as found in
// receiver position files, into a UTC instant. The date token accepts
// YYYY/MM/DD or YYYY-MM-DD; the clock token is HH:MM:SS with an optional
// fractional-second suffix, kept at full precision.
func ParseDateClock(date, clock string) (time.Time, error) {
	combined := strings.TrimSpace(date) + " " + strings.TrimSpace(clock)
	for _, layout := range []string{"2006/01/02 15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, combined, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("timeparse: date/clock %q %q: %w", date, clock, ErrMalformedTimestamp)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
