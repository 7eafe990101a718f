// Package magna reads Magnaprobe snow-depth files produced by a Campbell
// datalogger and writes them back out with receiver-grade coordinates
// attached.
//
// The logger writes a TOA5-style CSV: one environment line, a column-name
// row, then data rows (the units and aggregation rows some loggers emit are
// tolerated; they fail timestamp normalization and surface as per-record
// skips).
package magna

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/JulienMeloche/magnaprobe-smp-gps/internal/align"
	"github.com/JulienMeloche/magnaprobe-smp-gps/internal/timeparse"
)

// Column names as written by the logger program.
const (
	colTimestamp = "TIMESTAMP"
	colUTCTime   = "ThisUTCtime"
	colLatDeg    = "latitude_a"
	colLatMin    = "latitude_b"
	colLonDeg    = "Longitude_a"
	colLonMin    = "Longitude_b"
)

// File is a fully materialized Magnaprobe file: header plus every data row,
// loaded before any matching begins.
type File struct {
	Header []string
	Rows   []Row
}

// Row is one measurement record. Fields holds the raw source row untouched;
// Instant is the normalized UTC join key. A normalization failure is kept in
// Err rather than aborting the read, so the aligner can report it in order.
type Row struct {
	Fields  []string
	Instant time.Time
	Err     error

	// Onboard position, degrees + decimal minutes folded to decimal degrees.
	// Present only when the coordinate columns parse.
	Lat, Lon float64
	CoordOK  bool
}

// Read parses a Magnaprobe CSV. The GPS-minus-UTC leap offset is added to
// every instrument instant so the join key lives on the same clock as the
// receiver track. Missing required columns fail the whole run.
func Read(r io.Reader, leap time.Duration) (*File, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	// Environment line.
	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("magna: reading environment line: %w", err)
	}
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("magna: reading header row: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	tsIdx, ok := cols[colTimestamp]
	if !ok {
		return nil, fmt.Errorf("magna: header has no %s column", colTimestamp)
	}
	utcIdx, ok := cols[colUTCTime]
	if !ok {
		return nil, fmt.Errorf("magna: header has no %s column", colUTCTime)
	}
	latDegIdx, latOK := cols[colLatDeg]
	latMinIdx, latOK2 := cols[colLatMin]
	lonDegIdx, lonOK := cols[colLonDeg]
	lonMinIdx, lonOK2 := cols[colLonMin]
	hasCoords := latOK && latOK2 && lonOK && lonOK2

	f := &File{Header: header}
	lineNo := 2
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("magna: line %d: %w", lineNo+1, err)
		}
		lineNo++

		row := Row{Fields: fields}
		if len(fields) <= tsIdx || len(fields) <= utcIdx {
			row.Err = fmt.Errorf("magna: line %d: short row: %w", lineNo, timeparse.ErrMalformedTimestamp)
			f.Rows = append(f.Rows, row)
			continue
		}

		row.Instant, row.Err = normalize(fields[tsIdx], fields[utcIdx], leap)
		if row.Err != nil {
			row.Err = fmt.Errorf("magna: line %d: %w", lineNo, row.Err)
		}

		if hasCoords && len(fields) > latMinIdx && len(fields) > lonMinIdx {
			row.Lat, row.Lon, row.CoordOK = foldCoords(
				fields[latDegIdx], fields[latMinIdx],
				fields[lonDegIdx], fields[lonMinIdx],
			)
		}
		f.Rows = append(f.Rows, row)
	}
	return f, nil
}

// ReadFile opens and fully reads a Magnaprobe file, releasing the handle
// before matching starts.
func ReadFile(path string, leap time.Duration) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	f, err := Read(fh, leap)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Measurements adapts the rows for the aligner, preserving order. The key is
// the source line number.
func (f *File) Measurements() []align.Measurement {
	ms := make([]align.Measurement, 0, len(f.Rows))
	for i, row := range f.Rows {
		ms = append(ms, align.Measurement{
			Key:     fmt.Sprintf("line %d", i+3),
			Instant: row.Instant,
			Err:     row.Err,
		})
	}
	return ms
}

// normalize combines the logger's full timestamp (date source) with the
// GPS HHMMSS time-of-day, then shifts onto the GPS clock.
func normalize(timestamp, utcClock string, leap time.Duration) (time.Time, error) {
	companion, err := parseLoggerTimestamp(timestamp)
	if err != nil {
		return time.Time{}, err
	}
	instant, err := timeparse.CombineClock(companion, utcClock)
	if err != nil {
		return time.Time{}, err
	}
	return instant.Add(leap), nil
}

func parseLoggerTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q: %w", s, timeparse.ErrMalformedTimestamp)
}

// foldCoords converts the onboard degrees + decimal-minutes pairs to decimal
// degrees. The minutes share the sign of their degrees field.
func foldCoords(latDeg, latMin, lonDeg, lonMin string) (lat, lon float64, ok bool) {
	ld, err1 := strconv.ParseFloat(strings.TrimSpace(latDeg), 64)
	lm, err2 := strconv.ParseFloat(strings.TrimSpace(latMin), 64)
	od, err3 := strconv.ParseFloat(strings.TrimSpace(lonDeg), 64)
	om, err4 := strconv.ParseFloat(strings.TrimSpace(lonMin), 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return 0, 0, false
	}
	return fold(ld, lm), fold(od, om), true
}

func fold(deg, min float64) float64 {
	if deg < 0 {
		return deg - min/60
	}
	return deg + min/60
}
