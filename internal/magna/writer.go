package magna

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/JulienMeloche/magnaprobe-smp-gps/internal/align"
)

// droppedColumns are logger housekeeping fields with no downstream value once
// the receiver coordinates are attached.
var droppedColumns = map[string]bool{
	"RECORD":          true,
	"BattVolts":       true,
	"latitude_a":      true,
	"latitude_b":      true,
	"Longitude_a":     true,
	"Longitude_b":     true,
	"fix_quality":     true,
	"nmbr_satellites": true,
	"LatitudeDDDDD":   true,
	"LongitudeDDDDD":  true,
	"HDOP":            true,
	"altitudeB":       true,
	"DepthVolts":      true,
	"month":           true,
	"dayofmonth":      true,
	"hourofday":       true,
	"minutes":         true,
	"seconds":         true,
	"microseconds":    true,
}

// enrichmentColumns are appended to the kept source columns. timestamp_utc is
// the instant of the matched fix, not the measurement's own instant, so
// consumers can audit match quality.
var enrichmentColumns = []string{"lat_magna", "lon_magna", "timestamp_utc", "lat_emlid", "lon_emlid"}

const instantLayout = "2006-01-02 15:04:05.000"

// WriteCSV writes one output row per successfully matched record, preserving
// input order. matches must be the aligner output for f's rows.
func WriteCSV(w io.Writer, f *File, matches []align.Match) error {
	if len(matches) != len(f.Rows) {
		return fmt.Errorf("magna: %d matches for %d rows", len(matches), len(f.Rows))
	}

	keep := make([]int, 0, len(f.Header))
	outHeader := make([]string, 0, len(f.Header)+len(enrichmentColumns))
	for i, name := range f.Header {
		if droppedColumns[name] {
			continue
		}
		keep = append(keep, i)
		outHeader = append(outHeader, name)
	}
	outHeader = append(outHeader, enrichmentColumns...)

	cw := csv.NewWriter(w)
	if err := cw.Write(outHeader); err != nil {
		return err
	}

	for i, row := range f.Rows {
		if matches[i].Err != nil {
			continue
		}
		out := make([]string, 0, len(outHeader))
		for _, j := range keep {
			if j < len(row.Fields) {
				out = append(out, row.Fields[j])
			} else {
				out = append(out, "")
			}
		}
		if row.CoordOK {
			out = append(out, formatDeg(row.Lat), formatDeg(row.Lon))
		} else {
			out = append(out, "", "")
		}
		fix := matches[i].Fix
		out = append(out,
			fix.Instant.UTC().Format(instantLayout),
			formatDeg(fix.Lat),
			formatDeg(fix.Lon),
		)
		if err := cw.Write(out); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the enriched dataset to path, creating or truncating it.
func WriteCSVFile(path string, f *File, matches []align.Match) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(fh, f, matches); err != nil {
		fh.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return fh.Close()
}

func formatDeg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
