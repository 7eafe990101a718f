package emlid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/JulienMeloche/magnaprobe-smp-gps/internal/timeparse"
)

// ErrUnrecognizedFormat reports a position file whose header or column shape
// does not match the selected dialect. Fatal to the run: it means the wrong
// correction mode was selected or the file is corrupt.
var ErrUnrecognizedFormat = errors.New("unrecognized position file format")

// Correction mode strings accepted on the command surface. Anything else is
// rejected before the engine runs.
const (
	ModePPK = "PPK_correction"
	ModePPP = "PPP_correction"
)

// Dialect selects one receiver position file format. It is chosen once by the
// caller at track-build time, never auto-detected.
type Dialect int

const (
	// PPK is RTKLIB-style post-processed kinematic output: 9 header lines,
	// then space-separated columns `date time lat lon height Q ns ...` with
	// decimal-degree coordinates.
	PPK Dialect = iota
	// PPP is CSRS-style precise point positioning output: 3 header lines,
	// a column-name row, then whitespace-separated columns with separate
	// date/time tokens and DMS-encoded coordinates.
	PPP
)

// ParseDialect maps a correction-mode argument to its dialect.
func ParseDialect(mode string) (Dialect, error) {
	switch mode {
	case ModePPK:
		return PPK, nil
	case ModePPP:
		return PPP, nil
	default:
		return 0, fmt.Errorf("emlid: unknown correction mode %q (want %q or %q)", mode, ModePPK, ModePPP)
	}
}

func (d Dialect) String() string {
	switch d {
	case PPK:
		return "PPK"
	case PPP:
		return "PPP"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// headerLines is the fixed number of lines before data (for PPP, before the
// column-name row) in each dialect.
func (d Dialect) headerLines() int {
	if d == PPP {
		return 3
	}
	return 9
}

// parsePPKLine parses one RTKLIB .pos data line:
//
//	2023/12/15 17:11:19.200  45.123456789 -108.123456789  1012.3  1  14 ...
func parsePPKLine(line string) (Fix, error) {
	f := strings.Fields(line)
	if len(f) < 7 {
		return Fix{}, fmt.Errorf("emlid: ppk line has %d fields, want at least 7: %w", len(f), ErrUnrecognizedFormat)
	}

	instant, err := timeparse.ParseDateClock(f[0], f[1])
	if err != nil {
		return Fix{}, fmt.Errorf("emlid: ppk line: %w", err)
	}
	lat, err := strconv.ParseFloat(f[2], 64)
	if err != nil {
		return Fix{}, fmt.Errorf("emlid: ppk latitude %q: %w", f[2], ErrUnrecognizedFormat)
	}
	lon, err := strconv.ParseFloat(f[3], 64)
	if err != nil {
		return Fix{}, fmt.Errorf("emlid: ppk longitude %q: %w", f[3], ErrUnrecognizedFormat)
	}

	fix := Fix{Instant: instant, Lat: lat, Lon: lon}
	if h, err := strconv.ParseFloat(f[4], 64); err == nil {
		fix.Height = &h
	}
	if q, err := strconv.Atoi(f[5]); err == nil {
		fix.Quality = &q
	}
	if ns, err := strconv.Atoi(f[6]); err == nil {
		fix.Satellites = &ns
	}
	return fix, nil
}

// pppColumns holds the indices of the columns the PPP dialect needs, located
// by name in the file's column row.
type pppColumns struct {
	date, clock            int
	latDeg, latMin, latSec int
	lonDeg, lonMin, lonSec int
	minFields              int
}

var pppRequired = []string{
	"YEAR-MM-DD", "HR:MN:SS.SS",
	"LATDD", "LATMN", "LATSS",
	"LONDD", "LONMN", "LONSS",
}

// locatePPPColumns resolves the required column names against the column row
// that follows the PPP header lines.
func locatePPPColumns(columnRow string) (pppColumns, error) {
	names := strings.Fields(columnRow)
	idx := make(map[string]int, len(names))
	for i, n := range names {
		idx[n] = i
	}

	pos := make([]int, len(pppRequired))
	maxIdx := 0
	for i, name := range pppRequired {
		j, ok := idx[name]
		if !ok {
			return pppColumns{}, fmt.Errorf("emlid: ppp column row missing %q: %w", name, ErrUnrecognizedFormat)
		}
		pos[i] = j
		if j > maxIdx {
			maxIdx = j
		}
	}

	return pppColumns{
		date: pos[0], clock: pos[1],
		latDeg: pos[2], latMin: pos[3], latSec: pos[4],
		lonDeg: pos[5], lonMin: pos[6], lonSec: pos[7],
		minFields: maxIdx + 1,
	}, nil
}

// parsePPPLine parses one CSRS .pos data line using the located columns.
func parsePPPLine(line string, cols pppColumns) (Fix, error) {
	f := strings.Fields(line)
	if len(f) < cols.minFields {
		return Fix{}, fmt.Errorf("emlid: ppp line has %d fields, want at least %d: %w", len(f), cols.minFields, ErrUnrecognizedFormat)
	}

	instant, err := timeparse.ParseDateClock(f[cols.date], f[cols.clock])
	if err != nil {
		return Fix{}, fmt.Errorf("emlid: ppp line: %w", err)
	}

	dms := make([]float64, 6)
	for i, j := range []int{cols.latDeg, cols.latMin, cols.latSec, cols.lonDeg, cols.lonMin, cols.lonSec} {
		v, err := strconv.ParseFloat(f[j], 64)
		if err != nil {
			return Fix{}, fmt.Errorf("emlid: ppp coordinate %q: %w", f[j], ErrUnrecognizedFormat)
		}
		dms[i] = v
	}

	return Fix{
		Instant: instant,
		Lat:     DMSToDecimal(dms[0], dms[1], dms[2]),
		Lon:     DMSToDecimal(dms[3], dms[4], dms[5]),
	}, nil
}
