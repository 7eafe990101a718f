// Package smp handles Snow Micro Penetrometer profiles: reading the binary
// .pnt header for its timestamp and onboard coordinates, joining profiles
// against a manual-measurement workbook, and writing the position-corrected
// workbook back out.
package smp

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/JulienMeloche/magnaprobe-smp-gps/internal/timeparse"
)

// PNT header layout: a fixed-size big-endian block in front of the force
// samples. Only the acquisition timestamp and the WGS84 position are read;
// everything else is left to the instrument's own tooling.
const (
	pntHeaderLen = 512

	offTimestampYear   = 20 // int16
	offTimestampMonth  = 22 // int16
	offTimestampDay    = 24 // int16
	offTimestampHour   = 26 // int16
	offTimestampMinute = 28 // int16
	offTimestampSecond = 30 // int16
	offLatitude        = 32 // float64, WGS84 decimal degrees
	offLongitude       = 40 // float64, WGS84 decimal degrees
)

// Profile is the header-level view of one .pnt file.
type Profile struct {
	// Name is the base filename, the key used to join against the
	// measurement workbook.
	Name    string
	Instant time.Time

	// Onboard GPS position. Not every profile carries one.
	Lat, Lon float64
	CoordOK  bool
}

// ReadProfile reads the header of one .pnt file. The leap offset shifts the
// instrument's UTC clock onto the GPS clock, like the Magnaprobe path.
func ReadProfile(path string, leap time.Duration) (Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, err
	}
	if len(raw) < pntHeaderLen {
		return Profile{}, fmt.Errorf("smp: %s: header truncated at %d bytes", path, len(raw))
	}

	year := int(int16(binary.BigEndian.Uint16(raw[offTimestampYear:])))
	month := int(int16(binary.BigEndian.Uint16(raw[offTimestampMonth:])))
	day := int(int16(binary.BigEndian.Uint16(raw[offTimestampDay:])))
	hour := int(int16(binary.BigEndian.Uint16(raw[offTimestampHour:])))
	minute := int(int16(binary.BigEndian.Uint16(raw[offTimestampMinute:])))
	second := int(int16(binary.BigEndian.Uint16(raw[offTimestampSecond:])))

	if year < 1990 || year > 2100 || month < 1 || month > 12 || day < 1 || day > 31 ||
		hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 60 {
		return Profile{}, fmt.Errorf("smp: %s: header timestamp %04d-%02d-%02d %02d:%02d:%02d: %w",
			path, year, month, day, hour, minute, second, timeparse.ErrMalformedTimestamp)
	}

	p := Profile{
		Name:    filepath.Base(path),
		Instant: time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC).Add(leap),
	}

	lat := math.Float64frombits(binary.BigEndian.Uint64(raw[offLatitude:]))
	lon := math.Float64frombits(binary.BigEndian.Uint64(raw[offLongitude:]))
	if !math.IsNaN(lat) && !math.IsNaN(lon) && (lat != 0 || lon != 0) &&
		lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180 {
		p.Lat, p.Lon, p.CoordOK = lat, lon, true
	}
	return p, nil
}

// ScanDir reads every .pnt/.PNT profile in dir, sorted by filename for a
// deterministic run. A directory with no profiles is an error: it almost
// always means the wrong directory was passed.
func ScanDir(dir string, leap time.Duration) ([]Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pnt") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, fmt.Errorf("smp: no .pnt profiles in %s", dir)
	}

	profiles := make([]Profile, 0, len(names))
	for _, name := range names {
		p, err := ReadProfile(filepath.Join(dir, name), leap)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
