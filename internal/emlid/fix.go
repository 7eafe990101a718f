// Package emlid parses post-processed receiver position files (PPK and PPP
// dialects) into an immutable, time-sorted track of GPS fixes and answers
// nearest-instant queries against it.
package emlid

import "time"

// Fix is one resolved GPS observation. Coordinates are WGS84 decimal degrees.
// Height, Quality and Satellites are present only when the dialect carries
// them.
type Fix struct {
	Instant    time.Time
	Lat        float64
	Lon        float64
	Height     *float64
	Quality    *int
	Satellites *int
}

// DMSToDecimal converts a degrees/minutes/seconds coordinate to decimal
// degrees. The sign is carried by the degrees field, as in CSRS-PPP output;
// minutes and seconds are magnitudes.
func DMSToDecimal(deg, min, sec float64) float64 {
	dec := abs(deg) + min/60 + sec/3600
	if deg < 0 {
		return -dec
	}
	return dec
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
