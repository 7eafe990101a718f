package smp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JulienMeloche/magnaprobe-smp-gps/internal/align"
)

// Columns appended to the manual-measurement columns. timestamp_utc is the
// matched fix's instant so consumers can audit match quality.
var improvedColumns = []string{"name", "timestamp", "lat_smp", "lon_smp", "timestamp_utc", "lat_emlid", "lon_emlid"}

const instantLayout = "2006-01-02 15:04:05.000"

// ImprovedPath derives the output workbook path from the input path:
// measurements.xlsx -> measurements_improved.xlsx.
func ImprovedPath(path, suffix string) string {
	const ext = ".xlsx"
	base := strings.TrimSuffix(path, ext)
	return base + suffix + ext
}

// WriteImproved writes the corrected workbook: the original columns of every
// joined-and-matched row plus the profile identity and both position sources.
// joined and matches must be aligned element-for-element.
func WriteImproved(path string, header []string, joined []Joined, matches []align.Match) error {
	if len(matches) != len(joined) {
		return fmt.Errorf("smp: %d matches for %d joined rows", len(matches), len(joined))
	}

	wb := excelize.NewFile()
	defer wb.Close()
	sheet := wb.GetSheetName(0)

	outHeader := make([]interface{}, 0, len(header)+len(improvedColumns))
	for _, h := range header {
		outHeader = append(outHeader, h)
	}
	for _, h := range improvedColumns {
		outHeader = append(outHeader, h)
	}
	if err := wb.SetSheetRow(sheet, "A1", &outHeader); err != nil {
		return err
	}

	rowNo := 2
	for i, j := range joined {
		if matches[i].Err != nil {
			continue
		}

		out := make([]interface{}, 0, len(outHeader))
		for k := 0; k < len(header); k++ {
			if k < len(j.Meta.Cells) {
				out = append(out, j.Meta.Cells[k])
			} else {
				out = append(out, "")
			}
		}
		out = append(out, j.Profile.Name, j.Profile.Instant.UTC().Format(instantLayout))
		if j.Profile.CoordOK {
			out = append(out, j.Profile.Lat, j.Profile.Lon)
		} else {
			out = append(out, "", "")
		}
		fix := matches[i].Fix
		out = append(out, fix.Instant.UTC().Format(instantLayout), fix.Lat, fix.Lon)

		cell := "A" + strconv.Itoa(rowNo)
		if err := wb.SetSheetRow(sheet, cell, &out); err != nil {
			return err
		}
		rowNo++
	}

	return wb.SaveAs(path)
}

// Measurements adapts joined rows for the aligner, keyed by profile name.
func Measurements(joined []Joined) []align.Measurement {
	ms := make([]align.Measurement, 0, len(joined))
	for _, j := range joined {
		ms = append(ms, align.Measurement{Key: j.Profile.Name, Instant: j.Profile.Instant})
	}
	return ms
}
