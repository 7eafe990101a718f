package smp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnjoinableRecord reports a workbook row whose file key matches no
// profile on disk. Per-record: the row is excluded and reported, the run
// continues.
var ErrUnjoinableRecord = errors.New("no matching profile for record")

// Metadata is the manual-measurement workbook, fully loaded.
type Metadata struct {
	Header []string
	Rows   []MetaRow
}

// MetaRow is one workbook row. Cells holds the full original row so the
// improved workbook can carry every manual column through unchanged.
type MetaRow struct {
	Cells []string
	File  string
}

// ReadMetadata loads the measurement workbook. sheet may be empty to use the
// workbook's first sheet. A `file` column is required: it keys each row to a
// profile filename.
func ReadMetadata(path, sheet string) (*Metadata, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("smp: opening workbook %s: %w", path, err)
	}
	defer wb.Close()

	if sheet == "" {
		sheet = wb.GetSheetName(0)
	}
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("smp: reading sheet %q of %s: %w", sheet, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("smp: sheet %q of %s is empty", sheet, path)
	}

	header := rows[0]
	fileIdx := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "file") {
			fileIdx = i
			break
		}
	}
	if fileIdx < 0 {
		return nil, fmt.Errorf("smp: sheet %q of %s has no file column", sheet, path)
	}

	m := &Metadata{Header: header}
	for _, cells := range rows[1:] {
		var file string
		if fileIdx < len(cells) {
			file = strings.TrimSpace(cells[fileIdx])
		}
		if file == "" && rowEmpty(cells) {
			continue
		}
		m.Rows = append(m.Rows, MetaRow{Cells: cells, File: file})
	}
	return m, nil
}

func rowEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
