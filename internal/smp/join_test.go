package smp

import (
	"testing"
	"time"
)

func TestJoin(t *testing.T) {
	profiles := []Profile{
		{Name: "S23_001.pnt", Instant: time.Date(2023, 3, 21, 14, 0, 0, 0, time.UTC)},
		{Name: "S23_002.pnt", Instant: time.Date(2023, 3, 21, 14, 5, 0, 0, time.UTC)},
	}
	meta := &Metadata{
		Header: []string{"file", "site"},
		Rows: []MetaRow{
			{Cells: []string{"S23_001.pnt", "ridge"}, File: "S23_001.pnt"},
			{Cells: []string{"S23_003.pnt", "valley"}, File: "S23_003.pnt"},
		},
	}

	joined, missing := Join(meta, profiles)

	if len(joined) != 1 || joined[0].Profile.Name != "S23_001.pnt" {
		t.Fatalf("joined = %+v, want only S23_001.pnt", joined)
	}
	if len(missing) != 1 || missing[0] != "S23_003.pnt" {
		t.Fatalf("missing = %v, want [S23_003.pnt]", missing)
	}
}

func TestJoin_RecordNumberKey(t *testing.T) {
	// Operators often log only the record number; it lives in the last
	// eight characters of the instrument's fixed-width filename.
	profiles := []Profile{
		{Name: "S36M0097.pnt"},
		{Name: "S36M0098.pnt"},
	}
	meta := &Metadata{
		Header: []string{"file"},
		Rows: []MetaRow{
			{Cells: []string{"0098"}, File: "0098"},
			{Cells: []string{"0042"}, File: "0042"},
		},
	}

	joined, missing := Join(meta, profiles)
	if len(joined) != 1 || joined[0].Profile.Name != "S36M0098.pnt" {
		t.Fatalf("joined = %+v, want S36M0098.pnt", joined)
	}
	if len(missing) != 1 || missing[0] != "0042" {
		t.Fatalf("missing = %v, want [0042]", missing)
	}
}

func TestJoin_EmptyKeyIsMissing(t *testing.T) {
	meta := &Metadata{
		Header: []string{"file"},
		Rows:   []MetaRow{{Cells: []string{""}, File: ""}},
	}
	joined, missing := Join(meta, []Profile{{Name: "S36M0097.pnt"}})
	if len(joined) != 0 || len(missing) != 1 {
		t.Fatalf("joined=%d missing=%d, want 0/1", len(joined), len(missing))
	}
}

func TestImprovedPath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"measurements.xlsx", "measurements_improved.xlsx"},
		{"/data/smp/records.xlsx", "/data/smp/records_improved.xlsx"},
		{"noext", "noext_improved.xlsx"},
	}
	for _, tc := range cases {
		if got := ImprovedPath(tc.in, "_improved"); got != tc.want {
			t.Fatalf("ImprovedPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
