package magna

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/JulienMeloche/magnaprobe-smp-gps/internal/timeparse"
)

const magnaFixture = `"TOA5","MagnaProbe","CR800","12345","CR800.Std.32","CPU:MagnaProbe.CR8","1234","DepthData"
"TIMESTAMP","RECORD","BattVolts","DepthCm","latitude_a","latitude_b","Longitude_a","Longitude_b","fix_quality","nmbr_satellites","ThisUTCtime"
"2023-12-15 17:11:20",1,12.4,45.2,45,7.40741,-108,7.40741,2,14,"171119"
"2023-12-15 17:11:45",2,12.4,52.1,45,7.40745,-108,7.40745,2,14,"171144"
"2023-12-15 17:12:02",3,12.4,38.9,45,7.40749,-108,7.40749,2,14,"not-a-time"
`

func TestRead(t *testing.T) {
	f, err := Read(strings.NewReader(magnaFixture), 18*time.Second)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if len(f.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want 3", len(f.Rows))
	}

	// 17:11:19 UTC clock + 18 s leap offset.
	want := time.Date(2023, 12, 15, 17, 11, 37, 0, time.UTC)
	if f.Rows[0].Err != nil {
		t.Fatalf("Rows[0].Err = %v", f.Rows[0].Err)
	}
	if !f.Rows[0].Instant.Equal(want) {
		t.Fatalf("Rows[0].Instant = %s, want %s", f.Rows[0].Instant, want)
	}

	if !f.Rows[0].CoordOK {
		t.Fatalf("Rows[0] onboard coordinates should parse")
	}
	wantLat := 45 + 7.40741/60
	wantLon := -(108 + 7.40741/60)
	if d := f.Rows[0].Lat - wantLat; d > 1e-9 || d < -1e-9 {
		t.Fatalf("Rows[0].Lat = %v, want %v", f.Rows[0].Lat, wantLat)
	}
	if d := f.Rows[0].Lon - wantLon; d > 1e-9 || d < -1e-9 {
		t.Fatalf("Rows[0].Lon = %v, want %v", f.Rows[0].Lon, wantLon)
	}

	if !errors.Is(f.Rows[2].Err, timeparse.ErrMalformedTimestamp) {
		t.Fatalf("Rows[2].Err = %v, want ErrMalformedTimestamp", f.Rows[2].Err)
	}
}

func TestRead_MissingRequiredColumn(t *testing.T) {
	in := `"TOA5","MagnaProbe"
"TIMESTAMP","RECORD","DepthCm"
"2023-12-15 17:11:20",1,45.2
`
	if _, err := Read(strings.NewReader(in), 0); err == nil {
		t.Fatalf("expected error for missing ThisUTCtime column")
	}
}

func TestRead_UnitsRowBecomesSkip(t *testing.T) {
	in := `"TOA5","MagnaProbe"
"TIMESTAMP","RECORD","ThisUTCtime"
"TS","RN","hhmmss"
"2023-12-15 17:11:20",1,"171119"
`
	f, err := Read(strings.NewReader(in), 0)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if len(f.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(f.Rows))
	}
	if !errors.Is(f.Rows[0].Err, timeparse.ErrMalformedTimestamp) {
		t.Fatalf("units row Err = %v, want ErrMalformedTimestamp", f.Rows[0].Err)
	}
	if f.Rows[1].Err != nil {
		t.Fatalf("data row Err = %v", f.Rows[1].Err)
	}
}

func TestMeasurements_KeysAndOrder(t *testing.T) {
	f, err := Read(strings.NewReader(magnaFixture), 0)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	ms := f.Measurements()
	if len(ms) != 3 {
		t.Fatalf("len(ms) = %d, want 3", len(ms))
	}
	if ms[0].Key != "line 3" || ms[2].Key != "line 5" {
		t.Fatalf("keys = %q, %q, %q", ms[0].Key, ms[1].Key, ms[2].Key)
	}
	if ms[2].Err == nil {
		t.Fatalf("ms[2] should carry the malformed timestamp")
	}
}
