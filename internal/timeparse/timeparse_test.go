package timeparse

import (
	"errors"
	"testing"
	"time"
)

func TestCombineClock(t *testing.T) {
	companion := time.Date(2023, 12, 15, 17, 11, 20, 0, time.UTC)

	cases := []struct {
		name      string
		companion time.Time
		clock     string
		want      time.Time
		wantErr   bool
	}{
		{
			name:      "same day",
			companion: companion,
			clock:     "171119",
			want:      time.Date(2023, 12, 15, 17, 11, 19, 0, time.UTC),
		},
		{
			name:      "leading zero stripped by writer",
			companion: time.Date(2023, 12, 15, 7, 11, 20, 0, time.UTC),
			clock:     "71119",
			want:      time.Date(2023, 12, 15, 7, 11, 19, 0, time.UTC),
		},
		{
			name:      "clock rolled past midnight, companion still on previous day",
			companion: time.Date(2023, 12, 15, 23, 59, 55, 0, time.UTC),
			clock:     "000010",
			want:      time.Date(2023, 12, 16, 0, 0, 10, 0, time.UTC),
		},
		{
			name:      "companion already on next day, clock still before midnight",
			companion: time.Date(2023, 12, 16, 0, 0, 5, 0, time.UTC),
			clock:     "235950",
			want:      time.Date(2023, 12, 15, 23, 59, 50, 0, time.UTC),
		},
		{
			name:      "empty clock",
			companion: companion,
			clock:     "",
			wantErr:   true,
		},
		{
			name:      "non-numeric clock",
			companion: companion,
			clock:     "hhmmss",
			wantErr:   true,
		},
		{
			name:      "hour out of range",
			companion: companion,
			clock:     "241119",
			wantErr:   true,
		},
		{
			name:      "too many digits",
			companion: companion,
			clock:     "1711190",
			wantErr:   true,
		},
		{
			name:    "missing companion date",
			clock:   "171119",
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CombineClock(tc.companion, tc.clock)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("CombineClock(%q) expected error", tc.clock)
				}
				if !errors.Is(err, ErrMalformedTimestamp) {
					t.Fatalf("CombineClock(%q) error = %v, want ErrMalformedTimestamp", tc.clock, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CombineClock(%q) error: %v", tc.clock, err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("CombineClock(%q) = %s, want %s", tc.clock, got, tc.want)
			}
		})
	}
}

func TestParseDateClock(t *testing.T) {
	cases := []struct {
		date, clock string
		want        time.Time
		wantErr     bool
	}{
		{
			date: "2023/12/15", clock: "17:11:19.200",
			want: time.Date(2023, 12, 15, 17, 11, 19, 200_000_000, time.UTC),
		},
		{
			date: "2023-12-15", clock: "17:11:19",
			want: time.Date(2023, 12, 15, 17, 11, 19, 0, time.UTC),
		},
		{
			date: "2023-12-15", clock: "17:11:19.25",
			want: time.Date(2023, 12, 15, 17, 11, 19, 250_000_000, time.UTC),
		},
		{date: "15/12/2023", clock: "17:11:19", wantErr: true},
		{date: "2023-12-15", clock: "not-a-time", wantErr: true},
		{date: "", clock: "", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseDateClock(tc.date, tc.clock)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseDateClock(%q, %q) expected error", tc.date, tc.clock)
			}
			if !errors.Is(err, ErrMalformedTimestamp) {
				t.Fatalf("ParseDateClock(%q, %q) error = %v, want ErrMalformedTimestamp", tc.date, tc.clock, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseDateClock(%q, %q) error: %v", tc.date, tc.clock, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseDateClock(%q, %q) = %s, want %s", tc.date, tc.clock, got, tc.want)
		}
	}
}
