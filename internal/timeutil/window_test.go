package timeutil

import (
	"testing"
	"time"
)

func TestYesterdayRange(t *testing.T) {
	t.Parallel()

	dubai, err := time.LoadLocation("Asia/Dubai")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	cases := []struct {
		name      string
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "mid month",
			now:       time.Date(2025, time.August, 31, 6, 30, 0, 0, dubai),
			wantStart: time.Date(2025, time.August, 30, 0, 0, 0, 0, dubai),
			wantEnd:   time.Date(2025, time.August, 30, 23, 59, 59, 0, dubai),
		},
		{
			name:      "first of month",
			now:       time.Date(2025, time.March, 1, 0, 5, 0, 0, dubai),
			wantStart: time.Date(2025, time.February, 28, 0, 0, 0, 0, dubai),
			wantEnd:   time.Date(2025, time.February, 28, 23, 59, 59, 0, dubai),
		},
		{
			name:      "new year",
			now:       time.Date(2026, time.January, 1, 23, 59, 59, 0, dubai),
			wantStart: time.Date(2025, time.December, 31, 0, 0, 0, 0, dubai),
			wantEnd:   time.Date(2025, time.December, 31, 23, 59, 59, 0, dubai),
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			start, end := YesterdayRange(tc.now)
			if !start.Equal(tc.wantStart) {
				t.Errorf("start = %v, want %v", start, tc.wantStart)
			}
			if !end.Equal(tc.wantEnd) {
				t.Errorf("end = %v, want %v", end, tc.wantEnd)
			}
			if !start.Before(end) {
				t.Errorf("start %v is not before end %v", start, end)
			}
			if start.Location() != tc.now.Location() {
				t.Errorf("start location = %v, want %v", start.Location(), tc.now.Location())
			}
		})
	}
}
