package civil

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year != 2025 || d.Month != time.March || d.Day != 10 {
		t.Errorf("got %v", d)
	}
	if d.String() != "2025-03-10" {
		t.Errorf("round trip got %q", d.String())
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, s := range []string{"", "2025-3-10", "10-03-2025", "2025/03/10", "2025-02-30", "not-a-date"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestDate_Weekday(t *testing.T) {
	cases := []struct {
		date string
		want int
	}{
		{"2025-03-10", 1}, // Monday
		{"2025-03-11", 2},
		{"2025-03-14", 5},
		{"2025-03-15", 6},
		{"2025-03-16", 7}, // Sunday
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.date)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.date, err)
		}
		if got := d.Weekday(); got != tc.want {
			t.Errorf("%s: weekday = %d, want %d", tc.date, got, tc.want)
		}
	}
}

func TestDate_Before(t *testing.T) {
	a, _ := ParseDate("2025-03-10")
	b, _ := ParseDate("2025-03-11")
	c, _ := ParseDate("2024-12-31")
	if !a.Before(b) {
		t.Error("expected a before b")
	}
	if b.Before(a) {
		t.Error("did not expect b before a")
	}
	if a.Before(a) {
		t.Error("date should not be before itself")
	}
	if !c.Before(a) {
		t.Error("expected earlier year to sort first")
	}
}

func TestDateOf(t *testing.T) {
	now := time.Date(2025, time.June, 1, 23, 59, 0, 0, time.FixedZone("X", 3600))
	d := DateOf(now)
	if d.String() != "2025-06-01" {
		t.Errorf("got %s", d)
	}
}

func TestParseTime(t *testing.T) {
	tod, err := ParseTime("09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tod.Hour != 9 || tod.Minute != 30 {
		t.Errorf("got %v", tod)
	}
	if tod.Minutes() != 570 {
		t.Errorf("minutes = %d", tod.Minutes())
	}
	if tod.String() != "09:30" {
		t.Errorf("round trip got %q", tod.String())
	}
}

func TestParseTime_Invalid(t *testing.T) {
	for _, s := range []string{"", "9:30", "24:00", "12:60", "12-30", "midnight"} {
		if _, err := ParseTime(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestTimeOfDay_InRange(t *testing.T) {
	start, _ := ParseTime("09:00")
	end, _ := ParseTime("17:00")

	cases := []struct {
		at   string
		want bool
	}{
		{"09:00", true},  // start inclusive
		{"16:59", true},
		{"17:00", false}, // end exclusive
		{"08:59", false},
		{"23:00", false},
	}
	for _, tc := range cases {
		at, _ := ParseTime(tc.at)
		if got := at.InRange(start, end); got != tc.want {
			t.Errorf("%s in [09:00,17:00): got %v, want %v", tc.at, got, tc.want)
		}
	}
}

func TestTimeOfDay_InRange_Degenerate(t *testing.T) {
	at, _ := ParseTime("10:00")
	start, _ := ParseTime("17:00")
	end, _ := ParseTime("09:00")
	if at.InRange(start, end) {
		t.Error("inverted range must never match")
	}
	if at.InRange(start, start) {
		t.Error("empty range must never match")
	}
}
