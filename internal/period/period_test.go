package period

import (
	"testing"
	"time"
)

var msk = time.FixedZone("MSK", 3*60*60)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, msk)
}

func endOf(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), msk)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		period   string
		now      time.Time
		wantFrom time.Time
		wantTo   time.Time
	}{
		{"today", Today, at(2024, time.March, 13, 15, 4), at(2024, time.March, 13, 0, 0), endOf(2024, time.March, 13)},
		{"yesterday", Yesterday, at(2024, time.March, 13, 15, 4), at(2024, time.March, 12, 0, 0), endOf(2024, time.March, 12)},
		{"yesterday across year", Yesterday, at(2025, time.January, 1, 0, 0), at(2024, time.December, 31, 0, 0), endOf(2024, time.December, 31)},
		{"week from wednesday", Week, at(2024, time.March, 13, 15, 4), at(2024, time.March, 11, 0, 0), endOf(2024, time.March, 17)},
		{"week from monday", Week, at(2024, time.March, 11, 0, 0), at(2024, time.March, 11, 0, 0), endOf(2024, time.March, 17)},
		{"week from sunday", Week, at(2024, time.March, 17, 23, 59), at(2024, time.March, 11, 0, 0), endOf(2024, time.March, 17)},
		{"lastweek from sunday", LastWeek, at(2024, time.March, 17, 12, 0), at(2024, time.March, 4, 0, 0), endOf(2024, time.March, 10)},
		{"lastweek across year", LastWeek, at(2025, time.January, 2, 8, 0), at(2024, time.December, 23, 0, 0), endOf(2024, time.December, 29)},
		{"week across year", Week, at(2025, time.January, 2, 8, 0), at(2024, time.December, 30, 0, 0), endOf(2025, time.January, 5)},
		{"month leap february", Month, at(2024, time.February, 10, 9, 0), at(2024, time.February, 1, 0, 0), endOf(2024, time.February, 29)},
		{"month february", Month, at(2023, time.February, 28, 23, 0), at(2023, time.February, 1, 0, 0), endOf(2023, time.February, 28)},
		{"month december", Month, at(2024, time.December, 31, 23, 59), at(2024, time.December, 1, 0, 0), endOf(2024, time.December, 31)},
		{"lastmonth from january", LastMonth, at(2025, time.January, 15, 10, 0), at(2024, time.December, 1, 0, 0), endOf(2024, time.December, 31)},
		{"lastmonth from march 31", LastMonth, at(2024, time.March, 31, 10, 0), at(2024, time.February, 1, 0, 0), endOf(2024, time.February, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, ok := Resolve(tt.period, tt.now)
			if !ok {
				t.Fatalf("Resolve(%q) not ok", tt.period)
			}
			if !iv.From.Equal(tt.wantFrom) || !iv.To.Equal(tt.wantTo) {
				t.Fatalf("got [%v, %v], want [%v, %v]", iv.From, iv.To, tt.wantFrom, tt.wantTo)
			}
			current := tt.period == Today || tt.period == Week || tt.period == Month
			if iv.Contains(tt.now) != current {
				t.Fatalf("Contains(now) = %v, want %v", iv.Contains(tt.now), current)
			}
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	for _, name := range []string{"", "Today", "fortnight", "tasks_today"} {
		if _, ok := Resolve(name, time.Now()); ok {
			t.Errorf("Resolve(%q) should not resolve", name)
		}
	}
}

func TestDurations(t *testing.T) {
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, msk)
	for h := 0; h < 2*366*24; h += 7 {
		now := start.Add(time.Duration(h) * time.Hour)
		for _, name := range Names() {
			iv, ok := Resolve(name, now)
			if !ok {
				t.Fatalf("Resolve(%q) not ok", name)
			}
			if iv.From.After(iv.To) {
				t.Fatalf("%s at %v: from after to", name, now)
			}
			got := iv.To.Sub(iv.From) + time.Millisecond
			var want time.Duration
			switch name {
			case Today, Yesterday:
				want = 24 * time.Hour
			case Week, LastWeek:
				want = 7 * 24 * time.Hour
			case Month, LastMonth:
				days := time.Date(iv.From.Year(), iv.From.Month()+1, 0, 0, 0, 0, 0, msk).Day()
				want = time.Duration(days) * 24 * time.Hour
			}
			if got != want {
				t.Fatalf("%s at %v: duration %v, want %v", name, now, got, want)
			}
			if iv.From.Hour() != 0 || iv.From.Minute() != 0 || iv.From.Day() < 1 {
				t.Fatalf("%s at %v: from %v is not a day start", name, now, iv.From)
			}
		}
	}
}

func TestWeekAndLastWeekAreContiguous(t *testing.T) {
	start := time.Date(2024, time.December, 20, 13, 0, 0, 0, msk)
	for d := 0; d < 21; d++ {
		now := start.AddDate(0, 0, d)
		week, _ := Resolve(Week, now)
		last, _ := Resolve(LastWeek, now)

		if week.From.Weekday() != time.Monday || last.From.Weekday() != time.Monday {
			t.Fatalf("%v: weeks must start on Monday: %v, %v", now, week.From, last.From)
		}
		if week.To.Weekday() != time.Sunday || last.To.Weekday() != time.Sunday {
			t.Fatalf("%v: weeks must end on Sunday: %v, %v", now, week.To, last.To)
		}
		if !last.To.Add(time.Millisecond).Equal(week.From) {
			t.Fatalf("%v: lastweek %v does not abut week %v", now, last.To, week.From)
		}
		if last.Contains(week.From) || week.Contains(last.To) {
			t.Fatalf("%v: weeks overlap", now)
		}
	}
}

func TestMonthBoundsMatchCalendar(t *testing.T) {
	cases := map[time.Month]int{
		time.January: 31, time.February: 29, time.April: 30, time.June: 30, time.December: 31,
	}
	for m, days := range cases {
		iv, _ := Resolve(Month, at(2024, m, 15, 12, 0))
		if iv.To.Day() != days || iv.To.Month() != m {
			t.Errorf("%v: last day %v, want %d", m, iv.To, days)
		}
	}
}

func TestNamesIsACopy(t *testing.T) {
	n := Names()
	n[0] = "mutated"
	if Names()[0] != Today {
		t.Fatal("Names exposed its backing array")
	}
}
