package period

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

func TestStart(t *testing.T) {
	now := date(2024, time.March, 13, 15, 4, 5) // a Wednesday

	tests := []struct {
		name   string
		period Type
		want   time.Time
	}{
		{"daily truncates to midnight", TypeDaily, date(2024, time.March, 13, 0, 0, 0)},
		{"weekly goes back to Sunday", TypeWeekly, date(2024, time.March, 10, 0, 0, 0)},
		{"monthly goes to first of month", TypeMonthly, date(2024, time.March, 1, 0, 0, 0)},
		{"yearly goes to January first", TypeYearly, date(2024, time.January, 1, 0, 0, 0)},
		{"unknown kind falls back to daily", Type("fortnightly"), date(2024, time.March, 13, 0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Start(tt.period, now)
			if !got.Equal(tt.want) {
				t.Errorf("Start(%s) = %v, want %v", tt.period, got, tt.want)
			}
		})
	}
}

func TestStartOnSunday(t *testing.T) {
	sunday := date(2024, time.March, 10, 23, 59, 59)
	got := Start(TypeWeekly, sunday)
	want := date(2024, time.March, 10, 0, 0, 0)
	if !got.Equal(want) {
		t.Errorf("Start(weekly) on a Sunday = %v, want same day midnight %v", got, want)
	}
}

func TestEnd(t *testing.T) {
	tests := []struct {
		name   string
		period Type
		start  time.Time
		want   time.Time
	}{
		{
			"daily ends one millisecond before next day",
			TypeDaily,
			date(2024, time.March, 13, 0, 0, 0),
			date(2024, time.March, 14, 0, 0, 0).Add(-time.Millisecond),
		},
		{
			"weekly ends one millisecond before next Sunday",
			TypeWeekly,
			date(2024, time.March, 10, 0, 0, 0),
			date(2024, time.March, 17, 0, 0, 0).Add(-time.Millisecond),
		},
		{
			"monthly ends at last instant of month",
			TypeMonthly,
			date(2024, time.February, 1, 0, 0, 0),
			date(2024, time.March, 1, 0, 0, 0).Add(-time.Millisecond),
		},
		{
			"yearly ends at last instant of December",
			TypeYearly,
			date(2024, time.January, 1, 0, 0, 0),
			date(2025, time.January, 1, 0, 0, 0).Add(-time.Millisecond),
		},
		{
			"unknown kind gets the daily window",
			Type("biweekly"),
			date(2024, time.March, 13, 0, 0, 0),
			date(2024, time.March, 14, 0, 0, 0).Add(-time.Millisecond),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := End(tt.period, tt.start)
			if !got.Equal(tt.want) {
				t.Errorf("End(%s, %v) = %v, want %v", tt.period, tt.start, got, tt.want)
			}
		})
	}
}

func TestBoundsContainReference(t *testing.T) {
	// For every period kind, Start(p, t) <= t <= End(p, Start(p, t)).
	instants := []time.Time{
		date(2024, time.January, 1, 0, 0, 0),
		date(2024, time.February, 29, 12, 30, 0), // leap day
		date(2024, time.December, 31, 23, 59, 59),
		date(2023, time.July, 9, 0, 0, 0), // a Sunday
	}
	kinds := []Type{TypeDaily, TypeWeekly, TypeMonthly, TypeYearly}

	for _, now := range instants {
		for _, p := range kinds {
			start, end := Bounds(p, now)
			if start.After(now) {
				t.Errorf("Bounds(%s, %v): start %v is after reference", p, now, start)
			}
			if end.Before(now) {
				t.Errorf("Bounds(%s, %v): end %v is before reference", p, now, end)
			}
		}
	}
}

func TestShouldReset(t *testing.T) {
	tests := []struct {
		name   string
		period Type
		start  time.Time
		now    time.Time
		want   bool
	}{
		{"daily same day", TypeDaily, date(2024, time.March, 13, 0, 0, 0), date(2024, time.March, 13, 23, 59, 59), false},
		{"daily next day", TypeDaily, date(2024, time.March, 13, 0, 0, 0), date(2024, time.March, 14, 0, 0, 0), true},
		{"monthly same month", TypeMonthly, date(2024, time.March, 1, 0, 0, 0), date(2024, time.March, 31, 23, 0, 0), false},
		{"monthly next month", TypeMonthly, date(2024, time.March, 1, 0, 0, 0), date(2024, time.April, 1, 0, 0, 0), true},
		{"monthly same month next year", TypeMonthly, date(2024, time.March, 1, 0, 0, 0), date(2025, time.March, 2, 0, 0, 0), true},
		{"yearly same year", TypeYearly, date(2024, time.January, 1, 0, 0, 0), date(2024, time.December, 31, 23, 59, 59), false},
		{"yearly next year", TypeYearly, date(2024, time.January, 1, 0, 0, 0), date(2025, time.January, 1, 0, 0, 0), true},
		{"unknown kind uses daily comparison", Type("quarterly"), date(2024, time.March, 13, 0, 0, 0), date(2024, time.March, 14, 0, 0, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldReset(tt.period, tt.start, tt.now)
			if got != tt.want {
				t.Errorf("ShouldReset(%s, %v, %v) = %v, want %v", tt.period, tt.start, tt.now, got, tt.want)
			}
		})
	}
}

func TestShouldResetWeeklyBoundary(t *testing.T) {
	// Weekly rollover is elapsed-time based, not calendar aligned: a budget
	// started on a Monday rolls exactly 7*24h later, to the millisecond.
	start := date(2024, time.March, 11, 9, 30, 0) // Monday morning
	boundary := start.Add(7 * 24 * time.Hour)

	t.Run("one millisecond before a full week", func(t *testing.T) {
		if ShouldReset(TypeWeekly, start, boundary.Add(-time.Millisecond)) {
			t.Error("expected no reset at 7*24h - 1ms")
		}
	})

	t.Run("exactly one full week", func(t *testing.T) {
		if !ShouldReset(TypeWeekly, start, boundary) {
			t.Error("expected reset at exactly 7*24h")
		}
	})

	t.Run("crossing a calendar Sunday alone does not reset", func(t *testing.T) {
		sunday := date(2024, time.March, 17, 12, 0, 0)
		if ShouldReset(TypeWeekly, start, sunday) {
			t.Error("expected no reset before a full elapsed week, even past Sunday")
		}
	})
}

func TestParse(t *testing.T) {
	for _, valid := range []string{"daily", "weekly", "monthly", "yearly"} {
		p, err := Parse(valid)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", valid, err)
		}
		if string(p) != valid {
			t.Errorf("Parse(%q) = %q", valid, p)
		}
	}

	if _, err := Parse("fortnightly"); err == nil {
		t.Error("Parse should reject unknown period kinds")
	}
}
