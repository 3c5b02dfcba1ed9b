package period

import (
	"testing"
	"time"
)

func TestISOWeekRoundTrip(t *testing.T) {
	for year := 2015; year <= 2030; year++ {
		for week := 1; week <= WeeksInYear(year); week++ {
			start := ISOWeekStart(year, week)
			if got := ISOWeekYear(start); got != year {
				t.Fatalf("ISOWeekYear(ISOWeekStart(%d, %d)) = %d", year, week, got)
			}
			if got := ISOWeekNumber(start); got != week {
				t.Fatalf("ISOWeekNumber(ISOWeekStart(%d, %d)) = %d", year, week, got)
			}
			if start.Weekday() != time.Monday {
				t.Fatalf("week start %v is not a Monday", start)
			}
		}
	}
}

func TestISOWeekEndIsSundayNight(t *testing.T) {
	end := ISOWeekEnd(2025, 5)
	if end.Weekday() != time.Sunday {
		t.Fatalf("expected Sunday, got %v", end.Weekday())
	}
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Fatalf("expected 23:59:59, got %v", end)
	}
	if diff := end.Sub(ISOWeekStart(2025, 5)); diff != 7*24*time.Hour-time.Second {
		t.Fatalf("unexpected week span: %v", diff)
	}
}

func TestQuarterDateRangeQ12025(t *testing.T) {
	start, end := QuarterDateRange(2025, 1)
	if !start.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start: %v", start)
	}
	if !end.Equal(time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end: %v", end)
	}
}

func TestFinalWeeksOfQuarterQ12025(t *testing.T) {
	weeks := FinalWeeksOfQuarter(2025, 1)
	if len(weeks) != 1 {
		t.Fatalf("expected a single final week, got %d", len(weeks))
	}
	if weeks[0].WeekNumber != 13 || weeks[0].Year != 2025 {
		t.Fatalf("expected week 13 of 2025, got %+v", weeks[0])
	}
}

func TestWeeksInYear(t *testing.T) {
	cases := map[int]int{
		2015: 53,
		2020: 53,
		2021: 52,
		2024: 52,
		2025: 52,
		2026: 53,
	}
	for year, want := range cases {
		if got := WeeksInYear(year); got != want {
			t.Fatalf("WeeksInYear(%d) = %d, want %d", year, got, want)
		}
	}
}

// Every ISO week of a year must land in exactly one quarter.
func TestQuarterWeekCoverage(t *testing.T) {
	for year := 2015; year <= 2030; year++ {
		seen := map[WeekRef]int{}
		for q := 1; q <= 4; q++ {
			for _, w := range QuarterWeeks(year, q).Weeks {
				seen[w]++
			}
		}

		total := WeeksInYear(year)
		for week := 1; week <= total; week++ {
			ref := WeekRef{Year: year, WeekNumber: week}
			// Boundary weeks of the calendar year can belong to a quarter of
			// the adjacent year; those are counted under that year's sweep.
			th := ISOWeekThursday(year, week)
			if th.Year() != year {
				continue
			}
			if seen[ref] != 1 {
				t.Fatalf("year %d week %d counted %d times across quarters", year, week, seen[ref])
			}
		}
		for ref, n := range seen {
			if n != 1 {
				t.Fatalf("week %+v double-counted (%d)", ref, n)
			}
		}
	}
}

func TestQuarterWeeksBoundaryAssignment(t *testing.T) {
	// Jan 1 2021 is a Friday, so the week of Dec 28 2020 (Thursday Dec 31)
	// belongs to Q4 2020, and Q1 2021 starts at week 1 of 2021.
	q1 := QuarterWeeks(2021, 1)
	if q1.Weeks[0] != (WeekRef{Year: 2021, WeekNumber: 1}) {
		t.Fatalf("Q1 2021 starts at %+v", q1.Weeks[0])
	}
	q4 := QuarterWeeks(2020, 4)
	last := q4.Weeks[len(q4.Weeks)-1]
	if last != (WeekRef{Year: 2020, WeekNumber: 53}) {
		t.Fatalf("Q4 2020 ends at %+v", last)
	}
}

func TestPreviousQuarter(t *testing.T) {
	if y, q := PreviousQuarter(2025, 1); y != 2024 || q != 4 {
		t.Fatalf("PreviousQuarter(2025, 1) = %d Q%d", y, q)
	}
	if y, q := PreviousQuarter(2025, 3); y != 2025 || q != 2 {
		t.Fatalf("PreviousQuarter(2025, 3) = %d Q%d", y, q)
	}
}

func TestWeeksBetween(t *testing.T) {
	if n := WeeksBetween(WeekRef{2025, 5}, WeekRef{2025, 6}); n != 1 {
		t.Fatalf("expected 1 week, got %d", n)
	}
	if n := WeeksBetween(WeekRef{2024, 52}, WeekRef{2025, 2}); n != 2 {
		t.Fatalf("expected 2 weeks across the year boundary, got %d", n)
	}
	if n := WeeksBetween(WeekRef{2025, 6}, WeekRef{2025, 5}); n != -1 {
		t.Fatalf("expected -1 week, got %d", n)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(TimePeriod{Year: 2025, Quarter: 2, WeekNumber: 20}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate(TimePeriod{Year: 2025, Quarter: 5, WeekNumber: 1}); err == nil {
		t.Fatalf("expected quarter range error")
	}
	if err := Validate(TimePeriod{Year: 2025, Quarter: 1, WeekNumber: 53}); err == nil {
		t.Fatalf("expected week range error, 2025 has 52 weeks")
	}
	day := 7
	if err := Validate(TimePeriod{Year: 2025, Quarter: 1, WeekNumber: 1, DayOfWeek: &day}); err == nil {
		t.Fatalf("expected day range error")
	}
}
