// Package period implements the ISO week / calendar quarter arithmetic the
// carryover engines are built on. Everything here is pure: no clocks, no
// storage, UTC only.
//
// The one rule all of this hangs on: an ISO week belongs to the year that
// contains its Thursday. Quarters are calendar-month quarters (Q1 = Jan-Mar),
// so a week straddling a quarter boundary is assigned to whichever quarter
// contains its Thursday.
package period

import (
	"fmt"
	"time"
)

// TimePeriod addresses "when" a goal or week state belongs. DayOfWeek is
// 0 = Monday .. 6 = Sunday when set.
type TimePeriod struct {
	Year       int  `json:"year"`
	Quarter    int  `json:"quarter"`
	WeekNumber int  `json:"weekNumber"`
	DayOfWeek  *int `json:"dayOfWeek,omitempty"`
}

// WeekRef names a single ISO week. Year is the ISO week-year, which can
// differ from the calendar year at the December/January boundary.
type WeekRef struct {
	Year       int `json:"year"`
	WeekNumber int `json:"weekNumber"`
}

// QuarterWeekSpan is the set of ISO weeks belonging to one quarter.
type QuarterWeekSpan struct {
	StartWeek int       `json:"startWeek"`
	EndWeek   int       `json:"endWeek"`
	Weeks     []WeekRef `json:"weeks"`
}

// ISOWeekNumber returns the 1-53 ISO week number of t.
func ISOWeekNumber(t time.Time) int {
	_, week := t.UTC().ISOWeek()
	return week
}

// ISOWeekYear returns the ISO week-year of t, which differs from t's calendar
// year for the first days of January and the last days of December.
func ISOWeekYear(t time.Time) int {
	year, _ := t.UTC().ISOWeek()
	return year
}

// ISOWeekStart returns Monday 00:00:00 UTC of the given ISO week.
// January 4th is always inside week 1 of its week-year.
func ISOWeekStart(weekYear, weekNumber int) time.Time {
	jan4 := time.Date(weekYear, time.January, 4, 0, 0, 0, 0, time.UTC)
	mondayOfWeek1 := jan4.AddDate(0, 0, -((int(jan4.Weekday()) + 6) % 7))
	return mondayOfWeek1.AddDate(0, 0, (weekNumber-1)*7)
}

// ISOWeekEnd returns Sunday 23:59:59 UTC of the given ISO week.
func ISOWeekEnd(weekYear, weekNumber int) time.Time {
	return ISOWeekStart(weekYear, weekNumber).AddDate(0, 0, 7).Add(-time.Second)
}

// ISOWeekThursday returns the Thursday that anchors the given ISO week to its
// year and quarter.
func ISOWeekThursday(weekYear, weekNumber int) time.Time {
	return ISOWeekStart(weekYear, weekNumber).AddDate(0, 0, 3)
}

// QuarterDateRange returns the calendar-month boundaries of a quarter:
// Q1 = Jan 1 .. Mar 31 and so on. Quarters are month-based, not week-based.
func QuarterDateRange(year, quarter int) (time.Time, time.Time) {
	start := time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, -1)
	return start, end
}

// QuarterOf returns the calendar quarter containing t.
func QuarterOf(t time.Time) int {
	return (int(t.UTC().Month())-1)/3 + 1
}

// QuarterWeeks returns the ISO weeks whose Thursday falls inside the given
// quarter's date range. Enumerating Thursdays directly is what makes the
// December/January boundary weeks land in the right quarter without any
// special cases: each Thursday belongs to exactly one ISO week and one
// calendar quarter.
func QuarterWeeks(year, quarter int) QuarterWeekSpan {
	start, end := QuarterDateRange(year, quarter)

	firstThursday := start
	for firstThursday.Weekday() != time.Thursday {
		firstThursday = firstThursday.AddDate(0, 0, 1)
	}

	span := QuarterWeekSpan{}
	for th := firstThursday; !th.After(end); th = th.AddDate(0, 0, 7) {
		wy, wn := th.ISOWeek()
		span.Weeks = append(span.Weeks, WeekRef{Year: wy, WeekNumber: wn})
	}
	if len(span.Weeks) > 0 {
		span.StartWeek = span.Weeks[0].WeekNumber
		span.EndWeek = span.Weeks[len(span.Weeks)-1].WeekNumber
	}
	return span
}

// FinalWeeksOfQuarter returns the ISO week containing the quarter's last
// Thursday. Quarter-level carryover reads its source goals from here.
func FinalWeeksOfQuarter(year, quarter int) []WeekRef {
	_, end := QuarterDateRange(year, quarter)
	lastThursday := end
	for lastThursday.Weekday() != time.Thursday {
		lastThursday = lastThursday.AddDate(0, 0, -1)
	}
	wy, wn := lastThursday.ISOWeek()
	return []WeekRef{{Year: wy, WeekNumber: wn}}
}

// WeeksInYear returns 52 or 53. December 28th is always inside the last ISO
// week of its year, so its week number is the week count.
func WeeksInYear(year int) int {
	dec28 := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC)
	_, wn := dec28.ISOWeek()
	return wn
}

// PreviousQuarter steps one quarter back, wrapping Q1 to Q4 of the prior year.
func PreviousQuarter(year, quarter int) (int, int) {
	if quarter == 1 {
		return year - 1, 4
	}
	return year, quarter - 1
}

// WeeksBetween returns the number of whole weeks from one ISO week to
// another. Positive when to is later than from.
func WeeksBetween(from, to WeekRef) int {
	days := ISOWeekStart(to.Year, to.WeekNumber).Sub(ISOWeekStart(from.Year, from.WeekNumber)).Hours() / 24
	return int(days) / 7
}

// Validate rejects malformed time periods before any engine touches storage.
func Validate(p TimePeriod) error {
	if p.Year < 1970 || p.Year > 9999 {
		return fmt.Errorf("year %d out of range", p.Year)
	}
	if p.Quarter < 1 || p.Quarter > 4 {
		return fmt.Errorf("quarter %d out of range 1-4", p.Quarter)
	}
	if p.WeekNumber < 1 || p.WeekNumber > WeeksInYear(p.Year) {
		return fmt.Errorf("week %d out of range 1-%d for year %d", p.WeekNumber, WeeksInYear(p.Year), p.Year)
	}
	if p.DayOfWeek != nil && (*p.DayOfWeek < 0 || *p.DayOfWeek > 6) {
		return fmt.Errorf("day of week %d out of range 0-6", *p.DayOfWeek)
	}
	return nil
}
