package services

import (
	"testing"

	"github.com/yungbote/goalgrid-backend/internal/period"
)

func TestWeekBefore(t *testing.T) {
	to := period.TimePeriod{Year: 2025, Quarter: 1, WeekNumber: 6}

	prev := weekBefore(to, 1)
	if prev.Year != 2025 || prev.WeekNumber != 5 || prev.Quarter != 1 {
		t.Fatalf("expected week 5 of Q1 2025, got %+v", prev)
	}

	far := weekBefore(to, 5)
	if far.Year != 2025 || far.WeekNumber != 1 {
		t.Fatalf("expected week 1 of 2025, got %+v", far)
	}
}

func TestWeekBeforeCrossesYearBoundary(t *testing.T) {
	to := period.TimePeriod{Year: 2021, Quarter: 1, WeekNumber: 2}

	prev := weekBefore(to, 2)
	if prev.Year != 2020 || prev.WeekNumber != 53 || prev.Quarter != 4 {
		t.Fatalf("expected week 53 of Q4 2020, got %+v", prev)
	}
}
