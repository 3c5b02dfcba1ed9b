package services

import (
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/goalgrid-backend/internal/domain"
	"github.com/yungbote/goalgrid-backend/internal/period"
)

func TestResolveQuarterRequestDerivesFrom(t *testing.T) {
	req, err := resolveQuarterRequest(QuarterCarryOverRequest{
		To: period.TimePeriod{Year: 2025, Quarter: 2, WeekNumber: 14},
	})
	if err != nil {
		t.Fatalf("resolveQuarterRequest failed: %v", err)
	}
	if req.From.Year != 2025 || req.From.Quarter != 1 {
		t.Fatalf("expected Q1 2025 as source, got Q%d %d", req.From.Quarter, req.From.Year)
	}
	// Q1 2025 ends March 31; its last Thursday is March 27, ISO week 13.
	if req.From.WeekNumber != 13 {
		t.Fatalf("expected final week 13, got %d", req.From.WeekNumber)
	}
}

func TestResolveQuarterRequestYearBoundary(t *testing.T) {
	req, err := resolveQuarterRequest(QuarterCarryOverRequest{
		To: period.TimePeriod{Year: 2026, Quarter: 1, WeekNumber: 1},
	})
	if err != nil {
		t.Fatalf("resolveQuarterRequest failed: %v", err)
	}
	if req.From.Quarter != 4 || req.From.Year != 2025 {
		t.Fatalf("expected Q4 2025 as source, got Q%d %d", req.From.Quarter, req.From.Year)
	}
}

func TestResolveQuarterRequestRejectsSameQuarter(t *testing.T) {
	_, err := resolveQuarterRequest(QuarterCarryOverRequest{
		From: period.TimePeriod{Year: 2025, Quarter: 1, WeekNumber: 13},
		To:   period.TimePeriod{Year: 2025, Quarter: 1, WeekNumber: 13},
	})
	if err == nil {
		t.Fatalf("expected same-quarter request to be rejected")
	}
}

func TestPlanQuarterCopiesIncompleteOnly(t *testing.T) {
	userID := uuid.New()
	open := testQuarterGoal(userID, "ship the redesign")
	doneByGoal := testQuarterGoal(userID, "launch beta")
	doneByGoal.IsComplete = true
	doneByState := testQuarterGoal(userID, "close hiring round")

	doneState := testState(doneByState, 13)
	doneState.IsComplete = true
	openState := testState(open, 13)
	openState.IsStarred = true

	snap := &quarterSnapshot{
		from:      period.TimePeriod{Year: 2025, Quarter: 1, WeekNumber: 13},
		to:        period.TimePeriod{Year: 2025, Quarter: 2, WeekNumber: 14},
		quarterly: []*types.Goal{open, doneByGoal, doneByState},
		states: map[uuid.UUID]*types.GoalWeekState{
			doneByState.ID: doneState,
			open.ID:        openState,
		},
		existing: ExistingGoalsMap{},
	}

	plan := planQuarterCarryOver(snap)
	if len(plan.copies) != 1 {
		t.Fatalf("expected 1 copy, got %d", len(plan.copies))
	}
	c := plan.copies[0]
	if c.goal.ID != open.ID {
		t.Fatalf("expected the open goal to copy, got %s", c.goal.ID)
	}
	if !c.isStarred || c.isPinned {
		t.Fatalf("flags must mirror the final week state, got starred=%v pinned=%v", c.isStarred, c.isPinned)
	}
}

func TestPlanQuarterSkipsAlreadyMoved(t *testing.T) {
	userID := uuid.New()
	src := testQuarterGoal(userID, "ship the redesign")

	existingCopy := testQuarterGoal(userID, "ship the redesign")
	existingCopy.Quarter = 2
	existingCopy.CarryOver = &types.CarryOver{
		Type:     types.CarryOverTypeQuarter,
		NumWeeks: 1,
		FromGoal: types.CarryOverFrom{PreviousGoalID: src.ID, RootGoalID: src.ID},
	}

	snap := &quarterSnapshot{
		from:      period.TimePeriod{Year: 2025, Quarter: 1, WeekNumber: 13},
		to:        period.TimePeriod{Year: 2025, Quarter: 2, WeekNumber: 14},
		quarterly: []*types.Goal{src},
		states:    map[uuid.UUID]*types.GoalWeekState{},
		existing:  ExistingGoalsMap{RootGoalID(existingCopy): existingCopy},
	}

	plan := planQuarterCarryOver(snap)
	if len(plan.copies) != 0 {
		t.Fatalf("already-moved goal must not copy again, got %d copies", len(plan.copies))
	}
	if len(plan.skipped) != 1 || plan.skipped[0].Reason != SkipReasonAlreadyMoved {
		t.Fatalf("expected 1 already-moved skip, got %+v", plan.skipped)
	}
}

func TestQuarterPreviewHasEmptySlicesNotNil(t *testing.T) {
	plan := &quarterPlan{}
	preview := plan.preview(
		period.TimePeriod{Year: 2025, Quarter: 1, WeekNumber: 13},
		period.TimePeriod{Year: 2025, Quarter: 2, WeekNumber: 14},
	)
	if preview.QuarterlyGoalsToCopy == nil || preview.SkippedGoals == nil {
		t.Fatalf("preview slices must be non-nil: %+v", preview)
	}
}
