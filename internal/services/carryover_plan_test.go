package services

import (
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/goalgrid-backend/internal/domain"
	"github.com/yungbote/goalgrid-backend/internal/period"
)

func testQuarterGoal(userID uuid.UUID, title string) *types.Goal {
	return &types.Goal{
		ID:      uuid.New(),
		UserID:  userID,
		Title:   title,
		Year:    2025,
		Quarter: 1,
		Depth:   types.DepthQuarterly,
		InPath:  "/",
	}
}

func testChildGoal(parent *types.Goal, depth int, title string) *types.Goal {
	return &types.Goal{
		ID:       uuid.New(),
		UserID:   parent.UserID,
		Title:    title,
		Year:     parent.Year,
		Quarter:  parent.Quarter,
		Depth:    depth,
		ParentID: &parent.ID,
		InPath:   parent.InPath + parent.ID.String(),
	}
}

func testState(g *types.Goal, weekNumber int) *types.GoalWeekState {
	return &types.GoalWeekState{
		ID:         uuid.New(),
		UserID:     g.UserID,
		GoalID:     g.ID,
		Year:       g.Year,
		Quarter:    g.Quarter,
		WeekNumber: weekNumber,
	}
}

func testSnapshot(goals []*types.Goal, states []*types.GoalWeekState) *weekSnapshot {
	return &weekSnapshot{
		from:           period.TimePeriod{Year: 2025, Quarter: 1, WeekNumber: 5},
		to:             period.TimePeriod{Year: 2025, Quarter: 1, WeekNumber: 6},
		numWeeks:       1,
		goals:          goals,
		states:         states,
		adhoc:          nil,
		existingWeekly: ExistingGoalsMap{},
	}
}

func TestPlanMoveAllWhenNothingComplete(t *testing.T) {
	userID := uuid.New()
	q := testQuarterGoal(userID, "ship the redesign")
	w := testChildGoal(q, types.DepthWeekly, "finish settings page")
	d1 := testChildGoal(w, types.DepthDaily, "wire forms")
	d2 := testChildGoal(w, types.DepthDaily, "hook up saving")

	snap := testSnapshot(
		[]*types.Goal{q, w, d1, d2},
		[]*types.GoalWeekState{testState(w, 5), testState(d1, 5), testState(d2, 5)},
	)

	plan, err := planWeekCarryOver(snap)
	if err != nil {
		t.Fatalf("planWeekCarryOver failed: %v", err)
	}
	if len(plan.weekly) != 1 {
		t.Fatalf("expected 1 weekly carry, got %d", len(plan.weekly))
	}
	carry := plan.weekly[0]
	if carry.mode != ModeMoveAll {
		t.Fatalf("expected mode %q, got %q", ModeMoveAll, carry.mode)
	}
	if len(carry.incomplete) != 2 {
		t.Fatalf("expected 2 incomplete children, got %d", len(carry.incomplete))
	}
	if carry.completeCount != 0 {
		t.Fatalf("expected 0 complete children, got %d", carry.completeCount)
	}
	if len(plan.skipped) != 0 {
		t.Fatalf("expected no skips, got %d", len(plan.skipped))
	}
}

func TestPlanCopyChildrenWhenSomeChildrenComplete(t *testing.T) {
	userID := uuid.New()
	q := testQuarterGoal(userID, "ship the redesign")
	w := testChildGoal(q, types.DepthWeekly, "finish settings page")
	done := testChildGoal(w, types.DepthDaily, "wire forms")
	open := testChildGoal(w, types.DepthDaily, "hook up saving")

	doneState := testState(done, 5)
	doneState.IsComplete = true

	snap := testSnapshot(
		[]*types.Goal{q, w, done, open},
		[]*types.GoalWeekState{testState(w, 5), doneState, testState(open, 5)},
	)

	plan, err := planWeekCarryOver(snap)
	if err != nil {
		t.Fatalf("planWeekCarryOver failed: %v", err)
	}
	if len(plan.weekly) != 1 {
		t.Fatalf("expected 1 weekly carry, got %d", len(plan.weekly))
	}
	carry := plan.weekly[0]
	if carry.mode != ModeCopyChildren {
		t.Fatalf("expected mode %q, got %q", ModeCopyChildren, carry.mode)
	}
	if carry.completeCount != 1 {
		t.Fatalf("expected 1 complete child, got %d", carry.completeCount)
	}
	if len(carry.incomplete) != 1 || carry.incomplete[0].goal.ID != open.ID {
		t.Fatalf("expected only the open child to carry, got %+v", carry.incomplete)
	}
}

func TestPlanCopiesCompletedWeeklyWithOpenChildren(t *testing.T) {
	userID := uuid.New()
	q := testQuarterGoal(userID, "get healthy")
	w := testChildGoal(q, types.DepthWeekly, "run three times")
	open := testChildGoal(w, types.DepthDaily, "friday run")

	wState := testState(w, 5)
	wState.IsComplete = true

	snap := testSnapshot(
		[]*types.Goal{q, w, open},
		[]*types.GoalWeekState{wState, testState(open, 5)},
	)

	plan, err := planWeekCarryOver(snap)
	if err != nil {
		t.Fatalf("planWeekCarryOver failed: %v", err)
	}
	if len(plan.weekly) != 1 {
		t.Fatalf("expected 1 weekly carry, got %d", len(plan.weekly))
	}
	if plan.weekly[0].mode != ModeCopyChildren {
		t.Fatalf("completed weekly must be copied, not moved; got %q", plan.weekly[0].mode)
	}
}

func TestPlanDropsFullyCompleteWeekly(t *testing.T) {
	userID := uuid.New()
	q := testQuarterGoal(userID, "get healthy")
	w := testChildGoal(q, types.DepthWeekly, "run three times")
	done := testChildGoal(w, types.DepthDaily, "friday run")

	wState := testState(w, 5)
	wState.IsComplete = true
	doneState := testState(done, 5)
	doneState.IsComplete = true

	snap := testSnapshot(
		[]*types.Goal{q, w, done},
		[]*types.GoalWeekState{wState, doneState},
	)

	plan, err := planWeekCarryOver(snap)
	if err != nil {
		t.Fatalf("planWeekCarryOver failed: %v", err)
	}
	if len(plan.weekly) != 0 {
		t.Fatalf("fully complete weekly must not carry, got %d entries", len(plan.weekly))
	}
	if len(plan.skipped) != 0 {
		t.Fatalf("fully complete weekly is dropped silently, got %d skips", len(plan.skipped))
	}
}

func TestPlanSkipsAlreadyMovedWeekly(t *testing.T) {
	userID := uuid.New()
	q := testQuarterGoal(userID, "ship the redesign")
	w := testChildGoal(q, types.DepthWeekly, "finish settings page")
	open := testChildGoal(w, types.DepthDaily, "hook up saving")

	// A copy of w already sits in the destination week, pointing back at w
	// as its root.
	existingCopy := testChildGoal(q, types.DepthWeekly, "finish settings page")
	existingCopy.CarryOver = &types.CarryOver{
		Type:     types.CarryOverTypeWeek,
		NumWeeks: 1,
		FromGoal: types.CarryOverFrom{PreviousGoalID: w.ID, RootGoalID: w.ID},
	}

	snap := testSnapshot(
		[]*types.Goal{q, w, open},
		[]*types.GoalWeekState{testState(w, 5), testState(open, 5)},
	)
	snap.existingWeekly = ExistingGoalsMap{RootGoalID(existingCopy): existingCopy}

	plan, err := planWeekCarryOver(snap)
	if err != nil {
		t.Fatalf("planWeekCarryOver failed: %v", err)
	}
	if len(plan.weekly) != 0 {
		t.Fatalf("already-moved weekly must not carry again, got %d entries", len(plan.weekly))
	}
	if len(plan.skipped) != 1 {
		t.Fatalf("expected 1 skip, got %d", len(plan.skipped))
	}
	skip := plan.skipped[0]
	if skip.GoalID != w.ID || skip.Reason != SkipReasonAlreadyMoved {
		t.Fatalf("unexpected skip entry: %+v", skip)
	}
}

func TestPlanDedupRequiresSameParent(t *testing.T) {
	userID := uuid.New()
	q := testQuarterGoal(userID, "ship the redesign")
	otherQ := testQuarterGoal(userID, "different initiative")
	w := testChildGoal(q, types.DepthWeekly, "finish settings page")
	open := testChildGoal(w, types.DepthDaily, "hook up saving")

	// Same root id but hanging off another quarterly parent; must not block
	// the carry.
	strayCopy := testChildGoal(otherQ, types.DepthWeekly, "finish settings page")
	strayCopy.CarryOver = &types.CarryOver{
		Type:     types.CarryOverTypeWeek,
		NumWeeks: 1,
		FromGoal: types.CarryOverFrom{PreviousGoalID: w.ID, RootGoalID: w.ID},
	}

	snap := testSnapshot(
		[]*types.Goal{q, w, open},
		[]*types.GoalWeekState{testState(w, 5), testState(open, 5)},
	)
	snap.existingWeekly = ExistingGoalsMap{RootGoalID(strayCopy): strayCopy}

	plan, err := planWeekCarryOver(snap)
	if err != nil {
		t.Fatalf("planWeekCarryOver failed: %v", err)
	}
	if len(plan.weekly) != 1 {
		t.Fatalf("copy under a different parent must not dedup, got %d carries and %d skips", len(plan.weekly), len(plan.skipped))
	}
}

func TestPlanQuarterlyFlagsFollowCarriedContent(t *testing.T) {
	userID := uuid.New()
	carriedQ := testQuarterGoal(userID, "ship the redesign")
	idleQ := testQuarterGoal(userID, "untouched initiative")
	w := testChildGoal(carriedQ, types.DepthWeekly, "finish settings page")
	open := testChildGoal(w, types.DepthDaily, "hook up saving")

	qState := testState(carriedQ, 5)
	qState.IsStarred = true
	qState.IsPinned = true
	idleState := testState(idleQ, 5)
	idleState.IsStarred = true

	snap := testSnapshot(
		[]*types.Goal{carriedQ, idleQ, w, open},
		[]*types.GoalWeekState{qState, idleState, testState(w, 5), testState(open, 5)},
	)

	plan, err := planWeekCarryOver(snap)
	if err != nil {
		t.Fatalf("planWeekCarryOver failed: %v", err)
	}
	if len(plan.quarterly) != 1 {
		t.Fatalf("expected flags for 1 quarterly goal, got %d", len(plan.quarterly))
	}
	update := plan.quarterly[0]
	if update.goal.ID != carriedQ.ID {
		t.Fatalf("expected flags for the carried parent, got goal %s", update.goal.ID)
	}
	if !update.state.IsStarred || !update.state.IsPinned {
		t.Fatalf("expected star and pin to follow, got %+v", update.state)
	}
}

func TestPlanWeeklyWithoutStateStaysHome(t *testing.T) {
	userID := uuid.New()
	q := testQuarterGoal(userID, "ship the redesign")
	inWeek := testChildGoal(q, types.DepthWeekly, "this week's goal")
	otherWeek := testChildGoal(q, types.DepthWeekly, "some other week's goal")

	snap := testSnapshot(
		[]*types.Goal{q, inWeek, otherWeek},
		[]*types.GoalWeekState{testState(inWeek, 5)},
	)

	plan, err := planWeekCarryOver(snap)
	if err != nil {
		t.Fatalf("planWeekCarryOver failed: %v", err)
	}
	if len(plan.weekly) != 1 || plan.weekly[0].goal.ID != inWeek.ID {
		t.Fatalf("only the goal with a source week state may carry, got %d entries", len(plan.weekly))
	}
}

func TestPlanAdhocCarriesIncompleteOnly(t *testing.T) {
	userID := uuid.New()
	open := &types.Goal{
		ID: uuid.New(), UserID: userID, Title: "renew passport",
		Year: 2025, Quarter: 1, Depth: types.DepthAdhoc,
		Adhoc: &types.AdhocInfo{WeekNumber: 5},
	}
	done := &types.Goal{
		ID: uuid.New(), UserID: userID, Title: "book flights",
		Year: 2025, Quarter: 1, Depth: types.DepthAdhoc, IsComplete: true,
		Adhoc: &types.AdhocInfo{WeekNumber: 5},
	}

	snap := testSnapshot(nil, nil)
	snap.adhoc = []*types.Goal{open, done}

	plan, err := planWeekCarryOver(snap)
	if err != nil {
		t.Fatalf("planWeekCarryOver failed: %v", err)
	}
	if len(plan.adhoc) != 1 || plan.adhoc[0].ID != open.ID {
		t.Fatalf("expected only the incomplete adhoc goal, got %d entries", len(plan.adhoc))
	}
}

func TestPreviewHasEmptySlicesNotNil(t *testing.T) {
	snap := testSnapshot(nil, nil)
	plan, err := planWeekCarryOver(snap)
	if err != nil {
		t.Fatalf("planWeekCarryOver failed: %v", err)
	}
	preview := plan.preview(snap.from, snap.to)
	if preview.WeekStatesToCopy == nil || preview.DailyGoalsToMove == nil ||
		preview.QuarterlyGoalsToUpdate == nil || preview.AdhocGoalsToMove == nil ||
		preview.SkippedGoals == nil {
		t.Fatalf("preview slices must be non-nil: %+v", preview)
	}
	if len(preview.WeekStatesToCopy) != 0 {
		t.Fatalf("empty snapshot must preview nothing, got %+v", preview)
	}
}

func TestPreviewCountsMatchPlan(t *testing.T) {
	userID := uuid.New()
	q := testQuarterGoal(userID, "ship the redesign")
	w := testChildGoal(q, types.DepthWeekly, "finish settings page")
	d1 := testChildGoal(w, types.DepthDaily, "wire forms")
	d2 := testChildGoal(w, types.DepthDaily, "hook up saving")

	qState := testState(q, 5)
	qState.IsStarred = true

	snap := testSnapshot(
		[]*types.Goal{q, w, d1, d2},
		[]*types.GoalWeekState{qState, testState(w, 5), testState(d1, 5), testState(d2, 5)},
	)

	plan, err := planWeekCarryOver(snap)
	if err != nil {
		t.Fatalf("planWeekCarryOver failed: %v", err)
	}
	preview := plan.preview(snap.from, snap.to)
	if len(preview.WeekStatesToCopy) != 1 {
		t.Fatalf("expected 1 weekly entry, got %d", len(preview.WeekStatesToCopy))
	}
	if len(preview.DailyGoalsToMove) != 2 {
		t.Fatalf("expected 2 daily entries, got %d", len(preview.DailyGoalsToMove))
	}
	if len(preview.QuarterlyGoalsToUpdate) != 1 {
		t.Fatalf("expected 1 quarterly entry, got %d", len(preview.QuarterlyGoalsToUpdate))
	}
	if got := preview.WeekStatesToCopy[0]; len(got.IncompleteChildren) != 2 || got.Mode != ModeMoveAll {
		t.Fatalf("unexpected weekly summary: %+v", got)
	}
}
