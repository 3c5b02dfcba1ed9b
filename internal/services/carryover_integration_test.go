package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/goalgrid-backend/internal/data/repos"
	"github.com/yungbote/goalgrid-backend/internal/data/repos/testutil"
	types "github.com/yungbote/goalgrid-backend/internal/domain"
	"github.com/yungbote/goalgrid-backend/internal/period"
	"github.com/yungbote/goalgrid-backend/internal/pkg/dbctx"
	"github.com/yungbote/goalgrid-backend/internal/requestdata"
)

func carryOverForTest(t *testing.T, tx *gorm.DB) CarryOverService {
	t.Helper()
	log := testutil.Logger(t)
	goalRepo := repos.NewGoalRepo(tx, log)
	weekStateRepo := repos.NewGoalWeekStateRepo(tx, log)
	return NewCarryOverService(tx, log, goalRepo, weekStateRepo, 0)
}

func callerCtx(userID uuid.UUID) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})
}

func markStateComplete(t *testing.T, tx *gorm.DB, stateID uuid.UUID) {
	t.Helper()
	if err := tx.Model(&types.GoalWeekState{}).Where("id = ?", stateID).Update("is_complete", true).Error; err != nil {
		t.Fatalf("mark state complete: %v", err)
	}
}

func TestExecuteWeekCarryOverMoveAll(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "moveall@example.com")
	q := testutil.SeedGoal(t, ctx, tx, user.ID, "quarterly", 2025, 1, types.DepthQuarterly, nil)
	w := testutil.SeedGoal(t, ctx, tx, user.ID, "weekly", 2025, 1, types.DepthWeekly, &q.ID)
	d := testutil.SeedGoal(t, ctx, tx, user.ID, "daily", 2025, 1, types.DepthDaily, &w.ID)
	testutil.SeedWeekState(t, ctx, tx, user.ID, w.ID, 2025, 1, 5)
	testutil.SeedWeekState(t, ctx, tx, user.ID, d.ID, 2025, 1, 5)

	cs := carryOverForTest(t, tx)
	rctx := callerCtx(user.ID)

	result, err := cs.ExecuteWeekCarryOver(dbctx.Context{Ctx: rctx}, WeekCarryOverRequest{
		From: period.TimePeriod{Year: 2025, Quarter: 1, WeekNumber: 5},
		To:   period.TimePeriod{Year: 2025, Quarter: 1, WeekNumber: 6},
	})
	if err != nil {
		t.Fatalf("ExecuteWeekCarryOver failed: %v", err)
	}
	if result.WeekStatesCopied != 1 || result.DailyGoalsMoved != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if got := result.Preview.WeekStatesToCopy[0].Mode; got != ModeMoveAll {
		t.Fatalf("expected move_all, got %q", got)
	}

	weekStateRepo := repos.NewGoalWeekStateRepo(tx, testutil.Logger(t))
	fromStates, err := weekStateRepo.GetByWeek(dbctx.Context{Ctx: ctx}, user.ID, 2025, 1, 5)
	if err != nil {
		t.Fatalf("load source week: %v", err)
	}
	if len(fromStates) != 0 {
		t.Fatalf("move_all must empty the source week, %d states remain", len(fromStates))
	}
	toStates, err := weekStateRepo.GetByWeek(dbctx.Context{Ctx: ctx}, user.ID, 2025, 1, 6)
	if err != nil {
		t.Fatalf("load destination week: %v", err)
	}
	if len(toStates) != 2 {
		t.Fatalf("expected 2 states in destination week, got %d", len(toStates))
	}
}

func TestExecuteWeekCarryOverCopyChildren(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "copychildren@example.com")
	q := testutil.SeedGoal(t, ctx, tx, user.ID, "quarterly", 2025, 1, types.DepthQuarterly, nil)
	w := testutil.SeedGoal(t, ctx, tx, user.ID, "weekly", 2025, 1, types.DepthWeekly, &q.ID)
	done := testutil.SeedGoal(t, ctx, tx, user.ID, "done daily", 2025, 1, types.DepthDaily, &w.ID)
	open := testutil.SeedGoal(t, ctx, tx, user.ID, "open daily", 2025, 1, types.DepthDaily, &w.ID)
	testutil.SeedWeekState(t, ctx, tx, user.ID, w.ID, 2025, 1, 5)
	doneState := testutil.SeedWeekState(t, ctx, tx, user.ID, done.ID, 2025, 1, 5)
	testutil.SeedWeekState(t, ctx, tx, user.ID, open.ID, 2025, 1, 5)
	markStateComplete(t, tx, doneState.ID)

	cs := carryOverForTest(t, tx)
	rctx := callerCtx(user.ID)
	req := WeekCarryOverRequest{
		From: period.TimePeriod{Year: 2025, Quarter: 1, WeekNumber: 5},
		To:   period.TimePeriod{Year: 2025, Quarter: 1, WeekNumber: 6},
	}

	result, err := cs.ExecuteWeekCarryOver(dbctx.Context{Ctx: rctx}, req)
	if err != nil {
		t.Fatalf("ExecuteWeekCarryOver failed: %v", err)
	}
	if got := result.Preview.WeekStatesToCopy[0].Mode; got != ModeCopyChildren {
		t.Fatalf("expected copy_children, got %q", got)
	}
	if result.WeekStatesCopied != 1 || result.DailyGoalsMoved != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}

	log := testutil.Logger(t)
	weekStateRepo := repos.NewGoalWeekStateRepo(tx, log)
	fromStates, err := weekStateRepo.GetByWeek(dbctx.Context{Ctx: ctx}, user.ID, 2025, 1, 5)
	if err != nil {
		t.Fatalf("load source week: %v", err)
	}
	if len(fromStates) != 3 {
		t.Fatalf("copy_children must leave the source week intact, got %d states", len(fromStates))
	}

	goalRepo := repos.NewGoalRepo(tx, log)
	quarterGoals, err := goalRepo.GetByQuarter(dbctx.Context{Ctx: ctx}, user.ID, 2025, 1)
	if err != nil {
		t.Fatalf("load quarter goals: %v", err)
	}
	var weeklyCopy *types.Goal
	for _, g := range quarterGoals {
		if g.CarryOver != nil && g.Depth == types.DepthWeekly {
			weeklyCopy = g
		}
	}
	if weeklyCopy == nil {
		t.Fatalf("expected a carried weekly copy in the quarter")
	}
	if weeklyCopy.CarryOver.FromGoal.PreviousGoalID != w.ID || weeklyCopy.CarryOver.FromGoal.RootGoalID != w.ID {
		t.Fatalf("copy must point back at the original: %+v", weeklyCopy.CarryOver)
	}
	if weeklyCopy.CarryOver.Type != types.CarryOverTypeWeek || weeklyCopy.CarryOver.NumWeeks != 1 {
		t.Fatalf("unexpected carryover record: %+v", weeklyCopy.CarryOver)
	}

	// A second run finds the copy in the destination week and skips.
	second, err := cs.ExecuteWeekCarryOver(dbctx.Context{Ctx: rctx}, req)
	if err != nil {
		t.Fatalf("second ExecuteWeekCarryOver failed: %v", err)
	}
	if second.WeekStatesCopied != 0 || second.DailyGoalsMoved != 0 {
		t.Fatalf("second run must be a no-op, got %+v", second)
	}
	if len(second.Preview.SkippedGoals) != 1 || second.Preview.SkippedGoals[0].Reason != SkipReasonAlreadyMoved {
		t.Fatalf("expected one already-moved skip, got %+v", second.Preview.SkippedGoals)
	}
}

func TestFindLastNonEmptyWeek(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "search@example.com")
	q := testutil.SeedGoal(t, ctx, tx, user.ID, "quarterly", 2025, 1, types.DepthQuarterly, nil)
	w := testutil.SeedGoal(t, ctx, tx, user.ID, "weekly", 2025, 1, types.DepthWeekly, &q.ID)
	// Content three weeks back; the two weeks in between are empty.
	testutil.SeedWeekState(t, ctx, tx, user.ID, w.ID, 2025, 1, 5)

	cs := carryOverForTest(t, tx)
	rctx := callerCtx(user.ID)

	found, err := cs.FindLastNonEmptyWeek(dbctx.Context{Ctx: rctx}, period.TimePeriod{Year: 2025, Quarter: 1, WeekNumber: 8})
	if err != nil {
		t.Fatalf("FindLastNonEmptyWeek failed: %v", err)
	}
	if found == nil {
		t.Fatalf("expected a non-empty week")
	}
	if found.Year != 2025 || found.WeekNumber != 5 {
		t.Fatalf("expected week 5 of 2025, got %+v", found)
	}

	none, err := cs.FindLastNonEmptyWeek(dbctx.Context{Ctx: rctx}, period.TimePeriod{Year: 2025, Quarter: 1, WeekNumber: 4})
	if err != nil {
		t.Fatalf("FindLastNonEmptyWeek failed: %v", err)
	}
	if none != nil {
		t.Fatalf("expected no week before week 4, got %+v", none)
	}
}

func TestFindExistingGoalByRootID(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	user := testutil.SeedUser(t, ctx, tx, "rootlookup@example.com")
	orig := testutil.SeedGoal(t, ctx, tx, user.ID, "quarterly", 2024, 4, types.DepthQuarterly, nil)
	carried := &types.Goal{
		ID: uuid.New(), UserID: user.ID, Title: "quarterly",
		Year: 2025, Quarter: 1, Depth: types.DepthQuarterly,
		CarryOver: &types.CarryOver{
			Type:     types.CarryOverTypeQuarter,
			NumWeeks: 1,
			FromGoal: types.CarryOverFrom{PreviousGoalID: orig.ID, RootGoalID: orig.ID},
		},
	}
	if err := tx.WithContext(ctx).Create(carried).Error; err != nil {
		t.Fatalf("seed carried goal: %v", err)
	}

	resolver := rootGoalResolver{goalRepo: repos.NewGoalRepo(tx, testutil.Logger(t))}

	got, err := resolver.FindExistingGoalByRootID(dbc, user.ID, orig.ID, 2025, 1, types.DepthQuarterly, nil)
	if err != nil {
		t.Fatalf("FindExistingGoalByRootID: %v", err)
	}
	if got == nil || got.ID != carried.ID {
		t.Fatalf("expected the carried copy, got %+v", got)
	}

	missing, err := resolver.FindExistingGoalByRootID(dbc, user.ID, uuid.New(), 2025, 1, types.DepthQuarterly, nil)
	if err != nil {
		t.Fatalf("FindExistingGoalByRootID (unknown root): %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for an unknown root id, got %+v", missing)
	}
}

func TestFindLastNonEmptyWeekSeesAdhocOnlyWeek(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "adhocsearch@example.com")
	// Week 5 holds a loose task and nothing else: no goal tree, no week states.
	errand := testutil.SeedAdhocGoal(t, ctx, tx, user.ID, "errand", 2025, 1, 5)

	cs := carryOverForTest(t, tx)
	rctx := callerCtx(user.ID)

	found, err := cs.FindLastNonEmptyWeek(dbctx.Context{Ctx: rctx}, period.TimePeriod{Year: 2025, Quarter: 1, WeekNumber: 8})
	if err != nil {
		t.Fatalf("FindLastNonEmptyWeek failed: %v", err)
	}
	if found == nil || found.Year != 2025 || found.WeekNumber != 5 {
		t.Fatalf("expected week 5 of 2025, got %+v", found)
	}

	if err := tx.Model(&types.Goal{}).Where("id = ?", errand.ID).Update("is_complete", true).Error; err != nil {
		t.Fatalf("mark adhoc complete: %v", err)
	}
	none, err := cs.FindLastNonEmptyWeek(dbctx.Context{Ctx: rctx}, period.TimePeriod{Year: 2025, Quarter: 1, WeekNumber: 8})
	if err != nil {
		t.Fatalf("FindLastNonEmptyWeek failed: %v", err)
	}
	if none != nil {
		t.Fatalf("expected no movable week once the adhoc goal is done, got %+v", none)
	}
}
