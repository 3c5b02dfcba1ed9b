package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/goalgrid-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedGoal(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, title string, year, quarter, depth int, parentID *uuid.UUID) *types.Goal {
	tb.Helper()
	g := &types.Goal{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    title,
		Year:     year,
		Quarter:  quarter,
		Depth:    depth,
		ParentID: parentID,
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed goal: %v", err)
	}
	return g
}

func SeedAdhocGoal(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, title string, year, quarter, weekNumber int) *types.Goal {
	tb.Helper()
	g := &types.Goal{
		ID:      uuid.New(),
		UserID:  userID,
		Title:   title,
		Year:    year,
		Quarter: quarter,
		Depth:   types.DepthAdhoc,
		Adhoc:   &types.AdhocInfo{WeekNumber: weekNumber},
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed adhoc goal: %v", err)
	}
	return g
}

func SeedWeekState(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, goalID uuid.UUID, year, quarter, weekNumber int) *types.GoalWeekState {
	tb.Helper()
	ws := &types.GoalWeekState{
		ID:         uuid.New(),
		UserID:     userID,
		GoalID:     goalID,
		Year:       year,
		Quarter:    quarter,
		WeekNumber: weekNumber,
	}
	if err := tx.WithContext(ctx).Create(ws).Error; err != nil {
		tb.Fatalf("seed week state: %v", err)
	}
	return ws
}
