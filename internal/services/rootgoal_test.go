package services

import (
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/goalgrid-backend/internal/domain"
)

func TestRootGoalIDOriginal(t *testing.T) {
	g := &types.Goal{ID: uuid.New()}
	if got := RootGoalID(g); got != g.ID {
		t.Fatalf("never-carried goal is its own root, got %s", got)
	}
}

func TestRootGoalIDCarried(t *testing.T) {
	rootID := uuid.New()
	prevID := uuid.New()
	g := &types.Goal{
		ID: uuid.New(),
		CarryOver: &types.CarryOver{
			Type:     types.CarryOverTypeWeek,
			NumWeeks: 2,
			FromGoal: types.CarryOverFrom{PreviousGoalID: prevID, RootGoalID: rootID},
		},
	}
	if got := RootGoalID(g); got != rootID {
		t.Fatalf("carried goal must resolve to the chain's root %s, got %s", rootID, got)
	}
}

func TestExistingGoalsMapFind(t *testing.T) {
	parentID := uuid.New()
	otherParentID := uuid.New()
	rootID := uuid.New()
	g := &types.Goal{ID: uuid.New(), Depth: types.DepthWeekly, ParentID: &parentID}
	m := ExistingGoalsMap{rootID: g}

	if got := m.Find(rootID, types.DepthWeekly, &parentID); got != g {
		t.Fatalf("expected match, got %v", got)
	}
	if got := m.Find(rootID, types.DepthWeekly, &otherParentID); got != nil {
		t.Fatalf("different parent must not match, got %v", got)
	}
	if got := m.Find(rootID, types.DepthWeekly, nil); got != nil {
		t.Fatalf("missing parent must not match at depth > 0, got %v", got)
	}
	if got := m.Find(uuid.New(), types.DepthWeekly, &parentID); got != nil {
		t.Fatalf("unknown root must not match, got %v", got)
	}
}

func TestExistingGoalsMapFindQuarterlyIgnoresParent(t *testing.T) {
	rootID := uuid.New()
	g := &types.Goal{ID: uuid.New(), Depth: types.DepthQuarterly}
	m := ExistingGoalsMap{rootID: g}

	if got := m.Find(rootID, types.DepthQuarterly, nil); got != g {
		t.Fatalf("quarterly lookup needs no parent, got %v", got)
	}
}
