package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/goalgrid-backend/internal/data/repos"
	types "github.com/yungbote/goalgrid-backend/internal/domain"
	"github.com/yungbote/goalgrid-backend/internal/pkg/dbctx"
)

// RootGoalID resolves the identity a goal keeps across carryover copies: the
// id of its never-carried-over ancestor. This is the single place that
// presence check lives; carryover dedup must never inline it.
func RootGoalID(g *types.Goal) uuid.UUID {
	if g.CarryOver != nil {
		return g.CarryOver.FromGoal.RootGoalID
	}
	return g.ID
}

// ExistingGoalsMap indexes one quarter's goals at a single depth by root goal
// id, so many carryover candidates can be checked without rescanning.
type ExistingGoalsMap map[uuid.UUID]*types.Goal

// Find returns the goal already occupying the target period for the given
// root id, or nil. For depth > 0 the candidate must also hang off the same
// parent; the same root goal under a different parent is anomalous data and
// must not count as a match.
func (m ExistingGoalsMap) Find(rootGoalID uuid.UUID, depth int, parentID *uuid.UUID) *types.Goal {
	g, ok := m[rootGoalID]
	if !ok {
		return nil
	}
	if depth > 0 {
		if parentID == nil || g.ParentID == nil || *g.ParentID != *parentID {
			return nil
		}
	}
	return g
}

type rootGoalResolver struct {
	goalRepo repos.GoalRepo
}

// BuildExistingGoalsMap scans the target quarter at one depth and keys every
// goal by its root goal id. First writer wins on a root-id collision, which
// matches the "first match" contract of the single lookup.
func (r *rootGoalResolver) BuildExistingGoalsMap(dbc dbctx.Context, userID uuid.UUID, year, quarter, depth int) (ExistingGoalsMap, error) {
	existing, err := r.goalRepo.GetByQuarterAndDepth(dbc, userID, year, quarter, depth)
	if err != nil {
		return nil, fmt.Errorf("scan target quarter for existing goals: %w", err)
	}
	m := make(ExistingGoalsMap, len(existing))
	for _, g := range existing {
		rootID := RootGoalID(g)
		if _, ok := m[rootID]; !ok {
			m[rootID] = g
		}
	}
	return m, nil
}

// FindExistingGoalByRootID is the one-off variant of BuildExistingGoalsMap.
func (r *rootGoalResolver) FindExistingGoalByRootID(dbc dbctx.Context, userID, rootGoalID uuid.UUID, year, quarter, depth int, parentID *uuid.UUID) (*types.Goal, error) {
	m, err := r.BuildExistingGoalsMap(dbc, userID, year, quarter, depth)
	if err != nil {
		return nil, err
	}
	return m.Find(rootGoalID, depth, parentID), nil
}
