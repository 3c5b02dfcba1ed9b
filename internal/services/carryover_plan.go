package services

import (
	"fmt"

	"github.com/google/uuid"

	types "github.com/yungbote/goalgrid-backend/internal/domain"
	"github.com/yungbote/goalgrid-backend/internal/goaltree"
	"github.com/yungbote/goalgrid-backend/internal/period"
)

// weekSnapshot is everything the week planner needs, loaded up front so the
// planning step itself never touches storage.
type weekSnapshot struct {
	from     period.TimePeriod
	to       period.TimePeriod
	numWeeks int

	goals  []*types.Goal           // every tree goal in the source quarter
	states []*types.GoalWeekState  // week states of the source week
	adhoc  []*types.Goal           // adhoc goals under the source week label

	existingWeekly ExistingGoalsMap // weekly goals already in the destination week, by root id

	consolidateTo *int // when set, moved daily goals land on this day
}

type dailyCarry struct {
	goal  *types.Goal
	state *types.GoalWeekState
}

type weeklyCarry struct {
	goal          *types.Goal
	state         *types.GoalWeekState
	mode          CarryOverMode
	incomplete    []dailyCarry
	completeCount int
}

type quarterlyUpdate struct {
	goal  *types.Goal
	state *types.GoalWeekState
}

type weekPlan struct {
	weekly    []weeklyCarry
	quarterly []quarterlyUpdate
	adhoc     []*types.Goal
	skipped   []SkippedGoal
}

// planWeekCarryOver decides, per goal in the source week, whether and how it
// is pulled forward. Pure: reads the snapshot, mutates nothing.
func planWeekCarryOver(snap *weekSnapshot) (*weekPlan, error) {
	_, index, err := goaltree.Build(snap.goals, nil)
	if err != nil {
		return nil, fmt.Errorf("rebuild goal tree for source quarter: %w", err)
	}

	stateByGoal := make(map[uuid.UUID]*types.GoalWeekState, len(snap.states))
	for _, st := range snap.states {
		stateByGoal[st.GoalID] = st
	}

	plan := &weekPlan{}
	carriedParents := make(map[uuid.UUID]bool)

	for _, g := range snap.goals {
		if g.Depth != types.DepthWeekly {
			continue
		}
		state, inWeek := stateByGoal[g.ID]
		if !inWeek {
			continue
		}

		weeklyDone := g.IsComplete || state.IsComplete

		var incomplete []dailyCarry
		completeCount := 0
		for _, childNode := range index[g.ID].Children {
			child := childNode.Goal
			childState, childInWeek := stateByGoal[child.ID]
			if !childInWeek {
				continue
			}
			if child.IsComplete || childState.IsComplete {
				completeCount++
			} else {
				incomplete = append(incomplete, dailyCarry{goal: child, state: childState})
			}
		}

		if weeklyDone && len(incomplete) == 0 {
			continue
		}

		if existing := snap.existingWeekly.Find(RootGoalID(g), g.Depth, g.ParentID); existing != nil {
			plan.skipped = append(plan.skipped, SkippedGoal{
				GoalID: g.ID,
				Title:  g.Title,
				Reason: SkipReasonAlreadyMoved,
			})
			continue
		}

		mode := ModeMoveAll
		// A completed weekly instance must stay put in the source week, so a
		// carried one is always copied even when every child is incomplete.
		if completeCount > 0 || weeklyDone {
			mode = ModeCopyChildren
		}

		plan.weekly = append(plan.weekly, weeklyCarry{
			goal:          g,
			state:         state,
			mode:          mode,
			incomplete:    incomplete,
			completeCount: completeCount,
		})
		if g.ParentID != nil {
			carriedParents[*g.ParentID] = true
		}
	}

	// Quarterly goals are never copied week to week; their starred/pinned
	// flags follow the carried content into the destination week.
	for _, g := range snap.goals {
		if g.Depth != types.DepthQuarterly || !carriedParents[g.ID] {
			continue
		}
		state, inWeek := stateByGoal[g.ID]
		if !inWeek {
			continue
		}
		plan.quarterly = append(plan.quarterly, quarterlyUpdate{goal: g, state: state})
	}

	for _, g := range snap.adhoc {
		if g.IsComplete {
			continue
		}
		plan.adhoc = append(plan.adhoc, g)
	}

	return plan, nil
}

func summarize(g *types.Goal) GoalSummary {
	return GoalSummary{
		GoalID:   g.ID,
		Title:    g.Title,
		Depth:    g.Depth,
		ParentID: g.ParentID,
	}
}

func (p *weekPlan) preview(from, to period.TimePeriod) *WeekCarryOverPreview {
	out := &WeekCarryOverPreview{
		From:                   from,
		To:                     to,
		WeekStatesToCopy:       []WeeklyCarrySummary{},
		DailyGoalsToMove:       []GoalSummary{},
		QuarterlyGoalsToUpdate: []QuarterlyUpdateSummary{},
		AdhocGoalsToMove:       []GoalSummary{},
		SkippedGoals:           p.skipped,
	}
	if out.SkippedGoals == nil {
		out.SkippedGoals = []SkippedGoal{}
	}
	for _, w := range p.weekly {
		item := WeeklyCarrySummary{
			GoalSummary:      summarize(w.goal),
			Mode:             w.mode,
			CompleteChildren: w.completeCount,
		}
		for _, d := range w.incomplete {
			item.IncompleteChildren = append(item.IncompleteChildren, summarize(d.goal))
			out.DailyGoalsToMove = append(out.DailyGoalsToMove, summarize(d.goal))
		}
		out.WeekStatesToCopy = append(out.WeekStatesToCopy, item)
	}
	for _, q := range p.quarterly {
		out.QuarterlyGoalsToUpdate = append(out.QuarterlyGoalsToUpdate, QuarterlyUpdateSummary{
			GoalSummary: summarize(q.goal),
			IsStarred:   q.state.IsStarred,
			IsPinned:    q.state.IsPinned,
		})
	}
	for _, g := range p.adhoc {
		out.AdhocGoalsToMove = append(out.AdhocGoalsToMove, summarize(g))
	}
	return out
}
