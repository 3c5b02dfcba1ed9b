package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/goalgrid-backend/internal/domain"
	"github.com/yungbote/goalgrid-backend/internal/period"
	"github.com/yungbote/goalgrid-backend/internal/pkg/dbctx"
	"github.com/yungbote/goalgrid-backend/internal/pkg/errs"
)

type quarterCarry struct {
	goal      *types.Goal
	isStarred bool
	isPinned  bool
}

type quarterSnapshot struct {
	from period.TimePeriod
	to   period.TimePeriod

	quarterly []*types.Goal
	states    map[uuid.UUID]*types.GoalWeekState // final-week states of the source quarter
	existing  ExistingGoalsMap                   // destination quarter, depth 0, by root id
}

type quarterPlan struct {
	copies  []quarterCarry
	skipped []SkippedGoal
}

// resolveQuarterRequest fills in a zero From by stepping back one quarter
// from To and addressing its final week.
func resolveQuarterRequest(req QuarterCarryOverRequest) (QuarterCarryOverRequest, error) {
	if err := period.Validate(req.To); err != nil {
		return req, fmt.Errorf("%w: to: %v", errs.ErrInvalidArgument, err)
	}
	if req.From.Year == 0 {
		prevYear, prevQuarter := period.PreviousQuarter(req.To.Year, req.To.Quarter)
		final := period.FinalWeeksOfQuarter(prevYear, prevQuarter)
		last := final[len(final)-1]
		req.From = period.TimePeriod{Year: last.Year, Quarter: prevQuarter, WeekNumber: last.WeekNumber}
	}
	if err := period.Validate(req.From); err != nil {
		return req, fmt.Errorf("%w: from: %v", errs.ErrInvalidArgument, err)
	}
	if req.From.Year == req.To.Year && req.From.Quarter == req.To.Quarter {
		return req, fmt.Errorf("%w: quarter carryover needs distinct quarters", errs.ErrInvalidArgument)
	}
	if !weekInQuarter(req.From, req.From.Year, req.From.Quarter) {
		return req, fmt.Errorf("%w: from: week %d is not in Q%d %d", errs.ErrInvalidArgument, req.From.WeekNumber, req.From.Quarter, req.From.Year)
	}
	if !weekInQuarter(req.To, req.To.Year, req.To.Quarter) {
		return req, fmt.Errorf("%w: to: week %d is not in Q%d %d", errs.ErrInvalidArgument, req.To.WeekNumber, req.To.Quarter, req.To.Year)
	}
	return req, nil
}

func (cs *carryOverService) loadQuarterSnapshot(dbc dbctx.Context, userID uuid.UUID, req QuarterCarryOverRequest) (*quarterSnapshot, error) {
	quarterly, err := cs.goalRepo.GetByQuarterAndDepth(dbc, userID, req.From.Year, req.From.Quarter, types.DepthQuarterly)
	if err != nil {
		return nil, fmt.Errorf("load source quarterly goals: %w", err)
	}

	finalStates, err := cs.weekStateRepo.GetByWeek(dbc, userID, req.From.Year, req.From.Quarter, req.From.WeekNumber)
	if err != nil {
		return nil, fmt.Errorf("load source final week states: %w", err)
	}
	stateByGoal := make(map[uuid.UUID]*types.GoalWeekState, len(finalStates))
	for _, st := range finalStates {
		stateByGoal[st.GoalID] = st
	}

	existing, err := cs.resolver.BuildExistingGoalsMap(dbc, userID, req.To.Year, req.To.Quarter, types.DepthQuarterly)
	if err != nil {
		return nil, fmt.Errorf("index destination quarter: %w", err)
	}

	return &quarterSnapshot{
		from:      req.From,
		to:        req.To,
		quarterly: quarterly,
		states:    stateByGoal,
		existing:  existing,
	}, nil
}

// planQuarterCarryOver selects the incomplete quarterly goals of the source
// quarter that are not already represented in the destination quarter.
// Completion counts from either the goal record or its final-week state.
func planQuarterCarryOver(snap *quarterSnapshot) *quarterPlan {
	plan := &quarterPlan{}
	for _, g := range snap.quarterly {
		state := snap.states[g.ID]
		done := g.IsComplete || (state != nil && state.IsComplete)
		if done {
			continue
		}
		if existing := snap.existing.Find(RootGoalID(g), g.Depth, g.ParentID); existing != nil {
			plan.skipped = append(plan.skipped, SkippedGoal{
				GoalID: g.ID,
				Title:  g.Title,
				Reason: SkipReasonAlreadyMoved,
			})
			continue
		}
		carry := quarterCarry{goal: g}
		if state != nil {
			carry.isStarred = state.IsStarred
			carry.isPinned = state.IsPinned
		}
		plan.copies = append(plan.copies, carry)
	}
	return plan
}

func (p *quarterPlan) preview(from, to period.TimePeriod) *QuarterCarryOverPreview {
	out := &QuarterCarryOverPreview{
		From:                 from,
		To:                   to,
		QuarterlyGoalsToCopy: []QuarterlyUpdateSummary{},
		SkippedGoals:         p.skipped,
	}
	if out.SkippedGoals == nil {
		out.SkippedGoals = []SkippedGoal{}
	}
	for _, c := range p.copies {
		out.QuarterlyGoalsToCopy = append(out.QuarterlyGoalsToCopy, QuarterlyUpdateSummary{
			GoalSummary: summarize(c.goal),
			IsStarred:   c.isStarred,
			IsPinned:    c.isPinned,
		})
	}
	return out
}

func (cs *carryOverService) PreviewQuarterCarryOver(dbc dbctx.Context, req QuarterCarryOverRequest) (*QuarterCarryOverPreview, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	resolved, err := resolveQuarterRequest(req)
	if err != nil {
		return nil, err
	}
	snap, err := cs.loadQuarterSnapshot(dbc, userID, resolved)
	if err != nil {
		return nil, err
	}
	return planQuarterCarryOver(snap).preview(resolved.From, resolved.To), nil
}

func (cs *carryOverService) ExecuteQuarterCarryOver(dbc dbctx.Context, req QuarterCarryOverRequest) (*QuarterCarryOverResult, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	resolved, err := resolveQuarterRequest(req)
	if err != nil {
		return nil, err
	}

	var result *QuarterCarryOverResult
	err = cs.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		snap, err := cs.loadQuarterSnapshot(txc, userID, resolved)
		if err != nil {
			return err
		}
		plan := planQuarterCarryOver(snap)
		result, err = cs.applyQuarterPlan(txc, userID, snap, plan)
		return err
	})
	if err != nil {
		return nil, err
	}
	cs.log.Info("Quarter carryover executed",
		"user_id", userID.String(),
		"from_quarter", resolved.From.Quarter,
		"to_quarter", resolved.To.Quarter,
		"quarterly_goals_copied", result.QuarterlyGoalsCopied,
		"week_states_copied", result.WeekStatesCopied,
		"skipped", len(result.Preview.SkippedGoals),
	)
	return result, nil
}

func (cs *carryOverService) applyQuarterPlan(dbc dbctx.Context, userID uuid.UUID, snap *quarterSnapshot, plan *quarterPlan) (*QuarterCarryOverResult, error) {
	result := &QuarterCarryOverResult{Preview: plan.preview(snap.from, snap.to)}

	fromRef := period.WeekRef{Year: snap.from.Year, WeekNumber: snap.from.WeekNumber}
	toRef := period.WeekRef{Year: snap.to.Year, WeekNumber: snap.to.WeekNumber}
	numWeeks := period.WeeksBetween(fromRef, toRef)

	for _, c := range plan.copies {
		goalCopy := copyGoalForward(c.goal, numWeeks, types.CarryOverTypeQuarter)
		goalCopy.Year = snap.to.Year
		goalCopy.Quarter = snap.to.Quarter
		if _, err := cs.goalRepo.Create(dbc, []*types.Goal{goalCopy}); err != nil {
			return nil, fmt.Errorf("copy quarterly goal %s: %w", c.goal.ID, err)
		}
		result.QuarterlyGoalsCopied++

		if c.isStarred || c.isPinned {
			if _, err := cs.weekStateRepo.Upsert(dbc, &types.GoalWeekState{
				ID: uuid.New(), UserID: userID, GoalID: goalCopy.ID,
				Year: snap.to.Year, Quarter: snap.to.Quarter, WeekNumber: snap.to.WeekNumber,
				IsStarred: c.isStarred, IsPinned: c.isPinned,
			}); err != nil {
				return nil, fmt.Errorf("carry star/pin for quarterly goal %s: %w", c.goal.ID, err)
			}
			result.WeekStatesCopied++
		}
	}

	return result, nil
}
