package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/goalgrid-backend/internal/data/repos"
	types "github.com/yungbote/goalgrid-backend/internal/domain"
	"github.com/yungbote/goalgrid-backend/internal/period"
	"github.com/yungbote/goalgrid-backend/internal/pkg/dbctx"
	"github.com/yungbote/goalgrid-backend/internal/pkg/errs"
	"github.com/yungbote/goalgrid-backend/internal/pkg/logger"
	"github.com/yungbote/goalgrid-backend/internal/requestdata"
)

type CarryOverService interface {
	PreviewWeekCarryOver(dbc dbctx.Context, req WeekCarryOverRequest) (*WeekCarryOverPreview, error)
	ExecuteWeekCarryOver(dbc dbctx.Context, req WeekCarryOverRequest) (*WeekCarryOverResult, error)

	PreviewQuarterCarryOver(dbc dbctx.Context, req QuarterCarryOverRequest) (*QuarterCarryOverPreview, error)
	ExecuteQuarterCarryOver(dbc dbctx.Context, req QuarterCarryOverRequest) (*QuarterCarryOverResult, error)

	PreviewAdhocMove(dbc dbctx.Context, req AdhocMoveRequest) (*AdhocMovePreview, error)
	ExecuteAdhocMove(dbc dbctx.Context, req AdhocMoveRequest) (*AdhocMoveResult, error)

	FindLastNonEmptyWeek(dbc dbctx.Context, to period.TimePeriod) (*period.TimePeriod, error)
	FindLastNonEmptyWeekFanOut(dbc dbctx.Context, to period.TimePeriod) (*period.TimePeriod, error)
}

type carryOverService struct {
	db            *gorm.DB
	log           *logger.Logger
	goalRepo      repos.GoalRepo
	weekStateRepo repos.GoalWeekStateRepo
	resolver      rootGoalResolver
	searchHorizon int
}

func NewCarryOverService(db *gorm.DB, log *logger.Logger, goalRepo repos.GoalRepo, weekStateRepo repos.GoalWeekStateRepo, searchHorizon int) CarryOverService {
	serviceLog := log.With("service", "CarryOverService")
	if searchHorizon <= 0 {
		searchHorizon = CarryOverSearchHorizonWeeks
	}
	return &carryOverService{
		db:            db,
		log:           serviceLog,
		goalRepo:      goalRepo,
		weekStateRepo: weekStateRepo,
		resolver:      rootGoalResolver{goalRepo: goalRepo},
		searchHorizon: searchHorizon,
	}
}

func callerID(dbc dbctx.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, errs.ErrUnauthorized
	}
	return rd.UserID, nil
}

func (cs *carryOverService) validateWeekRequest(req WeekCarryOverRequest) error {
	if err := period.Validate(req.From); err != nil {
		return fmt.Errorf("%w: from: %v", errs.ErrInvalidArgument, err)
	}
	if err := period.Validate(req.To); err != nil {
		return fmt.Errorf("%w: to: %v", errs.ErrInvalidArgument, err)
	}
	if req.From.Year != req.To.Year || req.From.Quarter != req.To.Quarter {
		return fmt.Errorf("%w: week carryover stays within one quarter; use quarter carryover across quarters", errs.ErrInvalidArgument)
	}
	if !weekInQuarter(req.From, req.From.Year, req.From.Quarter) {
		return fmt.Errorf("%w: from: week %d is not in Q%d %d", errs.ErrInvalidArgument, req.From.WeekNumber, req.From.Quarter, req.From.Year)
	}
	if !weekInQuarter(req.To, req.To.Year, req.To.Quarter) {
		return fmt.Errorf("%w: to: week %d is not in Q%d %d", errs.ErrInvalidArgument, req.To.WeekNumber, req.To.Quarter, req.To.Year)
	}
	fromRef := period.WeekRef{Year: req.From.Year, WeekNumber: req.From.WeekNumber}
	toRef := period.WeekRef{Year: req.To.Year, WeekNumber: req.To.WeekNumber}
	if period.WeeksBetween(fromRef, toRef) <= 0 {
		return fmt.Errorf("%w: destination week must be after source week", errs.ErrInvalidArgument)
	}
	if req.ConsolidateToDay != nil && (*req.ConsolidateToDay < 0 || *req.ConsolidateToDay > 6) {
		return fmt.Errorf("%w: consolidateToDay out of range 0-6", errs.ErrInvalidArgument)
	}
	return nil
}

// loadWeekSnapshot reads everything planning needs: the source quarter's
// tree, the source week's states, adhoc goals under the source label, and a
// root-id map of weekly goals already present in the destination week.
func (cs *carryOverService) loadWeekSnapshot(dbc dbctx.Context, userID uuid.UUID, req WeekCarryOverRequest) (*weekSnapshot, error) {
	quarterGoals, err := cs.goalRepo.GetByQuarter(dbc, userID, req.From.Year, req.From.Quarter)
	if err != nil {
		return nil, fmt.Errorf("load source quarter goals: %w", err)
	}
	treeGoals := make([]*types.Goal, 0, len(quarterGoals))
	for _, g := range quarterGoals {
		if g.Depth != types.DepthAdhoc {
			treeGoals = append(treeGoals, g)
		}
	}

	fromStates, err := cs.weekStateRepo.GetByWeek(dbc, userID, req.From.Year, req.From.Quarter, req.From.WeekNumber)
	if err != nil {
		return nil, fmt.Errorf("load source week states: %w", err)
	}
	toStates, err := cs.weekStateRepo.GetByWeek(dbc, userID, req.To.Year, req.To.Quarter, req.To.WeekNumber)
	if err != nil {
		return nil, fmt.Errorf("load destination week states: %w", err)
	}

	adhoc, err := cs.goalRepo.GetAdhocByWeek(dbc, userID, req.From.Year, req.From.Quarter, req.From.WeekNumber)
	if err != nil {
		return nil, fmt.Errorf("load source week adhoc goals: %w", err)
	}

	// Weekly goals already sitting in the destination week, keyed by root id.
	// This is what makes a double-triggered carryover a no-op instead of a
	// duplicate import.
	inToWeek := make(map[uuid.UUID]bool, len(toStates))
	for _, st := range toStates {
		inToWeek[st.GoalID] = true
	}
	existingWeekly := make(ExistingGoalsMap)
	for _, g := range treeGoals {
		if g.Depth == types.DepthWeekly && inToWeek[g.ID] {
			rootID := RootGoalID(g)
			if _, ok := existingWeekly[rootID]; !ok {
				existingWeekly[rootID] = g
			}
		}
	}

	fromRef := period.WeekRef{Year: req.From.Year, WeekNumber: req.From.WeekNumber}
	toRef := period.WeekRef{Year: req.To.Year, WeekNumber: req.To.WeekNumber}

	return &weekSnapshot{
		from:           req.From,
		to:             req.To,
		numWeeks:       period.WeeksBetween(fromRef, toRef),
		goals:          treeGoals,
		states:         fromStates,
		adhoc:          adhoc,
		existingWeekly: existingWeekly,
		consolidateTo:  req.ConsolidateToDay,
	}, nil
}

func (cs *carryOverService) PreviewWeekCarryOver(dbc dbctx.Context, req WeekCarryOverRequest) (*WeekCarryOverPreview, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	if err := cs.validateWeekRequest(req); err != nil {
		return nil, err
	}
	snap, err := cs.loadWeekSnapshot(dbc, userID, req)
	if err != nil {
		return nil, err
	}
	plan, err := planWeekCarryOver(snap)
	if err != nil {
		return nil, err
	}
	return plan.preview(req.From, req.To), nil
}

func (cs *carryOverService) ExecuteWeekCarryOver(dbc dbctx.Context, req WeekCarryOverRequest) (*WeekCarryOverResult, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	if err := cs.validateWeekRequest(req); err != nil {
		return nil, err
	}

	var result *WeekCarryOverResult
	err = cs.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		snap, err := cs.loadWeekSnapshot(txc, userID, req)
		if err != nil {
			return err
		}
		plan, err := planWeekCarryOver(snap)
		if err != nil {
			return err
		}
		result, err = cs.applyWeekPlan(txc, userID, snap, plan)
		return err
	})
	if err != nil {
		return nil, err
	}
	cs.log.Info("Week carryover executed",
		"user_id", userID.String(),
		"from_week", req.From.WeekNumber,
		"to_week", req.To.WeekNumber,
		"week_states_copied", result.WeekStatesCopied,
		"daily_goals_moved", result.DailyGoalsMoved,
		"quarterly_goals_updated", result.QuarterlyGoalsUpdated,
		"adhoc_goals_moved", result.AdhocGoalsMoved,
		"skipped", len(result.Preview.SkippedGoals),
	)
	return result, nil
}

func (cs *carryOverService) applyWeekPlan(dbc dbctx.Context, userID uuid.UUID, snap *weekSnapshot, plan *weekPlan) (*WeekCarryOverResult, error) {
	result := &WeekCarryOverResult{Preview: plan.preview(snap.from, snap.to)}

	for _, w := range plan.weekly {
		switch w.mode {
		case ModeMoveAll:
			stateIDs := []uuid.UUID{w.state.ID}
			for _, d := range w.incomplete {
				stateIDs = append(stateIDs, d.state.ID)
			}
			if err := cs.weekStateRepo.UpdateWeekNumber(dbc, stateIDs, snap.to.WeekNumber); err != nil {
				return nil, fmt.Errorf("relocate week states for goal %s: %w", w.goal.ID, err)
			}
			if snapDay := consolidateDay(snap); snapDay != nil {
				for _, d := range w.incomplete {
					if err := cs.weekStateRepo.UpdateDaily(dbc, d.state.ID, mergedDaily(d.state.Daily, *snapDay)); err != nil {
						return nil, fmt.Errorf("reassign day for goal %s: %w", d.goal.ID, err)
					}
				}
			}
			result.WeekStatesCopied++
			result.DailyGoalsMoved += len(w.incomplete)

		case ModeCopyChildren:
			weeklyCopy := copyGoalForward(w.goal, snap.numWeeks, types.CarryOverTypeWeek)
			children := make([]*types.Goal, 0, len(w.incomplete))
			for _, d := range w.incomplete {
				childCopy := copyGoalForward(d.goal, snap.numWeeks, types.CarryOverTypeWeek)
				childCopy.ParentID = &weeklyCopy.ID
				childCopy.InPath = w.goal.InPath + "/" + weeklyCopy.ID.String()
				children = append(children, childCopy)
			}
			if _, err := cs.goalRepo.Create(dbc, append([]*types.Goal{weeklyCopy}, children...)); err != nil {
				return nil, fmt.Errorf("create carryover copies for goal %s: %w", w.goal.ID, err)
			}

			states := []*types.GoalWeekState{{
				ID: uuid.New(), UserID: userID, GoalID: weeklyCopy.ID,
				Year: snap.to.Year, Quarter: snap.to.Quarter, WeekNumber: snap.to.WeekNumber,
				IsStarred: w.state.IsStarred, IsPinned: w.state.IsPinned,
			}}
			for i, d := range w.incomplete {
				daily := d.state.Daily
				if snapDay := consolidateDay(snap); snapDay != nil {
					daily = mergedDaily(daily, *snapDay)
				}
				states = append(states, &types.GoalWeekState{
					ID: uuid.New(), UserID: userID, GoalID: children[i].ID,
					Year: snap.to.Year, Quarter: snap.to.Quarter, WeekNumber: snap.to.WeekNumber,
					Daily: daily,
				})
			}
			if _, err := cs.weekStateRepo.Create(dbc, states); err != nil {
				return nil, fmt.Errorf("create destination week states for goal %s: %w", w.goal.ID, err)
			}
			result.WeekStatesCopied++
			result.DailyGoalsMoved += len(w.incomplete)
		}
	}

	for _, q := range plan.quarterly {
		if _, err := cs.weekStateRepo.Upsert(dbc, &types.GoalWeekState{
			ID: uuid.New(), UserID: userID, GoalID: q.goal.ID,
			Year: snap.to.Year, Quarter: snap.to.Quarter, WeekNumber: snap.to.WeekNumber,
			IsStarred: q.state.IsStarred, IsPinned: q.state.IsPinned,
		}); err != nil {
			return nil, fmt.Errorf("propagate star/pin for quarterly goal %s: %w", q.goal.ID, err)
		}
		result.QuarterlyGoalsUpdated++
	}

	for _, g := range plan.adhoc {
		adhoc := g.Adhoc
		if adhoc == nil {
			adhoc = &types.AdhocInfo{}
		}
		moved := *adhoc
		moved.WeekNumber = snap.to.WeekNumber
		if snapDay := consolidateDay(snap); snapDay != nil {
			moved.DayOfWeek = snapDay
		}
		if err := cs.goalRepo.UpdateAdhoc(dbc, g.ID, &moved); err != nil {
			return nil, fmt.Errorf("move adhoc goal %s: %w", g.ID, err)
		}
		result.AdhocGoalsMoved++
	}

	return result, nil
}

// copyGoalForward clones a goal into a fresh record that remembers where it
// came from. The copy starts incomplete regardless of the source.
func copyGoalForward(g *types.Goal, numWeeks int, carryType string) *types.Goal {
	return &types.Goal{
		ID:       uuid.New(),
		UserID:   g.UserID,
		Title:    g.Title,
		Details:  g.Details,
		Year:     g.Year,
		Quarter:  g.Quarter,
		Depth:    g.Depth,
		ParentID: g.ParentID,
		InPath:   g.InPath,
		DomainID: g.DomainID,
		CarryOver: &types.CarryOver{
			Type:     carryType,
			NumWeeks: numWeeks,
			FromGoal: types.CarryOverFrom{
				PreviousGoalID: g.ID,
				RootGoalID:     RootGoalID(g),
			},
		},
	}
}

func consolidateDay(snap *weekSnapshot) *int {
	return snap.consolidateTo
}

func mergedDaily(prev *types.DailyState, day int) *types.DailyState {
	out := &types.DailyState{DayOfWeek: day}
	if prev != nil {
		out.DueDate = prev.DueDate
	}
	return out
}
