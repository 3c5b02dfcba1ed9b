package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/goalgrid-backend/internal/data/repos"
	types "github.com/yungbote/goalgrid-backend/internal/domain"
	"github.com/yungbote/goalgrid-backend/internal/goaltree"
	"github.com/yungbote/goalgrid-backend/internal/period"
	"github.com/yungbote/goalgrid-backend/internal/pkg/apierr"
	"github.com/yungbote/goalgrid-backend/internal/pkg/dbctx"
	"github.com/yungbote/goalgrid-backend/internal/pkg/errs"
	"github.com/yungbote/goalgrid-backend/internal/pkg/logger"
	"github.com/yungbote/goalgrid-backend/internal/requestdata"
)

type CreateGoalRequest struct {
	Title    string          `json:"title"`
	Details  datatypes.JSON  `json:"details,omitempty"`
	Year     int             `json:"year"`
	Quarter  int             `json:"quarter"`
	Depth    int             `json:"depth"`
	ParentID *uuid.UUID      `json:"parentId,omitempty"`
	DomainID *uuid.UUID      `json:"domainId,omitempty"`
	Adhoc    *types.AdhocInfo `json:"adhoc,omitempty"`

	// Week attaches a weekly or daily goal to a week on creation. DayOfWeek
	// inside it schedules a daily goal onto a day.
	Week *period.TimePeriod `json:"week,omitempty"`
}

type UpdateGoalRequest struct {
	Title   *string        `json:"title,omitempty"`
	Details datatypes.JSON `json:"details,omitempty"`
}

type WeekStatePatch struct {
	IsStarred  *bool             `json:"isStarred,omitempty"`
	IsPinned   *bool             `json:"isPinned,omitempty"`
	IsComplete *bool             `json:"isComplete,omitempty"`
	Daily      *types.DailyState `json:"daily,omitempty"`
}

// WeekView is one week's working set: the tree goals attached to the week,
// their per-week states, and the adhoc goals labeled with the week.
type WeekView struct {
	Period period.TimePeriod      `json:"period"`
	Goals  []*types.Goal          `json:"goals"`
	States []*types.GoalWeekState `json:"states"`
	Adhoc  []*types.Goal          `json:"adhoc"`
}

type GoalService interface {
	CreateGoal(ctx context.Context, req CreateGoalRequest) (*types.Goal, error)
	UpdateGoal(ctx context.Context, goalID uuid.UUID, req UpdateGoalRequest) error
	SetGoalCompletion(ctx context.Context, goalID uuid.UUID, isComplete bool) error
	DeleteGoal(ctx context.Context, goalID uuid.UUID) error

	GetQuarterTree(ctx context.Context, year, quarter int) ([]*goaltree.Node, error)
	GetWeekView(ctx context.Context, p period.TimePeriod) (*WeekView, error)

	AttachGoalToWeek(ctx context.Context, goalID uuid.UUID, p period.TimePeriod, daily *types.DailyState) (*types.GoalWeekState, error)
	UpdateWeekState(ctx context.Context, goalID uuid.UUID, p period.TimePeriod, patch WeekStatePatch) error

	CreateDomain(ctx context.Context, name, color string) (*types.GoalDomain, error)
	ListDomains(ctx context.Context) ([]*types.GoalDomain, error)
	DeleteDomain(ctx context.Context, domainID uuid.UUID) error
}

type goalService struct {
	db            *gorm.DB
	log           *logger.Logger
	goalRepo      repos.GoalRepo
	weekStateRepo repos.GoalWeekStateRepo
	domainRepo    repos.GoalDomainRepo
}

func NewGoalService(db *gorm.DB, log *logger.Logger, goalRepo repos.GoalRepo, weekStateRepo repos.GoalWeekStateRepo, domainRepo repos.GoalDomainRepo) GoalService {
	serviceLog := log.With("service", "GoalService")
	return &goalService{
		db:            db,
		log:           serviceLog,
		goalRepo:      goalRepo,
		weekStateRepo: weekStateRepo,
		domainRepo:    domainRepo,
	}
}

func (gs *goalService) caller(ctx context.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, errs.ErrUnauthorized
	}
	return rd.UserID, nil
}

// ownedGoal loads a goal and rejects access by anyone but its owner.
func (gs *goalService) ownedGoal(dbc dbctx.Context, userID, goalID uuid.UUID) (*types.Goal, error) {
	goals, err := gs.goalRepo.GetByIDs(dbc, []uuid.UUID{goalID})
	if err != nil {
		return nil, fmt.Errorf("load goal: %w", err)
	}
	if len(goals) == 0 {
		return nil, errs.ErrNotFound
	}
	g := goals[0]
	if g.UserID != userID {
		return nil, errs.ErrForbidden
	}
	return g, nil
}

func weekInQuarter(p period.TimePeriod, year, quarter int) bool {
	for _, w := range period.QuarterWeeks(year, quarter).Weeks {
		if w.Year == p.Year && w.WeekNumber == p.WeekNumber {
			return true
		}
	}
	return false
}

func (gs *goalService) CreateGoal(ctx context.Context, req CreateGoalRequest) (*types.Goal, error) {
	userID, err := gs.caller(ctx)
	if err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title required", errs.ErrInvalidArgument)
	}
	if req.Quarter < 1 || req.Quarter > 4 {
		return nil, fmt.Errorf("%w: quarter out of range", errs.ErrInvalidArgument)
	}
	switch req.Depth {
	case types.DepthQuarterly, types.DepthWeekly, types.DepthDaily:
		if req.Adhoc != nil {
			return nil, fmt.Errorf("%w: tree goals take no adhoc info", errs.ErrInvalidArgument)
		}
		if (req.Depth == types.DepthQuarterly) != (req.ParentID == nil) {
			return nil, fmt.Errorf("%w: depth %d and parent do not agree", errs.ErrInvalidArgument, req.Depth)
		}
	case types.DepthAdhoc:
		if req.Adhoc == nil {
			return nil, fmt.Errorf("%w: adhoc goals need adhoc info", errs.ErrInvalidArgument)
		}
		if req.ParentID != nil {
			return nil, fmt.Errorf("%w: adhoc goals take no parent", errs.ErrInvalidArgument)
		}
	default:
		return nil, fmt.Errorf("%w: unknown depth %d", errs.ErrInvalidArgument, req.Depth)
	}
	if req.Week != nil {
		if req.Depth != types.DepthWeekly && req.Depth != types.DepthDaily {
			return nil, fmt.Errorf("%w: only weekly and daily goals attach to weeks", errs.ErrInvalidArgument)
		}
		if err := period.Validate(*req.Week); err != nil {
			return nil, fmt.Errorf("%w: week: %v", errs.ErrInvalidArgument, err)
		}
		if !weekInQuarter(*req.Week, req.Year, req.Quarter) {
			return nil, fmt.Errorf("%w: week %d/%d is outside Q%d %d", errs.ErrInvalidArgument, req.Week.WeekNumber, req.Week.Year, req.Quarter, req.Year)
		}
	}

	goal := &types.Goal{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    req.Title,
		Details:  req.Details,
		Year:     req.Year,
		Quarter:  req.Quarter,
		Depth:    req.Depth,
		ParentID: req.ParentID,
		DomainID: req.DomainID,
		Adhoc:    req.Adhoc,
	}

	err = gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		switch req.Depth {
		case types.DepthAdhoc:
			goal.InPath = ""
		case types.DepthQuarterly:
			goal.InPath = "/"
		default:
			parent, pErr := gs.ownedGoal(dbc, userID, *req.ParentID)
			if pErr != nil {
				return pErr
			}
			if parent.Depth != req.Depth-1 {
				return fmt.Errorf("%w: parent depth %d cannot hold depth %d", errs.ErrInvalidArgument, parent.Depth, req.Depth)
			}
			if parent.Year != req.Year || parent.Quarter != req.Quarter {
				return fmt.Errorf("%w: parent lives in a different quarter", errs.ErrInvalidArgument)
			}
			if parent.Depth == types.DepthQuarterly {
				goal.InPath = "/" + parent.ID.String()
			} else {
				goal.InPath = parent.InPath + "/" + parent.ID.String()
			}
		}

		if _, cErr := gs.goalRepo.Create(dbc, []*types.Goal{goal}); cErr != nil {
			return fmt.Errorf("create goal: %w", cErr)
		}

		if req.Week != nil {
			var daily *types.DailyState
			if req.Depth == types.DepthDaily && req.Week.DayOfWeek != nil {
				daily = &types.DailyState{DayOfWeek: *req.Week.DayOfWeek}
			}
			state := &types.GoalWeekState{
				ID: uuid.New(), UserID: userID, GoalID: goal.ID,
				Year: req.Week.Year, Quarter: req.Quarter, WeekNumber: req.Week.WeekNumber,
				Daily: daily,
			}
			if _, sErr := gs.weekStateRepo.Create(dbc, []*types.GoalWeekState{state}); sErr != nil {
				return fmt.Errorf("attach goal to week: %w", sErr)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

func (gs *goalService) UpdateGoal(ctx context.Context, goalID uuid.UUID, req UpdateGoalRequest) error {
	userID, err := gs.caller(ctx)
	if err != nil {
		return err
	}
	updates := map[string]any{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return fmt.Errorf("%w: title cannot be empty", errs.ErrInvalidArgument)
		}
		updates["title"] = title
	}
	if req.Details != nil {
		updates["details"] = req.Details
	}
	if len(updates) == 0 {
		return fmt.Errorf("%w: nothing to update", errs.ErrInvalidArgument)
	}

	return gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, oErr := gs.ownedGoal(dbc, userID, goalID); oErr != nil {
			return oErr
		}
		return gs.goalRepo.UpdateTitleDetails(dbc, goalID, updates)
	})
}

func (gs *goalService) SetGoalCompletion(ctx context.Context, goalID uuid.UUID, isComplete bool) error {
	userID, err := gs.caller(ctx)
	if err != nil {
		return err
	}
	return gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, oErr := gs.ownedGoal(dbc, userID, goalID); oErr != nil {
			return oErr
		}
		return gs.goalRepo.UpdateCompletion(dbc, goalID, isComplete)
	})
}

// DeleteGoal removes a goal, every goal below it, and all of their week
// states.
func (gs *goalService) DeleteGoal(ctx context.Context, goalID uuid.UUID) error {
	userID, err := gs.caller(ctx)
	if err != nil {
		return err
	}
	return gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		g, oErr := gs.ownedGoal(dbc, userID, goalID)
		if oErr != nil {
			return oErr
		}

		doomed := []uuid.UUID{g.ID}
		if g.Depth != types.DepthAdhoc && g.Depth < types.DepthDaily {
			quarterGoals, qErr := gs.goalRepo.GetByQuarter(dbc, userID, g.Year, g.Quarter)
			if qErr != nil {
				return fmt.Errorf("load quarter for delete: %w", qErr)
			}
			treeGoals := make([]*types.Goal, 0, len(quarterGoals))
			for _, qg := range quarterGoals {
				if qg.Depth != types.DepthAdhoc {
					treeGoals = append(treeGoals, qg)
				}
			}
			_, index, bErr := goaltree.Build(treeGoals, nil)
			if bErr != nil {
				return fmt.Errorf("rebuild tree for delete: %w", bErr)
			}
			if node, ok := index[g.ID]; ok {
				doomed = append(doomed, subtreeIDs(node)...)
			}
		}

		if dErr := gs.weekStateRepo.DeleteByGoalIDs(dbc, doomed); dErr != nil {
			return fmt.Errorf("delete week states: %w", dErr)
		}
		if dErr := gs.goalRepo.Delete(dbc, userID, doomed); dErr != nil {
			return fmt.Errorf("delete goals: %w", dErr)
		}
		return nil
	})
}

func subtreeIDs(node *goaltree.Node) []uuid.UUID {
	var ids []uuid.UUID
	for _, child := range node.Children {
		ids = append(ids, child.Goal.ID)
		ids = append(ids, subtreeIDs(child)...)
	}
	return ids
}

func (gs *goalService) GetQuarterTree(ctx context.Context, year, quarter int) ([]*goaltree.Node, error) {
	userID, err := gs.caller(ctx)
	if err != nil {
		return nil, err
	}
	if quarter < 1 || quarter > 4 {
		return nil, fmt.Errorf("%w: quarter out of range", errs.ErrInvalidArgument)
	}
	dbc := dbctx.Context{Ctx: ctx}

	quarterGoals, qErr := gs.goalRepo.GetByQuarter(dbc, userID, year, quarter)
	if qErr != nil {
		return nil, fmt.Errorf("load quarter goals: %w", qErr)
	}
	treeGoals := make([]*types.Goal, 0, len(quarterGoals))
	goalIDs := make([]uuid.UUID, 0, len(quarterGoals))
	for _, g := range quarterGoals {
		if g.Depth != types.DepthAdhoc {
			treeGoals = append(treeGoals, g)
			goalIDs = append(goalIDs, g.ID)
		}
	}

	states, sErr := gs.weekStateRepo.GetByGoalIDs(dbc, goalIDs)
	if sErr != nil {
		return nil, fmt.Errorf("load week states: %w", sErr)
	}
	statesByGoal := make(map[uuid.UUID][]*types.GoalWeekState, len(states))
	for _, st := range states {
		statesByGoal[st.GoalID] = append(statesByGoal[st.GoalID], st)
	}

	roots, _, bErr := goaltree.Build(treeGoals, func(g *types.Goal) any {
		return statesByGoal[g.ID]
	})
	if bErr != nil {
		return nil, fmt.Errorf("build quarter tree: %w", bErr)
	}
	return roots, nil
}

func (gs *goalService) GetWeekView(ctx context.Context, p period.TimePeriod) (*WeekView, error) {
	userID, err := gs.caller(ctx)
	if err != nil {
		return nil, err
	}
	if vErr := period.Validate(p); vErr != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidArgument, vErr)
	}
	dbc := dbctx.Context{Ctx: ctx}

	states, sErr := gs.weekStateRepo.GetByWeek(dbc, userID, p.Year, p.Quarter, p.WeekNumber)
	if sErr != nil {
		return nil, fmt.Errorf("load week states: %w", sErr)
	}
	goalIDs := make([]uuid.UUID, 0, len(states))
	for _, st := range states {
		goalIDs = append(goalIDs, st.GoalID)
	}
	goals := []*types.Goal{}
	if len(goalIDs) > 0 {
		loaded, gErr := gs.goalRepo.GetByIDs(dbc, goalIDs)
		if gErr != nil {
			return nil, fmt.Errorf("load week goals: %w", gErr)
		}
		goals = loaded
	}
	var adhoc []*types.Goal
	var aErr error
	if p.DayOfWeek != nil {
		adhoc, aErr = gs.goalRepo.GetAdhocByDay(dbc, userID, p.Year, p.Quarter, p.WeekNumber, *p.DayOfWeek)
	} else {
		adhoc, aErr = gs.goalRepo.GetAdhocByWeek(dbc, userID, p.Year, p.Quarter, p.WeekNumber)
	}
	if aErr != nil {
		return nil, fmt.Errorf("load adhoc goals: %w", aErr)
	}

	return &WeekView{Period: p, Goals: goals, States: states, Adhoc: adhoc}, nil
}

func (gs *goalService) AttachGoalToWeek(ctx context.Context, goalID uuid.UUID, p period.TimePeriod, daily *types.DailyState) (*types.GoalWeekState, error) {
	userID, err := gs.caller(ctx)
	if err != nil {
		return nil, err
	}
	if vErr := period.Validate(p); vErr != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidArgument, vErr)
	}

	var state *types.GoalWeekState
	err = gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		g, oErr := gs.ownedGoal(dbc, userID, goalID)
		if oErr != nil {
			return oErr
		}
		if g.Depth != types.DepthWeekly && g.Depth != types.DepthDaily {
			return fmt.Errorf("%w: only weekly and daily goals attach to weeks", errs.ErrInvalidArgument)
		}
		if !weekInQuarter(p, g.Year, g.Quarter) {
			return fmt.Errorf("%w: week %d/%d is outside the goal's quarter", errs.ErrInvalidArgument, p.WeekNumber, p.Year)
		}
		if daily != nil && g.Depth != types.DepthDaily {
			return fmt.Errorf("%w: only daily goals take a day assignment", errs.ErrInvalidArgument)
		}

		upserted, uErr := gs.weekStateRepo.Upsert(dbc, &types.GoalWeekState{
			ID: uuid.New(), UserID: userID, GoalID: g.ID,
			Year: p.Year, Quarter: p.Quarter, WeekNumber: p.WeekNumber,
			Daily: daily,
		})
		if uErr != nil {
			return fmt.Errorf("attach goal to week: %w", uErr)
		}
		state = upserted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (gs *goalService) UpdateWeekState(ctx context.Context, goalID uuid.UUID, p period.TimePeriod, patch WeekStatePatch) error {
	userID, err := gs.caller(ctx)
	if err != nil {
		return err
	}
	if vErr := period.Validate(p); vErr != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidArgument, vErr)
	}

	return gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, oErr := gs.ownedGoal(dbc, userID, goalID); oErr != nil {
			return oErr
		}
		states, sErr := gs.weekStateRepo.GetByWeek(dbc, userID, p.Year, p.Quarter, p.WeekNumber)
		if sErr != nil {
			return fmt.Errorf("load week states: %w", sErr)
		}
		var state *types.GoalWeekState
		for _, st := range states {
			if st.GoalID == goalID {
				state = st
				break
			}
		}
		if state == nil {
			return errs.ErrNotFound
		}

		if patch.IsStarred != nil || patch.IsPinned != nil {
			starred := state.IsStarred
			pinned := state.IsPinned
			if patch.IsStarred != nil {
				starred = *patch.IsStarred
			}
			if patch.IsPinned != nil {
				pinned = *patch.IsPinned
			}
			if uErr := gs.weekStateRepo.UpdateStarPin(dbc, state.ID, starred, pinned); uErr != nil {
				return fmt.Errorf("update star/pin: %w", uErr)
			}
		}
		if patch.IsComplete != nil {
			state.IsComplete = *patch.IsComplete
			if _, uErr := gs.weekStateRepo.Upsert(dbc, state); uErr != nil {
				return fmt.Errorf("update completion: %w", uErr)
			}
		}
		if patch.Daily != nil {
			if uErr := gs.weekStateRepo.UpdateDaily(dbc, state.ID, patch.Daily); uErr != nil {
				return fmt.Errorf("update daily assignment: %w", uErr)
			}
		}
		return nil
	})
}

func (gs *goalService) CreateDomain(ctx context.Context, name, color string) (*types.GoalDomain, error) {
	userID, err := gs.caller(ctx)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", errs.ErrInvalidArgument)
	}
	domain := &types.GoalDomain{ID: uuid.New(), UserID: userID, Name: name, Color: color}
	if _, cErr := gs.domainRepo.Create(dbctx.Context{Ctx: ctx}, []*types.GoalDomain{domain}); cErr != nil {
		return nil, fmt.Errorf("create domain: %w", cErr)
	}
	return domain, nil
}

func (gs *goalService) ListDomains(ctx context.Context) ([]*types.GoalDomain, error) {
	userID, err := gs.caller(ctx)
	if err != nil {
		return nil, err
	}
	domains, lErr := gs.domainRepo.GetByUser(dbctx.Context{Ctx: ctx}, userID)
	if lErr != nil {
		return nil, fmt.Errorf("list domains: %w", lErr)
	}
	return domains, nil
}

func (gs *goalService) DeleteDomain(ctx context.Context, domainID uuid.UUID) error {
	userID, err := gs.caller(ctx)
	if err != nil {
		return err
	}
	return gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		inUse, cErr := gs.goalRepo.CountByDomain(dbc, userID, domainID)
		if cErr != nil {
			return fmt.Errorf("count goals in domain: %w", cErr)
		}
		if inUse > 0 {
			return apierr.New(http.StatusConflict, "domain_in_use",
				fmt.Errorf("domain still has %d goals", inUse))
		}
		if dErr := gs.domainRepo.Delete(dbc, userID, domainID); dErr != nil {
			return fmt.Errorf("delete domain: %w", dErr)
		}
		return nil
	})
}
