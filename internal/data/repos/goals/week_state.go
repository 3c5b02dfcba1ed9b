package goals

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/goalgrid-backend/internal/domain"
	"github.com/yungbote/goalgrid-backend/internal/pkg/dbctx"
	"github.com/yungbote/goalgrid-backend/internal/pkg/logger"
)

type GoalWeekStateRepo interface {
	Create(dbc dbctx.Context, states []*types.GoalWeekState) ([]*types.GoalWeekState, error)
	Upsert(dbc dbctx.Context, state *types.GoalWeekState) (*types.GoalWeekState, error)
	GetByWeek(dbc dbctx.Context, userID uuid.UUID, year, quarter, weekNumber int) ([]*types.GoalWeekState, error)
	GetByGoalIDs(dbc dbctx.Context, goalIDs []uuid.UUID) ([]*types.GoalWeekState, error)
	UpdateWeekNumber(dbc dbctx.Context, stateIDs []uuid.UUID, weekNumber int) error
	UpdateStarPin(dbc dbctx.Context, stateID uuid.UUID, isStarred, isPinned bool) error
	UpdateDaily(dbc dbctx.Context, stateID uuid.UUID, daily *types.DailyState) error
	CountMovableByWeek(dbc dbctx.Context, userID uuid.UUID, year, quarter, weekNumber int) (int64, error)
	DeleteByGoalIDs(dbc dbctx.Context, goalIDs []uuid.UUID) error
}

type goalWeekStateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGoalWeekStateRepo(db *gorm.DB, baseLog *logger.Logger) GoalWeekStateRepo {
	repoLog := baseLog.With("repo", "GoalWeekStateRepo")
	return &goalWeekStateRepo{db: db, log: repoLog}
}

func (wr *goalWeekStateRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return wr.db
}

func (wr *goalWeekStateRepo) Create(dbc dbctx.Context, states []*types.GoalWeekState) ([]*types.GoalWeekState, error) {
	if len(states) == 0 {
		return []*types.GoalWeekState{}, nil
	}
	if err := wr.tx(dbc).WithContext(dbc.Ctx).Create(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

// Upsert writes a week state keyed by (user, year, quarter, week, goal),
// updating the mutable flags when the row already exists.
func (wr *goalWeekStateRepo) Upsert(dbc dbctx.Context, state *types.GoalWeekState) (*types.GoalWeekState, error) {
	if err := wr.tx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"}, {Name: "year"}, {Name: "quarter"},
				{Name: "week_number"}, {Name: "goal_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"is_starred", "is_pinned", "is_complete", "daily", "updated_at"}),
		}).
		Create(state).Error; err != nil {
		return nil, err
	}
	return state, nil
}

func (wr *goalWeekStateRepo) GetByWeek(dbc dbctx.Context, userID uuid.UUID, year, quarter, weekNumber int) ([]*types.GoalWeekState, error) {
	var results []*types.GoalWeekState
	if err := wr.tx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND year = ? AND quarter = ? AND week_number = ?", userID, year, quarter, weekNumber).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (wr *goalWeekStateRepo) GetByGoalIDs(dbc dbctx.Context, goalIDs []uuid.UUID) ([]*types.GoalWeekState, error) {
	var results []*types.GoalWeekState
	if len(goalIDs) == 0 {
		return results, nil
	}
	if err := wr.tx(dbc).WithContext(dbc.Ctx).
		Where("goal_id IN ?", goalIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (wr *goalWeekStateRepo) UpdateWeekNumber(dbc dbctx.Context, stateIDs []uuid.UUID, weekNumber int) error {
	if len(stateIDs) == 0 {
		return nil
	}
	return wr.tx(dbc).WithContext(dbc.Ctx).
		Model(&types.GoalWeekState{}).
		Where("id IN ?", stateIDs).
		Update("week_number", weekNumber).Error
}

func (wr *goalWeekStateRepo) UpdateStarPin(dbc dbctx.Context, stateID uuid.UUID, isStarred, isPinned bool) error {
	return wr.tx(dbc).WithContext(dbc.Ctx).
		Model(&types.GoalWeekState{}).
		Where("id = ?", stateID).
		Updates(map[string]any{
			"is_starred": isStarred,
			"is_pinned":  isPinned,
		}).Error
}

func (wr *goalWeekStateRepo) UpdateDaily(dbc dbctx.Context, stateID uuid.UUID, daily *types.DailyState) error {
	return wr.tx(dbc).WithContext(dbc.Ctx).
		Model(&types.GoalWeekState{}).
		Where("id = ?", stateID).
		Update("daily", daily).Error
}

// CountMovableByWeek counts week states that would give the backward week
// search a reason to stop: anything incomplete, starred, or pinned.
func (wr *goalWeekStateRepo) CountMovableByWeek(dbc dbctx.Context, userID uuid.UUID, year, quarter, weekNumber int) (int64, error) {
	var count int64
	if err := wr.tx(dbc).WithContext(dbc.Ctx).
		Model(&types.GoalWeekState{}).
		Where("user_id = ? AND year = ? AND quarter = ? AND week_number = ?", userID, year, quarter, weekNumber).
		Where("is_complete = ? OR is_starred = ? OR is_pinned = ?", false, true, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (wr *goalWeekStateRepo) DeleteByGoalIDs(dbc dbctx.Context, goalIDs []uuid.UUID) error {
	if len(goalIDs) == 0 {
		return nil
	}
	return wr.tx(dbc).WithContext(dbc.Ctx).
		Where("goal_id IN ?", goalIDs).
		Delete(&types.GoalWeekState{}).Error
}
