package goals

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/goalgrid-backend/internal/domain"
	"github.com/yungbote/goalgrid-backend/internal/pkg/dbctx"
	"github.com/yungbote/goalgrid-backend/internal/pkg/logger"
)

type GoalRepo interface {
	Create(dbc dbctx.Context, goals []*types.Goal) ([]*types.Goal, error)
	GetByIDs(dbc dbctx.Context, goalIDs []uuid.UUID) ([]*types.Goal, error)
	GetByQuarter(dbc dbctx.Context, userID uuid.UUID, year, quarter int) ([]*types.Goal, error)
	GetByQuarterAndDepth(dbc dbctx.Context, userID uuid.UUID, year, quarter, depth int) ([]*types.Goal, error)
	GetAdhocByWeek(dbc dbctx.Context, userID uuid.UUID, year, quarter, weekNumber int) ([]*types.Goal, error)
	GetAdhocByDay(dbc dbctx.Context, userID uuid.UUID, year, quarter, weekNumber, dayOfWeek int) ([]*types.Goal, error)
	CountIncompleteAdhocByWeek(dbc dbctx.Context, userID uuid.UUID, year, quarter, weekNumber int) (int64, error)
	CountByDomain(dbc dbctx.Context, userID uuid.UUID, domainID uuid.UUID) (int64, error)
	UpdateTitleDetails(dbc dbctx.Context, goalID uuid.UUID, updates map[string]any) error
	UpdateCompletion(dbc dbctx.Context, goalID uuid.UUID, isComplete bool) error
	UpdateAdhoc(dbc dbctx.Context, goalID uuid.UUID, adhoc *types.AdhocInfo) error
	Delete(dbc dbctx.Context, userID uuid.UUID, goalIDs []uuid.UUID) error
}

type goalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGoalRepo(db *gorm.DB, baseLog *logger.Logger) GoalRepo {
	repoLog := baseLog.With("repo", "GoalRepo")
	return &goalRepo{db: db, log: repoLog}
}

func (gr *goalRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return gr.db
}

func (gr *goalRepo) Create(dbc dbctx.Context, goals []*types.Goal) ([]*types.Goal, error) {
	if len(goals) == 0 {
		return []*types.Goal{}, nil
	}
	if err := gr.tx(dbc).WithContext(dbc.Ctx).Create(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (gr *goalRepo) GetByIDs(dbc dbctx.Context, goalIDs []uuid.UUID) ([]*types.Goal, error) {
	var results []*types.Goal
	if len(goalIDs) == 0 {
		return results, nil
	}
	if err := gr.tx(dbc).WithContext(dbc.Ctx).
		Where("id IN ?", goalIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (gr *goalRepo) GetByQuarter(dbc dbctx.Context, userID uuid.UUID, year, quarter int) ([]*types.Goal, error) {
	var results []*types.Goal
	if err := gr.tx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND year = ? AND quarter = ?", userID, year, quarter).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (gr *goalRepo) GetByQuarterAndDepth(dbc dbctx.Context, userID uuid.UUID, year, quarter, depth int) ([]*types.Goal, error) {
	var results []*types.Goal
	if err := gr.tx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND year = ? AND quarter = ? AND depth = ?", userID, year, quarter, depth).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (gr *goalRepo) GetAdhocByWeek(dbc dbctx.Context, userID uuid.UUID, year, quarter, weekNumber int) ([]*types.Goal, error) {
	var results []*types.Goal
	if err := gr.tx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND year = ? AND quarter = ? AND depth = ?", userID, year, quarter, types.DepthAdhoc).
		Where("(adhoc ->> 'weekNumber')::int = ?", weekNumber).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (gr *goalRepo) GetAdhocByDay(dbc dbctx.Context, userID uuid.UUID, year, quarter, weekNumber, dayOfWeek int) ([]*types.Goal, error) {
	var results []*types.Goal
	if err := gr.tx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND year = ? AND quarter = ? AND depth = ?", userID, year, quarter, types.DepthAdhoc).
		Where("(adhoc ->> 'weekNumber')::int = ?", weekNumber).
		Where("(adhoc ->> 'dayOfWeek')::int = ?", dayOfWeek).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// CountIncompleteAdhocByWeek counts adhoc goals still open in a week. The
// backward week search adds this to the week-state count so a week holding
// only loose tasks is not skipped.
func (gr *goalRepo) CountIncompleteAdhocByWeek(dbc dbctx.Context, userID uuid.UUID, year, quarter, weekNumber int) (int64, error) {
	var count int64
	if err := gr.tx(dbc).WithContext(dbc.Ctx).
		Model(&types.Goal{}).
		Where("user_id = ? AND year = ? AND quarter = ? AND depth = ?", userID, year, quarter, types.DepthAdhoc).
		Where("is_complete = ?", false).
		Where("(adhoc ->> 'weekNumber')::int = ?", weekNumber).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (gr *goalRepo) CountByDomain(dbc dbctx.Context, userID uuid.UUID, domainID uuid.UUID) (int64, error) {
	var count int64
	if err := gr.tx(dbc).WithContext(dbc.Ctx).
		Model(&types.Goal{}).
		Where("user_id = ? AND domain_id = ?", userID, domainID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (gr *goalRepo) UpdateTitleDetails(dbc dbctx.Context, goalID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return gr.tx(dbc).WithContext(dbc.Ctx).
		Model(&types.Goal{}).
		Where("id = ?", goalID).
		Updates(updates).Error
}

func (gr *goalRepo) UpdateCompletion(dbc dbctx.Context, goalID uuid.UUID, isComplete bool) error {
	updates := map[string]any{
		"is_complete":  isComplete,
		"completed_at": nil,
	}
	if isComplete {
		updates["completed_at"] = gorm.Expr("now()")
	}
	return gr.tx(dbc).WithContext(dbc.Ctx).
		Model(&types.Goal{}).
		Where("id = ?", goalID).
		Updates(updates).Error
}

func (gr *goalRepo) UpdateAdhoc(dbc dbctx.Context, goalID uuid.UUID, adhoc *types.AdhocInfo) error {
	return gr.tx(dbc).WithContext(dbc.Ctx).
		Model(&types.Goal{}).
		Where("id = ?", goalID).
		Update("adhoc", adhoc).Error
}

func (gr *goalRepo) Delete(dbc dbctx.Context, userID uuid.UUID, goalIDs []uuid.UUID) error {
	if len(goalIDs) == 0 {
		return nil
	}
	return gr.tx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND id IN ?", userID, goalIDs).
		Delete(&types.Goal{}).Error
}
