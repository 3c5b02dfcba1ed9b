package goals

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/goalgrid-backend/internal/domain"
	"github.com/yungbote/goalgrid-backend/internal/pkg/dbctx"
	"github.com/yungbote/goalgrid-backend/internal/pkg/logger"
)

type GoalDomainRepo interface {
	Create(dbc dbctx.Context, domains []*types.GoalDomain) ([]*types.GoalDomain, error)
	GetByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.GoalDomain, error)
	Delete(dbc dbctx.Context, userID uuid.UUID, domainID uuid.UUID) error
}

type goalDomainRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGoalDomainRepo(db *gorm.DB, baseLog *logger.Logger) GoalDomainRepo {
	repoLog := baseLog.With("repo", "GoalDomainRepo")
	return &goalDomainRepo{db: db, log: repoLog}
}

func (dr *goalDomainRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return dr.db
}

func (dr *goalDomainRepo) Create(dbc dbctx.Context, domains []*types.GoalDomain) ([]*types.GoalDomain, error) {
	if len(domains) == 0 {
		return []*types.GoalDomain{}, nil
	}
	if err := dr.tx(dbc).WithContext(dbc.Ctx).Create(&domains).Error; err != nil {
		return nil, err
	}
	return domains, nil
}

func (dr *goalDomainRepo) GetByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.GoalDomain, error) {
	var results []*types.GoalDomain
	if err := dr.tx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *goalDomainRepo) Delete(dbc dbctx.Context, userID uuid.UUID, domainID uuid.UUID) error {
	return dr.tx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND id = ?", userID, domainID).
		Delete(&types.GoalDomain{}).Error
}
