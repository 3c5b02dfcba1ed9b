package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/goalgrid-backend/internal/data/repos/auth"
	"github.com/yungbote/goalgrid-backend/internal/data/repos/goals"
	"github.com/yungbote/goalgrid-backend/internal/data/repos/user"
	"github.com/yungbote/goalgrid-backend/internal/pkg/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type GoalRepo = goals.GoalRepo
type GoalWeekStateRepo = goals.GoalWeekStateRepo
type GoalDomainRepo = goals.GoalDomainRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo {
	return user.NewUserRepo(db, log)
}

func NewUserTokenRepo(db *gorm.DB, log *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, log)
}

func NewGoalRepo(db *gorm.DB, log *logger.Logger) GoalRepo {
	return goals.NewGoalRepo(db, log)
}

func NewGoalWeekStateRepo(db *gorm.DB, log *logger.Logger) GoalWeekStateRepo {
	return goals.NewGoalWeekStateRepo(db, log)
}

func NewGoalDomainRepo(db *gorm.DB, log *logger.Logger) GoalDomainRepo {
	return goals.NewGoalDomainRepo(db, log)
}
