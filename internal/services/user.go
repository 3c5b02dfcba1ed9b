package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/goalgrid-backend/internal/data/repos"
	types "github.com/yungbote/goalgrid-backend/internal/domain"
	"github.com/yungbote/goalgrid-backend/internal/pkg/dbctx"
	"github.com/yungbote/goalgrid-backend/internal/pkg/errs"
	"github.com/yungbote/goalgrid-backend/internal/pkg/logger"
	"github.com/yungbote/goalgrid-backend/internal/requestdata"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	UpdateName(ctx context.Context, firstName, lastName string) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, errs.ErrUnauthorized
	}
	users, err := us.userRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, errs.ErrNotFound
	}
	return users[0], nil
}

func (us *userService) UpdateName(ctx context.Context, firstName, lastName string) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, errs.ErrUnauthorized
	}
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" && lastName == "" {
		return nil, fmt.Errorf("%w: nothing to update", errs.ErrInvalidArgument)
	}

	var updated *types.User
	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if uErr := us.userRepo.UpdateName(dbc, rd.UserID, firstName, lastName); uErr != nil {
			return fmt.Errorf("update name: %w", uErr)
		}
		users, gErr := us.userRepo.GetByIDs(dbc, []uuid.UUID{rd.UserID})
		if gErr != nil {
			return fmt.Errorf("reload user: %w", gErr)
		}
		if len(users) == 0 {
			return errs.ErrNotFound
		}
		updated = users[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
