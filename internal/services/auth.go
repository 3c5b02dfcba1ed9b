package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/goalgrid-backend/internal/data/repos"
	types "github.com/yungbote/goalgrid-backend/internal/domain"
	"github.com/yungbote/goalgrid-backend/internal/pkg/dbctx"
	"github.com/yungbote/goalgrid-backend/internal/pkg/errs"
	"github.com/yungbote/goalgrid-backend/internal/pkg/logger"
	"github.com/yungbote/goalgrid-backend/internal/requestdata"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	RegisterUser(ctx context.Context, user *types.User) error
	LoginUser(ctx context.Context, email, password string) (string, string, error)
	RefreshUser(ctx context.Context) (string, string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.FirstName = strings.TrimSpace(user.FirstName)
	user.LastName = strings.TrimSpace(user.LastName)
	if user.Email == "" || !strings.Contains(user.Email, "@") {
		return fmt.Errorf("%w: valid email required", errs.ErrInvalidArgument)
	}
	if len(user.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", errs.ErrInvalidArgument)
	}

	hashed, hErr := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if hErr != nil {
		return fmt.Errorf("hash password: %w", hErr)
	}
	user.Password = string(hashed)

	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		exists, eErr := as.userRepo.EmailExists(dbc, user.Email)
		if eErr != nil {
			return fmt.Errorf("check email: %w", eErr)
		}
		if exists {
			return fmt.Errorf("%w: email already registered", errs.ErrInvalidArgument)
		}
		user.ID = uuid.New()
		if _, cErr := as.userRepo.Create(dbc, []*types.User{user}); cErr != nil {
			return fmt.Errorf("create user: %w", cErr)
		}
		return nil
	})
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	users, uErr := as.userRepo.GetByEmails(dbctx.Context{Ctx: ctx}, []string{email})
	if uErr != nil {
		return "", "", fmt.Errorf("load user by email: %w", uErr)
	}
	if len(users) == 0 {
		return "", "", errs.ErrUnauthorized
	}
	user := users[0]
	if hErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); hErr != nil {
		return "", "", errs.ErrUnauthorized
	}

	var accessToken string
	var refreshToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return fmt.Errorf("generate access token: %w", genErr)
		}
		accessToken = tok
		refreshToken = uuid.New().String()
		userToken := types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, cErr := as.userTokenRepo.Create(dbc, []*types.UserToken{&userToken}); cErr != nil {
			return fmt.Errorf("create user token: %w", cErr)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (as *authService) RefreshUser(ctx context.Context) (string, string, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.RefreshToken == "" {
		as.log.Warn("Refresh called without refresh token in context")
		return "", "", errs.ErrUnauthorized
	}

	var accessToken string
	var newRefreshToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		foundTokens, ftErr := as.userTokenRepo.GetByRefreshTokens(dbc, []string{rd.RefreshToken})
		if ftErr != nil {
			return fmt.Errorf("load refresh token: %w", ftErr)
		}
		if len(foundTokens) == 0 {
			return errs.ErrUnauthorized
		}
		existing := foundTokens[0]
		if existing.ExpiresAt.Before(time.Now()) {
			if dErr := as.userTokenRepo.SoftDeleteByIDs(dbc, []uuid.UUID{existing.ID}); dErr != nil {
				return fmt.Errorf("delete expired token: %w", dErr)
			}
			return errs.ErrUnauthorized
		}
		users, uErr := as.userRepo.GetByIDs(dbc, []uuid.UUID{existing.UserID})
		if uErr != nil {
			return fmt.Errorf("load user for refresh: %w", uErr)
		}
		if len(users) == 0 {
			return errs.ErrUnauthorized
		}
		user := users[0]

		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return fmt.Errorf("generate access token: %w", genErr)
		}
		accessToken = tok
		newRefreshToken = uuid.New().String()
		newToken := types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: newRefreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, cErr := as.userTokenRepo.Create(dbc, []*types.UserToken{&newToken}); cErr != nil {
			return fmt.Errorf("create rotated token: %w", cErr)
		}
		if dErr := as.userTokenRepo.SoftDeleteByIDs(dbc, []uuid.UUID{existing.ID}); dErr != nil {
			return fmt.Errorf("retire old token: %w", dErr)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return errs.ErrUnauthorized
	}
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		foundTokens, ftErr := as.userTokenRepo.GetByAccessTokens(dbc, []string{rd.TokenString})
		if ftErr != nil {
			return fmt.Errorf("load token for logout: %w", ftErr)
		}
		if len(foundTokens) == 0 {
			return nil
		}
		if dErr := as.userTokenRepo.SoftDeleteByIDs(dbc, []uuid.UUID{foundTokens[0].ID}); dErr != nil {
			return fmt.Errorf("delete token: %w", dErr)
		}
		return nil
	})
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, errs.ErrUnauthorized
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}

	var refreshTokenStr string
	foundTokens, ftErr := as.userTokenRepo.GetByAccessTokens(dbctx.Context{Ctx: ctx}, []string{tokenString})
	if ftErr != nil {
		as.log.Warn("Error fetching user token by access token", "error", ftErr.Error())
		return ctx, fmt.Errorf("fetch user token: %w", ftErr)
	}
	if len(foundTokens) == 0 {
		return ctx, errs.ErrUnauthorized
	}
	refreshTokenStr = foundTokens[0].RefreshToken

	rd := &requestdata.RequestData{
		TokenString:  tokenString,
		RefreshToken: refreshTokenStr,
		UserID:       userID,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
