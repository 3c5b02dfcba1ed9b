package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yungbote/goalgrid-backend/internal/data/repos"
	"github.com/yungbote/goalgrid-backend/internal/db"
	"github.com/yungbote/goalgrid-backend/internal/handlers"
	"github.com/yungbote/goalgrid-backend/internal/middleware"
	"github.com/yungbote/goalgrid-backend/internal/pkg/logger"
	"github.com/yungbote/goalgrid-backend/internal/server"
	"github.com/yungbote/goalgrid-backend/internal/services"
	"github.com/yungbote/goalgrid-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	searchHorizon := utils.GetEnvAsInt("CARRYOVER_SEARCH_HORIZON_WEEKS", services.CarryOverSearchHorizonWeeks, log)
	allowOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	goalRepo := repos.NewGoalRepo(thePG, log)
	weekStateRepo := repos.NewGoalWeekStateRepo(thePG, log)
	domainRepo := repos.NewGoalDomainRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(thePG, log, userRepo)
	goalService := services.NewGoalService(thePG, log, goalRepo, weekStateRepo, domainRepo)
	carryOverService := services.NewCarryOverService(thePG, log, goalRepo, weekStateRepo, searchHorizon)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	goalHandler := handlers.NewGoalHandler(goalService)
	carryOverHandler := handlers.NewCarryOverHandler(carryOverService)
	periodHandler := handlers.NewPeriodHandler()

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	var origins []string
	if allowOrigins != "" {
		origins = strings.Split(allowOrigins, ",")
	}
	router := server.NewRouter(server.RouterConfig{
		Log:              log,
		AuthHandler:      authHandler,
		AuthMiddleware:   authMiddleware,
		UserHandler:      userHandler,
		GoalHandler:      goalHandler,
		CarryOverHandler: carryOverHandler,
		PeriodHandler:    periodHandler,
		AllowOrigins:     origins,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
