package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/goalgrid-backend/internal/handlers"
	"github.com/yungbote/goalgrid-backend/internal/middleware"
	"github.com/yungbote/goalgrid-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log              *logger.Logger
	AuthHandler      *handlers.AuthHandler
	AuthMiddleware   *middleware.AuthMiddleware
	UserHandler      *handlers.UserHandler
	GoalHandler      *handlers.GoalHandler
	CarryOverHandler *handlers.CarryOverHandler
	PeriodHandler    *handlers.PeriodHandler
	AllowOrigins     []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.AttachRequestContext())
	router.Use(middleware.RequestLog(cfg.Log))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)

	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.PATCH("/user", cfg.UserHandler.UpdateName)

	// Goals
	protected.POST("/goals", cfg.GoalHandler.Create)
	protected.PATCH("/goals/:goalId", cfg.GoalHandler.Update)
	protected.POST("/goals/:goalId/completion", cfg.GoalHandler.SetCompletion)
	protected.DELETE("/goals/:goalId", cfg.GoalHandler.Delete)
	protected.GET("/goals/quarter", cfg.GoalHandler.QuarterTree)
	protected.GET("/goals/week", cfg.GoalHandler.WeekView)
	protected.POST("/goals/:goalId/week", cfg.GoalHandler.AttachToWeek)
	protected.PATCH("/goals/:goalId/week", cfg.GoalHandler.UpdateWeekState)

	// Goal domains
	protected.POST("/domains", cfg.GoalHandler.CreateDomain)
	protected.GET("/domains", cfg.GoalHandler.ListDomains)
	protected.DELETE("/domains/:domainId", cfg.GoalHandler.DeleteDomain)

	// Carryover
	protected.POST("/carryover/week/preview", cfg.CarryOverHandler.PreviewWeek)
	protected.POST("/carryover/week", cfg.CarryOverHandler.ExecuteWeek)
	protected.POST("/carryover/quarter/preview", cfg.CarryOverHandler.PreviewQuarter)
	protected.POST("/carryover/quarter", cfg.CarryOverHandler.ExecuteQuarter)
	protected.POST("/carryover/adhoc/preview", cfg.CarryOverHandler.PreviewAdhoc)
	protected.POST("/carryover/adhoc", cfg.CarryOverHandler.ExecuteAdhoc)
	protected.GET("/carryover/last-non-empty-week", cfg.CarryOverHandler.LastNonEmptyWeek)

	// Calendar
	protected.GET("/periods/quarter-weeks", cfg.PeriodHandler.QuarterWeeks)
	protected.GET("/periods/final-weeks", cfg.PeriodHandler.FinalWeeks)
	protected.GET("/periods/weeks-in-year", cfg.PeriodHandler.WeeksInYear)

	return router
}
