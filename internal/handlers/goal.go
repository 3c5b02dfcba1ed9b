package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/goalgrid-backend/internal/domain"
	"github.com/yungbote/goalgrid-backend/internal/period"
	"github.com/yungbote/goalgrid-backend/internal/services"
)

type GoalHandler struct {
	goalService services.GoalService
}

func NewGoalHandler(goalService services.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return 0, false
	}
	return v, true
}

func queryPeriod(c *gin.Context) (period.TimePeriod, bool) {
	year, ok := queryInt(c, "year")
	if !ok {
		return period.TimePeriod{}, false
	}
	quarter, ok := queryInt(c, "quarter")
	if !ok {
		return period.TimePeriod{}, false
	}
	week, ok := queryInt(c, "week")
	if !ok {
		return period.TimePeriod{}, false
	}
	return period.TimePeriod{Year: year, Quarter: quarter, WeekNumber: week}, true
}

func (gh *GoalHandler) Create(c *gin.Context) {
	var req services.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	goal, err := gh.goalService.CreateGoal(c.Request.Context(), req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, goal)
}

func (gh *GoalHandler) Update(c *gin.Context) {
	goalID, ok := pathUUID(c, "goalId")
	if !ok {
		return
	}
	var req services.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := gh.goalService.UpdateGoal(c.Request.Context(), goalID, req); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (gh *GoalHandler) SetCompletion(c *gin.Context) {
	goalID, ok := pathUUID(c, "goalId")
	if !ok {
		return
	}
	var req struct {
		IsComplete bool `json:"isComplete"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := gh.goalService.SetGoalCompletion(c.Request.Context(), goalID, req.IsComplete); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (gh *GoalHandler) Delete(c *gin.Context) {
	goalID, ok := pathUUID(c, "goalId")
	if !ok {
		return
	}
	if err := gh.goalService.DeleteGoal(c.Request.Context(), goalID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (gh *GoalHandler) QuarterTree(c *gin.Context) {
	year, ok := queryInt(c, "year")
	if !ok {
		return
	}
	quarter, ok := queryInt(c, "quarter")
	if !ok {
		return
	}
	roots, err := gh.goalService.GetQuarterTree(c.Request.Context(), year, quarter)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"goals": roots})
}

func (gh *GoalHandler) WeekView(c *gin.Context) {
	p, ok := queryPeriod(c)
	if !ok {
		return
	}
	if dayStr := c.Query("day"); dayStr != "" {
		day, err := strconv.Atoi(dayStr)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_query", err)
			return
		}
		p.DayOfWeek = &day
	}
	view, err := gh.goalService.GetWeekView(c.Request.Context(), p)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, view)
}

func (gh *GoalHandler) AttachToWeek(c *gin.Context) {
	goalID, ok := pathUUID(c, "goalId")
	if !ok {
		return
	}
	var req struct {
		Week  period.TimePeriod `json:"week"`
		Daily *types.DailyState `json:"daily,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	state, err := gh.goalService.AttachGoalToWeek(c.Request.Context(), goalID, req.Week, req.Daily)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, state)
}

func (gh *GoalHandler) UpdateWeekState(c *gin.Context) {
	goalID, ok := pathUUID(c, "goalId")
	if !ok {
		return
	}
	var req struct {
		Week  period.TimePeriod       `json:"week"`
		Patch services.WeekStatePatch `json:"patch"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := gh.goalService.UpdateWeekState(c.Request.Context(), goalID, req.Week, req.Patch); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (gh *GoalHandler) CreateDomain(c *gin.Context) {
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	domain, err := gh.goalService.CreateDomain(c.Request.Context(), req.Name, req.Color)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, domain)
}

func (gh *GoalHandler) ListDomains(c *gin.Context) {
	domains, err := gh.goalService.ListDomains(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"domains": domains})
}

func (gh *GoalHandler) DeleteDomain(c *gin.Context) {
	domainID, ok := pathUUID(c, "domainId")
	if !ok {
		return
	}
	if err := gh.goalService.DeleteDomain(c.Request.Context(), domainID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
