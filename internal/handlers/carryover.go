package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/goalgrid-backend/internal/pkg/dbctx"
	"github.com/yungbote/goalgrid-backend/internal/services"
)

type CarryOverHandler struct {
	carryOverService services.CarryOverService
}

func NewCarryOverHandler(carryOverService services.CarryOverService) *CarryOverHandler {
	return &CarryOverHandler{carryOverService: carryOverService}
}

func (ch *CarryOverHandler) PreviewWeek(c *gin.Context) {
	var req services.WeekCarryOverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	preview, err := ch.carryOverService.PreviewWeekCarryOver(dbctx.Context{Ctx: c.Request.Context()}, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, preview)
}

func (ch *CarryOverHandler) ExecuteWeek(c *gin.Context) {
	var req services.WeekCarryOverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	result, err := ch.carryOverService.ExecuteWeekCarryOver(dbctx.Context{Ctx: c.Request.Context()}, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (ch *CarryOverHandler) PreviewQuarter(c *gin.Context) {
	var req services.QuarterCarryOverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	preview, err := ch.carryOverService.PreviewQuarterCarryOver(dbctx.Context{Ctx: c.Request.Context()}, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, preview)
}

func (ch *CarryOverHandler) ExecuteQuarter(c *gin.Context) {
	var req services.QuarterCarryOverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	result, err := ch.carryOverService.ExecuteQuarterCarryOver(dbctx.Context{Ctx: c.Request.Context()}, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (ch *CarryOverHandler) PreviewAdhoc(c *gin.Context) {
	var req services.AdhocMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	preview, err := ch.carryOverService.PreviewAdhocMove(dbctx.Context{Ctx: c.Request.Context()}, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, preview)
}

func (ch *CarryOverHandler) ExecuteAdhoc(c *gin.Context) {
	var req services.AdhocMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	result, err := ch.carryOverService.ExecuteAdhocMove(dbctx.Context{Ctx: c.Request.Context()}, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

// LastNonEmptyWeek suggests the source week for "carry in from last week"
// when the immediately preceding weeks are empty.
func (ch *CarryOverHandler) LastNonEmptyWeek(c *gin.Context) {
	p, ok := queryPeriod(c)
	if !ok {
		return
	}
	week, err := ch.carryOverService.FindLastNonEmptyWeekFanOut(dbctx.Context{Ctx: c.Request.Context()}, p)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if week == nil {
		RespondOK(c, gin.H{"found": false})
		return
	}
	RespondOK(c, gin.H{"found": true, "week": week})
}
