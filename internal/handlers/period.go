package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/goalgrid-backend/internal/period"
)

// PeriodHandler exposes the calendar math so clients never reimplement the
// week-to-quarter assignment rules.
type PeriodHandler struct{}

func NewPeriodHandler() *PeriodHandler {
	return &PeriodHandler{}
}

func (ph *PeriodHandler) QuarterWeeks(c *gin.Context) {
	year, ok := queryInt(c, "year")
	if !ok {
		return
	}
	quarter, ok := queryInt(c, "quarter")
	if !ok {
		return
	}
	span := period.QuarterWeeks(year, quarter)
	RespondOK(c, span)
}

func (ph *PeriodHandler) FinalWeeks(c *gin.Context) {
	year, ok := queryInt(c, "year")
	if !ok {
		return
	}
	quarter, ok := queryInt(c, "quarter")
	if !ok {
		return
	}
	RespondOK(c, gin.H{"weeks": period.FinalWeeksOfQuarter(year, quarter)})
}

func (ph *PeriodHandler) WeeksInYear(c *gin.Context) {
	year, ok := queryInt(c, "year")
	if !ok {
		return
	}
	RespondOK(c, gin.H{"year": year, "weeks": period.WeeksInYear(year)})
}
