package services

import (
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/goalgrid-backend/internal/period"
	"github.com/yungbote/goalgrid-backend/internal/pkg/dbctx"
	"github.com/yungbote/goalgrid-backend/internal/pkg/errs"
)

// weekBefore resolves the calendar label of the week sitting offset weeks
// before to. The quarter is taken from the week's Thursday, same rule that
// assigns weeks to quarters everywhere else.
func weekBefore(to period.TimePeriod, offset int) period.TimePeriod {
	th := period.ISOWeekThursday(to.Year, to.WeekNumber).AddDate(0, 0, -7*offset)
	return period.TimePeriod{
		Year:       period.ISOWeekYear(th),
		Quarter:    period.QuarterOf(th),
		WeekNumber: period.ISOWeekNumber(th),
	}
}

// countMovable totals what a week still has worth carrying: incomplete,
// starred, or pinned week states, plus incomplete adhoc goals addressed to
// the week.
func (cs *carryOverService) countMovable(dbc dbctx.Context, userID uuid.UUID, p period.TimePeriod) (int64, error) {
	states, err := cs.weekStateRepo.CountMovableByWeek(dbc, userID, p.Year, p.Quarter, p.WeekNumber)
	if err != nil {
		return 0, err
	}
	adhoc, err := cs.goalRepo.CountIncompleteAdhocByWeek(dbc, userID, p.Year, p.Quarter, p.WeekNumber)
	if err != nil {
		return 0, err
	}
	return states + adhoc, nil
}

// FindLastNonEmptyWeek walks backwards from the week before to, one week at
// a time, and returns the first week that still holds something worth
// carrying: an incomplete, starred, or pinned week state, or an open adhoc
// goal. The walk gives up after the configured horizon and returns nil.
func (cs *carryOverService) FindLastNonEmptyWeek(dbc dbctx.Context, to period.TimePeriod) (*period.TimePeriod, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	if err := period.Validate(to); err != nil {
		return nil, errs.ErrInvalidArgument
	}

	for offset := 1; offset <= cs.searchHorizon; offset++ {
		candidate := weekBefore(to, offset)
		count, err := cs.countMovable(dbc, userID, candidate)
		if err != nil {
			cs.log.Warn("Backward week search: count failed, treating week as empty",
				"year", candidate.Year, "week", candidate.WeekNumber, "error", err.Error())
			continue
		}
		if count > 0 {
			return &candidate, nil
		}
	}
	return nil, nil
}

// FindLastNonEmptyWeekFanOut is the concurrent variant: it counts all
// candidate weeks in parallel and picks the nearest non-empty one. Counts
// run outside any transaction since a gorm tx is not safe for concurrent
// use.
func (cs *carryOverService) FindLastNonEmptyWeekFanOut(dbc dbctx.Context, to period.TimePeriod) (*period.TimePeriod, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	if err := period.Validate(to); err != nil {
		return nil, errs.ErrInvalidArgument
	}

	candidates := make([]period.TimePeriod, cs.searchHorizon)
	counts := make([]int64, cs.searchHorizon)

	g, ctx := errgroup.WithContext(dbc.Ctx)
	for offset := 1; offset <= cs.searchHorizon; offset++ {
		offset := offset
		candidate := weekBefore(to, offset)
		candidates[offset-1] = candidate
		g.Go(func() error {
			count, err := cs.countMovable(dbctx.Context{Ctx: ctx}, userID, candidate)
			if err != nil {
				cs.log.Warn("Backward week search: count failed, treating week as empty",
					"year", candidate.Year, "week", candidate.WeekNumber, "error", err.Error())
				return nil
			}
			counts[offset-1] = count
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range counts {
		if counts[i] > 0 {
			return &candidates[i], nil
		}
	}
	return nil, nil
}
