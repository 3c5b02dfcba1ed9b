package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/goalgrid-backend/internal/domain"
	"github.com/yungbote/goalgrid-backend/internal/period"
	"github.com/yungbote/goalgrid-backend/internal/pkg/dbctx"
	"github.com/yungbote/goalgrid-backend/internal/pkg/errs"
)

func validateAdhocRequest(req AdhocMoveRequest) error {
	if err := period.Validate(req.From); err != nil {
		return fmt.Errorf("%w: from: %v", errs.ErrInvalidArgument, err)
	}
	if err := period.Validate(req.To); err != nil {
		return fmt.Errorf("%w: to: %v", errs.ErrInvalidArgument, err)
	}
	if req.From.Year == req.To.Year && req.From.Quarter == req.To.Quarter && req.From.WeekNumber == req.To.WeekNumber {
		return fmt.Errorf("%w: source and destination week are the same", errs.ErrInvalidArgument)
	}
	return nil
}

func (cs *carryOverService) selectAdhoc(dbc dbctx.Context, userID uuid.UUID, req AdhocMoveRequest) ([]*types.Goal, error) {
	goals, err := cs.goalRepo.GetAdhocByWeek(dbc, userID, req.From.Year, req.From.Quarter, req.From.WeekNumber)
	if err != nil {
		return nil, fmt.Errorf("load adhoc goals: %w", err)
	}
	if !req.OnlyIncomplete {
		return goals, nil
	}
	selected := make([]*types.Goal, 0, len(goals))
	for _, g := range goals {
		if !g.IsComplete {
			selected = append(selected, g)
		}
	}
	return selected, nil
}

func (cs *carryOverService) PreviewAdhocMove(dbc dbctx.Context, req AdhocMoveRequest) (*AdhocMovePreview, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	if err := validateAdhocRequest(req); err != nil {
		return nil, err
	}
	goals, err := cs.selectAdhoc(dbc, userID, req)
	if err != nil {
		return nil, err
	}
	preview := &AdhocMovePreview{From: req.From, To: req.To, AdhocGoalsToMove: []GoalSummary{}}
	for _, g := range goals {
		preview.AdhocGoalsToMove = append(preview.AdhocGoalsToMove, summarize(g))
	}
	return preview, nil
}

func (cs *carryOverService) ExecuteAdhocMove(dbc dbctx.Context, req AdhocMoveRequest) (*AdhocMoveResult, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	if err := validateAdhocRequest(req); err != nil {
		return nil, err
	}

	var result *AdhocMoveResult
	err = cs.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		goals, err := cs.selectAdhoc(txc, userID, req)
		if err != nil {
			return err
		}
		preview := &AdhocMovePreview{From: req.From, To: req.To, AdhocGoalsToMove: []GoalSummary{}}
		result = &AdhocMoveResult{Preview: preview}
		for _, g := range goals {
			adhoc := &types.AdhocInfo{}
			if g.Adhoc != nil {
				*adhoc = *g.Adhoc
			}
			adhoc.WeekNumber = req.To.WeekNumber
			if req.To.DayOfWeek != nil {
				adhoc.DayOfWeek = req.To.DayOfWeek
			}
			if err := cs.goalRepo.UpdateAdhoc(txc, g.ID, adhoc); err != nil {
				return fmt.Errorf("move adhoc goal %s: %w", g.ID, err)
			}
			preview.AdhocGoalsToMove = append(preview.AdhocGoalsToMove, summarize(g))
			result.AdhocGoalsMoved++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	cs.log.Info("Adhoc move executed",
		"user_id", userID.String(),
		"from_week", req.From.WeekNumber,
		"to_week", req.To.WeekNumber,
		"adhoc_goals_moved", result.AdhocGoalsMoved,
	)
	return result, nil
}
