package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/goalgrid-backend/internal/data/repos"
	"github.com/yungbote/goalgrid-backend/internal/data/repos/testutil"
	types "github.com/yungbote/goalgrid-backend/internal/domain"
	"github.com/yungbote/goalgrid-backend/internal/pkg/apierr"
)

func TestDeleteDomainRefusesWhileInUse(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	log := testutil.Logger(t)
	gs := NewGoalService(tx, log, repos.NewGoalRepo(tx, log), repos.NewGoalWeekStateRepo(tx, log), repos.NewGoalDomainRepo(tx, log))

	user := testutil.SeedUser(t, ctx, tx, "domaindelete@example.com")
	domain := &types.GoalDomain{ID: uuid.New(), UserID: user.ID, Name: "health", Color: "#00ff00"}
	if err := tx.WithContext(ctx).Create(domain).Error; err != nil {
		t.Fatalf("seed domain: %v", err)
	}
	g := testutil.SeedGoal(t, ctx, tx, user.ID, "quarterly", 2025, 1, types.DepthQuarterly, nil)
	if err := tx.Model(&types.Goal{}).Where("id = ?", g.ID).Update("domain_id", domain.ID).Error; err != nil {
		t.Fatalf("assign domain: %v", err)
	}

	rctx := callerCtx(user.ID)

	err := gs.DeleteDomain(rctx, domain.ID)
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected an api error for an in-use domain, got %v", err)
	}
	if ae.Status != http.StatusConflict || ae.Code != "domain_in_use" {
		t.Fatalf("unexpected api error: status=%d code=%q", ae.Status, ae.Code)
	}

	if err := tx.Model(&types.Goal{}).Where("id = ?", g.ID).Update("domain_id", nil).Error; err != nil {
		t.Fatalf("detach domain: %v", err)
	}
	if err := gs.DeleteDomain(rctx, domain.ID); err != nil {
		t.Fatalf("DeleteDomain after detach: %v", err)
	}
	left, err := gs.ListDomains(rctx)
	if err != nil {
		t.Fatalf("ListDomains: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("expected no domains left, got %d", len(left))
	}
}
