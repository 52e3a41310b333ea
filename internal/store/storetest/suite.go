// Package storetest provides a compliance suite shared by store drivers.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/denerose/VeganMealAppApi-sub001/internal/model"
	"github.com/denerose/VeganMealAppApi-sub001/internal/planner"
	"github.com/denerose/VeganMealAppApi-sub001/internal/store"
)

// Run exercises a minimal compliance suite against a store.Store
// implementation. Implementations should provide a clean, isolated store and
// return it from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()
	tenantID := uuid.New().String()

	// Users
	u, err := s.Users().Create(ctx, &model.User{
		TenantID:     tenantID,
		Email:        "owner-" + tenantID + "@example.test",
		PasswordHash: "x",
		WeekStartDay: model.WeekStartMonday,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if got, err := s.Users().Get(ctx, u.UserID); err != nil || got.TenantID != tenantID {
		t.Fatalf("GetUser: got=%v err=%v", got, err)
	}
	if got, err := s.Users().GetByEmail(ctx, u.Email); err != nil || got.UserID != u.UserID {
		t.Fatalf("GetUserByEmail: got=%v err=%v", got, err)
	}
	if _, err := s.Users().Create(ctx, &model.User{TenantID: tenantID, Email: u.Email, PasswordHash: "x"}); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("duplicate email should conflict, got %v", err)
	}
	if _, err := s.Users().Get(ctx, uuid.New().String()); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("missing user should be ErrNotFound, got %v", err)
	}

	// Ingredients
	ing, err := s.Ingredients().Create(ctx, &model.Ingredient{TenantID: tenantID, Name: "chickpeas"})
	if err != nil {
		t.Fatalf("CreateIngredient: %v", err)
	}
	if _, err := s.Ingredients().Create(ctx, &model.Ingredient{TenantID: tenantID, Name: "chickpeas"}); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("duplicate ingredient name should conflict, got %v", err)
	}
	if lst, err := s.Ingredients().List(ctx, tenantID); err != nil || len(lst) != 1 {
		t.Fatalf("ListIngredients: n=%d err=%v", len(lst), err)
	}
	// Tenant isolation: another tenant sees nothing.
	if _, err := s.Ingredients().GetByID(ctx, uuid.New().String(), ing.IngredientID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("cross-tenant ingredient lookup should be ErrNotFound, got %v", err)
	}

	// Meals
	meal, err := s.Meals().Create(ctx, &model.Meal{TenantID: tenantID, Name: "chickpea curry", IngredientIDs: []string{ing.IngredientID}})
	if err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}
	if got, err := s.Meals().GetByID(ctx, tenantID, meal.MealID); err != nil || len(got.IngredientIDs) != 1 {
		t.Fatalf("GetMeal: got=%v err=%v", got, err)
	}
	if lst, err := s.Meals().List(ctx, tenantID); err != nil || len(lst) != 1 {
		t.Fatalf("ListMeals: n=%d err=%v", len(lst), err)
	}

	// Plans: create via the aggregate to persist a well-formed snapshot.
	p, err := planner.New(tenantID, "2024-01-01", model.WeekStartMonday)
	if err != nil {
		t.Fatalf("planner.New: %v", err)
	}
	if err := p.AssignMeal("2024-01-01", planner.SlotDinner, planner.Assignment{MealID: meal.MealID, MakesLunch: true}); err != nil {
		t.Fatalf("AssignMeal: %v", err)
	}
	if err := p.AssignID(uuid.New().String()); err != nil {
		t.Fatalf("AssignID: %v", err)
	}
	snap, err := p.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	created, err := s.Plans().Create(ctx, snap)
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	if created.CreationTime.IsZero() || created.UpdateTime.IsZero() {
		t.Fatalf("CreatePlan should stamp times: %+v", created)
	}
	if _, err := s.Plans().Create(ctx, snap); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("duplicate (tenant, startingDate) should conflict, got %v", err)
	}

	got, err := s.Plans().GetByID(ctx, tenantID, snap.PlanID)
	if err != nil {
		t.Fatalf("GetPlanByID: %v", err)
	}
	if len(got.DayPlans) != 7 || got.DinnerAssignments == nil || got.DinnerAssignments["2024-01-01"].MealID != meal.MealID {
		t.Fatalf("GetPlanByID round-trip mismatch: %+v", got)
	}
	if !got.DinnerAssignments["2024-01-01"].MakesLunch {
		t.Fatalf("makesLunch flag lost in round-trip")
	}

	if got, err := s.Plans().GetByStartDate(ctx, tenantID, "2024-01-01"); err != nil || got.PlanID != snap.PlanID {
		t.Fatalf("GetPlanByStartDate: got=%v err=%v", got, err)
	}
	if _, err := s.Plans().GetByStartDate(ctx, tenantID, "2024-02-05"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("missing start date should be ErrNotFound, got %v", err)
	}

	// Mutate through the aggregate and save.
	agg := planner.Rehydrate(got)
	agg.PopulateLeftovers()
	snap2, err := agg.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot after mutation: %v", err)
	}
	saved, err := s.Plans().Save(ctx, snap2)
	if err != nil {
		t.Fatalf("SavePlan: %v", err)
	}
	if saved.UpdateTime.Before(created.UpdateTime) {
		t.Fatalf("Save should advance update time")
	}
	reread, err := s.Plans().GetByID(ctx, tenantID, snap.PlanID)
	if err != nil {
		t.Fatalf("GetPlanByID after save: %v", err)
	}
	tue := reread.DayPlans[1]
	if tue.LunchMealID == nil || *tue.LunchMealID != meal.MealID || !tue.IsLeftover {
		t.Fatalf("leftover mutation not persisted: %+v", tue)
	}

	// List with filters and paging.
	mkWeek := func(start string) {
		wp, err := planner.New(tenantID, start, model.WeekStartMonday)
		if err != nil {
			t.Fatalf("planner.New(%s): %v", start, err)
		}
		_ = wp.AssignID(uuid.New().String())
		ws, _ := wp.Snapshot()
		if _, err := s.Plans().Create(ctx, ws); err != nil {
			t.Fatalf("CreatePlan(%s): %v", start, err)
		}
	}
	mkWeek("2024-01-08")
	mkWeek("2024-01-15")

	all, err := s.Plans().List(ctx, model.ListPlansRequest{TenantID: tenantID})
	if err != nil || len(all) != 3 {
		t.Fatalf("ListPlans: n=%d err=%v", len(all), err)
	}
	if all[0].StartingDate != "2024-01-15" {
		t.Fatalf("ListPlans should order by starting date descending, got %s first", all[0].StartingDate)
	}
	if page, err := s.Plans().List(ctx, model.ListPlansRequest{TenantID: tenantID, Limit: 2, Offset: 1}); err != nil || len(page) != 2 || page[0].StartingDate != "2024-01-08" {
		t.Fatalf("ListPlans paging: n=%d err=%v", len(page), err)
	}
	// Offset applies even when no limit is set.
	if rest, err := s.Plans().List(ctx, model.ListPlansRequest{TenantID: tenantID, Offset: 2}); err != nil || len(rest) != 1 || rest[0].StartingDate != "2024-01-01" {
		t.Fatalf("ListPlans offset without limit: n=%d err=%v", len(rest), err)
	}
	if rng, err := s.Plans().List(ctx, model.ListPlansRequest{TenantID: tenantID, From: "2024-01-08", To: "2024-01-08"}); err != nil || len(rng) != 1 {
		t.Fatalf("ListPlans range filter: n=%d err=%v", len(rng), err)
	}
	if other, err := s.Plans().List(ctx, model.ListPlansRequest{TenantID: uuid.New().String()}); err != nil || len(other) != 0 {
		t.Fatalf("ListPlans tenant isolation: n=%d err=%v", len(other), err)
	}

	// Delete
	if err := s.Plans().Delete(ctx, tenantID, snap.PlanID); err != nil {
		t.Fatalf("DeletePlan: %v", err)
	}
	if err := s.Plans().Delete(ctx, tenantID, snap.PlanID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("double delete should be ErrNotFound, got %v", err)
	}
	if err := s.Meals().Delete(ctx, tenantID, meal.MealID); err != nil {
		t.Fatalf("DeleteMeal: %v", err)
	}
	if err := s.Ingredients().Delete(ctx, tenantID, ing.IngredientID); err != nil {
		t.Fatalf("DeleteIngredient: %v", err)
	}
}
