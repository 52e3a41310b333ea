package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/denerose/VeganMealAppApi-sub001/internal/model"
	"github.com/denerose/VeganMealAppApi-sub001/internal/planner"
	"github.com/denerose/VeganMealAppApi-sub001/internal/store"
)

// PlanService orchestrates weekly plan use cases. Each mutation is one
// load-mutate-save cycle over the aggregate; the store's atomic row update
// is what serializes concurrent writers (the aggregate holds no locks).
type PlanService struct {
	store store.Store
}

func NewPlanService(s store.Store) *PlanService { return &PlanService{store: s} }

// CreatePlan builds a fresh validated week and performs the first persist.
// One plan per (tenant, startingDate): enforced here via lookup, backed by
// the store's unique constraint.
func (s *PlanService) CreatePlan(ctx context.Context, tenantID, startingDate string, weekStartDay model.WeekStartDay) (*model.WeeklyPlan, error) {
	if existing, err := s.store.Plans().GetByStartDate(ctx, tenantID, startingDate); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: a plan already exists for week starting %s", model.ErrConflict, startingDate)
	} else if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	p, err := planner.New(tenantID, startingDate, weekStartDay)
	if err != nil {
		return nil, err
	}
	if err := p.AssignID(uuid.New().String()); err != nil {
		return nil, err
	}
	snap, err := p.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.store.Plans().Create(ctx, snap)
}

func (s *PlanService) GetPlan(ctx context.Context, tenantID, planID string) (*model.WeeklyPlan, error) {
	return s.store.Plans().GetByID(ctx, tenantID, planID)
}

func (s *PlanService) ListPlans(ctx context.Context, req model.ListPlansRequest) ([]*model.WeeklyPlan, error) {
	return s.store.Plans().List(ctx, req)
}

func (s *PlanService) DeletePlan(ctx context.Context, tenantID, planID string) error {
	return s.store.Plans().Delete(ctx, tenantID, planID)
}

// AssignMeal places a catalog meal on a day's slot. The meal must exist in
// the tenant's catalog; eligibility beyond existence is out of scope here.
func (s *PlanService) AssignMeal(ctx context.Context, tenantID, planID, date string, slot planner.Slot, a planner.Assignment) (*model.WeeklyPlan, error) {
	if _, err := s.store.Meals().GetByID(ctx, tenantID, a.MealID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("meal %s: %w", a.MealID, model.ErrNotFound)
		}
		return nil, err
	}
	return s.mutate(ctx, tenantID, planID, func(p *planner.Plan) error {
		return p.AssignMeal(date, slot, a)
	})
}

func (s *PlanService) RemoveMeal(ctx context.Context, tenantID, planID, date string, slot planner.Slot) (*model.WeeklyPlan, error) {
	return s.mutate(ctx, tenantID, planID, func(p *planner.Plan) error {
		return p.RemoveMeal(date, slot)
	})
}

// PopulateLeftovers re-derives lunch-by-inheritance across the week and
// persists the result. Idempotent: repeated calls produce identical state.
func (s *PlanService) PopulateLeftovers(ctx context.Context, tenantID, planID string) (*model.WeeklyPlan, error) {
	return s.mutate(ctx, tenantID, planID, func(p *planner.Plan) error {
		p.PopulateLeftovers()
		return nil
	})
}

func (s *PlanService) GetDayPlan(ctx context.Context, tenantID, planID, date string) (model.DayPlan, error) {
	rec, err := s.store.Plans().GetByID(ctx, tenantID, planID)
	if err != nil {
		return model.DayPlan{}, err
	}
	return planner.Rehydrate(rec).DayPlan(date)
}

// mutate runs one load-mutate-save cycle.
func (s *PlanService) mutate(ctx context.Context, tenantID, planID string, fn func(*planner.Plan) error) (*model.WeeklyPlan, error) {
	rec, err := s.store.Plans().GetByID(ctx, tenantID, planID)
	if err != nil {
		return nil, err
	}
	p := planner.Rehydrate(rec)
	if err := fn(p); err != nil {
		return nil, err
	}
	snap, err := p.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.store.Plans().Save(ctx, snap)
}
