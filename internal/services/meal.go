package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/denerose/VeganMealAppApi-sub001/internal/model"
	"github.com/denerose/VeganMealAppApi-sub001/internal/store"
)

// MealService handles the tenant-scoped meal catalog.
type MealService struct {
	store store.Store
}

func NewMealService(s store.Store) *MealService { return &MealService{store: s} }

// CreateMeal verifies that every referenced ingredient exists in the
// tenant's catalog before persisting.
func (s *MealService) CreateMeal(ctx context.Context, m *model.Meal) (*model.Meal, error) {
	for _, id := range m.IngredientIDs {
		if _, err := s.store.Ingredients().GetByID(ctx, m.TenantID, id); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return nil, fmt.Errorf("ingredient %s: %w", id, model.ErrNotFound)
			}
			return nil, err
		}
	}
	return s.store.Meals().Create(ctx, m)
}

func (s *MealService) GetMeal(ctx context.Context, tenantID, mealID string) (*model.Meal, error) {
	return s.store.Meals().GetByID(ctx, tenantID, mealID)
}

func (s *MealService) ListMeals(ctx context.Context, tenantID string) ([]*model.Meal, error) {
	return s.store.Meals().List(ctx, tenantID)
}

func (s *MealService) DeleteMeal(ctx context.Context, tenantID, mealID string) error {
	return s.store.Meals().Delete(ctx, tenantID, mealID)
}
