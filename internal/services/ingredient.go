package services

import (
	"context"

	"github.com/denerose/VeganMealAppApi-sub001/internal/model"
	"github.com/denerose/VeganMealAppApi-sub001/internal/store"
)

// IngredientService handles the tenant-scoped ingredient catalog.
type IngredientService struct {
	store store.Store
}

func NewIngredientService(s store.Store) *IngredientService { return &IngredientService{store: s} }

func (s *IngredientService) CreateIngredient(ctx context.Context, in *model.Ingredient) (*model.Ingredient, error) {
	return s.store.Ingredients().Create(ctx, in)
}

func (s *IngredientService) GetIngredient(ctx context.Context, tenantID, ingredientID string) (*model.Ingredient, error) {
	return s.store.Ingredients().GetByID(ctx, tenantID, ingredientID)
}

func (s *IngredientService) ListIngredients(ctx context.Context, tenantID string) ([]*model.Ingredient, error) {
	return s.store.Ingredients().List(ctx, tenantID)
}

func (s *IngredientService) DeleteIngredient(ctx context.Context, tenantID, ingredientID string) error {
	return s.store.Ingredients().Delete(ctx, tenantID, ingredientID)
}
