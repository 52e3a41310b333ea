package store

import (
	"context"

	"github.com/denerose/VeganMealAppApi-sub001/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
// All lookups are tenant-scoped; the tenant id comes from the authorizer,
// never from the request body. Implementations return model.ErrNotFound for
// missing rows and model.ErrConflict for uniqueness violations.
type Store interface {
	Users() Users
	Ingredients() Ingredients
	Meals() Meals
	Plans() Plans
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type Ingredients interface {
	Create(ctx context.Context, in *model.Ingredient) (*model.Ingredient, error)
	GetByID(ctx context.Context, tenantID, ingredientID string) (*model.Ingredient, error)
	List(ctx context.Context, tenantID string) ([]*model.Ingredient, error)
	Delete(ctx context.Context, tenantID, ingredientID string) error
}

type Meals interface {
	Create(ctx context.Context, m *model.Meal) (*model.Meal, error)
	GetByID(ctx context.Context, tenantID, mealID string) (*model.Meal, error)
	List(ctx context.Context, tenantID string) ([]*model.Meal, error)
	Delete(ctx context.Context, tenantID, mealID string) error
}

// Plans persists weekly plan snapshots. Create performs the first persist of
// a snapshot whose id the use case assigned; Save persists mutations and is a
// single atomic row update, which is what serializes interleaved
// load-mutate-save cycles on the same plan.
type Plans interface {
	Create(ctx context.Context, p *model.WeeklyPlan) (*model.WeeklyPlan, error)
	Save(ctx context.Context, p *model.WeeklyPlan) (*model.WeeklyPlan, error)
	GetByID(ctx context.Context, tenantID, planID string) (*model.WeeklyPlan, error)
	GetByStartDate(ctx context.Context, tenantID, startingDate string) (*model.WeeklyPlan, error)
	List(ctx context.Context, req model.ListPlansRequest) ([]*model.WeeklyPlan, error)
	Delete(ctx context.Context, tenantID, planID string) error
}
