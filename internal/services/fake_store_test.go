package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/denerose/VeganMealAppApi-sub001/internal/model"
	"github.com/denerose/VeganMealAppApi-sub001/internal/store"
)

// fakeStore is an in-memory store.Store for service tests.
type fakeStore struct {
	users       map[string]*model.User
	ingredients map[string]*model.Ingredient
	meals       map[string]*model.Meal
	plans       map[string]*model.WeeklyPlan
	saveCount   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       map[string]*model.User{},
		ingredients: map[string]*model.Ingredient{},
		meals:       map[string]*model.Meal{},
		plans:       map[string]*model.WeeklyPlan{},
	}
}

func (f *fakeStore) Users() store.Users             { return (*fakeUsers)(f) }
func (f *fakeStore) Ingredients() store.Ingredients { return (*fakeIngredients)(f) }
func (f *fakeStore) Meals() store.Meals             { return (*fakeMeals)(f) }
func (f *fakeStore) Plans() store.Plans             { return (*fakePlans)(f) }

type fakeUsers fakeStore

func (f *fakeUsers) Create(_ context.Context, u *model.User) (*model.User, error) {
	for _, ex := range f.users {
		if ex.Email == u.Email {
			return nil, fmt.Errorf("email taken: %w", model.ErrConflict)
		}
	}
	out := *u
	if out.UserID == "" {
		out.UserID = uuid.New().String()
	}
	out.CreationTime = time.Now().UTC()
	f.users[out.UserID] = &out
	return &out, nil
}

func (f *fakeUsers) Get(_ context.Context, userID string) (*model.User, error) {
	if u, ok := f.users[userID]; ok {
		return u, nil
	}
	return nil, model.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, model.ErrNotFound
}

type fakeIngredients fakeStore

func (f *fakeIngredients) Create(_ context.Context, in *model.Ingredient) (*model.Ingredient, error) {
	out := *in
	if out.IngredientID == "" {
		out.IngredientID = uuid.New().String()
	}
	f.ingredients[out.IngredientID] = &out
	return &out, nil
}

func (f *fakeIngredients) GetByID(_ context.Context, tenantID, id string) (*model.Ingredient, error) {
	if in, ok := f.ingredients[id]; ok && in.TenantID == tenantID {
		return in, nil
	}
	return nil, model.ErrNotFound
}

func (f *fakeIngredients) List(_ context.Context, tenantID string) ([]*model.Ingredient, error) {
	var res []*model.Ingredient
	for _, in := range f.ingredients {
		if in.TenantID == tenantID {
			res = append(res, in)
		}
	}
	return res, nil
}

func (f *fakeIngredients) Delete(_ context.Context, tenantID, id string) error {
	if in, ok := f.ingredients[id]; ok && in.TenantID == tenantID {
		delete(f.ingredients, id)
		return nil
	}
	return model.ErrNotFound
}

type fakeMeals fakeStore

func (f *fakeMeals) Create(_ context.Context, m *model.Meal) (*model.Meal, error) {
	out := *m
	if out.MealID == "" {
		out.MealID = uuid.New().String()
	}
	f.meals[out.MealID] = &out
	return &out, nil
}

func (f *fakeMeals) GetByID(_ context.Context, tenantID, id string) (*model.Meal, error) {
	if m, ok := f.meals[id]; ok && m.TenantID == tenantID {
		return m, nil
	}
	return nil, model.ErrNotFound
}

func (f *fakeMeals) List(_ context.Context, tenantID string) ([]*model.Meal, error) {
	var res []*model.Meal
	for _, m := range f.meals {
		if m.TenantID == tenantID {
			res = append(res, m)
		}
	}
	return res, nil
}

func (f *fakeMeals) Delete(_ context.Context, tenantID, id string) error {
	if m, ok := f.meals[id]; ok && m.TenantID == tenantID {
		delete(f.meals, id)
		return nil
	}
	return model.ErrNotFound
}

type fakePlans fakeStore

func (f *fakePlans) Create(_ context.Context, p *model.WeeklyPlan) (*model.WeeklyPlan, error) {
	for _, ex := range f.plans {
		if ex.TenantID == p.TenantID && ex.StartingDate == p.StartingDate {
			return nil, fmt.Errorf("week taken: %w", model.ErrConflict)
		}
	}
	out := *p
	now := time.Now().UTC()
	out.CreationTime = now
	out.UpdateTime = now
	f.plans[out.PlanID] = &out
	return &out, nil
}

func (f *fakePlans) Save(_ context.Context, p *model.WeeklyPlan) (*model.WeeklyPlan, error) {
	ex, ok := f.plans[p.PlanID]
	if !ok || ex.TenantID != p.TenantID {
		return nil, model.ErrNotFound
	}
	out := *p
	out.CreationTime = ex.CreationTime
	out.UpdateTime = time.Now().UTC()
	f.plans[out.PlanID] = &out
	f.saveCount++
	return &out, nil
}

func (f *fakePlans) GetByID(_ context.Context, tenantID, planID string) (*model.WeeklyPlan, error) {
	if p, ok := f.plans[planID]; ok && p.TenantID == tenantID {
		return p, nil
	}
	return nil, model.ErrNotFound
}

func (f *fakePlans) GetByStartDate(_ context.Context, tenantID, startingDate string) (*model.WeeklyPlan, error) {
	for _, p := range f.plans {
		if p.TenantID == tenantID && p.StartingDate == startingDate {
			return p, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakePlans) List(_ context.Context, req model.ListPlansRequest) ([]*model.WeeklyPlan, error) {
	var res []*model.WeeklyPlan
	for _, p := range f.plans {
		if p.TenantID != req.TenantID {
			continue
		}
		if req.From != "" && p.StartingDate < req.From {
			continue
		}
		if req.To != "" && p.StartingDate > req.To {
			continue
		}
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].StartingDate > res[j].StartingDate })
	if req.Offset > 0 {
		if req.Offset >= len(res) {
			return nil, nil
		}
		res = res[req.Offset:]
	}
	if req.Limit > 0 && len(res) > req.Limit {
		res = res[:req.Limit]
	}
	return res, nil
}

func (f *fakePlans) Delete(_ context.Context, tenantID, planID string) error {
	if p, ok := f.plans[planID]; ok && p.TenantID == tenantID {
		delete(f.plans, planID)
		return nil
	}
	return model.ErrNotFound
}
