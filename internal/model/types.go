package model

import "time"

// WeekStartDay is the tenant-level convention for which weekday a plan begins on.
type WeekStartDay string

const (
	WeekStartSunday   WeekStartDay = "SUNDAY"
	WeekStartMonday   WeekStartDay = "MONDAY"
	WeekStartSaturday WeekStartDay = "SATURDAY"
)

// WeekdayIndex returns the weekday index implied by the convention
// (Sunday=0 .. Saturday=6, matching time.Weekday). The second return is
// false for values outside the supported set.
func (d WeekStartDay) WeekdayIndex() (int, bool) {
	switch d {
	case WeekStartSunday:
		return 0, true
	case WeekStartMonday:
		return 1, true
	case WeekStartSaturday:
		return 6, true
	default:
		return 0, false
	}
}

// User represents an account in the system. Every user belongs to exactly
// one tenant; the tenant is the isolation boundary for all other data.
type User struct {
	UserID       string       `json:"userId"`
	TenantID     string       `json:"tenantId"`
	Email        string       `json:"email"`
	DisplayName  *string      `json:"displayName,omitempty"`
	PasswordHash string       `json:"-"`
	WeekStartDay WeekStartDay `json:"weekStartDay"`
	Status       string       `json:"status"`
	CreationTime time.Time    `json:"creationTime"`
}

// Ingredient is a tenant-scoped catalog item.
type Ingredient struct {
	IngredientID string    `json:"ingredientId"`
	TenantID     string    `json:"tenantId"`
	Name         string    `json:"name"`
	Notes        *string   `json:"notes,omitempty"`
	CreationTime time.Time `json:"creationTime"`
}

// Meal is a tenant-scoped catalog record referencing ingredients.
type Meal struct {
	MealID        string    `json:"mealId"`
	TenantID      string    `json:"tenantId"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	IngredientIDs []string  `json:"ingredientIds"`
	CreationTime  time.Time `json:"creationTime"`
}

// DayPlan is one day's lunch/dinner record within a weekly plan.
// LongDay and ShortDay are derived display labels computed once at creation.
type DayPlan struct {
	Date         string  `json:"date"`
	LongDay      string  `json:"longDay"`
	ShortDay     string  `json:"shortDay"`
	LunchMealID  *string `json:"lunchMealId,omitempty"`
	DinnerMealID *string `json:"dinnerMealId,omitempty"`
	IsLeftover   bool    `json:"isLeftover"`
}

// MealAssignment carries metadata about a dinner that may produce the next
// day's leftover lunch.
type MealAssignment struct {
	MealID     string `json:"mealId"`
	MakesLunch bool   `json:"makesLunch"`
}

// WeeklyPlan is the flattened snapshot of the weekly plan aggregate: the
// shape produced by planner.(*Plan).Snapshot, consumed by planner.Rehydrate
// and persisted by the plan store. A nil DinnerAssignments map marks a
// legacy record that predates the explicit map.
type WeeklyPlan struct {
	PlanID            string                    `json:"planId"`
	TenantID          string                    `json:"tenantId"`
	StartingDate      string                    `json:"startingDate"`
	WeekStartDay      WeekStartDay              `json:"weekStartDay"`
	DayPlans          []DayPlan                 `json:"dayPlans"`
	DinnerAssignments map[string]MealAssignment `json:"dinnerAssignments,omitempty"`
	CreationTime      time.Time                 `json:"creationTime,omitempty"`
	UpdateTime        time.Time                 `json:"updateTime,omitempty"`
}

// ListPlansRequest captures filters used when listing weekly plans.
type ListPlansRequest struct {
	TenantID string
	From     string // inclusive lower bound on startingDate, YYYY-MM-DD
	To       string // inclusive upper bound on startingDate, YYYY-MM-DD
	Limit    int
	Offset   int
}
