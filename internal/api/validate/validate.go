package validate

import (
	"fmt"
	"regexp"

	"github.com/go-openapi/strfmt"

	"github.com/denerose/VeganMealAppApi-sub001/internal/model"
	"github.com/denerose/VeganMealAppApi-sub001/internal/planner"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// nameRx allows letters, digits, single spaces, hyphen and apostrophe.
var nameRx = regexp.MustCompile(`^[A-Za-z0-9]+([ '\-][A-Za-z0-9]+)*$`)

// Name validates a catalog display name (ingredient or meal):
// - 1-100 bytes
// - letters/digits with single internal spaces, hyphens or apostrophes
// Returns an error describing the first violated rule.
func Name(v string) error {
	if v == "" {
		return fmt.Errorf("name is required")
	}
	if len(v) > 100 {
		return fmt.Errorf("name exceeds 100 characters")
	}
	if !nameRx.MatchString(v) {
		return fmt.Errorf("name contains invalid characters; allowed letters, digits, space, hyphen, apostrophe")
	}
	return nil
}

func Email(v string) error {
	if v == "" {
		return fmt.Errorf("email is required")
	}
	if len(v) > 320 || !emailRx.MatchString(v) {
		return fmt.Errorf("invalid email")
	}
	return nil
}

// Password enforces a minimum length only; composition rules are a UX
// concern, not a server one.
func Password(v string) error {
	if len(v) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if len(v) > 128 {
		return fmt.Errorf("password exceeds 128 characters")
	}
	return nil
}

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field string, v *string, limit int) error {
	if v == nil {
		return nil
	}
	if len(*v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

// Date validates an ISO calendar date (YYYY-MM-DD).
func Date(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	if !strfmt.IsDate(v) {
		return fmt.Errorf("%s must be a calendar date in YYYY-MM-DD format", field)
	}
	return nil
}

// WeekStartDay validates the week start day enum value.
func WeekStartDay(v string) error {
	if v == "" {
		return fmt.Errorf("weekStartDay is required")
	}
	if _, ok := model.WeekStartDay(v).WeekdayIndex(); !ok {
		return fmt.Errorf("weekStartDay must be one of SUNDAY, MONDAY, SATURDAY")
	}
	return nil
}

// Slot validates a meal slot path segment and returns the parsed slot.
func Slot(v string) (planner.Slot, error) {
	s, ok := planner.ParseSlot(v)
	if !ok {
		return "", fmt.Errorf("slot must be lunch or dinner")
	}
	return s, nil
}

// -------- Request specific helpers ----------

// RegisterUser validates input for account registration.
func RegisterUser(email, password string, displayName *string, weekStartDay string) error {
	if err := Email(email); err != nil {
		return err
	}
	if err := Password(password); err != nil {
		return err
	}
	if err := MaxLen("displayName", displayName, 100); err != nil {
		return err
	}
	return WeekStartDay(weekStartDay)
}

// CreatePlan validates input for creating a weekly plan. Week alignment is a
// domain rule checked by the aggregate, not here.
func CreatePlan(startingDate string) error {
	return Date("startingDate", startingDate)
}

// CreateMeal validates input for adding a meal to the catalog.
func CreateMeal(name string, description *string) error {
	if err := Name(name); err != nil {
		return err
	}
	return MaxLen("description", description, 500)
}

// CreateIngredient validates input for adding an ingredient to the catalog.
func CreateIngredient(name string, notes *string) error {
	if err := Name(name); err != nil {
		return err
	}
	return MaxLen("notes", notes, 500)
}
