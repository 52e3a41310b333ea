// Package planner implements the weekly plan aggregate: one tenant's 7-day
// meal calendar, its structural invariants, and the leftover propagation
// that derives a day's lunch from the previous day's dinner.
package planner

import (
	"fmt"

	"github.com/denerose/VeganMealAppApi-sub001/internal/dates"
	"github.com/denerose/VeganMealAppApi-sub001/internal/model"
)

// Slot names one of the two meal slots on a day plan.
type Slot string

const (
	SlotLunch  Slot = "lunch"
	SlotDinner Slot = "dinner"
)

// ParseSlot maps a wire value onto a Slot.
func ParseSlot(s string) (Slot, bool) {
	switch Slot(s) {
	case SlotLunch, SlotDinner:
		return Slot(s), true
	default:
		return "", false
	}
}

// Assignment is the input to AssignMeal. MakesLunch is only meaningful for
// the dinner slot.
type Assignment struct {
	MealID     string
	MakesLunch bool
}

// Plan is the weekly plan aggregate root. It owns exactly 7 day plans with
// consecutive dates starting at the starting date, plus a date-keyed map of
// dinner assignment metadata. The zero value is not usable; construct via
// New or Rehydrate.
//
// The aggregate is a plain synchronous data structure. It assumes exclusive
// ownership for one load-mutate-save cycle; serializing concurrent writers
// is the plan store's responsibility.
type Plan struct {
	id           string
	tenantID     string
	startingDate string
	weekStartDay model.WeekStartDay
	days         []model.DayPlan
	dinners      map[string]model.MealAssignment
}

// New validates inputs and builds a fresh week: 7 consecutive day plans,
// every slot empty, no dinner assignments, no id. The starting date must
// fall on the weekday implied by weekStartDay, so every persisted week
// begins on the tenant's configured day.
func New(tenantID, startingDate string, weekStartDay model.WeekStartDay) (*Plan, error) {
	start, err := dates.Parse(startingDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, startingDate)
	}
	wantIdx, ok := weekStartDay.WeekdayIndex()
	if !ok {
		return nil, fmt.Errorf("%w: unrecognized week start day %q", model.ErrValidation, weekStartDay)
	}
	if got := dates.WeekdayIndex(start); got != wantIdx {
		return nil, fmt.Errorf("%w: %s is a %s, week starts on %s",
			ErrMisalignedWeekStart, startingDate, start.Weekday(), weekStartDay)
	}

	days := make([]model.DayPlan, 0, 7)
	for i := 0; i < 7; i++ {
		d := dates.AddDays(start, i)
		long, short := dates.Labels(d)
		days = append(days, model.DayPlan{
			Date:     dates.Format(d),
			LongDay:  long,
			ShortDay: short,
		})
	}
	return &Plan{
		tenantID:     tenantID,
		startingDate: startingDate,
		weekStartDay: weekStartDay,
		days:         days,
		dinners:      make(map[string]model.MealAssignment),
	}, nil
}

// Rehydrate reconstructs an aggregate from a previously produced snapshot.
// The input is trusted (it was valid when created), so alignment is not
// re-checked. Legacy snapshots carry no dinner-assignment map; for those the
// map is rebuilt from the day plans' dinner slots with makesLunch defaulted
// to false. That fallback is lossy: the original makesLunch intent of such
// records is unrecoverable (migration concern, kept deliberately).
func Rehydrate(snap *model.WeeklyPlan) *Plan {
	p := &Plan{
		id:           snap.PlanID,
		tenantID:     snap.TenantID,
		startingDate: snap.StartingDate,
		weekStartDay: snap.WeekStartDay,
		days:         make([]model.DayPlan, len(snap.DayPlans)),
		dinners:      make(map[string]model.MealAssignment, len(snap.DinnerAssignments)),
	}
	copy(p.days, snap.DayPlans)
	if snap.DinnerAssignments != nil {
		for date, a := range snap.DinnerAssignments {
			p.dinners[date] = a
		}
		return p
	}
	for _, dp := range p.days {
		if dp.DinnerMealID != nil {
			p.dinners[dp.Date] = model.MealAssignment{MealID: *dp.DinnerMealID}
		}
	}
	return p
}

// ID returns the persistent id, or "" before the first persist.
func (p *Plan) ID() string { return p.id }

// TenantID returns the owning tenant.
func (p *Plan) TenantID() string { return p.tenantID }

// StartingDate returns the first day of the week as YYYY-MM-DD.
func (p *Plan) StartingDate() string { return p.startingDate }

// WeekStartDay returns the tenant convention the plan was created under.
func (p *Plan) WeekStartDay() model.WeekStartDay { return p.weekStartDay }

// AssignID sets the persistent id on first save. Assigning twice, or
// assigning an empty id, is an error.
func (p *Plan) AssignID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty plan id", model.ErrValidation)
	}
	if p.id != "" {
		return fmt.Errorf("%w: plan id already assigned", model.ErrValidation)
	}
	p.id = id
	return nil
}

func (p *Plan) dayIndex(date string) (int, error) {
	for i := range p.days {
		if p.days[i].Date == date {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrDayNotFound, date)
}

// AssignMeal sets a meal on the named slot of an existing day.
//
// Lunch assignment always clears isLeftover: a manual choice wins over any
// prior leftover derivation. Dinner assignment upserts the corresponding
// dinner-assignment entry so the two representations never diverge.
func (p *Plan) AssignMeal(date string, slot Slot, a Assignment) error {
	i, err := p.dayIndex(date)
	if err != nil {
		return err
	}
	mealID := a.MealID
	switch slot {
	case SlotLunch:
		p.days[i].LunchMealID = &mealID
		p.days[i].IsLeftover = false
	case SlotDinner:
		p.days[i].DinnerMealID = &mealID
		p.dinners[date] = model.MealAssignment{MealID: mealID, MakesLunch: a.MakesLunch}
	default:
		return fmt.Errorf("%w: unknown slot %q", model.ErrValidation, slot)
	}
	return nil
}

// RemoveMeal clears the named slot on an existing day. Removing a dinner
// also deletes its dinner-assignment entry, but does not retroactively clear
// a lunch already derived from it; a later PopulateLeftovers will not clear
// it either, per the fill-only rule.
func (p *Plan) RemoveMeal(date string, slot Slot) error {
	i, err := p.dayIndex(date)
	if err != nil {
		return err
	}
	switch slot {
	case SlotLunch:
		p.days[i].LunchMealID = nil
		p.days[i].IsLeftover = false
	case SlotDinner:
		p.days[i].DinnerMealID = nil
		delete(p.dinners, date)
	default:
		return fmt.Errorf("%w: unknown slot %q", model.ErrValidation, slot)
	}
	return nil
}

// PopulateLeftovers re-derives lunch-by-inheritance for every day except the
// first, in date order. A day whose lunch is already set is left untouched,
// so the operation is idempotent and only ever fills empty slots. The first
// day has no in-week predecessor and is never a leftover day.
func (p *Plan) PopulateLeftovers() {
	for i := 1; i < len(p.days); i++ {
		if p.days[i].LunchMealID != nil {
			continue
		}
		prev, ok := p.dinners[p.days[i-1].Date]
		if ok && prev.MakesLunch {
			mealID := prev.MealID
			p.days[i].LunchMealID = &mealID
			p.days[i].IsLeftover = true
		} else {
			p.days[i].IsLeftover = false
		}
	}
}

// DayPlan returns the day plan for an exact date match.
func (p *Plan) DayPlan(date string) (model.DayPlan, error) {
	i, err := p.dayIndex(date)
	if err != nil {
		return model.DayPlan{}, err
	}
	return copyDay(p.days[i]), nil
}

// Snapshot produces the immutable flattened view used for persistence and
// responses. It requires an assigned id; calling it earlier is a programming
// error surfaced as ErrSnapshotPrecondition.
func (p *Plan) Snapshot() (*model.WeeklyPlan, error) {
	if p.id == "" {
		return nil, ErrSnapshotPrecondition
	}
	snap := &model.WeeklyPlan{
		PlanID:            p.id,
		TenantID:          p.tenantID,
		StartingDate:      p.startingDate,
		WeekStartDay:      p.weekStartDay,
		DayPlans:          make([]model.DayPlan, 0, len(p.days)),
		DinnerAssignments: make(map[string]model.MealAssignment, len(p.dinners)),
	}
	for _, d := range p.days {
		snap.DayPlans = append(snap.DayPlans, copyDay(d))
	}
	for date, a := range p.dinners {
		snap.DinnerAssignments[date] = a
	}
	return snap, nil
}

// copyDay clones a day plan including its pointer slots so snapshots do not
// alias aggregate state.
func copyDay(d model.DayPlan) model.DayPlan {
	out := d
	if d.LunchMealID != nil {
		v := *d.LunchMealID
		out.LunchMealID = &v
	}
	if d.DinnerMealID != nil {
		v := *d.DinnerMealID
		out.DinnerMealID = &v
	}
	return out
}
