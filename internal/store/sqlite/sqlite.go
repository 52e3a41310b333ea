// Package sqlite provides the store implementation for the local build
// target, backed by modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/denerose/VeganMealAppApi-sub001/internal/model"
	"github.com/denerose/VeganMealAppApi-sub001/internal/store"
)

// New opens (or creates) the database at path and ensures the schema.
func New(ctx context.Context, path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB wraps an existing connection (used by tests and the factory).
func NewWithDB(db *sql.DB) store.Store { return &sqliteStore{db: db} }

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Users() store.Users             { return &users{db: s.db} }
func (s *sqliteStore) Ingredients() store.Ingredients { return &ingredients{db: s.db} }
func (s *sqliteStore) Meals() store.Meals             { return &meals{db: s.db} }
func (s *sqliteStore) Plans() store.Plans             { return &plans{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// mapErr translates driver errors into the store's sentinel kinds.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return model.ErrNotFound
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", model.ErrConflict, err)
	default:
		return err
	}
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	out := *m
	if out.UserID == "" {
		out.UserID = uuid.New().String()
	}
	if out.Status == "" {
		out.Status = "ACTIVE"
	}
	out.CreationTime = time.Now().UTC()
	_, err := u.db.ExecContext(ctx, `
        INSERT INTO users (user_id, tenant_id, email, display_name, password_hash, week_start_day, status, creation_time)
        VALUES (?,?,?,?,?,?,?,?)`,
		out.UserID, out.TenantID, out.Email, out.DisplayName, out.PasswordHash, string(out.WeekStartDay), out.Status, out.CreationTime)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, tenant_id, email, display_name, password_hash, week_start_day, status, creation_time
        FROM users WHERE user_id=?`, userID)
	return scanUser(row)
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, tenant_id, email, display_name, password_hash, week_start_day, status, creation_time
        FROM users WHERE email=?`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*model.User, error) {
	var out model.User
	var weekStart string
	if err := row.Scan(&out.UserID, &out.TenantID, &out.Email, &out.DisplayName, &out.PasswordHash, &weekStart, &out.Status, &out.CreationTime); err != nil {
		return nil, mapErr(err)
	}
	out.WeekStartDay = model.WeekStartDay(weekStart)
	return &out, nil
}

// --- Ingredients ---

type ingredients struct{ db *sql.DB }

func (g *ingredients) Create(ctx context.Context, in *model.Ingredient) (*model.Ingredient, error) {
	out := *in
	if out.IngredientID == "" {
		out.IngredientID = uuid.New().String()
	}
	out.CreationTime = time.Now().UTC()
	_, err := g.db.ExecContext(ctx, `
        INSERT INTO ingredients (ingredient_id, tenant_id, name, notes, creation_time)
        VALUES (?,?,?,?,?)`,
		out.IngredientID, out.TenantID, out.Name, out.Notes, out.CreationTime)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (g *ingredients) GetByID(ctx context.Context, tenantID, ingredientID string) (*model.Ingredient, error) {
	var out model.Ingredient
	row := g.db.QueryRowContext(ctx, `
        SELECT ingredient_id, tenant_id, name, notes, creation_time
        FROM ingredients WHERE tenant_id=? AND ingredient_id=?`, tenantID, ingredientID)
	if err := row.Scan(&out.IngredientID, &out.TenantID, &out.Name, &out.Notes, &out.CreationTime); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (g *ingredients) List(ctx context.Context, tenantID string) ([]*model.Ingredient, error) {
	rows, err := g.db.QueryContext(ctx, `
        SELECT ingredient_id, tenant_id, name, notes, creation_time
        FROM ingredients WHERE tenant_id=? ORDER BY name ASC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.Ingredient
	for rows.Next() {
		var in model.Ingredient
		if err := rows.Scan(&in.IngredientID, &in.TenantID, &in.Name, &in.Notes, &in.CreationTime); err != nil {
			return nil, err
		}
		res = append(res, &in)
	}
	return res, rows.Err()
}

func (g *ingredients) Delete(ctx context.Context, tenantID, ingredientID string) error {
	res, err := g.db.ExecContext(ctx, `DELETE FROM ingredients WHERE tenant_id=? AND ingredient_id=?`, tenantID, ingredientID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// --- Meals ---

type meals struct{ db *sql.DB }

func (m *meals) Create(ctx context.Context, in *model.Meal) (*model.Meal, error) {
	out := *in
	if out.MealID == "" {
		out.MealID = uuid.New().String()
	}
	if out.IngredientIDs == nil {
		out.IngredientIDs = []string{}
	}
	out.CreationTime = time.Now().UTC()
	ids, err := json.Marshal(out.IngredientIDs)
	if err != nil {
		return nil, err
	}
	_, err = m.db.ExecContext(ctx, `
        INSERT INTO meals (meal_id, tenant_id, name, description, ingredient_ids, creation_time)
        VALUES (?,?,?,?,?,?)`,
		out.MealID, out.TenantID, out.Name, out.Description, string(ids), out.CreationTime)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (m *meals) GetByID(ctx context.Context, tenantID, mealID string) (*model.Meal, error) {
	var out model.Meal
	var ids string
	row := m.db.QueryRowContext(ctx, `
        SELECT meal_id, tenant_id, name, description, ingredient_ids, creation_time
        FROM meals WHERE tenant_id=? AND meal_id=?`, tenantID, mealID)
	if err := row.Scan(&out.MealID, &out.TenantID, &out.Name, &out.Description, &ids, &out.CreationTime); err != nil {
		return nil, mapErr(err)
	}
	if err := json.Unmarshal([]byte(ids), &out.IngredientIDs); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *meals) List(ctx context.Context, tenantID string) ([]*model.Meal, error) {
	rows, err := m.db.QueryContext(ctx, `
        SELECT meal_id, tenant_id, name, description, ingredient_ids, creation_time
        FROM meals WHERE tenant_id=? ORDER BY name ASC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.Meal
	for rows.Next() {
		var out model.Meal
		var ids string
		if err := rows.Scan(&out.MealID, &out.TenantID, &out.Name, &out.Description, &ids, &out.CreationTime); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(ids), &out.IngredientIDs); err != nil {
			return nil, err
		}
		res = append(res, &out)
	}
	return res, rows.Err()
}

func (m *meals) Delete(ctx context.Context, tenantID, mealID string) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM meals WHERE tenant_id=? AND meal_id=?`, tenantID, mealID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// --- Plans ---

type plans struct{ db *sql.DB }

func (p *plans) Create(ctx context.Context, in *model.WeeklyPlan) (*model.WeeklyPlan, error) {
	out := *in
	now := time.Now().UTC()
	out.CreationTime = now
	out.UpdateTime = now

	days, dinners, err := marshalPlanColumns(&out)
	if err != nil {
		return nil, err
	}
	_, err = p.db.ExecContext(ctx, `
        INSERT INTO weekly_plans (plan_id, tenant_id, starting_date, week_start_day, day_plans, dinner_assignments, creation_time, update_time)
        VALUES (?,?,?,?,?,?,?,?)`,
		out.PlanID, out.TenantID, out.StartingDate, string(out.WeekStartDay), days, dinners, out.CreationTime, out.UpdateTime)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (p *plans) Save(ctx context.Context, in *model.WeeklyPlan) (*model.WeeklyPlan, error) {
	out := *in
	out.UpdateTime = time.Now().UTC()

	days, dinners, err := marshalPlanColumns(&out)
	if err != nil {
		return nil, err
	}
	res, err := p.db.ExecContext(ctx, `
        UPDATE weekly_plans SET day_plans=?, dinner_assignments=?, update_time=?
        WHERE tenant_id=? AND plan_id=?`,
		days, dinners, out.UpdateTime, out.TenantID, out.PlanID)
	if err != nil {
		return nil, mapErr(err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return &out, nil
}

const planColumns = `plan_id, tenant_id, starting_date, week_start_day, day_plans, dinner_assignments, creation_time, update_time`

func (p *plans) GetByID(ctx context.Context, tenantID, planID string) (*model.WeeklyPlan, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM weekly_plans WHERE tenant_id=? AND plan_id=?`, tenantID, planID)
	return scanPlanRow(row.Scan)
}

func (p *plans) GetByStartDate(ctx context.Context, tenantID, startingDate string) (*model.WeeklyPlan, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM weekly_plans WHERE tenant_id=? AND starting_date=?`, tenantID, startingDate)
	return scanPlanRow(row.Scan)
}

func (p *plans) List(ctx context.Context, req model.ListPlansRequest) ([]*model.WeeklyPlan, error) {
	q := `SELECT ` + planColumns + ` FROM weekly_plans WHERE tenant_id=?`
	args := []interface{}{req.TenantID}
	if req.From != "" {
		q += ` AND starting_date>=?`
		args = append(args, req.From)
	}
	if req.To != "" {
		q += ` AND starting_date<=?`
		args = append(args, req.To)
	}
	q += ` ORDER BY starting_date DESC`
	if req.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, req.Limit)
	} else if req.Offset > 0 {
		// sqlite only accepts OFFSET after a LIMIT clause; -1 is unbounded
		q += ` LIMIT -1`
	}
	if req.Offset > 0 {
		q += ` OFFSET ?`
		args = append(args, req.Offset)
	}

	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.WeeklyPlan
	for rows.Next() {
		plan, err := scanPlanRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, plan)
	}
	return res, rows.Err()
}

func (p *plans) Delete(ctx context.Context, tenantID, planID string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM weekly_plans WHERE tenant_id=? AND plan_id=?`, tenantID, planID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// marshalPlanColumns renders the JSON columns. A nil dinner-assignment map
// persists as NULL so the legacy rehydration path stays observable.
func marshalPlanColumns(p *model.WeeklyPlan) (days string, dinners interface{}, err error) {
	b, err := json.Marshal(p.DayPlans)
	if err != nil {
		return "", nil, err
	}
	days = string(b)
	if p.DinnerAssignments == nil {
		return days, nil, nil
	}
	b, err = json.Marshal(p.DinnerAssignments)
	if err != nil {
		return "", nil, err
	}
	return days, string(b), nil
}

func scanPlanRow(scan func(dest ...interface{}) error) (*model.WeeklyPlan, error) {
	var out model.WeeklyPlan
	var weekStart, days string
	var dinners sql.NullString
	if err := scan(&out.PlanID, &out.TenantID, &out.StartingDate, &weekStart, &days, &dinners, &out.CreationTime, &out.UpdateTime); err != nil {
		return nil, mapErr(err)
	}
	out.WeekStartDay = model.WeekStartDay(weekStart)
	if err := json.Unmarshal([]byte(days), &out.DayPlans); err != nil {
		return nil, err
	}
	if dinners.Valid {
		if err := json.Unmarshal([]byte(dinners.String), &out.DinnerAssignments); err != nil {
			return nil, err
		}
		if out.DinnerAssignments == nil {
			out.DinnerAssignments = map[string]model.MealAssignment{}
		}
	}
	return &out, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}
