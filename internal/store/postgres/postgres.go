// Package postgres provides the store implementation for cloud build
// targets, backed by the pgx stdlib driver over database/sql.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/denerose/VeganMealAppApi-sub001/internal/model"
	"github.com/denerose/VeganMealAppApi-sub001/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and
// verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a native Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Users() store.Users             { return &users{db: s.db} }
func (s *pgStore) Ingredients() store.Ingredients { return &ingredients{db: s.db} }
func (s *pgStore) Meals() store.Meals             { return &meals{db: s.db} }
func (s *pgStore) Plans() store.Plans             { return &plans{db: s.db} }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const uniqueViolation = "23505"

// mapErr translates driver errors into the store's sentinel kinds.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %v", model.ErrConflict, err)
	}
	return err
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
	row := u.db.QueryRowContext(ctx, `
        INSERT INTO users (user_id, tenant_id, email, display_name, password_hash, week_start_day, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING creation_time`,
		out.UserID, out.TenantID, out.Email, out.DisplayName, out.PasswordHash, string(out.WeekStartDay), out.Status)
	if err := row.Scan(&out.CreationTime); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, tenant_id, email, display_name, password_hash, week_start_day, status, creation_time
        FROM users WHERE user_id=$1`, userID)
	return scanUser(row)
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, tenant_id, email, display_name, password_hash, week_start_day, status, creation_time
        FROM users WHERE email=$1`, email)
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
	row := g.db.QueryRowContext(ctx, `
        INSERT INTO ingredients (ingredient_id, tenant_id, name, notes)
        VALUES ($1,$2,$3,$4)
        RETURNING creation_time`,
		out.IngredientID, out.TenantID, out.Name, out.Notes)
	if err := row.Scan(&out.CreationTime); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (g *ingredients) GetByID(ctx context.Context, tenantID, ingredientID string) (*model.Ingredient, error) {
	var out model.Ingredient
	row := g.db.QueryRowContext(ctx, `
        SELECT ingredient_id, tenant_id, name, notes, creation_time
        FROM ingredients WHERE tenant_id=$1 AND ingredient_id=$2`, tenantID, ingredientID)
	if err := row.Scan(&out.IngredientID, &out.TenantID, &out.Name, &out.Notes, &out.CreationTime); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (g *ingredients) List(ctx context.Context, tenantID string) ([]*model.Ingredient, error) {
	rows, err := g.db.QueryContext(ctx, `
        SELECT ingredient_id, tenant_id, name, notes, creation_time
        FROM ingredients WHERE tenant_id=$1 ORDER BY name ASC`, tenantID)
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
	res, err := g.db.ExecContext(ctx, `DELETE FROM ingredients WHERE tenant_id=$1 AND ingredient_id=$2`, tenantID, ingredientID)
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
	ids, err := json.Marshal(out.IngredientIDs)
	if err != nil {
		return nil, err
	}
	row := m.db.QueryRowContext(ctx, `
        INSERT INTO meals (meal_id, tenant_id, name, description, ingredient_ids)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING creation_time`,
		out.MealID, out.TenantID, out.Name, out.Description, string(ids))
	if err := row.Scan(&out.CreationTime); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (m *meals) GetByID(ctx context.Context, tenantID, mealID string) (*model.Meal, error) {
	var out model.Meal
	var ids string
	row := m.db.QueryRowContext(ctx, `
        SELECT meal_id, tenant_id, name, description, ingredient_ids, creation_time
        FROM meals WHERE tenant_id=$1 AND meal_id=$2`, tenantID, mealID)
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
        FROM meals WHERE tenant_id=$1 ORDER BY name ASC`, tenantID)
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
	res, err := m.db.ExecContext(ctx, `DELETE FROM meals WHERE tenant_id=$1 AND meal_id=$2`, tenantID, mealID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// --- Plans ---

type plans struct{ db *sql.DB }

const planColumns = `plan_id, tenant_id, starting_date, week_start_day, day_plans, dinner_assignments, creation_time, update_time`

func (p *plans) Create(ctx context.Context, in *model.WeeklyPlan) (*model.WeeklyPlan, error) {
	out := *in
	days, dinners, err := marshalPlanColumns(&out)
	if err != nil {
		return nil, err
	}
	row := p.db.QueryRowContext(ctx, `
        INSERT INTO weekly_plans (plan_id, tenant_id, starting_date, week_start_day, day_plans, dinner_assignments)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING creation_time, update_time`,
		out.PlanID, out.TenantID, out.StartingDate, string(out.WeekStartDay), days, dinners)
	if err := row.Scan(&out.CreationTime, &out.UpdateTime); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (p *plans) Save(ctx context.Context, in *model.WeeklyPlan) (*model.WeeklyPlan, error) {
	out := *in
	days, dinners, err := marshalPlanColumns(&out)
	if err != nil {
		return nil, err
	}
	row := p.db.QueryRowContext(ctx, `
        UPDATE weekly_plans SET day_plans=$1, dinner_assignments=$2, update_time=now()
        WHERE tenant_id=$3 AND plan_id=$4
        RETURNING creation_time, update_time`,
		days, dinners, out.TenantID, out.PlanID)
	if err := row.Scan(&out.CreationTime, &out.UpdateTime); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (p *plans) GetByID(ctx context.Context, tenantID, planID string) (*model.WeeklyPlan, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM weekly_plans WHERE tenant_id=$1 AND plan_id=$2`, tenantID, planID)
	return scanPlanRow(row.Scan)
}

func (p *plans) GetByStartDate(ctx context.Context, tenantID, startingDate string) (*model.WeeklyPlan, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM weekly_plans WHERE tenant_id=$1 AND starting_date=$2`, tenantID, startingDate)
	return scanPlanRow(row.Scan)
}

func (p *plans) List(ctx context.Context, req model.ListPlansRequest) ([]*model.WeeklyPlan, error) {
	q := `SELECT ` + planColumns + ` FROM weekly_plans WHERE tenant_id=$1`
	args := []interface{}{req.TenantID}
	if req.From != "" {
		args = append(args, req.From)
		q += fmt.Sprintf(` AND starting_date>=$%d`, len(args))
	}
	if req.To != "" {
		args = append(args, req.To)
		q += fmt.Sprintf(` AND starting_date<=$%d`, len(args))
	}
	q += ` ORDER BY starting_date DESC`
	if req.Limit > 0 {
		args = append(args, req.Limit)
		q += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if req.Offset > 0 {
		args = append(args, req.Offset)
		q += fmt.Sprintf(` OFFSET $%d`, len(args))
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
	res, err := p.db.ExecContext(ctx, `DELETE FROM weekly_plans WHERE tenant_id=$1 AND plan_id=$2`, tenantID, planID)
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

// Bootstrap performs a connectivity check to ensure Postgres is reachable.
func Bootstrap(ctx context.Context, dsn string) error {
	if dsn == "" {
		return nil
	}
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return db.PingContext(ctx)
}
