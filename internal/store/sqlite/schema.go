package sqlite

import (
	"context"
	"database/sql"
)

// schemaDDL mirrors the postgres migrations; the local build target has no
// migration runner, so the schema is ensured at open time.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
    user_id        TEXT PRIMARY KEY,
    tenant_id      TEXT NOT NULL,
    email          TEXT NOT NULL UNIQUE,
    display_name   TEXT,
    password_hash  TEXT NOT NULL,
    week_start_day TEXT NOT NULL DEFAULT 'MONDAY',
    status         TEXT NOT NULL DEFAULT 'ACTIVE',
    creation_time  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS ingredients (
    ingredient_id TEXT PRIMARY KEY,
    tenant_id     TEXT NOT NULL,
    name          TEXT NOT NULL,
    notes         TEXT,
    creation_time TIMESTAMP NOT NULL,
    UNIQUE (tenant_id, name)
);

CREATE TABLE IF NOT EXISTS meals (
    meal_id        TEXT PRIMARY KEY,
    tenant_id      TEXT NOT NULL,
    name           TEXT NOT NULL,
    description    TEXT,
    ingredient_ids TEXT NOT NULL DEFAULT '[]',
    creation_time  TIMESTAMP NOT NULL,
    UNIQUE (tenant_id, name)
);

CREATE TABLE IF NOT EXISTS weekly_plans (
    plan_id            TEXT PRIMARY KEY,
    tenant_id          TEXT NOT NULL,
    starting_date      TEXT NOT NULL,
    week_start_day     TEXT NOT NULL,
    day_plans          TEXT NOT NULL,
    dinner_assignments TEXT,
    creation_time      TIMESTAMP NOT NULL,
    update_time        TIMESTAMP NOT NULL,
    UNIQUE (tenant_id, starting_date)
);

CREATE INDEX IF NOT EXISTS idx_weekly_plans_tenant_date
    ON weekly_plans (tenant_id, starting_date);
`

// EnsureSchema creates the tables when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schemaDDL)
	return err
}
