package db

import (
	"context"
	"database/sql"
)

const bootstrapMigration = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS accounts (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    account text NOT NULL,
    nick_name text NOT NULL DEFAULT '',
    hashed_password text,
    is_active boolean NOT NULL DEFAULT false,
    open_id text,
    type int NOT NULL DEFAULT 1,
    gender text NOT NULL DEFAULT '',
    avatar text NOT NULL DEFAULT '',
    province text NOT NULL DEFAULT '',
    city text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS accounts_account_lower_unique
ON accounts (LOWER(account));

CREATE UNIQUE INDEX IF NOT EXISTS accounts_open_id_unique
ON accounts (open_id) WHERE open_id IS NOT NULL;
`

// RunBootstrapMigration creates the accounts schema. It is idempotent
// and runs on every startup.
func RunBootstrapMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, bootstrapMigration)
	return err
}
