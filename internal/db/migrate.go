package db

import (
	"context"
	"database/sql"
)

const profileMigration = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS profiles (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    external_id text NOT NULL,
    name text,
    email text,
    phone text,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW(),
    CONSTRAINT profiles_external_id_unique
        UNIQUE (external_id)
);

CREATE INDEX IF NOT EXISTS profiles_email_idx
ON profiles (LOWER(email));
`

// RunProfileMigration creates the guest profile schema. Profiles are keyed
// by the external identity subject, never by session state.
func RunProfileMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, profileMigration)
	return err
}
