package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS audiograms (
	id          UUID PRIMARY KEY,
	patient_id  TEXT NOT NULL,
	responses   JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS audiograms_patient_id_idx ON audiograms (patient_id);

CREATE TABLE IF NOT EXISTS chart_exports (
	audiogram_id UUID PRIMARY KEY REFERENCES audiograms (id) ON DELETE CASCADE,
	s3_key       TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL
);`

// Migrate creates the tables used by the repository if they do not exist
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
