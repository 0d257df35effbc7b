package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RMahshie/audiogram/internal/repository"
	"github.com/RMahshie/audiogram/pkg/audiogram"
	"github.com/RMahshie/audiogram/pkg/models"
	"github.com/google/uuid"
)

// PostgresAudiogramRepository implements AudiogramRepository for PostgreSQL
type PostgresAudiogramRepository struct {
	db *sql.DB
}

// NewPostgresAudiogramRepository creates a new PostgreSQL audiogram repository
func NewPostgresAudiogramRepository(db *sql.DB) repository.AudiogramRepository {
	return &PostgresAudiogramRepository{db: db}
}

// Create inserts a new audiogram. Responses are stored as a JSON array so
// their plotting order survives the round trip.
func (r *PostgresAudiogramRepository) Create(ctx context.Context, a *models.Audiogram) error {
	responses, err := json.Marshal(a.Responses)
	if err != nil {
		return fmt.Errorf("failed to marshal responses: %w", err)
	}

	query := `
		INSERT INTO audiograms (id, patient_id, responses, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = r.db.ExecContext(ctx, query,
		a.ID,
		a.PatientID,
		string(responses),
		a.CreatedAt,
		a.UpdatedAt)

	return err
}

// GetByID retrieves an audiogram by ID
func (r *PostgresAudiogramRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Audiogram, error) {
	query := `
		SELECT id, patient_id, responses, created_at, updated_at
		FROM audiograms
		WHERE id = $1`

	a, err := scanAudiogram(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("audiogram %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	return a, nil
}

// GetByPatientID retrieves a patient's audiograms, newest first
func (r *PostgresAudiogramRepository) GetByPatientID(ctx context.Context, patientID string) ([]*models.Audiogram, error) {
	query := `
		SELECT id, patient_id, responses, created_at, updated_at
		FROM audiograms
		WHERE patient_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var audiograms []*models.Audiogram
	for rows.Next() {
		a, err := scanAudiogram(rows)
		if err != nil {
			return nil, err
		}
		audiograms = append(audiograms, a)
	}

	return audiograms, rows.Err()
}

// Delete removes an audiogram and its export record
func (r *PostgresAudiogramRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM audiograms WHERE id = $1`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("audiogram %s: %w", id, repository.ErrNotFound)
	}

	return nil
}

// RecordExport stores (or replaces) the export record of an audiogram
func (r *PostgresAudiogramRepository) RecordExport(ctx context.Context, export *models.ChartExport) error {
	query := `
		INSERT INTO chart_exports (audiogram_id, s3_key, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (audiogram_id) DO UPDATE
		SET s3_key = EXCLUDED.s3_key, created_at = EXCLUDED.created_at`

	_, err := r.db.ExecContext(ctx, query,
		export.AudiogramID,
		export.S3Key,
		export.CreatedAt)

	return err
}

// GetExport retrieves the export record of an audiogram
func (r *PostgresAudiogramRepository) GetExport(ctx context.Context, audiogramID uuid.UUID) (*models.ChartExport, error) {
	query := `
		SELECT audiogram_id, s3_key, created_at
		FROM chart_exports
		WHERE audiogram_id = $1`

	var export models.ChartExport
	err := r.db.QueryRowContext(ctx, query, audiogramID).Scan(
		&export.AudiogramID,
		&export.S3Key,
		&export.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("export for audiogram %s: %w", audiogramID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	return &export, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAudiogram(row scanner) (*models.Audiogram, error) {
	var a models.Audiogram
	var responses string

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&responses,
		&a.CreatedAt,
		&a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	var raw []audiogram.RawResponse
	if err := json.Unmarshal([]byte(responses), &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal responses: %w", err)
	}
	a.Responses = raw

	return &a, nil
}
