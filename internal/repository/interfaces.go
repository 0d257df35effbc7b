package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/audiogram/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no row matches the requested ID
var ErrNotFound = errors.New("not found")

// AudiogramRepository defines the interface for audiogram data operations
type AudiogramRepository interface {
	Create(ctx context.Context, audiogram *models.Audiogram) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Audiogram, error)
	GetByPatientID(ctx context.Context, patientID string) ([]*models.Audiogram, error)
	Delete(ctx context.Context, id uuid.UUID) error
	RecordExport(ctx context.Context, export *models.ChartExport) error
	GetExport(ctx context.Context, audiogramID uuid.UUID) (*models.ChartExport, error)
}
