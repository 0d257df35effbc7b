package charting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RMahshie/audiogram/internal/plot"
	"github.com/RMahshie/audiogram/internal/repository"
	"github.com/RMahshie/audiogram/internal/storage"
	"github.com/RMahshie/audiogram/pkg/audiogram"
	"github.com/RMahshie/audiogram/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ChartService interface {
	BuildChart(ctx context.Context, audiogramID uuid.UUID) (*plot.Chart, error)
	ExportChart(ctx context.Context, audiogramID uuid.UUID) (*models.ChartExport, error)
}

type chartService struct {
	s3         storage.S3Service
	repository repository.AudiogramRepository
}

func NewChartService(s3Service storage.S3Service, repo repository.AudiogramRepository) ChartService {
	return &chartService{
		s3:         s3Service,
		repository: repo,
	}
}

// ExportPrefix is the key prefix shared by every archived chart of an audiogram
func ExportPrefix(audiogramID uuid.UUID) string {
	return fmt.Sprintf("charts/%s/", audiogramID)
}

// ExportKey is the object key of a single export. Each export gets its own
// key so a failed export never touches the object an earlier one recorded.
func ExportKey(audiogramID, exportID uuid.UUID) string {
	return ExportPrefix(audiogramID) + exportID.String() + ".json"
}

func (s *chartService) BuildChart(ctx context.Context, audiogramID uuid.UUID) (*plot.Chart, error) {
	a, err := s.repository.GetByID(ctx, audiogramID)
	if err != nil {
		return nil, err
	}

	chart, err := plot.Build(audiogram.From(a.Responses))
	if err != nil {
		return nil, err
	}

	log.Debug().Str("audiogramID", a.ID).Int("series", len(chart.Series)).Msg("Chart built")
	return chart, nil
}

func (s *chartService) ExportChart(ctx context.Context, audiogramID uuid.UUID) (*models.ChartExport, error) {
	chart, err := s.BuildChart(ctx, audiogramID)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(chart)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chart: %w", err)
	}

	previous, err := s.repository.GetExport(ctx, audiogramID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up previous export: %w", err)
	}

	key := ExportKey(audiogramID, uuid.New())
	if err := s.s3.PutObject(ctx, key, storage.ContentTypeJSON, body); err != nil {
		return nil, err
	}
	log.Info().Str("audiogramID", audiogramID.String()).Str("key", key).Int("bytes", len(body)).Msg("Chart archived")

	export := &models.ChartExport{
		AudiogramID: audiogramID.String(),
		S3Key:       key,
		CreatedAt:   time.Now(),
	}
	if err := s.repository.RecordExport(ctx, export); err != nil {
		// Don't leave an orphaned object behind
		if delErr := s.s3.DeleteFile(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("Failed to remove chart after export record failed")
		}
		return nil, fmt.Errorf("failed to record export: %w", err)
	}

	// The record now points at the new object
	if previous != nil && previous.S3Key != key {
		if delErr := s.s3.DeleteFile(ctx, previous.S3Key); delErr != nil {
			log.Warn().Err(delErr).Str("key", previous.S3Key).Msg("Failed to remove superseded chart")
		}
	}

	url, err := s.s3.GenerateDownloadURL(ctx, key)
	if err != nil {
		return nil, err
	}
	export.DownloadURL = url
	export.ExpiresIn = int(s.s3.URLExpiry().Seconds())

	return export, nil
}
