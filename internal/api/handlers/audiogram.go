package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/RMahshie/audiogram/internal/charting"
	"github.com/RMahshie/audiogram/internal/repository"
	"github.com/RMahshie/audiogram/internal/storage"
	"github.com/RMahshie/audiogram/pkg/audiogram"
	"github.com/RMahshie/audiogram/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AudiogramHandler handles audiogram-related HTTP requests
type AudiogramHandler struct {
	repo      repository.AudiogramRepository
	s3Service storage.S3Service
	chartSvc  charting.ChartService
}

// NewAudiogramHandler creates a new audiogram handler
func NewAudiogramHandler(repo repository.AudiogramRepository, s3Service storage.S3Service, chartSvc charting.ChartService) *AudiogramHandler {
	return &AudiogramHandler{
		repo:      repo,
		s3Service: s3Service,
		chartSvc:  chartSvc,
	}
}

// CreateAudiogram stores a new set of responses
func (h *AudiogramHandler) CreateAudiogram(ctx context.Context, req *models.CreateAudiogramRequest) (*models.AudiogramResponse, error) {
	log.Info().Str("patientID", req.Body.PatientID).Int("responses", len(req.Body.Responses)).Msg("Creating new audiogram")

	for _, raw := range req.Body.Responses {
		if _, err := audiogram.ParseEar(string(raw.Ear)); err != nil {
			return nil, huma.Error400BadRequest("Each response needs an ear of 'left' or 'right'.", err)
		}
		if raw.Modality != nil {
			if _, err := audiogram.ParseModality(string(*raw.Modality)); err != nil {
				return nil, huma.Error400BadRequest("Modality must be 'air' or 'bone'.", err)
			}
		}
	}

	now := time.Now()
	a := &models.Audiogram{
		ID:        uuid.New().String(),
		PatientID: req.Body.PatientID,
		Responses: req.Body.Responses,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.repo.Create(ctx, a); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create audiogram", err)
	}
	log.Info().Str("audiogramID", a.ID).Msg("Audiogram created successfully")

	return &models.AudiogramResponse{Body: audiogramBody(a)}, nil
}

// GetAudiogram returns a stored audiogram with its responses normalized
func (h *AudiogramHandler) GetAudiogram(ctx context.Context, req *models.GetAudiogramRequest) (*models.AudiogramResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	a, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err)
	}

	return &models.AudiogramResponse{Body: audiogramBody(a)}, nil
}

// ListPatientAudiograms returns a patient's audiograms, newest first
func (h *AudiogramHandler) ListPatientAudiograms(ctx context.Context, req *models.ListPatientAudiogramsRequest) (*models.PatientAudiogramsResponse, error) {
	audiograms, err := h.repo.GetByPatientID(ctx, req.PatientID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list audiograms", err)
	}

	bodies := make([]models.AudiogramBody, len(audiograms))
	for i, a := range audiograms {
		bodies[i] = audiogramBody(a)
	}
	log.Debug().Str("patientID", req.PatientID).Int("count", len(bodies)).Msg("Listed patient audiograms")

	return &models.PatientAudiogramsResponse{
		Body: models.PatientAudiogramsBody{
			PatientID:  req.PatientID,
			Audiograms: bodies,
			Count:      len(bodies),
		},
	}, nil
}

// FilterResponses returns the responses matching the optional ear and modality
func (h *AudiogramHandler) FilterResponses(ctx context.Context, req *models.FilterResponsesRequest) (*models.FilterResponsesResponse, error) {
	collection, err := h.loadCollection(ctx, req.ID, req.Ear, req.Modality)
	if err != nil {
		return nil, err
	}

	return &models.FilterResponsesResponse{
		Body: models.FilterResponsesBody{
			Responses: rawResponses(collection.Responses()),
			Count:     collection.Len(),
		},
	}, nil
}

// GetPartition resolves the single ear and modality of the filtered responses
func (h *AudiogramHandler) GetPartition(ctx context.Context, req *models.FilterResponsesRequest) (*models.PartitionResponse, error) {
	collection, err := h.loadCollection(ctx, req.ID, req.Ear, req.Modality)
	if err != nil {
		return nil, err
	}

	ear, err := collection.Ear()
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("Responses span more than one ear. Filter by ear first.", err)
	}
	modality, err := collection.Modality()
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("Responses span more than one modality. Filter by modality first.", err)
	}

	return &models.PartitionResponse{
		Body: models.PartitionBody{
			Ear:      ear,
			Modality: modality,
			Count:    collection.Len(),
		},
	}, nil
}

// GetAdjacency describes the marker following Index and whether a line joins them
func (h *AudiogramHandler) GetAdjacency(ctx context.Context, req *models.AdjacencyRequest) (*models.AdjacencyResponse, error) {
	collection, err := h.loadCollection(ctx, req.ID, req.Ear, req.Modality)
	if err != nil {
		return nil, err
	}

	next, err := collection.Next(req.Index)
	if err != nil {
		return nil, huma.Error400BadRequest("Marker has no successor", err)
	}
	needsLine, err := collection.NeedsLineToNextMarker(req.Index)
	if err != nil {
		return nil, huma.Error400BadRequest("Marker has no successor", err)
	}

	return &models.AdjacencyResponse{
		Body: models.AdjacencyBody{
			Index:                 req.Index,
			Next:                  next.Raw(),
			NeedsLineToNextMarker: needsLine,
		},
	}, nil
}

// GetChart returns the series, markers and segments of an audiogram
func (h *AudiogramHandler) GetChart(ctx context.Context, req *models.GetAudiogramRequest) (*models.ChartResponse, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	chart, err := h.chartSvc.BuildChart(ctx, id)
	if err != nil {
		return nil, chartError(err)
	}

	return &models.ChartResponse{Body: chart}, nil
}

// ExportChart archives the chart to object storage
func (h *AudiogramHandler) ExportChart(ctx context.Context, req *models.GetAudiogramRequest) (*models.ExportChartResponse, error) {
	log.Info().Str("audiogramID", req.ID).Msg("Chart export request received")
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	export, err := h.chartSvc.ExportChart(ctx, id)
	if err != nil {
		return nil, chartError(err)
	}

	return &models.ExportChartResponse{Body: export}, nil
}

// DeleteAudiogram removes an audiogram and any archived chart
func (h *AudiogramHandler) DeleteAudiogram(ctx context.Context, req *models.DeleteAudiogramRequest) (*struct{}, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	export, err := h.repo.GetExport(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, huma.Error500InternalServerError("Failed to look up chart export", err)
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		return nil, lookupError(err)
	}

	if export != nil {
		if err := h.s3Service.DeleteFile(ctx, export.S3Key); err != nil {
			log.Warn().Err(err).Str("audiogramID", id.String()).Str("key", export.S3Key).Msg("Failed to delete archived chart")
		}
	}

	log.Info().Str("audiogramID", id.String()).Msg("Audiogram deleted")
	return nil, nil
}

// loadCollection fetches an audiogram and narrows it by the optional ear and
// modality filters, in that order
func (h *AudiogramHandler) loadCollection(ctx context.Context, rawID, ear, modality string) (*audiogram.ResponseCollection, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	a, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err)
	}

	collection := audiogram.From(a.Responses)

	if ear != "" {
		e, err := audiogram.ParseEar(ear)
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid ear", err)
		}
		collection = audiogram.New(collection.FilterByEar(e)...)
	}
	if modality != "" {
		m, err := audiogram.ParseModality(modality)
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid modality", err)
		}
		collection = audiogram.New(collection.FilterByModality(m)...)
	}

	return collection, nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, huma.Error400BadRequest("Invalid audiogram ID", err)
	}
	return id, nil
}

func lookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return huma.Error404NotFound("Audiogram not found", err)
	}
	return huma.Error500InternalServerError("Failed to load audiogram", err)
}

func chartError(err error) error {
	var partitionErr *audiogram.PartitionError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return huma.Error404NotFound("Audiogram not found", err)
	case errors.As(err, &partitionErr):
		return huma.Error422UnprocessableEntity("Audiogram could not be partitioned", err)
	default:
		return huma.Error500InternalServerError("Failed to build chart", err)
	}
}

func audiogramBody(a *models.Audiogram) models.AudiogramBody {
	return models.AudiogramBody{
		ID:        a.ID,
		PatientID: a.PatientID,
		Responses: rawResponses(audiogram.From(a.Responses).Responses()),
		CreatedAt: a.CreatedAt,
	}
}

func rawResponses(responses []audiogram.Response) []audiogram.RawResponse {
	out := make([]audiogram.RawResponse, len(responses))
	for i, r := range responses {
		out[i] = r.Raw()
	}
	return out
}
