package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/RMahshie/audiogram/internal/charting"
	"github.com/RMahshie/audiogram/internal/repository"
	"github.com/RMahshie/audiogram/pkg/models"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepository is an in-memory AudiogramRepository for routing tests
type memoryRepository struct {
	audiograms map[string]*models.Audiogram
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{audiograms: make(map[string]*models.Audiogram)}
}

func (r *memoryRepository) Create(ctx context.Context, a *models.Audiogram) error {
	r.audiograms[a.ID] = a
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Audiogram, error) {
	a, ok := r.audiograms[id.String()]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func (r *memoryRepository) GetByPatientID(ctx context.Context, patientID string) ([]*models.Audiogram, error) {
	var out []*models.Audiogram
	for _, a := range r.audiograms {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.audiograms[id.String()]; !ok {
		return repository.ErrNotFound
	}
	delete(r.audiograms, id.String())
	return nil
}

func (r *memoryRepository) RecordExport(ctx context.Context, export *models.ChartExport) error {
	return nil
}

func (r *memoryRepository) GetExport(ctx context.Context, audiogramID uuid.UUID) (*models.ChartExport, error) {
	return nil, repository.ErrNotFound
}

func TestRoutes_AudiogramLifecycle(t *testing.T) {
	_, api := humatest.New(t)
	repo := newMemoryRepository()
	RegisterRoutes(api, repo, nil, charting.NewChartService(nil, repo))

	resp := api.Post("/api/audiograms", map[string]any{
		"patient_id": "patient-1",
		"responses": []map[string]any{
			{"frequency": 500, "amplitude": 20, "ear": "right"},
			{"frequency": 1000, "amplitude": 20, "ear": "right"},
			{"frequency": 2000, "amplitude": 110, "ear": "right", "no_response": true},
			{"frequency": 500, "amplitude": 30, "ear": "left", "modality": "bone"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var created models.AudiogramBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	require.Len(t, created.Responses, 4)

	base := "/api/audiograms/" + created.ID

	t.Run("filter", func(t *testing.T) {
		resp := api.Get(base + "/responses?ear=right")
		require.Equal(t, http.StatusOK, resp.Code)

		var body models.FilterResponsesBody
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, 3, body.Count)
	})

	t.Run("partition", func(t *testing.T) {
		resp := api.Get(base + "/partition?ear=right")
		require.Equal(t, http.StatusOK, resp.Code)

		var body models.PartitionBody
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, "right", string(body.Ear))
		assert.Equal(t, "air", string(body.Modality))

		resp = api.Get(base + "/partition")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("adjacency", func(t *testing.T) {
		resp := api.Get(base + "/adjacency/0?ear=right")
		require.Equal(t, http.StatusOK, resp.Code)

		var body models.AdjacencyBody
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, 1000, body.Next.Frequency)
		assert.True(t, body.NeedsLineToNextMarker)

		// 2000 Hz is a no-response marker, so nothing runs into it
		resp = api.Get(base + "/adjacency/1?ear=right")
		require.Equal(t, http.StatusOK, resp.Code)
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, 2000, body.Next.Frequency)
		assert.False(t, body.NeedsLineToNextMarker)

		resp = api.Get(base + "/adjacency/2?ear=right")
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("patient audiograms", func(t *testing.T) {
		resp := api.Get("/api/patients/patient-1/audiograms")
		require.Equal(t, http.StatusOK, resp.Code)

		var body models.PatientAudiogramsBody
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		require.Equal(t, 1, body.Count)
		assert.Equal(t, created.ID, body.Audiograms[0].ID)

		resp = api.Get("/api/patients/patient-2/audiograms")
		require.Equal(t, http.StatusOK, resp.Code)
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, 0, body.Count)
	})

	t.Run("chart", func(t *testing.T) {
		resp := api.Get(base + "/chart")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"series"`)
	})

	t.Run("delete", func(t *testing.T) {
		resp := api.Delete(base)
		assert.Equal(t, http.StatusNoContent, resp.Code)

		resp = api.Get(base)
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestRoutes_RejectsUnknownEar(t *testing.T) {
	_, api := humatest.New(t)
	repo := newMemoryRepository()
	RegisterRoutes(api, repo, nil, charting.NewChartService(nil, repo))

	resp := api.Post("/api/audiograms", map[string]any{
		"patient_id": "patient-1",
		"responses": []map[string]any{
			{"frequency": 500, "amplitude": 20, "ear": "both"},
		},
	})

	assert.GreaterOrEqual(t, resp.Code, 400)
	assert.Less(t, resp.Code, 500)
	assert.Empty(t, repo.audiograms, fmt.Sprintf("nothing should be stored: %s", resp.Body.String()))
}
