package models

import (
	"time"

	"github.com/RMahshie/audiogram/internal/plot"
	"github.com/RMahshie/audiogram/pkg/audiogram"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// Audiogram is a stored set of test responses (for internal use)
type Audiogram struct {
	ID        string                  `json:"id"`
	PatientID string                  `json:"patient_id"`
	Responses []audiogram.RawResponse `json:"responses"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// ChartExport records a chart archived to object storage
type ChartExport struct {
	AudiogramID string    `json:"audiogram_id" doc:"Audiogram ID"`
	S3Key       string    `json:"s3_key" doc:"Object key of the archived chart"`
	DownloadURL string    `json:"download_url,omitempty" doc:"Pre-signed download URL"`
	ExpiresIn   int       `json:"expires_in,omitempty" doc:"URL expiration time in seconds"`
	CreatedAt   time.Time `json:"created_at" doc:"When the chart was archived"`
}

// CreateAudiogramRequest represents a request to store a new audiogram
type CreateAudiogramRequest struct {
	Body struct {
		PatientID string                  `json:"patient_id" minLength:"1" maxLength:"64" required:"true" doc:"Patient identifier"`
		Responses []audiogram.RawResponse `json:"responses" required:"true" doc:"Test responses in plotting order"`
	}
}

// AudiogramBody is the body returned for a stored audiogram
type AudiogramBody struct {
	ID        string                  `json:"id" doc:"Audiogram unique identifier"`
	PatientID string                  `json:"patient_id" doc:"Patient identifier"`
	Responses []audiogram.RawResponse `json:"responses" doc:"Normalized responses in plotting order"`
	CreatedAt time.Time               `json:"created_at" doc:"Creation timestamp"`
}

// AudiogramResponse wraps a stored audiogram
type AudiogramResponse struct {
	Body AudiogramBody
}

// GetAudiogramRequest represents a request for a single audiogram
type GetAudiogramRequest struct {
	ID string `path:"id" doc:"Audiogram ID"`
}

// ListPatientAudiogramsRequest lists every audiogram recorded for a patient
type ListPatientAudiogramsRequest struct {
	PatientID string `path:"patientID" doc:"Patient identifier"`
}

// PatientAudiogramsBody holds a patient's audiograms, newest first
type PatientAudiogramsBody struct {
	PatientID  string          `json:"patient_id" doc:"Patient identifier"`
	Audiograms []AudiogramBody `json:"audiograms" doc:"Audiograms, newest first"`
	Count      int             `json:"count" doc:"Number of audiograms"`
}

// PatientAudiogramsResponse wraps a patient's audiograms
type PatientAudiogramsResponse struct {
	Body PatientAudiogramsBody
}

// DeleteAudiogramRequest represents a request to delete an audiogram
type DeleteAudiogramRequest struct {
	ID string `path:"id" doc:"Audiogram ID"`
}

// FilterResponsesRequest filters an audiogram's responses by ear and/or modality
type FilterResponsesRequest struct {
	ID       string `path:"id" doc:"Audiogram ID"`
	Ear      string `query:"ear" enum:"left,right" doc:"Keep only this ear"`
	Modality string `query:"modality" enum:"air,bone" doc:"Keep only this modality"`
}

// FilterResponsesBody lists the responses that matched
type FilterResponsesBody struct {
	Responses []audiogram.RawResponse `json:"responses" doc:"Matching responses in original relative order"`
	Count     int                     `json:"count" doc:"Number of matching responses"`
}

// FilterResponsesResponse wraps FilterResponsesBody
type FilterResponsesResponse struct {
	Body FilterResponsesBody
}

// PartitionBody reports the ear and modality a filtered subset represents
type PartitionBody struct {
	Ear      audiogram.Ear      `json:"ear" doc:"Ear shared by every response"`
	Modality audiogram.Modality `json:"modality" doc:"Modality shared by every response"`
	Count    int                `json:"count" doc:"Number of responses in the partition"`
}

// PartitionResponse wraps PartitionBody
type PartitionResponse struct {
	Body PartitionBody
}

// AdjacencyRequest asks about the marker at Index and its successor
type AdjacencyRequest struct {
	ID       string `path:"id" doc:"Audiogram ID"`
	Index    int    `path:"index" minimum:"0" doc:"Marker index"`
	Ear      string `query:"ear" enum:"left,right" doc:"Restrict to this ear before indexing"`
	Modality string `query:"modality" enum:"air,bone" doc:"Restrict to this modality before indexing"`
}

// AdjacencyBody describes the successor of a marker
type AdjacencyBody struct {
	Index                 int                   `json:"index" doc:"Marker index"`
	Next                  audiogram.RawResponse `json:"next" doc:"Response following the marker"`
	NeedsLineToNextMarker bool                  `json:"needs_line_to_next_marker" doc:"Whether a line connects the marker to the next one"`
}

// AdjacencyResponse wraps AdjacencyBody
type AdjacencyResponse struct {
	Body AdjacencyBody
}

// ChartResponse wraps the chart description of an audiogram
type ChartResponse struct {
	Body *plot.Chart
}

// ExportChartResponse wraps a chart export
type ExportChartResponse struct {
	Body *ChartExport
}
