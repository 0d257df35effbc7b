package api

import (
	"net/http"

	"github.com/RMahshie/audiogram/internal/api/handlers"
	"github.com/RMahshie/audiogram/internal/charting"
	"github.com/RMahshie/audiogram/internal/repository"
	"github.com/RMahshie/audiogram/internal/storage"
	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, repo repository.AudiogramRepository, s3Service storage.S3Service, chartSvc charting.ChartService) {
	audiogramHandler := handlers.NewAudiogramHandler(repo, s3Service, chartSvc)

	huma.Register(api, huma.Operation{
		OperationID: "createAudiogram",
		Method:      http.MethodPost,
		Path:        "/api/audiograms",
		Summary:     "Create an audiogram",
		Description: "Stores an ordered set of test responses",
		Tags:        []string{"Audiogram"},
	}, audiogramHandler.CreateAudiogram)

	huma.Register(api, huma.Operation{
		OperationID: "getAudiogram",
		Method:      http.MethodGet,
		Path:        "/api/audiograms/{id}",
		Summary:     "Get an audiogram",
		Description: "Returns the audiogram with responses normalized",
		Tags:        []string{"Audiogram"},
	}, audiogramHandler.GetAudiogram)

	huma.Register(api, huma.Operation{
		OperationID: "listPatientAudiograms",
		Method:      http.MethodGet,
		Path:        "/api/patients/{patientID}/audiograms",
		Summary:     "List a patient's audiograms",
		Description: "Returns every audiogram recorded for the patient, newest first",
		Tags:        []string{"Audiogram"},
	}, audiogramHandler.ListPatientAudiograms)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteAudiogram",
		Method:        http.MethodDelete,
		Path:          "/api/audiograms/{id}",
		Summary:       "Delete an audiogram",
		Description:   "Deletes the audiogram and any archived chart",
		Tags:          []string{"Audiogram"},
		DefaultStatus: http.StatusNoContent,
	}, audiogramHandler.DeleteAudiogram)

	huma.Register(api, huma.Operation{
		OperationID: "filterResponses",
		Method:      http.MethodGet,
		Path:        "/api/audiograms/{id}/responses",
		Summary:     "Filter responses",
		Description: "Returns the responses for an ear and/or modality, in original order",
		Tags:        []string{"Responses"},
	}, audiogramHandler.FilterResponses)

	huma.Register(api, huma.Operation{
		OperationID: "getPartition",
		Method:      http.MethodGet,
		Path:        "/api/audiograms/{id}/partition",
		Summary:     "Resolve partition",
		Description: "Returns the single ear and modality of the filtered responses, or 422 if they are mixed",
		Tags:        []string{"Responses"},
	}, audiogramHandler.GetPartition)

	huma.Register(api, huma.Operation{
		OperationID: "getAdjacency",
		Method:      http.MethodGet,
		Path:        "/api/audiograms/{id}/adjacency/{index}",
		Summary:     "Get next marker",
		Description: "Returns the marker following index and whether a line connects them",
		Tags:        []string{"Responses"},
	}, audiogramHandler.GetAdjacency)

	huma.Register(api, huma.Operation{
		OperationID: "getChart",
		Method:      http.MethodGet,
		Path:        "/api/audiograms/{id}/chart",
		Summary:     "Get chart",
		Description: "Returns series, markers and line segments for rendering",
		Tags:        []string{"Chart"},
	}, audiogramHandler.GetChart)

	huma.Register(api, huma.Operation{
		OperationID: "exportChart",
		Method:      http.MethodPost,
		Path:        "/api/audiograms/{id}/export",
		Summary:     "Export chart",
		Description: "Archives the chart to object storage and returns a download URL",
		Tags:        []string{"Chart"},
	}, audiogramHandler.ExportChart)
}
