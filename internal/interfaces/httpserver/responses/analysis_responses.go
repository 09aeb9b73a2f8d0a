package responses

import "github.com/janhq/calorie-api/internal/domain/analysis"

// AnalyzeCaloriesResponse is the success envelope of POST /analyze-calories.
type AnalyzeCaloriesResponse struct {
	Success     bool   `json:"success"`
	Analysis    string `json:"analysis"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// BuildAnalyzeCaloriesResponse creates response from domain object
func BuildAnalyzeCaloriesResponse(result *analysis.AnalysisResult) *AnalyzeCaloriesResponse {
	return &AnalyzeCaloriesResponse{
		Success:     result.Success,
		Analysis:    result.Analysis,
		Filename:    result.Filename,
		ContentType: result.ContentType,
	}
}

// StatusResponse is returned by the root endpoint.
type StatusResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}
