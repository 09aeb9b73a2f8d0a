package requests

import "mime/multipart"

// AnalyzeCaloriesRequest is the multipart form accepted by POST /analyze-calories.
type AnalyzeCaloriesRequest struct {
	File   *multipart.FileHeader `form:"file" binding:"required"`
	APIKey string                `form:"api_key"`
	Model  string                `form:"model"`
}
