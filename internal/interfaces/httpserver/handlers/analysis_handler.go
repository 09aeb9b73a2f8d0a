package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"

	"github.com/janhq/calorie-api/internal/config"
	"github.com/janhq/calorie-api/internal/domain/analysis"
	"github.com/janhq/calorie-api/internal/interfaces/httpserver/requests"
	"github.com/janhq/calorie-api/internal/interfaces/httpserver/responses"
	"github.com/janhq/calorie-api/internal/utils/platformerrors"
)

// multipartOverhead is the room left above the image limit for boundaries, part headers and form fields.
const multipartOverhead = 1 << 20

// AnalysisHandler serves the calorie analysis endpoint.
type AnalysisHandler struct {
	service      *analysis.Service
	maxBodyBytes int64
	log          zerolog.Logger
}

func NewAnalysisHandler(cfg *config.Config, service *analysis.Service, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		maxBodyBytes: cfg.MaxImageBytes + multipartOverhead,
		log:          log.With().Str("handler", "analysis").Logger(),
	}
}

// AnalyzeCalories godoc
// @Summary      Analyze a food image
// @Description  Sends the uploaded image to the generative model with the calorie prompt and returns its text.
// @Tags         analysis
// @Accept       multipart/form-data
// @Produce      json
// @Param        file     formData  file    true   "Food image"
// @Param        api_key  formData  string  false  "Provider API key, overrides the configured one"
// @Param        model    formData  string  false  "Provider model identifier"
// @Success      200      {object}  responses.AnalyzeCaloriesResponse
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /analyze-calories [post]
func (h *AnalysisHandler) AnalyzeCalories(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)

	var req requests.AnalyzeCaloriesRequest
	if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil || req.File == nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			responses.HandleNewError(c, h.log, platformerrors.ErrorTypeValidation, analysis.MsgFileTooLarge, err)
			return
		}
		responses.HandleNewError(c, h.log, platformerrors.ErrorTypeValidation, analysis.MsgNoUpload, err)
		return
	}

	analysisReq := analysis.AnalysisRequest{
		Image: analysis.UploadedImage{
			Filename: req.File.Filename,
			MimeType: req.File.Header.Get("Content-Type"),
			Size:     req.File.Size,
		},
		APIKey: req.APIKey,
		Model:  req.Model,
	}

	// Reject on declared type and size before the bytes are read.
	if err := h.service.Validate(c.Request.Context(), analysisReq); err != nil {
		responses.HandleError(c, h.log, err, analysis.MsgNoUpload)
		return
	}

	file, err := req.File.Open()
	if err != nil {
		responses.HandleNewError(c, h.log, platformerrors.ErrorTypeValidation, analysis.MsgNoUpload, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		responses.HandleNewError(c, h.log, platformerrors.ErrorTypeValidation, analysis.MsgNoUpload, err)
		return
	}
	analysisReq.Image.Data = data

	result, err := h.service.Analyze(c.Request.Context(), analysisReq)
	if err != nil {
		responses.HandleError(c, h.log, err, "Error generating response")
		return
	}

	c.JSON(http.StatusOK, responses.BuildAnalyzeCaloriesResponse(result))
}
