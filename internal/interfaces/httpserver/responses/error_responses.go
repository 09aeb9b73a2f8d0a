package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/calorie-api/internal/utils/platformerrors"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HandleError maps domain errors to their HTTP status; anything else is a 500 with fallback as detail.
func HandleError(reqCtx *gin.Context, log zerolog.Logger, err error, fallback string) {
	var domainErr *platformerrors.PlatformError
	if errors.As(err, &domainErr) {
		platformerrors.LogError(log, domainErr)

		detail := domainErr.Message
		if detail == "" {
			detail = fallback
		}
		_ = reqCtx.Error(err)
		reqCtx.AbortWithStatusJSON(platformerrors.ErrorTypeToHTTPStatus(domainErr.GetErrorType()), ErrorResponse{Detail: detail})
		return
	}

	log.Error().Err(err).Msg(fallback)
	_ = reqCtx.Error(err)
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Detail: fallback})
}

// HandleNewError creates a new typed error at the handler layer and handles it
func HandleNewError(reqCtx *gin.Context, log zerolog.Logger, errorType platformerrors.ErrorType, message string, cause error) {
	err := platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerHandler, errorType, message, cause, "")
	HandleError(reqCtx, log, err, message)
}
