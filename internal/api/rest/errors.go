package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/stampbook/sb-registry/internal/api/shared/errors"
	"github.com/stampbook/sb-registry/internal/domain"
	"github.com/stampbook/sb-registry/internal/logger"
)

// respondWithError sends an error reply in the shared envelope
func respondWithError(c *gin.Context, statusCode int, apiErr *apierrors.APIError) {
	c.JSON(statusCode, apierrors.Response{Error: apiErr})
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, apierrors.NewBadRequestError(message, details...))
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusNotFound, apierrors.NewNotFoundError(message, details...))
}

// respondUnauthorized sends a 401 Unauthorized response
func respondUnauthorized(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusUnauthorized, apierrors.NewUnauthorizedError(message, details...))
}

// respondForbidden sends a 403 Forbidden response with the UNAUTHORIZED code
func respondForbidden(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusForbidden, apierrors.NewUnauthorizedError(message, details...))
}

// respondValidation sends a 400 reply for a request body that failed validation
func respondValidation(c *gin.Context, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		respondWithError(c, http.StatusBadRequest, apiErr)
		return
	}
	respondBadRequest(c, err.Error())
}

// respondInternalError sends a 500 Internal Server Error response and logs the error
func respondInternalError(c *gin.Context, err error, message string) {
	logger.Error(err, zap.String("path", c.Request.URL.Path))
	respondWithError(c, http.StatusInternalServerError, apierrors.NewInternalError(message))
}

// respondEngineError maps an engine error to its stable code and HTTP status.
// Unrecognized errors are treated as internal.
func respondEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		respondWithError(c, http.StatusForbidden, apierrors.New(apierrors.ErrCodeUnauthorized, err.Error()))
	case errors.Is(err, domain.ErrAlreadyInitialized):
		respondWithError(c, http.StatusConflict, apierrors.New(apierrors.ErrCodeAlreadyInitialized, err.Error()))
	case errors.Is(err, domain.ErrUnknownType):
		respondWithError(c, http.StatusUnprocessableEntity, apierrors.New(apierrors.ErrCodeUnknownType, err.Error()))
	case errors.Is(err, domain.ErrAlreadyOnboarded):
		respondWithError(c, http.StatusConflict, apierrors.New(apierrors.ErrCodeAlreadyOnboarded, err.Error()))
	case errors.Is(err, domain.ErrHashAlreadyBound):
		respondWithError(c, http.StatusConflict, apierrors.New(apierrors.ErrCodeHashAlreadyBound, err.Error()))
	case errors.Is(err, domain.ErrClaimMismatch):
		respondWithError(c, http.StatusConflict, apierrors.New(apierrors.ErrCodeClaimMismatch, err.Error()))
	case errors.Is(err, domain.ErrNotTransferable):
		respondWithError(c, http.StatusConflict, apierrors.New(apierrors.ErrCodeNotTransferable, err.Error()))
	case errors.Is(err, domain.ErrOperationUnavailable):
		respondWithError(c, http.StatusNotImplemented, apierrors.New(apierrors.ErrCodeOperationUnavailable, err.Error()))
	case errors.Is(err, domain.ErrInvalidAddress), errors.Is(err, domain.ErrInvalidHash):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, "Operation failed")
	}
}
