package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// statusClientClosedRequest is the non-standard code used when the caller went away
const statusClientClosedRequest = 499

// HandleAPIError maps a service error onto the error envelope
func HandleAPIError(c *gin.Context, err error) {
	status, detail := classify(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func classify(err error) (int, *dto.ErrorDetail) {
	message := err.Error()

	switch {
	case errors.Is(err, apperrors.ErrCourseNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message)
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)
	case errors.Is(err, apperrors.ErrCatalogFull):
		return http.StatusInsufficientStorage, dto.NewErrorDetail(dto.ErrorCodeCatalogFull, message)
	case apperrors.Is(err, context.Canceled, context.DeadlineExceeded):
		return statusClientClosedRequest, dto.NewErrorDetail(dto.ErrorCodeRequestCancelled, "Request cancelled")
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
