package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/goalgrid-backend/internal/pkg/apierr"
	"github.com/yungbote/goalgrid-backend/internal/pkg/errs"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError maps service-layer sentinel errors onto HTTP statuses.
func RespondServiceError(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		RespondError(c, ae.Status, ae.Code, ae.Err)
		return
	}
	switch {
	case errors.Is(err, errs.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, errs.ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, errs.ErrForbidden):
		RespondError(c, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, errs.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
