package http

import (
	"errors"
	"net/http"

	"fanvault-console/pkg/apiclient"
	"fanvault-console/pkg/jwt"
	"fanvault-console/pkg/middleware"
	"fanvault-console/pkg/models"
	"fanvault-console/pkg/mutation"
	"fanvault-console/pkg/staging"
	"fanvault-console/services/artist/internal/entity"
	"fanvault-console/services/artist/internal/usecase"

	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, staging.ErrDisallowedFile),
		errors.Is(err, staging.ErrIncompleteDraft):
		return http.StatusBadRequest
	case errors.Is(err, staging.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, mutation.ErrBusy), errors.Is(err, staging.ErrSubmitInProgress):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrWrongRole), errors.Is(err, usecase.ErrConsoleLocked):
		return http.StatusForbidden
	case errors.Is(err, jwt.ErrTokenExpired), apiclient.IsUnauthorized(err):
		return http.StatusUnauthorized
	}
	if status := apiclient.StatusOf(err); status >= 400 && status < 500 {
		return status
	}
	return http.StatusBadGateway
}

func (h *ArtistHandler) fail(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	switch status {
	case http.StatusUnauthorized:
		middleware.Unauthorized(c, "Session expired, please log in again")
		return
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		c.JSON(status, gin.H{"error": err.Error()})
		return
	case http.StatusConflict:
		c.JSON(status, gin.H{"error": "Another action on this item is still in progress"})
		return
	case http.StatusForbidden:
		c.JSON(status, gin.H{"error": err.Error(), "redirect": middleware.LoginPath})
		return
	}
	if status == http.StatusBadGateway {
		h.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": apiclient.Message(err, fallback)})
}

func (h *ArtistHandler) respondMutation(c *gin.Context, rec *mutation.Record, err error, message string) {
	if err != nil {
		if rec == nil {
			h.fail(c, err, "Action failed")
			return
		}
		status := statusFor(err)
		if status == http.StatusUnauthorized {
			middleware.Unauthorized(c, "Session expired, please log in again")
			return
		}
		c.JSON(status, gin.H{"error": rec.Message, "rolled_back": rec.RolledBack, "mutation": entity.OutcomeOf(rec)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "mutation": entity.OutcomeOf(rec)})
}
