package server

import (
	"errors"
	"net/http"

	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/ai"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/interview"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/job"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/resume"
	"github.com/gin-gonic/gin"
)

// apiError is the JSON error envelope.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeErr maps a service error to an HTTP status.
func writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, job.ErrNotFound),
		errors.Is(err, resume.ErrNotFound),
		errors.Is(err, interview.ErrNotFound):
		c.JSON(http.StatusNotFound, apiError{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, job.ErrSameStatus),
		errors.Is(err, job.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, apiError{Code: "INVALID_TRANSITION", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, apiError{Code: "INTERNAL", Message: err.Error()})
	}
}

// writeBadRequest reports malformed request bodies or parameters.
func writeBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, apiError{Code: "INVALID_INPUT", Message: msg})
}

// writeAgentError maps an agent failure to an HTTP status. Invalid input
// and shape violations are the caller's fault; auth failures mean the
// operator misconfigured the API key; exhausted transient errors ask the
// caller to retry later.
func writeAgentError(c *gin.Context, agentErr *ai.AgentError) {
	switch agentErr.Code {
	case ai.CodeInvalidInput, ai.CodeValidation:
		c.JSON(http.StatusBadRequest, apiError{Code: string(agentErr.Code), Message: agentErr.Message})
	case ai.CodeAuth:
		c.JSON(http.StatusBadGateway, apiError{
			Code:    string(agentErr.Code),
			Message: "model provider rejected the configured credentials",
		})
	case ai.CodeRateLimit, ai.CodeNetwork, ai.CodeServer, ai.CodeParse:
		c.JSON(http.StatusServiceUnavailable, apiError{
			Code:    string(agentErr.Code),
			Message: "model provider unavailable, try again later",
		})
	default:
		c.JSON(http.StatusBadGateway, apiError{Code: string(agentErr.Code), Message: agentErr.Message})
	}
}
