// Package api exposes the two classification operations over HTTP.
// The service persists nothing: verdicts are returned to the caller,
// which owns storage and display.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/veritrust/classifier/internal/classifier"
	"github.com/veritrust/classifier/internal/counterfeit"
	"github.com/veritrust/classifier/internal/domain"
	"github.com/veritrust/classifier/internal/llmclient"
	"github.com/veritrust/classifier/internal/logging"
)

// Handler handles HTTP requests for the classification API.
type Handler struct {
	reviews *classifier.ReviewClassifier
	intake  *classifier.IntakeClassifier
	logger  logging.Logger
	version string
}

// NewHandler creates a new API handler.
func NewHandler(reviews *classifier.ReviewClassifier, intake *classifier.IntakeClassifier, logger logging.Logger, version string) *Handler {
	return &Handler{
		reviews: reviews,
		intake:  intake,
		logger:  logger,
		version: version,
	}
}

// errorResponse is the JSON error body. Kind distinguishes failure
// classes so callers can tell "the model said Real" from "the model
// was unreachable".
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// ClassifyReview handles POST /api/v1/reviews/classify.
func (h *Handler) ClassifyReview(c *gin.Context) {
	var req domain.ReviewSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid review submission", logging.Error(err))
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	verdict, err := h.reviews.Classify(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error(), Kind: reviewErrorKind(err)})
		return
	}

	c.JSON(http.StatusOK, verdict)
}

// ClassifyIntake handles POST /api/v1/intake/classify.
func (h *Handler) ClassifyIntake(c *gin.Context) {
	var req domain.ProductIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid intake request", logging.Error(err))
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	verdict, err := h.intake.Classify(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error(), Kind: intakeErrorKind(err)})
		return
	}

	c.JSON(http.StatusOK, verdict)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": h.version})
}

// ReadyCheck handles GET /ready.
func (h *Handler) ReadyCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func reviewErrorKind(err error) string {
	if errors.Is(err, llmclient.ErrUnavailable) {
		return "completion_unavailable"
	}
	return "inference"
}

func intakeErrorKind(err error) string {
	switch {
	case errors.Is(err, counterfeit.ErrModelOutput):
		return "model_output"
	case errors.Is(err, counterfeit.ErrProcess):
		return "model_process"
	default:
		return "inference"
	}
}
