package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/adhere/backend/internal/analytics"
	"github.com/JonnyWalker81/adhere/backend/internal/apierror"
	"github.com/JonnyWalker81/adhere/backend/internal/logger"
	"github.com/JonnyWalker81/adhere/backend/internal/models"
	"github.com/JonnyWalker81/adhere/backend/internal/service"
)

// retryAfterSeconds is sent with 503 responses for timed-out analyses
const retryAfterSeconds = 5

// windowQuery is the query string shared by every analytics endpoint.
// Both bounds are RFC3339; omit both to get the default window.
type windowQuery struct {
	StartDate    *time.Time `form:"start_date" binding:"required_with=EndDate"`
	EndDate      *time.Time `form:"end_date" binding:"required_with=StartDate"`
	MedicationID *string    `form:"medication_id" binding:"omitempty,min=1,max=128"`
}

// AdherenceHandler serves the adherence analytics API
type AdherenceHandler struct {
	service    service.AdherenceService
	windowDays int
	clock      func() time.Time
}

// NewAdherenceHandler creates a new adherence handler
func NewAdherenceHandler(svc service.AdherenceService, windowDays int) *AdherenceHandler {
	if windowDays <= 0 {
		windowDays = service.DefaultWindowDays
	}
	return &AdherenceHandler{
		service:    svc,
		windowDays: windowDays,
		clock:      time.Now,
	}
}

// RegisterRoutes mounts the analytics endpoints on an authenticated group
func (h *AdherenceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/adherence", h.GetAdherence)
	rg.GET("/adherence/consumption", h.GetConsumption)
	rg.GET("/efficacy/:medication_id", h.GetEfficacy)
	rg.GET("/efficacy/:medication_id/factors", h.GetContextualFactors)
	rg.GET("/efficacy/:medication_id/side-effects", h.GetSideEffectTrends)
	rg.GET("/correlations", h.GetCorrelations)
	rg.GET("/insights", h.GetInsights)
}

// ============================================================================
// Handlers
// ============================================================================

// GetAdherence handles GET /api/v1/adherence
func (h *AdherenceHandler) GetAdherence(c *gin.Context) {
	userID, q, window, ok := h.parse(c)
	if !ok {
		return
	}

	report, err := h.service.GetAdherence(c.Request.Context(), userID, q.MedicationID, window)
	if err != nil {
		h.writeError(c, "get adherence", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetConsumption handles GET /api/v1/adherence/consumption
func (h *AdherenceHandler) GetConsumption(c *gin.Context) {
	userID, q, window, ok := h.parse(c)
	if !ok {
		return
	}

	patterns, err := h.service.GetConsumption(c.Request.Context(), userID, q.MedicationID, window)
	if err != nil {
		h.writeError(c, "get consumption", err)
		return
	}
	if patterns == nil {
		patterns = []models.ConsumptionPattern{}
	}

	c.JSON(http.StatusOK, gin.H{
		"window":   window,
		"patterns": patterns,
	})
}

// GetEfficacy handles GET /api/v1/efficacy/:medication_id
func (h *AdherenceHandler) GetEfficacy(c *gin.Context) {
	userID, _, window, ok := h.parse(c)
	if !ok {
		return
	}

	summary, err := h.service.GetEfficacy(c.Request.Context(), userID, c.Param("medication_id"), window)
	if err != nil {
		h.writeError(c, "get efficacy", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetContextualFactors handles GET /api/v1/efficacy/:medication_id/factors
func (h *AdherenceHandler) GetContextualFactors(c *gin.Context) {
	userID, _, window, ok := h.parse(c)
	if !ok {
		return
	}

	analysis, err := h.service.GetContextualFactors(c.Request.Context(), userID, c.Param("medication_id"), window)
	if err != nil {
		h.writeError(c, "get contextual factors", err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// GetSideEffectTrends handles GET /api/v1/efficacy/:medication_id/side-effects
func (h *AdherenceHandler) GetSideEffectTrends(c *gin.Context) {
	userID, _, window, ok := h.parse(c)
	if !ok {
		return
	}

	medicationID := c.Param("medication_id")
	trends, err := h.service.GetSideEffectTrends(c.Request.Context(), userID, medicationID, window)
	if err != nil {
		h.writeError(c, "get side effect trends", err)
		return
	}
	if trends == nil {
		trends = []models.SideEffectTrend{}
	}

	c.JSON(http.StatusOK, gin.H{
		"medication_id": medicationID,
		"window":        window,
		"trends":        trends,
	})
}

// GetCorrelations handles GET /api/v1/correlations
func (h *AdherenceHandler) GetCorrelations(c *gin.Context) {
	userID, _, window, ok := h.parse(c)
	if !ok {
		return
	}

	report, err := h.service.GetCorrelations(c.Request.Context(), userID, window)
	if err != nil {
		h.writeError(c, "get correlations", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetInsights handles GET /api/v1/insights
func (h *AdherenceHandler) GetInsights(c *gin.Context) {
	userID, _, window, ok := h.parse(c)
	if !ok {
		return
	}

	resp, err := h.service.GetInsights(c.Request.Context(), userID, window)
	if err != nil {
		h.writeError(c, "get insights", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ============================================================================
// Helpers
// ============================================================================

// parse resolves the caller and the analysis window, writing a problem
// response and returning ok=false when either is missing or malformed.
func (h *AdherenceHandler) parse(c *gin.Context) (string, windowQuery, models.DateRange, bool) {
	var q windowQuery

	userID := c.GetString("user_id")
	if userID == "" {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
		return "", q, models.DateRange{}, false
	}

	if err := c.ShouldBindQuery(&q); err != nil {
		apierror.WriteProblem(c, apierror.FromBindingError(apierror.GetRequestID(c), err))
		return "", q, models.DateRange{}, false
	}

	window := service.DefaultWindow(h.clock(), h.windowDays)
	if q.StartDate != nil && q.EndDate != nil {
		window = models.DateRange{Start: *q.StartDate, End: *q.EndDate}
	}

	return userID, q, window, true
}

func (h *AdherenceHandler) writeError(c *gin.Context, op string, err error) {
	requestID := apierror.GetRequestID(c)

	switch {
	case errors.Is(err, analytics.ErrInvalidRange):
		apierror.WriteProblem(c, apierror.NewInvalidRangeError(requestID, err.Error()))
	case errors.Is(err, context.DeadlineExceeded):
		logger.Ctx(c.Request.Context()).Warn(op+" timed out", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewServiceUnavailableError(requestID, retryAfterSeconds))
	default:
		logger.Ctx(c.Request.Context()).Error(op+" failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
	}
}
