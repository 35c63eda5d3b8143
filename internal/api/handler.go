package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-crisis-alerts/internal/models"
	"github.com/mr1hm/go-crisis-alerts/internal/nearby"
	"github.com/mr1hm/go-crisis-alerts/internal/oracle"
	"github.com/mr1hm/go-crisis-alerts/internal/query"
)

type AlertService interface {
	List(ctx context.Context) ([]models.Alert, error)
	Get(ctx context.Context, id string) (models.Alert, error)
	Create(ctx context.Context, in models.AlertInput) (models.Alert, error)
	Update(ctx context.Context, alert models.Alert) (models.Alert, error)
}

// Advisor backs the /api/ai endpoints.
type Advisor interface {
	AssessRisk(ctx context.Context, report string) (oracle.RiskAssessment, error)
	ActionPlan(ctx context.Context, disasterType string, severity models.Severity) (string, error)
	Translate(ctx context.Context, text string, languages []string) (map[string]string, error)
	DetailedAssessment(ctx context.Context, alert models.Alert) (string, error)
	Chat(ctx context.Context, history []oracle.Message, message string) (string, error)
}

type ServiceLookup interface {
	Lookup(location string, category nearby.Category) ([]nearby.Service, error)
	Locations() []string
}

type EventSource interface {
	Subscribe() (uint64, chan models.AlertEvent)
	Unsubscribe(id uint64)
}

type Handler struct {
	alerts   AlertService
	advisor  Advisor
	services ServiceLookup
	events   EventSource
}

// NewHandler wires the HTTP surface. advisor and events may be nil, in
// which case their endpoints answer 503.
func NewHandler(alerts AlertService, advisor Advisor, services ServiceLookup, events EventSource) *Handler {
	return &Handler{
		alerts:   alerts,
		advisor:  advisor,
		services: services,
		events:   events,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.GET("/alerts", h.listAlerts)
	api.POST("/alerts", h.createAlert)
	api.GET("/alerts/active", h.activeAlerts)
	api.GET("/alerts/map", h.alertMap)
	api.GET("/alerts/stream", h.streamAlerts)
	api.GET("/alerts/:id", h.getAlert)
	api.PUT("/alerts/:id", h.updateAlert)
	api.GET("/alerts/:id/assessment", h.assessAlert)
	api.GET("/stats", h.stats)
	api.GET("/services", h.nearbyServices)

	ai := api.Group("/ai")
	ai.POST("/assess", h.assessReport)
	ai.POST("/action-plan", h.actionPlan)
	ai.POST("/translate", h.translate)
	ai.POST("/chat", h.chat)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listAlerts(c *gin.Context) {
	alerts, err := h.alerts.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	q := query.Query{
		Text:     c.Query("q"),
		Severity: c.DefaultQuery("severity", query.All),
		Status:   c.DefaultQuery("status", query.All),
	}
	c.JSON(http.StatusOK, query.Filter(alerts, q))
}

func (h *Handler) activeAlerts(c *gin.Context) {
	alerts, err := h.alerts.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, query.ActiveOnly(alerts))
}

func (h *Handler) getAlert(c *gin.Context) {
	alert, err := h.alerts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

func (h *Handler) createAlert(c *gin.Context) {
	var in models.AlertInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, fmt.Errorf("%w: %w", models.ErrInvalidAlert, err))
		return
	}

	alert, err := h.alerts.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, alert)
}

// updateAlert replaces the stored alert. The body id may be omitted but
// must not differ from the path.
func (h *Handler) updateAlert(c *gin.Context) {
	var alert models.Alert
	if err := c.ShouldBindJSON(&alert); err != nil {
		writeError(c, fmt.Errorf("%w: %w", models.ErrInvalidAlert, err))
		return
	}

	id := c.Param("id")
	if alert.ID == "" {
		alert.ID = id
	}
	if alert.ID != id {
		writeError(c, fmt.Errorf("%w: id %q does not match path %q", models.ErrInvalidAlert, alert.ID, id))
		return
	}

	updated, err := h.alerts.Update(c.Request.Context(), alert)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) alertMap(c *gin.Context) {
	alerts, err := h.alerts.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	fc := toGeoJSON(query.ActiveOnly(alerts))
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

func (h *Handler) stats(c *gin.Context) {
	alerts, err := h.alerts.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, query.Summarize(alerts))
}

func (h *Handler) nearbyServices(c *gin.Context) {
	location := c.Query("location")
	if location == "" {
		c.JSON(http.StatusOK, gin.H{"locations": h.services.Locations()})
		return
	}

	category, err := nearby.ParseCategory(c.DefaultQuery("category", string(nearby.CategoryHealth)))
	if err != nil {
		writeError(c, err)
		return
	}

	services, err := h.services.Lookup(location, category)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"location": location,
		"category": category,
		"services": services,
	})
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "status", status, "error", err)
	}

	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		msg = "storage unavailable"
	case http.StatusBadGateway:
		msg = "ai service unavailable"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidAlert),
		errors.Is(err, oracle.ErrInvalidRequest),
		errors.Is(err, nearby.ErrInvalidCategory):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrAlertNotFound),
		errors.Is(err, nearby.ErrNoServices):
		return http.StatusNotFound
	case errors.Is(err, oracle.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, oracle.ErrOracle):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
