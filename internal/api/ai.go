package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-crisis-alerts/internal/models"
	"github.com/mr1hm/go-crisis-alerts/internal/oracle"
)

type assessRequest struct {
	Report string `json:"report"`
}

type actionPlanRequest struct {
	Type     string          `json:"type"`
	Severity models.Severity `json:"severity"`
}

type translateRequest struct {
	Text      string   `json:"text"`
	Languages []string `json:"languages"`
}

type chatRequest struct {
	History []oracle.Message `json:"history"`
	Message string           `json:"message"`
}

// requireAdvisor writes a 503 and returns false when AI is disabled.
func (h *Handler) requireAdvisor(c *gin.Context) bool {
	if h.advisor == nil {
		writeError(c, oracle.ErrNotConfigured)
		return false
	}
	return true
}

func bindRequest(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		writeError(c, fmt.Errorf("%w: %w", oracle.ErrInvalidRequest, err))
		return false
	}
	return true
}

func (h *Handler) assessReport(c *gin.Context) {
	if !h.requireAdvisor(c) {
		return
	}
	var req assessRequest
	if !bindRequest(c, &req) {
		return
	}
	if req.Report == "" {
		writeError(c, fmt.Errorf("%w: report is required", oracle.ErrInvalidRequest))
		return
	}

	assessment, err := h.advisor.AssessRisk(c.Request.Context(), req.Report)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}

func (h *Handler) actionPlan(c *gin.Context) {
	if !h.requireAdvisor(c) {
		return
	}
	var req actionPlanRequest
	if !bindRequest(c, &req) {
		return
	}

	plan, err := h.advisor.ActionPlan(c.Request.Context(), req.Type, req.Severity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

func (h *Handler) translate(c *gin.Context) {
	if !h.requireAdvisor(c) {
		return
	}
	var req translateRequest
	if !bindRequest(c, &req) {
		return
	}

	translations, err := h.advisor.Translate(c.Request.Context(), req.Text, req.Languages)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"translations": translations})
}

func (h *Handler) chat(c *gin.Context) {
	if !h.requireAdvisor(c) {
		return
	}
	var req chatRequest
	if !bindRequest(c, &req) {
		return
	}

	reply, err := h.advisor.Chat(c.Request.Context(), req.History, req.Message)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *Handler) assessAlert(c *gin.Context) {
	if !h.requireAdvisor(c) {
		return
	}
	alert, err := h.alerts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	assessment, err := h.advisor.DetailedAssessment(c.Request.Context(), alert)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": alert.ID, "assessment": assessment})
}
