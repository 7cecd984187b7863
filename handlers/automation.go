package handlers

import (
	"errors"
	"net/http"

	"apexbooking/middleware"
	"apexbooking/services/automation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AutomationHandler exposes the owner's automation CRUD endpoints.
type AutomationHandler struct {
	Svc    automation.AutomationService
	Logger *zap.Logger
}

// NewAutomationHandler creates a new AutomationHandler.
func NewAutomationHandler(svc automation.AutomationService, logger *zap.Logger) *AutomationHandler {
	return &AutomationHandler{Svc: svc, Logger: logger}
}

// Create saves a new automation for the authenticated business.
func (h *AutomationHandler) Create(c *gin.Context) {
	var input automation.AutomationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	record, err := h.Svc.Create(c.Request.Context(), middleware.GetBusinessID(c), input)
	if err != nil {
		if errors.Is(err, automation.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.Logger.Error("failed to create automation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create automation"})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// List returns the authenticated business's automations.
func (h *AutomationHandler) List(c *gin.Context) {
	records, err := h.Svc.List(c.Request.Context(), middleware.GetBusinessID(c))
	if err != nil {
		h.Logger.Error("failed to list automations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list automations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"automations": records})
}

// Get returns one automation by ID.
func (h *AutomationHandler) Get(c *gin.Context) {
	record, err := h.Svc.GetByID(c.Request.Context(), middleware.GetBusinessID(c), c.Param("automationID"))
	if err != nil {
		if errors.Is(err, automation.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "automation not found"})
			return
		}
		h.Logger.Error("failed to fetch automation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch automation"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// Update overwrites an automation's editable fields.
func (h *AutomationHandler) Update(c *gin.Context) {
	var input automation.AutomationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	record, err := h.Svc.Update(c.Request.Context(), middleware.GetBusinessID(c), c.Param("automationID"), input)
	if err != nil {
		switch {
		case errors.Is(err, automation.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "automation not found"})
		case errors.Is(err, automation.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.Logger.Error("failed to update automation", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update automation"})
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

// Delete removes an automation.
func (h *AutomationHandler) Delete(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), middleware.GetBusinessID(c), c.Param("automationID"))
	if err != nil {
		if errors.Is(err, automation.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "automation not found"})
			return
		}
		h.Logger.Error("failed to delete automation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete automation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
