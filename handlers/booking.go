package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	appointmentRepo "apexbooking/database/repository/appointment"
	"apexbooking/middleware"
	"apexbooking/models"
	"apexbooking/services/hold"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the public booking-hold flow over HTTP.
type BookingHandler struct {
	Svc             hold.HoldService
	AppointmentRepo appointmentRepo.AppointmentRepository
	Logger          *zap.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(svc hold.HoldService, apptRepo appointmentRepo.AppointmentRepository, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, AppointmentRepo: apptRepo, Logger: logger}
}

type createHoldRequest struct {
	BusinessID         string              `json:"businessId" binding:"required"`
	ServiceID          string              `json:"serviceId"`
	Customer           models.CustomerInfo `json:"customer"`
	StartAt            time.Time           `json:"startAt" binding:"required"`
	EndAt              time.Time           `json:"endAt" binding:"required"`
	Timezone           string              `json:"timezone"`
	HoldMinutes        int                 `json:"holdMinutes"`
	DepositAmountCents int64               `json:"depositAmountCents"`
}

// CreateHold places a HOLD on the requested slot and returns the expiry
// instant for the client countdown.
func (h *BookingHandler) CreateHold(c *gin.Context) {
	var req createHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.Svc.CreateHold(c.Request.Context(), hold.CreateHoldInput{
		BusinessID:         req.BusinessID,
		ServiceID:          req.ServiceID,
		Customer:           req.Customer,
		StartAt:            req.StartAt,
		EndAt:              req.EndAt,
		Timezone:           req.Timezone,
		HoldMinutes:        req.HoldMinutes,
		DepositAmountCents: req.DepositAmountCents,
	})
	if err != nil {
		switch {
		case errors.Is(err, hold.ErrInvalidTimeRange), errors.Is(err, hold.ErrInvalidHoldWindow):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, hold.ErrSlotUnavailable):
			c.JSON(http.StatusConflict, gin.H{"error": "That time was just taken. Please pick a new time."})
		default:
			h.Logger.Error("failed to create hold", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create hold"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// AcceptStandards records the standards gate; the pay step stays locked
// until this succeeds.
func (h *BookingHandler) AcceptStandards(c *gin.Context) {
	sessionID := c.Param("sessionID")

	if err := h.Svc.AcceptStandards(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, hold.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		h.Logger.Error("failed to accept standards", zap.String("sessionId", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to accept standards"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stage": models.StageReadyToPay})
}

// CheckExpiry runs the lazy hold-expiry check for an appointment.
func (h *BookingHandler) CheckExpiry(c *gin.Context) {
	appointmentID := c.Param("appointmentID")

	result, err := h.Svc.CheckAndExpire(c.Request.Context(), appointmentID)
	if err != nil {
		h.Logger.Error("expiry check failed", zap.String("appointmentId", appointmentID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "expiry check failed"})
		return
	}
	if result == hold.CheckNotFound {
		c.JSON(http.StatusNotFound, gin.H{"result": result})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

type abandonRequest struct {
	AppointmentID string `json:"appointmentId"`
	Reason        string `json:"reason"`
}

// Abandon releases the current hold so the customer can start over.
func (h *BookingHandler) Abandon(c *gin.Context) {
	sessionID := c.Param("sessionID")

	// Body is optional: a bare abandon only expires the session.
	var req abandonRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}
	}

	if err := h.Svc.Abandon(c.Request.Context(), sessionID, req.AppointmentID, req.Reason); err != nil {
		h.Logger.Error("failed to abandon booking", zap.String("sessionId", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to abandon booking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stage": models.StageExpired})
}

// GetSession returns a booking session for flow resumption.
func (h *BookingHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("sessionID")

	session, err := h.Svc.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, hold.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		h.Logger.Error("failed to fetch session", zap.String("sessionId", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch session"})
		return
	}

	c.JSON(http.StatusOK, session)
}

// GetAppointment returns an appointment by ID.
func (h *BookingHandler) GetAppointment(c *gin.Context) {
	appointmentID := c.Param("appointmentID")

	appt, err := h.Svc.GetAppointment(c.Request.Context(), appointmentID)
	if err != nil {
		if errors.Is(err, hold.ErrAppointmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
			return
		}
		h.Logger.Error("failed to fetch appointment", zap.String("appointmentId", appointmentID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch appointment"})
		return
	}

	c.JSON(http.StatusOK, appt)
}

// ListAppointments returns the owner's recent appointments for the
// dashboard and calendar views.
func (h *BookingHandler) ListAppointments(c *gin.Context) {
	businessID := middleware.GetBusinessID(c)

	limit := int64(50)
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	appts, err := h.AppointmentRepo.ListByBusiness(c.Request.Context(), businessID, limit)
	if err != nil {
		h.Logger.Error("failed to list appointments", zap.String("businessId", businessID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list appointments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}
