package kiosk

import (
	"errors"
	"net/http"

	"github.com/Food-Locker/consumer/internal/assignment"
	"github.com/Food-Locker/consumer/internal/auth"
	"github.com/Food-Locker/consumer/internal/auth/profile"
	"github.com/Food-Locker/consumer/internal/notify"
	"github.com/Food-Locker/consumer/internal/seat"

	"github.com/gin-gonic/gin"
)

// Handler exposes the kiosk surface: the current guest view, the seat
// assignment flow, and the transient notification slot.
type Handler struct {
	manager       *auth.Manager
	workflow      *assignment.Workflow
	store         *seat.Store
	notifications *notify.Queue
}

func NewHandler(
	manager *auth.Manager,
	workflow *assignment.Workflow,
	store *seat.Store,
	notifications *notify.Queue,
) *Handler {
	return &Handler{
		manager:       manager,
		workflow:      workflow,
		store:         store,
		notifications: notifications,
	}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/me", h.me)
	api.PUT("/me", h.updateProfile)
	api.POST("/me/refresh", h.refreshProfile)

	api.GET("/seat", h.getSeat)
	api.POST("/seat", h.submitSeat)
	api.DELETE("/seat", h.clearSeat)

	api.GET("/notifications/current", h.currentNotification)
	api.POST("/notifications/dismiss", h.dismissNotification)
}

func (h *Handler) me(c *gin.Context) {
	view := gin.H{
		"state":         h.manager.State().String(),
		"authenticated": h.manager.IsAuthenticated(),
		"displayName":   h.manager.DisplayName(),
		"contactEmail":  h.manager.ContactEmail(),
	}

	if id := h.manager.Identity(); id != nil {
		view["externalId"] = id.ExternalID
	}
	if p := h.manager.Profile(); p != nil {
		view["profile"] = gin.H{
			"name":  p.Name,
			"email": p.Email,
			"phone": p.Phone,
		}
	}
	if err := h.manager.Err(); err != nil {
		view["profileError"] = err.Error()
	}

	c.JSON(http.StatusOK, view)
}

type profilePatchRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req profilePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p, err := h.manager.UpdateProfile(c.Request.Context(), profile.Patch{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		if errors.Is(err, auth.ErrNoIdentity) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":  p.Name,
		"email": p.Email,
		"phone": p.Phone,
	})
}

func (h *Handler) refreshProfile(c *gin.Context) {
	p, err := h.manager.RefreshProfile(c.Request.Context())
	if err != nil {
		if errors.Is(err, auth.ErrNoIdentity) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":  p.Name,
		"email": p.Email,
		"phone": p.Phone,
	})
}

func assignmentView(a *seat.Assignment) gin.H {
	return gin.H{
		"seatBlock":      a.SeatBlock,
		"seatNumber":     a.SeatNumber,
		"zone":           a.Zone,
		"lockerId":       a.LockerID,
		"lockerLocation": a.Location,
	}
}

func (h *Handler) getSeat(c *gin.Context) {
	a, err := h.store.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	if a == nil {
		c.JSON(http.StatusOK, gin.H{"assignment": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignment": assignmentView(a)})
}

type submitSeatRequest struct {
	SeatBlock string `json:"seatBlock"`
}

func (h *Handler) submitSeat(c *gin.Context) {
	var req submitSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := h.workflow.Submit(c.Request.Context(), req.SeatBlock)
	if err != nil {
		h.renderSubmitError(c, err)
		return
	}

	a, err := h.store.Get(c.Request.Context())
	if err != nil || a == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "assigned",
		"assignment": assignmentView(a),
	})
}

func (h *Handler) renderSubmitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, assignment.ErrEmptySeatBlock):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, assignment.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, assignment.ErrAlreadyInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		// Transport and malformed-response failures: the workflow has
		// already recorded the guest-facing message.
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      "locker assignment failed",
			"fieldError": h.workflow.FieldError(),
		})
	}
}

func (h *Handler) clearSeat(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) currentNotification(c *gin.Context) {
	n := h.notifications.Current()
	if n == nil {
		c.JSON(http.StatusOK, gin.H{"notification": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notification": gin.H{
		"message":    n.Message,
		"kind":       string(n.Kind),
		"durationMs": n.Duration.Milliseconds(),
	}})
}

func (h *Handler) dismissNotification(c *gin.Context) {
	h.notifications.Dismiss()
	c.Status(http.StatusNoContent)
}
