package handler

import (
	"errors"
	"net/http"

	"github.com/billtrack/backend/internal/infrastructure/scheduler"
	"github.com/billtrack/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ReconcilerHandler exposes the reconciliation worker's status and a
// manual trigger for operators
type ReconcilerHandler struct {
	BaseHandler
	reconciler *scheduler.BillReconciler
}

// NewReconcilerHandler creates a new ReconcilerHandler
func NewReconcilerHandler(reconciler *scheduler.BillReconciler) *ReconcilerHandler {
	return &ReconcilerHandler{
		reconciler: reconciler,
	}
}

// TriggerResponse is returned when a manual sweep is accepted
type TriggerResponse struct {
	Message string `json:"message"`
}

// GetStatus handles GET /reconciler/status
func (h *ReconcilerHandler) GetStatus(c *gin.Context) {
	h.Success(c, h.reconciler.GetStatus())
}

// Trigger handles POST /reconciler/trigger. The sweep runs in the
// background; the response only acknowledges acceptance.
func (h *ReconcilerHandler) Trigger(c *gin.Context) {
	if err := h.reconciler.TriggerManualRun(); err != nil {
		switch {
		case errors.Is(err, scheduler.ErrSweepAlreadyRunning):
			h.Conflict(c, err.Error())
		case errors.Is(err, scheduler.ErrReconcilerDisabled),
			errors.Is(err, scheduler.ErrReconcilerNotRunning):
			h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeInvalidState, err.Error())
		default:
			h.HandleError(c, err)
		}
		return
	}

	h.Success(c, TriggerResponse{Message: "Reconciliation sweep triggered"})
}
