package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tareas-api/proyectos-billing/internal/billing/domain"
	"github.com/tareas-api/proyectos-billing/internal/billing/service"
)

// Handler exposes the billing core over HTTP for the form UI.
type Handler struct {
	orch     *service.Orchestrator
	projects *service.ProjectService
	log      *logrus.Logger
}

// NewHandler creates a new Handler.
func NewHandler(orch *service.Orchestrator, projects *service.ProjectService, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.New()
	}
	return &Handler{
		orch:     orch,
		projects: projects,
		log:      log,
	}
}

func (h *Handler) create(c *gin.Context) {
	h.submit(c, "")
}

func (h *Handler) update(c *gin.Context) {
	h.submit(c, c.Param("id"))
}

func (h *Handler) submit(c *gin.Context, existingID string) {
	var req submitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	form, err := req.toFormInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	p, err := h.orch.Submit(c.Request.Context(), form, existingID)
	if err != nil {
		h.writeSubmissionError(c, err)
		return
	}

	status := http.StatusCreated
	if existingID != "" {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"ok": true, "proyecto": p})
}

func (h *Handler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	items, err := h.projects.List(c.Request.Context(), page, limit)
	if err != nil {
		h.writeSubmissionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "proyectos": items})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.projects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeSubmissionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// editGate runs the pre-edit overdue check. The edit form must not open until
// a record that trips the check is explicitly confirmed; on confirmation the
// returned working copy has completada forced on.
func (h *Handler) editGate(c *gin.Context) {
	var req editGateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	required := service.CheckOverdue(&req.Record, time.Now())
	if required && !req.Confirmar {
		c.JSON(http.StatusOK, gin.H{"ok": true, "requiere_confirmacion": true})
		return
	}

	working := &req.Record
	if required {
		working = service.ApplyCompletion(working)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "requiere_confirmacion": false, "proyecto": working})
}

func (h *Handler) writeSubmissionError(c *gin.Context, err error) {
	var persistErr *domain.PersistAfterChargeError
	if errors.As(err, &persistErr) {
		// The charge succeeded; the caller must retry persistence, not pay again.
		c.JSON(http.StatusConflict, gin.H{
			"ok":        false,
			"code":      "persist_after_charge_failed",
			"charge_id": persistErr.ChargeID,
			"error":     persistErr.Error(),
		})
		return
	}

	if errors.Is(err, domain.ErrMissingTitle) || errors.Is(err, domain.ErrInvalidCost) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	var gwErr *domain.GatewayError
	if errors.As(err, &gwErr) {
		status := http.StatusServiceUnavailable
		if gwErr.Kind == domain.GatewayDeclined {
			status = http.StatusPaymentRequired
		}
		c.JSON(status, gin.H{"ok": false, "code": string(gwErr.Kind), "error": gwErr.Error()})
		return
	}

	var stErr *domain.StoreError
	if errors.As(err, &stErr) {
		status := http.StatusBadGateway
		switch stErr.Kind {
		case domain.StoreNotFound:
			status = http.StatusNotFound
		case domain.StoreRejected:
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"ok": false, "code": string(stErr.Kind), "error": stErr.Error()})
		return
	}

	h.log.WithError(err).Error("unhandled submission error")
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
}
