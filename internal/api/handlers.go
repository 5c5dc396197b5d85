package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"insta_syncer/internal/domain"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mocks.go -package=mocks

// SyncService is the trigger, audit and account surface the handlers expose.
type SyncService interface {
	Trigger(ctx context.Context, req domain.TriggerRequest) (*domain.RunSummary, error)
	TriggerAccount(ctx context.Context, action, handle string) (*domain.AccountResult, error)
	RecentAttempts(ctx context.Context, limit int) ([]domain.SyncAttempt, error)
	OrphanedAttempts(ctx context.Context, olderThan time.Duration) ([]domain.SyncAttempt, error)
	ConnectAccount(ctx context.Context, handle string) (*domain.Account, bool, error)
	DeactivateAccount(ctx context.Context, handle string) error
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	service SyncService
	db      Pinger

	// runs counts sync runs detached from their requests.
	runs sync.WaitGroup
}

func NewHandler(service SyncService, db Pinger) *Handler {
	return &Handler{service: service, db: db}
}

// Wait blocks until every triggered sync run has returned. A run outlives a
// cancelled request, so callers wait here before closing the database.
func (h *Handler) Wait() {
	h.runs.Wait()
}

type triggerAccountRequest struct {
	Action        string `json:"action" binding:"required"`
	AccountHandle string `json:"account_handle" binding:"required"`
}

type connectAccountRequest struct {
	Handle string `json:"handle" binding:"required"`
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// TriggerSync runs one batch. The run is detached from the request so a
// client disconnect does not abandon accounts mid-batch.
func (h *Handler) TriggerSync(c *gin.Context) {
	var req domain.TriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "message": err.Error()})
		return
	}

	h.runs.Add(1)
	summary, err := h.service.Trigger(context.WithoutCancel(c.Request.Context()), req)
	h.runs.Done()
	switch {
	case errors.Is(err, domain.ErrScheduleSkip):
		c.JSON(http.StatusOK, gin.H{
			"outcome": summary.Outcome(),
			"message": err.Error(),
			"summary": summary,
		})
	case errors.Is(err, domain.ErrInvalidSyncType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sync failed", "message": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{
			"outcome": summary.Outcome(),
			"message": summary.String(),
			"summary": summary,
		})
	}
}

func (h *Handler) TriggerAccountSync(c *gin.Context) {
	var req triggerAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "message": err.Error()})
		return
	}

	h.runs.Add(1)
	result, err := h.service.TriggerAccount(context.WithoutCancel(c.Request.Context()), req.Action, req.AccountHandle)
	h.runs.Done()
	switch {
	case errors.Is(err, domain.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sync failed", "message": err.Error()})
	default:
		c.JSON(http.StatusOK, result)
	}
}

func (h *Handler) ListAttempts(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = n
	}

	attempts, err := h.service.RecentAttempts(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts, "total": len(attempts)})
}

func (h *Handler) ListOrphanedAttempts(c *gin.Context) {
	var olderThan time.Duration
	if raw := c.Query("older_than"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "older_than must be a positive duration"})
			return
		}
		olderThan = d
	}

	attempts, err := h.service.OrphanedAttempts(c.Request.Context(), olderThan)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts, "total": len(attempts)})
}

func (h *Handler) ListAccounts(c *gin.Context) {
	accounts, err := h.service.ListAccounts(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts, "total": len(accounts)})
}

func (h *Handler) ConnectAccount(c *gin.Context) {
	var req connectAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "message": err.Error()})
		return
	}

	account, created, err := h.service.ConnectAccount(c.Request.Context(), req.Handle)
	switch {
	case errors.Is(err, domain.ErrInvalidHandle):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
	case created:
		c.JSON(http.StatusCreated, account)
	default:
		c.JSON(http.StatusOK, account)
	}
}

func (h *Handler) DeactivateAccount(c *gin.Context) {
	err := h.service.DeactivateAccount(c.Request.Context(), c.Param("handle"))
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
	default:
		c.Status(http.StatusNoContent)
	}
}
