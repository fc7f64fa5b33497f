package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/luckydip/raffle-backend/internal/dispatch"
	"github.com/luckydip/raffle-backend/internal/engine"
	"github.com/luckydip/raffle-backend/internal/models"
	"github.com/luckydip/raffle-backend/internal/services"
)

// AdminHandler handles the administrator-gated raffle operations
type AdminHandler struct {
	dispatcher   *dispatch.Dispatcher
	notifier     *services.NotifierService
	eventService *services.EventService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(dispatcher *dispatch.Dispatcher, notifier *services.NotifierService, eventService *services.EventService) *AdminHandler {
	return &AdminHandler{
		dispatcher:   dispatcher,
		notifier:     notifier,
		eventService: eventService,
	}
}

// caller extracts the authenticated identity set by the JWT middleware
func caller(c *gin.Context) string {
	email, _ := c.Get("userEmail")
	s, _ := email.(string)
	return s
}

// SwapModuleRequest is the module swap payload
type SwapModuleRequest struct {
	Module string `json:"module" binding:"required"`
}

// SwapModule handles POST /admin/module/swap
func (h *AdminHandler) SwapModule(c *gin.Context) {
	var request SwapModuleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.dispatcher.SwapModule(c.Request.Context(), caller(c), request.Module); err != nil {
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activeModule": h.dispatcher.Active()})
}

// SwapModuleInitRequest is the swap-and-initialize payload
type SwapModuleInitRequest struct {
	Module string             `json:"module" binding:"required"`
	Init   engine.InitPayload `json:"init"`
}

// SwapModuleAndInitialize handles POST /admin/module/swap-init
func (h *AdminHandler) SwapModuleAndInitialize(c *gin.Context) {
	var request SwapModuleInitRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.dispatcher.SwapModuleAndInitialize(c.Request.Context(), caller(c), request.Module, request.Init); err != nil {
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activeModule": h.dispatcher.Active()})
}

// ForceReopen handles POST /admin/raffle/reopen
func (h *AdminHandler) ForceReopen(c *gin.Context) {
	if err := h.dispatcher.Module().ForceReopen(c.Request.Context()); err != nil {
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.dispatcher.Module().Snapshot())
}

// Close handles POST /admin/raffle/close
func (h *AdminHandler) Close(c *gin.Context) {
	if err := h.dispatcher.Module().Close(c.Request.Context()); err != nil {
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.dispatcher.Module().Snapshot())
}

// Open handles POST /admin/raffle/open
func (h *AdminHandler) Open(c *gin.Context) {
	if err := h.dispatcher.Module().Open(c.Request.Context()); err != nil {
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.dispatcher.Module().Snapshot())
}

// AnnounceRequest is the cross-chain announcement payload
type AnnounceRequest struct {
	Destination string `json:"destination" binding:"required"`
}

// Announce handles POST /admin/announce. Announces the most recent round
// result to the paired instance.
func (h *AdminHandler) Announce(c *gin.Context) {
	var request AnnounceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot := h.dispatcher.Module().Snapshot()
	if snapshot.RecentWinner == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "No round result to announce"})
		return
	}
	result := &engine.DrawResult{
		RoundNumber: snapshot.RoundNumber - 1,
		Winner:      snapshot.RecentWinner,
		Prize:       snapshot.RecentPrize,
		JackpotWon:  snapshot.RecentJackpotWon,
	}

	messageID, err := h.notifier.AnnounceResult(c.Request.Context(), request.Destination, result)
	if err != nil {
		if errors.Is(err, services.ErrInsufficientNativeBalance) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to announce result: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"messageId": messageID})
}

// GetEvents handles GET /admin/events
func (h *AdminHandler) GetEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	eventType := models.EventType(c.Query("type"))

	events, err := h.eventService.ListEvents(c.Request.Context(), eventType, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, events)
}
