package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luckydip/raffle-backend/internal/dispatch"
	"github.com/luckydip/raffle-backend/internal/engine"
	"github.com/luckydip/raffle-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

// RaffleHandler handles the public raffle HTTP requests. Every operation
// routes through the dispatcher so callers always hit the active module.
type RaffleHandler struct {
	dispatcher *dispatch.Dispatcher
	roundRepo  repositories.RoundRepository
	winnerRepo repositories.WinnerRepository
}

// NewRaffleHandler creates a new RaffleHandler
func NewRaffleHandler(dispatcher *dispatch.Dispatcher, roundRepo repositories.RoundRepository, winnerRepo repositories.WinnerRepository) *RaffleHandler {
	return &RaffleHandler{
		dispatcher: dispatcher,
		roundRepo:  roundRepo,
		winnerRepo: winnerRepo,
	}
}

// statusForEngineError maps engine sentinels to HTTP statuses
func statusForEngineError(err error) int {
	switch {
	case errors.Is(err, engine.ErrNotOpen),
		errors.Is(err, engine.ErrNotDrawing),
		errors.Is(err, engine.ErrNotClosed),
		errors.Is(err, engine.ErrAlreadyEntered),
		errors.Is(err, engine.ErrTriggerNotMet),
		errors.Is(err, engine.ErrNoPendingRequest),
		errors.Is(err, engine.ErrStaleRequest),
		errors.Is(err, engine.ErrShortRandomness):
		return http.StatusConflict
	case errors.Is(err, engine.ErrNotEntered), errors.Is(err, engine.ErrUnknownModule):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrCancellationUnsupported), errors.Is(err, engine.ErrIncompatibleModule):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrNotAdministrator):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// EnterRequest is the entry payload
type EnterRequest struct {
	Address string `json:"address" binding:"required"`
}

// Enter handles POST /entries
func (h *RaffleHandler) Enter(c *gin.Context) {
	var request EnterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.dispatcher.Module().Enter(c.Request.Context(), request.Address); err != nil {
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, h.dispatcher.Module().Snapshot())
}

// CancelEntry handles DELETE /entries/:address
func (h *RaffleHandler) CancelEntry(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	}

	if err := h.dispatcher.Module().CancelEntry(c.Request.Context(), address); err != nil {
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.dispatcher.Module().Snapshot())
}

// GetSnapshot handles GET /raffle
func (h *RaffleHandler) GetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.dispatcher.Module().Snapshot())
}

// CheckTrigger handles GET /raffle/trigger
func (h *RaffleHandler) CheckTrigger(c *gin.Context) {
	snapshot := h.dispatcher.Module().Snapshot()
	triggered := h.dispatcher.Module().CheckTrigger(time.Now())
	c.JSON(http.StatusOK, gin.H{
		"triggered":   triggered,
		"state":       snapshot.State,
		"entries":     len(snapshot.Participants),
		"roundNumber": snapshot.RoundNumber,
	})
}

// InitiateDraw handles POST /draws. Open to anyone: the engine re-validates
// the trigger itself.
func (h *RaffleHandler) InitiateDraw(c *gin.Context) {
	requestID, err := h.dispatcher.Module().InitiateDraw(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"requestId": requestID})
}

// GetRounds handles GET /rounds
func (h *RaffleHandler) GetRounds(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	rounds, err := h.roundRepo.FindAll(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rounds: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, rounds)
}

// GetRoundWinner handles GET /rounds/:number/winner
func (h *RaffleHandler) GetRoundWinner(c *gin.Context) {
	number, err := strconv.ParseUint(c.Param("number"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round number"})
		return
	}

	winner, err := h.winnerRepo.FindByRoundNumber(c.Request.Context(), number)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No winner recorded for this round"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve winner: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, winner)
}

// GetModule handles GET /module
func (h *RaffleHandler) GetModule(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"activeModule": h.dispatcher.Active()})
}

// GetAdministrator handles GET /module/admin
func (h *RaffleHandler) GetAdministrator(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"administrator": h.dispatcher.Administrator()})
}
