package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luckydip/raffle-backend/internal/dispatch"
)

// OracleHandler handles the randomness fulfillment callback. The route is
// gated by the oracle key middleware; the engine enforces the correlation
// id and state checks itself.
type OracleHandler struct {
	dispatcher *dispatch.Dispatcher
}

// NewOracleHandler creates a new OracleHandler
func NewOracleHandler(dispatcher *dispatch.Dispatcher) *OracleHandler {
	return &OracleHandler{
		dispatcher: dispatcher,
	}
}

// FulfillRequest is the oracle callback payload
type FulfillRequest struct {
	RequestID string   `json:"requestId" binding:"required"`
	Words     []uint64 `json:"words" binding:"required"`
}

// Fulfill handles POST /oracle/fulfill
func (h *OracleHandler) Fulfill(c *gin.Context) {
	var request FulfillRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.dispatcher.Module().FulfillRandomness(c.Request.Context(), request.RequestID, request.Words)
	if err != nil {
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
