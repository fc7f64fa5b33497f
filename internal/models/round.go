package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RaffleState represents the lifecycle state of the raffle engine
type RaffleState string

const (
	RaffleStateOpen    RaffleState = "OPEN"
	RaffleStateDrawing RaffleState = "DRAWING"
	// RaffleStateClosed is only reachable through an explicit admin shutdown,
	// never through the normal draw flow.
	RaffleStateClosed RaffleState = "CLOSED"
)

// Round is the archived record of a completed round: everything the engine
// knew at the moment the draw resolved. Rounds are written exactly once, at
// fulfillment time.
type Round struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Number              uint64             `bson:"number" json:"number"`
	Participants        []string           `bson:"participants" json:"participants"`
	EntryFee            int64              `bson:"entryFee" json:"entryFee"`
	FeesCollected       int64              `bson:"feesCollected" json:"feesCollected"`
	BasePrize           int64              `bson:"basePrize" json:"basePrize"`
	JackpotWon          bool               `bson:"jackpotWon" json:"jackpotWon"`
	JackpotPaid         int64              `bson:"jackpotPaid" json:"jackpotPaid"`
	RetainedRevenue     int64              `bson:"retainedRevenue" json:"retainedRevenue"`
	WinnerAddress       string             `bson:"winnerAddress" json:"winnerAddress"`
	RequestID           string             `bson:"requestId" json:"requestId"`
	DrawInitiatedAt     time.Time          `bson:"drawInitiatedAt" json:"drawInitiatedAt"`
	FulfilledAt         time.Time          `bson:"fulfilledAt" json:"fulfilledAt"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
}
