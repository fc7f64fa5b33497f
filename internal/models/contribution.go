package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JackpotContribution records the slice of a single entry fee skimmed into
// the carry-over jackpot pool. The sum of contributions since the last
// jackpot win equals the pool balance.
type JackpotContribution struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RoundNumber uint64             `bson:"roundNumber" json:"roundNumber"`
	Address     string             `bson:"address" json:"address"`
	Amount      int64              `bson:"amount" json:"amount"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
