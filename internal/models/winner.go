package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Winner represents the winner of a resolved round
type Winner struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RoundNumber uint64             `bson:"roundNumber" json:"roundNumber"`
	Address     string             `bson:"address" json:"address"`
	Prize       int64              `bson:"prize" json:"prize"`
	JackpotWon  bool               `bson:"jackpotWon" json:"jackpotWon"`
	WinDate     time.Time          `bson:"winDate" json:"winDate"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
