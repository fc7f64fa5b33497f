package models

import "time"

// EngineSnapshotID is the fixed document id of the engine state snapshot.
const EngineSnapshotID = "engine_state"

// EngineSnapshot is the write-through persistence form of the engine
// aggregate. It is upserted after every mutating operation and loaded once
// at startup.
type EngineSnapshot struct {
	ID                   string      `bson:"_id" json:"id"`
	State                RaffleState `bson:"state" json:"state"`
	Participants         []string    `bson:"participants" json:"participants"`
	JackpotPool          int64       `bson:"jackpotPool" json:"jackpotPool"`
	RetainedRevenue      int64       `bson:"retainedRevenue" json:"retainedRevenue"`
	RoundFees            int64       `bson:"roundFees" json:"roundFees"`
	RoundContributions   int64       `bson:"roundContributions" json:"roundContributions"`
	RoundNumber          uint64      `bson:"roundNumber" json:"roundNumber"`
	PendingRequestID     string      `bson:"pendingRequestId,omitempty" json:"pendingRequestId,omitempty"`
	MinPlayersReachedAt  time.Time   `bson:"minPlayersReachedAt,omitempty" json:"minPlayersReachedAt,omitempty"`
	DrawInitiatedAt      time.Time   `bson:"drawInitiatedAt,omitempty" json:"drawInitiatedAt,omitempty"`
	RecentWinner         string      `bson:"recentWinner,omitempty" json:"recentWinner,omitempty"`
	RecentPrize          int64       `bson:"recentPrize" json:"recentPrize"`
	RecentJackpotWon     bool        `bson:"recentJackpotWon" json:"recentJackpotWon"`
	UpdatedAt            time.Time   `bson:"updatedAt" json:"updatedAt"`
}
