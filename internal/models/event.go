package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventType labels the notifications the engine emits
type EventType string

const (
	EventRaffleEntered   EventType = "RAFFLE_ENTERED"
	EventEntryCancelled  EventType = "ENTRY_CANCELLED"
	EventStateChanged    EventType = "STATE_CHANGED"
	EventWinnerSelected  EventType = "WINNER_SELECTED"
	EventModuleSwapped   EventType = "MODULE_SWAPPED"
	EventResultAnnounced EventType = "RESULT_ANNOUNCED"
)

// Event is a durable record of an engine notification
type Event struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	Type        EventType              `bson:"type" json:"type"`
	RoundNumber uint64                 `bson:"roundNumber" json:"roundNumber"`
	Payload     map[string]interface{} `bson:"payload,omitempty" json:"payload,omitempty"`
	CreatedAt   time.Time              `bson:"createdAt" json:"createdAt"`
}
