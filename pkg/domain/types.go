package domain

import "time"

// Blueprint is a reusable, named field schema from which contracts are
// instantiated. It is mutable only while no contract references it.
type Blueprint struct {
	ID          string            `json:"id" bson:"id"`
	Name        string            `json:"name" bson:"name"`
	Description string            `json:"description" bson:"description"`
	Fields      []FieldDefinition `json:"fields" bson:"fields"`
	CreatedAt   time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// HistoryEntry records one lifecycle transition. The genesis entry has no
// previous status.
type HistoryEntry struct {
	Status         Status    `json:"status" bson:"status"`
	PreviousStatus Status    `json:"previousStatus,omitempty" bson:"previousStatus,omitempty"`
	Timestamp      time.Time `json:"timestamp" bson:"timestamp"`
	Note           string    `json:"note" bson:"note"`
}

// Contract is a stateful document instance created from a blueprint
// snapshot. BlueprintName is a denormalized copy taken at creation time,
// not a live join. StatusHistory is append-only and never reordered,
// edited, or truncated.
//
// Version supports compare-and-swap writes in the store layer; it is not
// part of the external representation.
type Contract struct {
	ID            string          `json:"id" bson:"id"`
	Name          string          `json:"name" bson:"name"`
	BlueprintID   string          `json:"blueprintId" bson:"blueprintId"`
	BlueprintName string          `json:"blueprintName" bson:"blueprintName"`
	Status        Status          `json:"status" bson:"status"`
	Fields        []ContractField `json:"fields" bson:"fields"`
	StatusHistory []HistoryEntry  `json:"statusHistory" bson:"statusHistory"`
	Version       int64           `json:"-" bson:"version"`
	CreatedAt     time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt" bson:"updatedAt"`
}
