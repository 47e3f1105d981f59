// Package store defines the narrow collection-access contract the engine
// needs from a document store, with MongoDB, PostgreSQL, and in-memory
// implementations.
package store

import (
	"context"
	"errors"

	"github.com/RishiReddii/AgreementHub/pkg/domain"
)

var (
	// ErrNotFound is returned when no document matches the given id.
	ErrNotFound = errors.New("store: document not found")
	// ErrVersionConflict is returned when a compare-and-swap write loses a
	// race with a concurrent writer.
	ErrVersionConflict = errors.New("store: version conflict")
)

// ContractFilter narrows a contract listing. Zero values mean no filter.
type ContractFilter struct {
	// Statuses matches contracts whose status is in the set.
	Statuses []domain.Status
	// BlueprintID matches contracts instantiated from one blueprint.
	BlueprintID string
}

// Store is the engine's view of the external document store. All durable
// state lives behind it; the engine holds nothing between calls.
//
// ReplaceContract is a compare-and-swap: it matches on the contract's id
// and current Version, persists the document with Version+1, and returns
// ErrVersionConflict if another writer got there first. Every backend must
// honor this so a persisted contract can never skip or repeat a lifecycle
// edge.
type Store interface {
	ListBlueprints(ctx context.Context, limit int64) ([]domain.Blueprint, error)
	GetBlueprint(ctx context.Context, id string) (domain.Blueprint, error)
	InsertBlueprint(ctx context.Context, b domain.Blueprint) error
	UpdateBlueprint(ctx context.Context, b domain.Blueprint) error
	DeleteBlueprint(ctx context.Context, id string) error
	CountBlueprints(ctx context.Context) (int64, error)

	ListContracts(ctx context.Context, f ContractFilter, limit int64) ([]domain.Contract, error)
	GetContract(ctx context.Context, id string) (domain.Contract, error)
	InsertContract(ctx context.Context, c domain.Contract) error
	ReplaceContract(ctx context.Context, c domain.Contract) (domain.Contract, error)
	DeleteContract(ctx context.Context, id string) error
	CountContractsByBlueprint(ctx context.Context, blueprintID string) (int64, error)
	CountContractsByStatus(ctx context.Context) (map[domain.Status]int64, error)
}
