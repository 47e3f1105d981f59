package store

import (
	"context"
	"sort"
	"sync"

	"github.com/RishiReddii/AgreementHub/pkg/domain"
)

// Memory is a mutex-guarded in-process Store. It backs tests and the
// zero-config dev mode; it is not meant for durable deployments.
type Memory struct {
	mu         sync.Mutex
	blueprints map[string]domain.Blueprint
	contracts  map[string]domain.Contract
}

func NewMemory() *Memory {
	return &Memory{
		blueprints: map[string]domain.Blueprint{},
		contracts:  map[string]domain.Contract{},
	}
}

func cloneBlueprint(b domain.Blueprint) domain.Blueprint {
	out := b
	out.Fields = make([]domain.FieldDefinition, len(b.Fields))
	copy(out.Fields, b.Fields)
	return out
}

func cloneContract(c domain.Contract) domain.Contract {
	out := c
	out.Fields = make([]domain.ContractField, len(c.Fields))
	copy(out.Fields, c.Fields)
	out.StatusHistory = make([]domain.HistoryEntry, len(c.StatusHistory))
	copy(out.StatusHistory, c.StatusHistory)
	return out
}

func (m *Memory) ListBlueprints(ctx context.Context, limit int64) ([]domain.Blueprint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Blueprint, 0, len(m.blueprints))
	for _, b := range m.blueprints {
		out = append(out, cloneBlueprint(b))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) GetBlueprint(ctx context.Context, id string) (domain.Blueprint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blueprints[id]
	if !ok {
		return domain.Blueprint{}, ErrNotFound
	}
	return cloneBlueprint(b), nil
}

func (m *Memory) InsertBlueprint(ctx context.Context, b domain.Blueprint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blueprints[b.ID] = cloneBlueprint(b)
	return nil
}

func (m *Memory) UpdateBlueprint(ctx context.Context, b domain.Blueprint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blueprints[b.ID]; !ok {
		return ErrNotFound
	}
	m.blueprints[b.ID] = cloneBlueprint(b)
	return nil
}

func (m *Memory) DeleteBlueprint(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blueprints[id]; !ok {
		return ErrNotFound
	}
	delete(m.blueprints, id)
	return nil
}

func (m *Memory) CountBlueprints(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.blueprints)), nil
}

func (f ContractFilter) matches(c domain.Contract) bool {
	if f.BlueprintID != "" && c.BlueprintID != f.BlueprintID {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if c.Status == s {
			return true
		}
	}
	return false
}

func (m *Memory) ListContracts(ctx context.Context, f ContractFilter, limit int64) ([]domain.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Contract, 0, len(m.contracts))
	for _, c := range m.contracts {
		if f.matches(c) {
			out = append(out, cloneContract(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) GetContract(ctx context.Context, id string) (domain.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contracts[id]
	if !ok {
		return domain.Contract{}, ErrNotFound
	}
	return cloneContract(c), nil
}

func (m *Memory) InsertContract(ctx context.Context, c domain.Contract) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contracts[c.ID] = cloneContract(c)
	return nil
}

func (m *Memory) ReplaceContract(ctx context.Context, c domain.Contract) (domain.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.contracts[c.ID]
	if !ok {
		return domain.Contract{}, ErrNotFound
	}
	if cur.Version != c.Version {
		return domain.Contract{}, ErrVersionConflict
	}
	next := cloneContract(c)
	next.Version = c.Version + 1
	m.contracts[c.ID] = next
	return cloneContract(next), nil
}

func (m *Memory) DeleteContract(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.contracts[id]; !ok {
		return ErrNotFound
	}
	delete(m.contracts, id)
	return nil
}

func (m *Memory) CountContractsByBlueprint(ctx context.Context, blueprintID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, c := range m.contracts {
		if c.BlueprintID == blueprintID {
			n++
		}
	}
	return n, nil
}

func (m *Memory) CountContractsByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[domain.Status]int64{}
	for _, c := range m.contracts {
		out[c.Status]++
	}
	return out, nil
}
