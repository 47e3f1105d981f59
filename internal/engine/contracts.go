package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RishiReddii/AgreementHub/internal/store"
	"github.com/RishiReddii/AgreementHub/pkg/domain"
)

type CreateContractInput struct {
	Name        string         `json:"name"`
	BlueprintID string         `json:"blueprintId"`
	FieldValues map[string]any `json:"fieldValues"`
}

// UpdateContractInput carries a partial update. A nil Name leaves the name
// alone; fields absent from FieldValues keep their prior value.
type UpdateContractInput struct {
	Name        *string        `json:"name"`
	FieldValues map[string]any `json:"fieldValues"`
}

// ListContractsFilter mirrors the listing query parameters. Status and
// Category are mutually exclusive in practice; when both are set the
// category wins, matching the order the original filters were applied in.
type ListContractsFilter struct {
	Status      string
	Category    string
	BlueprintID string
}

func (e *Engine) ListContracts(ctx context.Context, f ListContractsFilter) ([]domain.Contract, error) {
	sf := store.ContractFilter{BlueprintID: f.BlueprintID}
	if f.Status != "" {
		sf.Statuses = []domain.Status{domain.Status(f.Status)}
	}
	if f.Category != "" {
		// Unknown categories are ignored rather than rejected; the filter
		// simply does not narrow.
		if statuses, ok := domain.CategoryStatuses[domain.Category(f.Category)]; ok {
			sf.Statuses = statuses
		}
	}
	return e.store.ListContracts(ctx, sf, listLimit)
}

func (e *Engine) GetContract(ctx context.Context, id string) (domain.Contract, error) {
	c, err := e.store.GetContract(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Contract{}, &domain.NotFoundError{Kind: "Contract"}
	}
	return c, err
}

// CreateContract snapshots the blueprint's field schema into a new contract
// in the created state. This is the only path by which a contract acquires
// a blueprint reference, and therefore the moment the blueprint becomes
// permanently immutable.
func (e *Engine) CreateContract(ctx context.Context, in CreateContractInput) (domain.Contract, error) {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Contract{}, &domain.ValidationError{Msg: "Contract name is required"}
	}
	if in.BlueprintID == "" {
		return domain.Contract{}, &domain.ValidationError{Msg: "Blueprint ID is required"}
	}

	bp, err := e.GetBlueprint(ctx, in.BlueprintID)
	if err != nil {
		return domain.Contract{}, err
	}

	now := time.Now().UTC()
	c := domain.Contract{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(in.Name),
		BlueprintID:   bp.ID,
		BlueprintName: bp.Name,
		Status:        domain.StatusCreated,
		Fields:        domain.SnapshotFields(bp.Fields, in.FieldValues),
		StatusHistory: []domain.HistoryEntry{{
			Status:    domain.StatusCreated,
			Timestamp: now,
			Note:      "Contract created",
		}},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := e.store.InsertContract(ctx, c); err != nil {
		return domain.Contract{}, err
	}
	e.log.Info("contract created",
		zap.String("contractId", c.ID),
		zap.String("blueprintId", bp.ID))
	return c, nil
}

// UpdateContract re-coerces the supplied field values and optionally
// renames the contract. Status and history are never touched here.
func (e *Engine) UpdateContract(ctx context.Context, id string, in UpdateContractInput) (domain.Contract, error) {
	c, err := e.GetContract(ctx, id)
	if err != nil {
		return domain.Contract{}, err
	}
	if domain.IsImmutable(c.Status) {
		return domain.Contract{}, domain.Rulef("Cannot modify contract in %s state", c.Status)
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return domain.Contract{}, &domain.ValidationError{Msg: "Name cannot be empty"}
		}
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.FieldValues != nil {
		for i, f := range c.Fields {
			raw, ok := in.FieldValues[f.ID]
			if !ok {
				continue
			}
			c.Fields[i].Value = f.Type.Coerce(raw)
		}
	}
	c.UpdatedAt = time.Now().UTC()

	return e.replaceContract(ctx, c)
}

// Transition moves a contract along the lifecycle graph, appending the
// audit entry. Validation is complete before the single write.
func (e *Engine) Transition(ctx context.Context, id string, newStatus domain.Status, note string) (domain.Contract, error) {
	if newStatus == "" {
		return domain.Contract{}, &domain.ValidationError{Msg: "New status is required"}
	}
	if !domain.ValidStatus(newStatus) {
		return domain.Contract{}, domain.Validationf(
			"Invalid status. Must be one of: %s", joinStatuses(domain.AllStatuses))
	}

	c, err := e.GetContract(ctx, id)
	if err != nil {
		return domain.Contract{}, err
	}
	if domain.IsImmutable(c.Status) {
		return domain.Contract{}, domain.Rulef("Contract is %s and cannot be modified", c.Status)
	}
	if !domain.IsValidTransition(c.Status, newStatus) {
		next := joinStatuses(domain.ValidNextStates(c.Status))
		if next == "" {
			next = "none"
		}
		return domain.Contract{}, domain.Rulef(
			"Invalid transition from %s to %s. Valid transitions: %s", c.Status, newStatus, next)
	}
	if newStatus == domain.StatusSigned {
		if missing := domain.MissingSignatures(c.Fields); len(missing) > 0 {
			return domain.Contract{}, domain.Rulef(
				"Cannot sign contract. Missing required signatures: %s", strings.Join(missing, ", "))
		}
	}

	now := time.Now().UTC()
	if note == "" {
		note = "Status changed to " + string(newStatus)
	}
	c.StatusHistory = append(c.StatusHistory, domain.HistoryEntry{
		Status:         newStatus,
		PreviousStatus: c.Status,
		Timestamp:      now,
		Note:           note,
	})
	prev := c.Status
	c.Status = newStatus
	c.UpdatedAt = now

	updated, err := e.replaceContract(ctx, c)
	if err != nil {
		return domain.Contract{}, err
	}
	e.log.Info("contract transitioned",
		zap.String("contractId", id),
		zap.String("from", string(prev)),
		zap.String("to", string(newStatus)))
	return updated, nil
}

// DeleteContract removes a draft. Any transition away from created, even
// approved, forecloses deletion so the audit trail survives.
func (e *Engine) DeleteContract(ctx context.Context, id string) error {
	c, err := e.GetContract(ctx, id)
	if err != nil {
		return err
	}
	if c.Status != domain.StatusCreated {
		return &domain.RuleError{Msg: `Can only delete contracts in "created" state`}
	}
	if err := e.store.DeleteContract(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &domain.NotFoundError{Kind: "Contract"}
		}
		return err
	}
	e.log.Info("contract deleted", zap.String("contractId", id))
	return nil
}

func (e *Engine) replaceContract(ctx context.Context, c domain.Contract) (domain.Contract, error) {
	updated, err := e.store.ReplaceContract(ctx, c)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domain.Contract{}, &domain.NotFoundError{Kind: "Contract"}
	case errors.Is(err, store.ErrVersionConflict):
		return domain.Contract{}, &domain.ConflictError{Kind: "Contract", ID: c.ID}
	case err != nil:
		return domain.Contract{}, err
	}
	return updated, nil
}

func joinStatuses(statuses []domain.Status) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
