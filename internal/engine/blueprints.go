package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RishiReddii/AgreementHub/internal/store"
	"github.com/RishiReddii/AgreementHub/pkg/domain"
)

// FieldInput is a caller-supplied field definition. ID may be empty; a
// fresh one is generated so fields can be appended or reordered without
// colliding with identity-linked history elsewhere.
type FieldInput struct {
	ID       string           `json:"id"`
	Type     domain.FieldType `json:"type"`
	Label    string           `json:"label"`
	Position *domain.Position `json:"position"`
	Required bool             `json:"required"`
}

type CreateBlueprintInput struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Fields      []FieldInput `json:"fields"`
}

// UpdateBlueprintInput uses pointers to distinguish "not supplied" from
// "supplied empty": absent members leave the blueprint untouched.
type UpdateBlueprintInput struct {
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Fields      *[]FieldInput `json:"fields"`
}

// validateFields is the structural gate every blueprint write passes:
// a non-empty field list, known types, non-empty labels.
func validateFields(fields []FieldInput) error {
	if len(fields) == 0 {
		return &domain.ValidationError{Msg: "At least one field is required"}
	}
	for _, f := range fields {
		if !domain.ValidFieldType(f.Type) {
			return domain.Validationf("Invalid field type: %s", f.Type)
		}
		if strings.TrimSpace(f.Label) == "" {
			return &domain.ValidationError{Msg: "Each field must have a label"}
		}
	}
	return nil
}

func fieldPosition(f FieldInput, index int) domain.Position {
	if f.Position != nil {
		return *f.Position
	}
	return domain.Position{X: 0, Y: float64(index * 60)}
}

// canMutateBlueprint reports whether the blueprint has zero referencing
// contracts. The count is queried live on every call: the first contract
// created from a blueprint makes it permanently immutable, and a cached
// flag could miss that moment.
func (e *Engine) canMutateBlueprint(ctx context.Context, id string) (bool, error) {
	n, err := e.store.CountContractsByBlueprint(ctx, id)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (e *Engine) ListBlueprints(ctx context.Context) ([]domain.Blueprint, error) {
	return e.store.ListBlueprints(ctx, listLimit)
}

func (e *Engine) GetBlueprint(ctx context.Context, id string) (domain.Blueprint, error) {
	b, err := e.store.GetBlueprint(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Blueprint{}, &domain.NotFoundError{Kind: "Blueprint"}
	}
	return b, err
}

func (e *Engine) CreateBlueprint(ctx context.Context, in CreateBlueprintInput) (domain.Blueprint, error) {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Blueprint{}, &domain.ValidationError{Msg: "Name is required"}
	}
	if err := validateFields(in.Fields); err != nil {
		return domain.Blueprint{}, err
	}

	now := time.Now().UTC()
	b := domain.Blueprint{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Fields:      make([]domain.FieldDefinition, 0, len(in.Fields)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i, f := range in.Fields {
		id := f.ID
		if id == "" {
			id = uuid.NewString()
		}
		b.Fields = append(b.Fields, domain.FieldDefinition{
			ID:       id,
			Type:     f.Type,
			Label:    strings.TrimSpace(f.Label),
			Position: fieldPosition(f, i),
			Required: f.Required,
		})
	}

	if err := e.store.InsertBlueprint(ctx, b); err != nil {
		return domain.Blueprint{}, err
	}
	e.log.Info("blueprint created",
		zap.String("blueprintId", b.ID),
		zap.Int("fields", len(b.Fields)))
	return b, nil
}

func (e *Engine) UpdateBlueprint(ctx context.Context, id string, in UpdateBlueprintInput) (domain.Blueprint, error) {
	existing, err := e.GetBlueprint(ctx, id)
	if err != nil {
		return domain.Blueprint{}, err
	}

	ok, err := e.canMutateBlueprint(ctx, id)
	if err != nil {
		return domain.Blueprint{}, err
	}
	if !ok {
		return domain.Blueprint{}, &domain.RuleError{
			Msg: "Cannot modify blueprint that has existing contracts. Create a new version instead.",
		}
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return domain.Blueprint{}, &domain.ValidationError{Msg: "Name cannot be empty"}
	}
	if in.Fields != nil {
		if err := validateFields(*in.Fields); err != nil {
			return domain.Blueprint{}, err
		}
	}

	if in.Name != nil {
		existing.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		existing.Description = strings.TrimSpace(*in.Description)
	}
	if in.Fields != nil {
		// Identifiers are preserved positionally where the caller omits
		// them, so reordering or appending keeps field identity intact.
		prior := existing.Fields
		next := make([]domain.FieldDefinition, 0, len(*in.Fields))
		for i, f := range *in.Fields {
			id := f.ID
			if id == "" && i < len(prior) {
				id = prior[i].ID
			}
			if id == "" {
				id = uuid.NewString()
			}
			next = append(next, domain.FieldDefinition{
				ID:       id,
				Type:     f.Type,
				Label:    strings.TrimSpace(f.Label),
				Position: fieldPosition(f, i),
				Required: f.Required,
			})
		}
		existing.Fields = next
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := e.store.UpdateBlueprint(ctx, existing); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Blueprint{}, &domain.NotFoundError{Kind: "Blueprint"}
		}
		return domain.Blueprint{}, err
	}
	e.log.Info("blueprint updated", zap.String("blueprintId", id))
	return existing, nil
}

func (e *Engine) DeleteBlueprint(ctx context.Context, id string) error {
	if _, err := e.GetBlueprint(ctx, id); err != nil {
		return err
	}
	ok, err := e.canMutateBlueprint(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.RuleError{Msg: "Cannot delete blueprint that has existing contracts"}
	}
	if err := e.store.DeleteBlueprint(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &domain.NotFoundError{Kind: "Blueprint"}
		}
		return fmt.Errorf("delete blueprint: %w", err)
	}
	e.log.Info("blueprint deleted", zap.String("blueprintId", id))
	return nil
}
