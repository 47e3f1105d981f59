package domain

import (
	"fmt"
	"strconv"
)

// FieldType is the kind of a blueprint field. The set is closed; new kinds
// are a schema change, not a runtime concern.
type FieldType string

const (
	FieldText      FieldType = "text"
	FieldDate      FieldType = "date"
	FieldSignature FieldType = "signature"
	FieldCheckbox  FieldType = "checkbox"
)

// AllFieldTypes lists the supported field kinds.
var AllFieldTypes = []FieldType{FieldText, FieldDate, FieldSignature, FieldCheckbox}

// ValidFieldType reports whether t is a supported field kind.
func ValidFieldType(t FieldType) bool {
	switch t {
	case FieldText, FieldDate, FieldSignature, FieldCheckbox:
		return true
	}
	return false
}

// Position is a layout hint carried through from the blueprint editor. It
// has no semantic meaning to the engine.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// FieldDefinition is a single labeled data slot owned by a blueprint.
type FieldDefinition struct {
	ID       string    `json:"id" bson:"id"`
	Type     FieldType `json:"type" bson:"type"`
	Label    string    `json:"label" bson:"label"`
	Position Position  `json:"position" bson:"position"`
	Required bool      `json:"required" bson:"required"`
}

// ContractField is a contract's private copy of a blueprint field plus the
// captured value. No reference back to the live blueprint field is kept.
type ContractField struct {
	ID       string    `json:"id" bson:"id"`
	Type     FieldType `json:"type" bson:"type"`
	Label    string    `json:"label" bson:"label"`
	Position Position  `json:"position" bson:"position"`
	Required bool      `json:"required" bson:"required"`
	Value    any       `json:"value" bson:"value"`
}

// Coerce turns a raw externally-supplied value into the field type's
// canonical stored value. Coercion never fails: the type set is fixed at
// blueprint-definition time, so there is no invalid-type path here.
//
//   - checkbox: true only for the boolean true or the string "true".
//   - date, signature: nil for absent or falsy input, otherwise the string
//     form of the input. No date-format validation happens at this layer.
//   - text: empty string for absent input, otherwise the string form.
func (t FieldType) Coerce(raw any) any {
	switch t {
	case FieldCheckbox:
		return raw == true || raw == "true"
	case FieldDate, FieldSignature:
		if falsy(raw) {
			return nil
		}
		return stringify(raw)
	default: // text
		if raw == nil {
			return ""
		}
		return stringify(raw)
	}
}

// falsy mirrors the loose emptiness check used throughout the boundary:
// nil, empty string, false, and numeric zero all count as absent.
func falsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case float64:
		return x == 0
	case int:
		return x == 0
	case int64:
		return x == 0
	}
	return false
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	}
	return fmt.Sprint(v)
}

// SnapshotFields copies a blueprint's field schema into contract fields,
// coercing any caller-supplied initial values. Fields with no supplied
// value coerce from absent. The copies are structurally independent of the
// source definitions.
func SnapshotFields(defs []FieldDefinition, initial map[string]any) []ContractField {
	fields := make([]ContractField, 0, len(defs))
	for _, def := range defs {
		fields = append(fields, ContractField{
			ID:       def.ID,
			Type:     def.Type,
			Label:    def.Label,
			Position: def.Position,
			Required: def.Required,
			Value:    def.Type.Coerce(initial[def.ID]),
		})
	}
	return fields
}

// MissingSignatures returns the labels of required signature fields that
// have no captured value, in field order. Only meaningful when a contract
// is about to enter the signed state.
func MissingSignatures(fields []ContractField) []string {
	var labels []string
	for _, f := range fields {
		if f.Type == FieldSignature && f.Required && falsy(f.Value) {
			labels = append(labels, f.Label)
		}
	}
	return labels
}
