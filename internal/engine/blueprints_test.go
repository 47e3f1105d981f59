package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RishiReddii/AgreementHub/internal/store"
	"github.com/RishiReddii/AgreementHub/pkg/domain"
)

func newTestEngine() *Engine {
	return New(store.NewMemory(), nil)
}

func strptr(s string) *string { return &s }

func sigBlueprint(t *testing.T, e *Engine) domain.Blueprint {
	t.Helper()
	b, err := e.CreateBlueprint(context.Background(), CreateBlueprintInput{
		Name: "NDA",
		Fields: []FieldInput{
			{Type: domain.FieldSignature, Label: "Signee", Required: true},
		},
	})
	require.NoError(t, err)
	return b
}

func TestCreateBlueprintValidation(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	_, err := e.CreateBlueprint(ctx, CreateBlueprintInput{Name: "  "})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Name is required", ve.Msg)

	_, err = e.CreateBlueprint(ctx, CreateBlueprintInput{Name: "X"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "At least one field is required", ve.Msg)

	_, err = e.CreateBlueprint(ctx, CreateBlueprintInput{
		Name:   "X",
		Fields: []FieldInput{{Type: "dropdown", Label: "L"}},
	})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Invalid field type: dropdown", ve.Msg)

	_, err = e.CreateBlueprint(ctx, CreateBlueprintInput{
		Name:   "X",
		Fields: []FieldInput{{Type: domain.FieldText, Label: "  "}},
	})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Each field must have a label", ve.Msg)
}

func TestCreateBlueprintDefaults(t *testing.T) {
	e := newTestEngine()
	b, err := e.CreateBlueprint(context.Background(), CreateBlueprintInput{
		Name:        "  Lease  ",
		Description: " monthly ",
		Fields: []FieldInput{
			{Type: domain.FieldText, Label: " Tenant "},
			{Type: domain.FieldDate, Label: "Start", Position: &domain.Position{X: 5, Y: 7}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Lease", b.Name)
	assert.Equal(t, "monthly", b.Description)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "Tenant", b.Fields[0].Label)
	assert.NotEmpty(t, b.Fields[0].ID)
	assert.Equal(t, domain.Position{X: 0, Y: 0}, b.Fields[0].Position)
	assert.Equal(t, domain.Position{X: 5, Y: 7}, b.Fields[1].Position)
	assert.False(t, b.Fields[0].Required)
}

func TestUpdateBlueprintPreservesFieldIDsPositionally(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	b, err := e.CreateBlueprint(ctx, CreateBlueprintInput{
		Name: "Form",
		Fields: []FieldInput{
			{Type: domain.FieldText, Label: "A"},
			{Type: domain.FieldText, Label: "B"},
		},
	})
	require.NoError(t, err)

	updated, err := e.UpdateBlueprint(ctx, b.ID, UpdateBlueprintInput{
		Fields: &[]FieldInput{
			{Type: domain.FieldText, Label: "A renamed"},
			{ID: b.Fields[1].ID, Type: domain.FieldDate, Label: "B typed"},
			{Type: domain.FieldCheckbox, Label: "C new"},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Fields, 3)

	assert.Equal(t, b.Fields[0].ID, updated.Fields[0].ID)
	assert.Equal(t, b.Fields[1].ID, updated.Fields[1].ID)
	assert.NotEmpty(t, updated.Fields[2].ID)
	assert.NotEqual(t, b.Fields[0].ID, updated.Fields[2].ID)
	assert.NotEqual(t, b.Fields[1].ID, updated.Fields[2].ID)
}

func TestUpdateBlueprintPartial(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	b := sigBlueprint(t, e)

	updated, err := e.UpdateBlueprint(ctx, b.ID, UpdateBlueprintInput{Description: strptr("mutual")})
	require.NoError(t, err)
	assert.Equal(t, "NDA", updated.Name)
	assert.Equal(t, "mutual", updated.Description)
	assert.Equal(t, b.Fields, updated.Fields)

	var ve *domain.ValidationError
	_, err = e.UpdateBlueprint(ctx, b.ID, UpdateBlueprintInput{Name: strptr(" ")})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Name cannot be empty", ve.Msg)
}

func TestBlueprintLockInAfterContractCreated(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	b := sigBlueprint(t, e)

	_, err := e.CreateContract(ctx, CreateContractInput{Name: "Deal", BlueprintID: b.ID})
	require.NoError(t, err)

	var re *domain.RuleError
	_, err = e.UpdateBlueprint(ctx, b.ID, UpdateBlueprintInput{Name: strptr("New name")})
	require.ErrorAs(t, err, &re)
	assert.Contains(t, re.Msg, "Cannot modify blueprint that has existing contracts")

	err = e.DeleteBlueprint(ctx, b.ID)
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Cannot delete blueprint that has existing contracts", re.Msg)
}

func TestDeleteBlueprintWithoutContracts(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	b := sigBlueprint(t, e)

	require.NoError(t, e.DeleteBlueprint(ctx, b.ID))

	var nf *domain.NotFoundError
	_, err := e.GetBlueprint(ctx, b.ID)
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Blueprint not found", nf.Error())
}

func TestBlueprintEditDoesNotTouchContracts(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	// two blueprints: one stays free of contracts and mutable
	free := sigBlueprint(t, e)
	used, err := e.CreateBlueprint(ctx, CreateBlueprintInput{
		Name:   "Used",
		Fields: []FieldInput{{Type: domain.FieldText, Label: "Body"}},
	})
	require.NoError(t, err)

	c, err := e.CreateContract(ctx, CreateContractInput{Name: "Deal", BlueprintID: used.ID})
	require.NoError(t, err)

	_, err = e.UpdateBlueprint(ctx, free.ID, UpdateBlueprintInput{
		Fields: &[]FieldInput{{Type: domain.FieldText, Label: "Totally different"}},
	})
	require.NoError(t, err)

	after, err := e.GetContract(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Fields, after.Fields)
	assert.Equal(t, "Used", after.BlueprintName)
}
