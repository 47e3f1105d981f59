package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RishiReddii/AgreementHub/pkg/domain"
)

func TestCreateContractValidation(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	var ve *domain.ValidationError
	_, err := e.CreateContract(ctx, CreateContractInput{Name: " ", BlueprintID: "x"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Contract name is required", ve.Msg)

	_, err = e.CreateContract(ctx, CreateContractInput{Name: "Deal"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Blueprint ID is required", ve.Msg)

	var nf *domain.NotFoundError
	_, err = e.CreateContract(ctx, CreateContractInput{Name: "Deal", BlueprintID: "missing"})
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Blueprint not found", nf.Error())
}

func TestCreateContractSnapshotsBlueprint(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	b, err := e.CreateBlueprint(ctx, CreateBlueprintInput{
		Name: "Offer",
		Fields: []FieldInput{
			{Type: domain.FieldText, Label: "Candidate"},
			{Type: domain.FieldCheckbox, Label: "Remote"},
			{Type: domain.FieldSignature, Label: "Signee", Required: true},
		},
	})
	require.NoError(t, err)

	c, err := e.CreateContract(ctx, CreateContractInput{
		Name:        "Offer for Jane",
		BlueprintID: b.ID,
		FieldValues: map[string]any{
			b.Fields[0].ID: "Jane Doe",
			b.Fields[1].ID: "true",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCreated, c.Status)
	assert.Equal(t, b.ID, c.BlueprintID)
	assert.Equal(t, "Offer", c.BlueprintName)
	require.Len(t, c.Fields, 3)
	assert.Equal(t, "Jane Doe", c.Fields[0].Value)
	assert.Equal(t, true, c.Fields[1].Value)
	assert.Nil(t, c.Fields[2].Value)

	require.Len(t, c.StatusHistory, 1)
	genesis := c.StatusHistory[0]
	assert.Equal(t, domain.StatusCreated, genesis.Status)
	assert.Empty(t, genesis.PreviousStatus)
	assert.Equal(t, "Contract created", genesis.Note)

	// editing contract values must never reach the blueprint
	_, err = e.UpdateContract(ctx, c.ID, UpdateContractInput{
		FieldValues: map[string]any{b.Fields[0].ID: "Someone Else"},
	})
	require.NoError(t, err)
	bp, err := e.GetBlueprint(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Fields, bp.Fields)
}

func TestUpdateContractFieldValues(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	b, err := e.CreateBlueprint(ctx, CreateBlueprintInput{
		Name: "Form",
		Fields: []FieldInput{
			{Type: domain.FieldText, Label: "A"},
			{Type: domain.FieldDate, Label: "B"},
		},
	})
	require.NoError(t, err)
	c, err := e.CreateContract(ctx, CreateContractInput{
		Name:        "F1",
		BlueprintID: b.ID,
		FieldValues: map[string]any{b.Fields[0].ID: "keep me"},
	})
	require.NoError(t, err)

	updated, err := e.UpdateContract(ctx, c.ID, UpdateContractInput{
		Name:        strptr("F1 renamed"),
		FieldValues: map[string]any{b.Fields[1].ID: "2025-03-01"},
	})
	require.NoError(t, err)
	assert.Equal(t, "F1 renamed", updated.Name)
	assert.Equal(t, "keep me", updated.Fields[0].Value, "unmentioned fields retain their value")
	assert.Equal(t, "2025-03-01", updated.Fields[1].Value)
	assert.Equal(t, domain.StatusCreated, updated.Status)
	assert.Len(t, updated.StatusHistory, 1)

	var ve *domain.ValidationError
	_, err = e.UpdateContract(ctx, c.ID, UpdateContractInput{Name: strptr("  ")})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Name cannot be empty", ve.Msg)
}

func TestTransitionHappyPathAndAudit(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	b, err := e.CreateBlueprint(ctx, CreateBlueprintInput{
		Name:   "Plain",
		Fields: []FieldInput{{Type: domain.FieldText, Label: "Body"}},
	})
	require.NoError(t, err)
	c, err := e.CreateContract(ctx, CreateContractInput{Name: "Deal", BlueprintID: b.ID})
	require.NoError(t, err)

	steps := []domain.Status{domain.StatusApproved, domain.StatusSent, domain.StatusSigned, domain.StatusLocked}
	prev := domain.StatusCreated
	for i, next := range steps {
		c, err = e.Transition(ctx, c.ID, next, "")
		require.NoError(t, err, "transition to %s", next)
		assert.Equal(t, next, c.Status)
		require.Len(t, c.StatusHistory, i+2, "history grows by exactly one")
		entry := c.StatusHistory[len(c.StatusHistory)-1]
		assert.Equal(t, next, entry.Status)
		assert.Equal(t, prev, entry.PreviousStatus)
		assert.Equal(t, "Status changed to "+string(next), entry.Note)
		prev = next
	}

	// genesis entry is untouched at the front
	assert.Equal(t, domain.StatusCreated, c.StatusHistory[0].Status)
	assert.Empty(t, c.StatusHistory[0].PreviousStatus)
}

func TestTransitionCustomNote(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	b, err := e.CreateBlueprint(ctx, CreateBlueprintInput{
		Name:   "Plain",
		Fields: []FieldInput{{Type: domain.FieldText, Label: "Body"}},
	})
	require.NoError(t, err)
	c, err := e.CreateContract(ctx, CreateContractInput{Name: "Deal", BlueprintID: b.ID})
	require.NoError(t, err)

	c, err = e.Transition(ctx, c.ID, domain.StatusApproved, "legal reviewed")
	require.NoError(t, err)
	assert.Equal(t, "legal reviewed", c.StatusHistory[1].Note)
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	var ve *domain.ValidationError
	_, err := e.Transition(ctx, "any", "", "")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "New status is required", ve.Msg)

	_, err = e.Transition(ctx, "any", "archived", "")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Invalid status. Must be one of: created, approved, sent, signed, locked, revoked", ve.Msg)
}

func TestTransitionInvalidEdgeListsNextStates(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	b, err := e.CreateBlueprint(ctx, CreateBlueprintInput{
		Name:   "Plain",
		Fields: []FieldInput{{Type: domain.FieldText, Label: "Body"}},
	})
	require.NoError(t, err)
	c, err := e.CreateContract(ctx, CreateContractInput{Name: "Deal", BlueprintID: b.ID})
	require.NoError(t, err)
	c, err = e.Transition(ctx, c.ID, domain.StatusApproved, "")
	require.NoError(t, err)

	var re *domain.RuleError
	_, err = e.Transition(ctx, c.ID, domain.StatusLocked, "")
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Invalid transition from approved to locked. Valid transitions: sent, revoked", re.Msg)

	after, err := e.GetContract(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, after.Status)
	assert.Len(t, after.StatusHistory, 2, "failed transition appends nothing")
}

func TestTransitionSignedRequiresSignatures(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	b := sigBlueprint(t, e)
	c, err := e.CreateContract(ctx, CreateContractInput{Name: "NDA with Jane", BlueprintID: b.ID})
	require.NoError(t, err)

	c, err = e.Transition(ctx, c.ID, domain.StatusApproved, "")
	require.NoError(t, err)
	c, err = e.Transition(ctx, c.ID, domain.StatusSent, "")
	require.NoError(t, err)

	var re *domain.RuleError
	_, err = e.Transition(ctx, c.ID, domain.StatusSigned, "")
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Cannot sign contract. Missing required signatures: Signee", re.Msg)

	_, err = e.UpdateContract(ctx, c.ID, UpdateContractInput{
		FieldValues: map[string]any{b.Fields[0].ID: "Jane Doe"},
	})
	require.NoError(t, err)

	c, err = e.Transition(ctx, c.ID, domain.StatusSigned, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSigned, c.Status)
	assert.Len(t, c.StatusHistory, 4)
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	b, err := e.CreateBlueprint(ctx, CreateBlueprintInput{
		Name:   "Plain",
		Fields: []FieldInput{{Type: domain.FieldText, Label: "Body"}},
	})
	require.NoError(t, err)
	c, err := e.CreateContract(ctx, CreateContractInput{Name: "Deal", BlueprintID: b.ID})
	require.NoError(t, err)
	c, err = e.Transition(ctx, c.ID, domain.StatusRevoked, "")
	require.NoError(t, err)

	var re *domain.RuleError
	_, err = e.UpdateContract(ctx, c.ID, UpdateContractInput{Name: strptr("x")})
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Cannot modify contract in revoked state", re.Msg)

	for _, next := range domain.AllStatuses {
		_, err = e.Transition(ctx, c.ID, next, "")
		require.ErrorAs(t, err, &re, "transition to %s", next)
		assert.Equal(t, "Contract is revoked and cannot be modified", re.Msg)
	}
}

func TestDeleteContractOnlyWhileCreated(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	b, err := e.CreateBlueprint(ctx, CreateBlueprintInput{
		Name:   "Plain",
		Fields: []FieldInput{{Type: domain.FieldText, Label: "Body"}},
	})
	require.NoError(t, err)

	c, err := e.CreateContract(ctx, CreateContractInput{Name: "Draft", BlueprintID: b.ID})
	require.NoError(t, err)
	require.NoError(t, e.DeleteContract(ctx, c.ID))

	c2, err := e.CreateContract(ctx, CreateContractInput{Name: "Approved one", BlueprintID: b.ID})
	require.NoError(t, err)
	_, err = e.Transition(ctx, c2.ID, domain.StatusApproved, "")
	require.NoError(t, err)

	var re *domain.RuleError
	err = e.DeleteContract(ctx, c2.ID)
	require.ErrorAs(t, err, &re)
	assert.Equal(t, `Can only delete contracts in "created" state`, re.Msg)
}

func TestListContractsFilters(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	b, err := e.CreateBlueprint(ctx, CreateBlueprintInput{
		Name:   "Plain",
		Fields: []FieldInput{{Type: domain.FieldText, Label: "Body"}},
	})
	require.NoError(t, err)

	c1, err := e.CreateContract(ctx, CreateContractInput{Name: "one", BlueprintID: b.ID})
	require.NoError(t, err)
	c2, err := e.CreateContract(ctx, CreateContractInput{Name: "two", BlueprintID: b.ID})
	require.NoError(t, err)
	_, err = e.Transition(ctx, c1.ID, domain.StatusApproved, "")
	require.NoError(t, err)
	_, err = e.Transition(ctx, c2.ID, domain.StatusApproved, "")
	require.NoError(t, err)
	_, err = e.Transition(ctx, c2.ID, domain.StatusSent, "")
	require.NoError(t, err)

	active, err := e.ListContracts(ctx, ListContractsFilter{Category: "active"})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, c2.ID, active[0].ID)

	pending, err := e.ListContracts(ctx, ListContractsFilter{Category: "pending"})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	byStatus, err := e.ListContracts(ctx, ListContractsFilter{Status: "sent"})
	require.NoError(t, err)
	assert.Len(t, byStatus, 1)

	byBlueprint, err := e.ListContracts(ctx, ListContractsFilter{BlueprintID: b.ID})
	require.NoError(t, err)
	assert.Len(t, byBlueprint, 2)

	unknownCategory, err := e.ListContracts(ctx, ListContractsFilter{Category: "bogus"})
	require.NoError(t, err)
	assert.Len(t, unknownCategory, 2, "unknown category does not narrow")
}

func TestStats(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	b, err := e.CreateBlueprint(ctx, CreateBlueprintInput{
		Name:   "Plain",
		Fields: []FieldInput{{Type: domain.FieldText, Label: "Body"}},
	})
	require.NoError(t, err)

	c1, err := e.CreateContract(ctx, CreateContractInput{Name: "one", BlueprintID: b.ID})
	require.NoError(t, err)
	_, err = e.CreateContract(ctx, CreateContractInput{Name: "two", BlueprintID: b.ID})
	require.NoError(t, err)
	_, err = e.Transition(ctx, c1.ID, domain.StatusApproved, "")
	require.NoError(t, err)

	s, err := e.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), s.TotalContracts)
	assert.Equal(t, int64(1), s.TotalBlueprints)
	assert.Equal(t, int64(1), s.ByStatus[domain.StatusCreated])
	assert.Equal(t, int64(1), s.ByStatus[domain.StatusApproved])
	assert.Equal(t, int64(0), s.ByStatus[domain.StatusLocked], "statuses are zero-filled")
	assert.Len(t, s.ByStatus, len(domain.AllStatuses))
	assert.Equal(t, int64(2), s.ByCategory[domain.CategoryPending])
	assert.Equal(t, int64(0), s.ByCategory[domain.CategoryActive])
}
