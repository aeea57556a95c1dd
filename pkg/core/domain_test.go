package core_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/crosstalk/pkg/core"
)

func sample() core.Corpus {
	return core.Corpus{
		Dialogs: []core.Dialog{{Key: "Billing"}, {Key: "Support"}},
		Utterances: []core.Utterance{
			{ID: "u1", Text: "I want a refund now", DialogKey: "Support"},
			{ID: "u2", Text: "My screen is broken", DialogKey: "Support"},
			{ID: "u3", Text: "Send me the invoice", DialogKey: "Billing"},
		},
	}
}

func TestCorpus_Lookups(t *testing.T) {
	c := sample()

	assert.True(t, c.HasDialog("Billing"))
	assert.False(t, c.HasDialog("Sales"))

	owned := c.UtterancesOf("Support")
	require.Len(t, owned, 2)
	assert.Equal(t, "u1", owned[0].ID)
	assert.Empty(t, c.UtterancesOf("Sales"))
}

func TestCorpus_Resolve(t *testing.T) {
	c := sample()

	u, ok := c.Resolve(core.UtteranceRef{DialogKey: "Support", ID: "u2"})
	require.True(t, ok)
	assert.Equal(t, "My screen is broken", u.Text)

	_, ok = c.Resolve(core.UtteranceRef{DialogKey: "Billing", ID: "u2"})
	assert.False(t, ok, "ref must name the owning dialog")

	_, ok = c.Resolve(core.UtteranceRef{DialogKey: "Support"})
	assert.False(t, ok)
}

func TestCorpus_RefByText(t *testing.T) {
	c := sample()

	ref, ok := c.RefByText("Billing", "Send me the invoice")
	require.True(t, ok)
	assert.Equal(t, core.UtteranceRef{DialogKey: "Billing", ID: "u3"}, ref)

	_, ok = c.RefByText("Support", "Send me the invoice")
	assert.False(t, ok)
}

func TestCorpus_CloneIsIndependent(t *testing.T) {
	c := sample()
	clone := c.Clone()
	clone.Utterances[0].Text = "changed"
	clone.Dialogs[0].Key = "changed"

	assert.Equal(t, "I want a refund now", c.Utterances[0].Text)
	assert.Equal(t, "Billing", c.Dialogs[0].Key)
}

func TestErrors_Unwrap(t *testing.T) {
	verr := &core.ValidationError{Field: "dialog", Value: "Sales", Err: core.ErrUnknownDialog}
	assert.ErrorIs(t, verr, core.ErrUnknownDialog)
	assert.Contains(t, verr.Error(), `"Sales"`)

	var cerr error = &core.ContractError{Op: "set-action", Ref: core.UtteranceRef{DialogKey: "Billing", ID: "u1"}}
	assert.ErrorIs(t, cerr, core.ErrUtteranceNotFound)

	var target *core.ContractError
	require.True(t, errors.As(cerr, &target))
	assert.Equal(t, "set-action", target.Op)
}

func TestEvent_String(t *testing.T) {
	e := core.Event{Type: core.EventModify, ID: core.DocTodo}
	assert.Equal(t, "MODIFY todo", e.String())
}
