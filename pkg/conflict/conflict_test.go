package conflict_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/crosstalk/pkg/conflict"
	"github.com/aretw0/crosstalk/pkg/core"
	"github.com/aretw0/crosstalk/pkg/ledger"
	"github.com/aretw0/crosstalk/pkg/match"
)

func sampleCorpus() core.Corpus {
	return core.Corpus{
		Dialogs: []core.Dialog{
			{Key: "Billing", ServiceKey: "Payments"},
			{Key: "Support", ServiceKey: "Care"},
			{Key: "Sales", ServiceKey: "Care"},
		},
		Utterances: []core.Utterance{
			{ID: "b1", Text: "I need my invoice", DialogKey: "Billing"},
			{ID: "s1", Text: "I want a refund now", DialogKey: "Support"},
			{ID: "s2", Text: "My screen is broken", DialogKey: "Support"},
			{ID: "a1", Text: "Can I get a refund discount?", DialogKey: "Sales"},
		},
	}
}

func TestScan(t *testing.T) {
	r := conflict.Scan(sampleCorpus(), "Billing", []string{"refund"})

	t.Run("Active Dialog Is Never A Key", func(t *testing.T) {
		_, ok := r.Results["Billing"]
		assert.False(t, ok)
		assert.Equal(t, []string{"Support", "Sales"}, r.Order)
	})

	t.Run("Utterances Keep Order", func(t *testing.T) {
		assert.Equal(t, []conflict.Match{
			{Utterance: "I want a refund now", Percentage: 100},
			{Utterance: "My screen is broken", Percentage: 0},
		}, r.Results["Support"])
	})

	t.Run("Punctuation Is Stripped Before Matching", func(t *testing.T) {
		assert.Equal(t, match.Percentage(100), r.Results["Sales"][0].Percentage)
	})

	t.Run("Empty Keywords Score Zero", func(t *testing.T) {
		empty := conflict.Scan(sampleCorpus(), "Billing", nil)
		for _, key := range empty.Order {
			for _, m := range empty.Results[key] {
				assert.Equal(t, match.Percentage(0), m.Percentage)
			}
		}
	})

	t.Run("Dialog Without Utterances Gets Empty List", func(t *testing.T) {
		c := sampleCorpus()
		c.Dialogs = append(c.Dialogs, core.Dialog{Key: "Empty"})
		got := conflict.Scan(c, "Billing", []string{"refund"})
		require.Contains(t, got.Results, "Empty")
		assert.Empty(t, got.Results["Empty"])
	})
}

func TestAggregation(t *testing.T) {
	r := conflict.Scan(sampleCorpus(), "Billing", []string{"refund"})
	support := r.Results["Support"]

	t.Run("Untouched", func(t *testing.T) {
		assert.Equal(t, 1, conflict.PositiveMatchCount(support, "Billing", nil))
		assert.Equal(t, 0, conflict.ChangeCount(support, "Billing", nil))
		assert.False(t, conflict.IsResolved(support, "Billing", nil))
		assert.Equal(t, 2, conflict.ConflictingDialogCount(r, nil))
	})

	t.Run("Removing The Positive Utterance Resolves", func(t *testing.T) {
		l := ledger.New()
		_, _, err := l.SetAction("I want a refund now", ledger.RemoveAction())
		require.NoError(t, err)
		todo := l.Snapshot()

		assert.Equal(t, 0, conflict.PositiveMatchCount(support, "Billing", todo))
		assert.Equal(t, 1, conflict.ChangeCount(support, "Billing", todo))
		assert.True(t, conflict.IsResolved(support, "Billing", todo))
		assert.Equal(t, 1, conflict.ConflictingDialogCount(r, todo))
	})

	t.Run("Flag Only Resolves For Its Source", func(t *testing.T) {
		l := ledger.New()
		l.ToggleFlag("I want a refund now", "Sales")
		todo := l.Snapshot()
		assert.False(t, conflict.IsResolved(support, "Billing", todo))

		l.ToggleFlag("I want a refund now", "Billing")
		assert.True(t, conflict.IsResolved(support, "Billing", l.Snapshot()))
	})

	t.Run("Extra Change On A Zero Match Breaks Strict Equality", func(t *testing.T) {
		l := ledger.New()
		_, _, err := l.SetAction("I want a refund now", ledger.RemoveAction())
		require.NoError(t, err)
		_, _, err = l.SetAction("My screen is broken", ledger.EditAction("My display is broken"))
		require.NoError(t, err)

		assert.Equal(t, 2, conflict.ChangeCount(support, "Billing", l.Snapshot()))
		assert.False(t, conflict.IsResolved(support, "Billing", l.Snapshot()))
	})
}

func TestSummarize(t *testing.T) {
	r := conflict.Scan(sampleCorpus(), "Billing", []string{"refund"})

	s := conflict.Summarize(r, nil)
	assert.Equal(t, conflict.StateUnresolved, s.State)
	assert.Equal(t, 2, s.Conflicts)
	assert.Equal(t, 2, s.Conflicting)

	l := ledger.New()
	_, _, err := l.SetAction("I want a refund now", ledger.MoveAction("Billing"))
	require.NoError(t, err)
	s = conflict.Summarize(r, l.Snapshot())
	assert.Equal(t, conflict.StatePartial, s.State)
	require.Len(t, s.Dialogs, 2)
	assert.Equal(t, conflict.StateResolved, s.Dialogs[0].State)
	assert.Equal(t, conflict.StateUnresolved, s.Dialogs[1].State)

	l.ToggleFlag("Can I get a refund discount?", "Billing")
	s = conflict.Summarize(r, l.Snapshot())
	assert.Equal(t, conflict.StateResolved, s.State)
	assert.True(t, s.Resolved)
	assert.Equal(t, 0, s.Pending)

	clean := conflict.Summarize(conflict.Scan(sampleCorpus(), "Billing", []string{"warranty"}), nil)
	assert.Equal(t, conflict.StateClean, clean.State)
}

func TestDisplay(t *testing.T) {
	l := ledger.New()
	const u = "I want a refund now"

	assert.Equal(t, conflict.DisplayPending, conflict.DisplayFor(l.Snapshot(), u, "Billing"))

	_, _, err := l.SetAction(u, ledger.EditAction("I want my money back"))
	require.NoError(t, err)
	assert.Equal(t, conflict.DisplayEdited, conflict.DisplayFor(l.Snapshot(), u, "Billing"))

	l.ToggleFlag(u, "Billing")
	assert.Equal(t, conflict.DisplayFlagged, conflict.DisplayFor(l.Snapshot(), u, "Billing"))
	assert.Equal(t, conflict.DisplayEdited, conflict.DisplayFor(l.Snapshot(), u, "Sales"))

	_, _, err = l.SetAction(u, ledger.MoveAction("Billing"))
	require.NoError(t, err)
	assert.Equal(t, conflict.DisplayMoved, conflict.DisplayFor(l.Snapshot(), u, "Sales"))

	_, _, err = l.SetAction(u, ledger.RemoveAction())
	require.NoError(t, err)
	assert.Equal(t, conflict.DisplayDeleted, conflict.DisplayFor(l.Snapshot(), u, "Sales"))
}

func TestExclusiveWords(t *testing.T) {
	words := conflict.ExclusiveWords(sampleCorpus())

	assert.Equal(t, []string{"need", "my", "invoice"}, words["Billing"])
	assert.Equal(t, []string{"want", "now", "My", "screen", "is", "broken"}, words["Support"])
	assert.Equal(t, []string{"Can", "get", "discount?"}, words["Sales"])
}

func TestFilter(t *testing.T) {
	r := conflict.Scan(sampleCorpus(), "Billing", []string{"refund"})

	got, err := conflict.Filter(r, "S*")
	require.NoError(t, err)
	assert.Equal(t, []string{"Support", "Sales"}, got.Order)

	got, err = conflict.Filter(r, "Sup*")
	require.NoError(t, err)
	assert.Equal(t, []string{"Support"}, got.Order)
	assert.NotContains(t, got.Results, "Sales")

	_, err = conflict.Filter(r, "[")
	var verr *core.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func BenchmarkScan(b *testing.B) {
	c := core.Corpus{}
	for d := 0; d < 50; d++ {
		key := fmt.Sprintf("dialog-%02d", d)
		c.Dialogs = append(c.Dialogs, core.Dialog{Key: key})
		for u := 0; u < 40; u++ {
			c.Utterances = append(c.Utterances, core.Utterance{
				ID:        fmt.Sprintf("%s-%d", key, u),
				Text:      fmt.Sprintf("please help me with order %d and the refund for item %d", u, d),
				DialogKey: key,
			})
		}
	}
	kw := []string{"refund", "order", "invoice"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		conflict.Scan(c, "dialog-00", kw)
	}
}
