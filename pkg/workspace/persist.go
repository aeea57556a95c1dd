package workspace

import (
	"context"
	"fmt"

	"github.com/aretw0/crosstalk/pkg/core"
	"github.com/aretw0/crosstalk/pkg/corpus"
	"github.com/aretw0/crosstalk/pkg/keywords"
	"github.com/aretw0/crosstalk/pkg/ledger"
	"github.com/aretw0/crosstalk/pkg/typed"
)

// The persist helpers must be called with mu held.

func (w *Workspace) persistCorpus(ctx context.Context) error {
	if w.repo == nil {
		return nil
	}
	doc, err := corpus.ToDocument(w.corpus)
	if err != nil {
		return err
	}
	if err := w.repo.Save(ctx, doc); err != nil {
		return fmt.Errorf("persist %s: %w", core.DocCorpus, err)
	}
	return nil
}

func (w *Workspace) persistKeywords(ctx context.Context) error {
	if w.keywordDocs == nil {
		return nil
	}
	doc := &typed.DocumentModel[keywords.Snapshot]{ID: core.DocKeywords, Data: w.registry.Snapshot()}
	if err := w.keywordDocs.Save(ctx, doc); err != nil {
		return fmt.Errorf("persist %s: %w", core.DocKeywords, err)
	}
	return nil
}

func (w *Workspace) persistTodo(ctx context.Context) error {
	if w.todoDocs == nil {
		return nil
	}
	doc := &typed.DocumentModel[ledger.Snapshot]{ID: core.DocTodo, Data: w.ledger.Snapshot()}
	if err := w.todoDocs.Save(ctx, doc); err != nil {
		return fmt.Errorf("persist %s: %w", core.DocTodo, err)
	}
	return nil
}
