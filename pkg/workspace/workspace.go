// Package workspace owns the mutable state of a crosstalk project: the corpus
// snapshot, the keyword profiles and the resolution ledger. Every read observes
// the last completed write, and every successful write is persisted through the
// core.Repository before it returns.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/crosstalk/pkg/conflict"
	"github.com/aretw0/crosstalk/pkg/core"
	"github.com/aretw0/crosstalk/pkg/corpus"
	"github.com/aretw0/crosstalk/pkg/keywords"
	"github.com/aretw0/crosstalk/pkg/ledger"
	"github.com/aretw0/crosstalk/pkg/match"
	"github.com/aretw0/crosstalk/pkg/typed"
)

// ErrMoveToOwner rejects moving an utterance to the dialog that already owns it.
var ErrMoveToOwner = errors.New("utterance already belongs to that dialog")

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workspace) {
		w.logger = logger
	}
}

// Workspace is safe for concurrent use.
type Workspace struct {
	mu       sync.RWMutex
	repo     core.Repository
	logger   *slog.Logger
	corpus   core.Corpus
	registry *keywords.Registry
	ledger   *ledger.Ledger

	keywordDocs *typed.Repository[keywords.Snapshot]
	todoDocs    *typed.Repository[ledger.Snapshot]
}

// New creates an empty workspace. A nil repo keeps everything in memory.
func New(repo core.Repository, opts ...Option) *Workspace {
	w := &Workspace{
		repo:     repo,
		registry: keywords.NewRegistry(),
		ledger:   ledger.New(),
	}
	if repo != nil {
		w.keywordDocs = typed.NewRepository[keywords.Snapshot](repo)
		w.todoDocs = typed.NewRepository[ledger.Snapshot](repo)
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Load replaces the in-memory state with the persisted documents.
// Missing documents load as empty.
func (w *Workspace) Load(ctx context.Context) error {
	if w.repo == nil {
		return nil
	}

	c := core.Corpus{}
	doc, err := w.repo.Get(ctx, core.DocCorpus)
	switch {
	case errors.Is(err, core.ErrNotFound):
	case err != nil:
		return fmt.Errorf("load corpus: %w", err)
	default:
		if c, err = corpus.FromDocument(doc); err != nil {
			return err
		}
	}

	kw := keywords.Snapshot{}
	if m, err := w.keywordDocs.Get(ctx, core.DocKeywords); err == nil {
		kw = m.Data
	} else if !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("load keywords: %w", err)
	}

	todo := ledger.Snapshot{}
	if m, err := w.todoDocs.Get(ctx, core.DocTodo); err == nil {
		todo = m.Data
	} else if !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("load todo: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.corpus = c
	w.registry.Restore(kw)
	w.registry.RecomputeAll(c.Utterances)
	w.ledger.Restore(todo)
	w.debug("workspace loaded", "utterances", len(c.Utterances), "dialogs", len(c.Dialogs), "todo", w.ledger.Len())
	return nil
}

// SetCorpus replaces the corpus and recomputes the statuses of every dialog
// that has a keyword profile.
func (w *Workspace) SetCorpus(ctx context.Context, c core.Corpus) error {
	c = c.Clone()
	corpus.AssignIDs(&c)

	w.mu.Lock()
	defer w.mu.Unlock()

	prevCorpus, prevKw := w.corpus, w.registry.Snapshot()
	w.corpus = c
	w.registry.RecomputeAll(c.Utterances)

	if err := w.persistCorpus(ctx); err != nil {
		w.corpus = prevCorpus
		w.registry.Restore(prevKw)
		return err
	}
	if err := w.persistKeywords(ctx); err != nil {
		w.corpus = prevCorpus
		w.registry.Restore(prevKw)
		return err
	}
	return nil
}

// Corpus returns a copy of the current corpus.
func (w *Workspace) Corpus() core.Corpus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.corpus.Clone()
}

// AddKeyword adds kw to the profile of dialogKey and recomputes its statuses.
// Adding a keyword the profile already has is not an error; added is false.
func (w *Workspace) AddKeyword(ctx context.Context, dialogKey, kw string) (added bool, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireDialog("dialog", dialogKey); err != nil {
		return false, err
	}
	prev := w.registry.Snapshot()
	added, err = w.registry.AddKeyword(dialogKey, kw, w.corpus.Utterances)
	if err != nil || !added {
		return false, err
	}
	if err := w.persistKeywords(ctx); err != nil {
		w.registry.Restore(prev)
		return false, err
	}
	return true, nil
}

// RemoveKeyword removes kw from the profile of dialogKey and recomputes its statuses.
func (w *Workspace) RemoveKeyword(ctx context.Context, dialogKey, kw string) (removed bool, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireDialog("dialog", dialogKey); err != nil {
		return false, err
	}
	prev := w.registry.Snapshot()
	if !w.registry.RemoveKeyword(dialogKey, kw, w.corpus.Utterances) {
		return false, nil
	}
	if err := w.persistKeywords(ctx); err != nil {
		w.registry.Restore(prev)
		return false, err
	}
	return true, nil
}

// Keywords returns the profile of dialogKey.
func (w *Workspace) Keywords(dialogKey string) []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.registry.Keywords(dialogKey)
}

// Statuses returns the cached per-utterance percentages of dialogKey.
func (w *Workspace) Statuses(dialogKey string) map[string]match.Percentage {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, _ := w.registry.Entry(dialogKey)
	return e.Statuses
}

// KeywordsByDialog returns a copy of every profile and its statuses.
func (w *Workspace) KeywordsByDialog() keywords.Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.registry.Snapshot()
}

// Scan scores every other dialog against the profile of dialogKey.
func (w *Workspace) Scan(dialogKey string) (conflict.Report, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if err := w.requireDialog("dialog", dialogKey); err != nil {
		return conflict.Report{}, err
	}
	return conflict.Scan(w.corpus, dialogKey, w.registry.Keywords(dialogKey)), nil
}

// Summary aggregates the scan of dialogKey against the ledger.
func (w *Workspace) Summary(dialogKey string) (conflict.Summary, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if err := w.requireDialog("dialog", dialogKey); err != nil {
		return conflict.Summary{}, err
	}
	r := conflict.Scan(w.corpus, dialogKey, w.registry.Keywords(dialogKey))
	return conflict.Summarize(r, w.ledger.Snapshot()), nil
}

// Summaries aggregates every dialog that has a keyword profile, in key order.
func (w *Workspace) Summaries() []conflict.Summary {
	w.mu.RLock()
	defer w.mu.RUnlock()
	todo := w.ledger.Snapshot()
	out := []conflict.Summary{}
	for _, key := range w.registry.Dialogs() {
		if !w.corpus.HasDialog(key) {
			continue
		}
		r := conflict.Scan(w.corpus, key, w.registry.Keywords(key))
		out = append(out, conflict.Summarize(r, todo))
	}
	return out
}

// SetAction records a remediation action for the utterance ref points to.
// Requesting the kind already recorded clears it whatever its parameters, so
// the move target is only checked when a move is being set. ok is false when
// the ledger no longer holds an entry for the utterance.
func (w *Workspace) SetAction(ctx context.Context, ref core.UtteranceRef, a ledger.Action) (e ledger.Entry, ok bool, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	u, err := w.resolve("set-action", ref)
	if err != nil {
		return ledger.Entry{}, false, err
	}
	stored, _ := w.ledger.Get(u.Text)
	clearing := !stored.Action.IsNone() && stored.Action.Kind == a.Kind
	if a.Kind == ledger.Move && a.TargetDialog != "" && !clearing {
		if err := w.requireDialog("target", a.TargetDialog); err != nil {
			return ledger.Entry{}, false, err
		}
		if a.TargetDialog == u.DialogKey {
			return ledger.Entry{}, false, &core.ValidationError{Field: "target", Value: a.TargetDialog, Err: ErrMoveToOwner}
		}
	}

	prev := w.ledger.Snapshot()
	e, ok, err = w.ledger.SetAction(u.Text, a)
	if err != nil {
		return ledger.Entry{}, false, &core.ValidationError{Field: "action", Value: string(a.Kind), Err: err}
	}
	if err := w.persistTodo(ctx); err != nil {
		w.ledger.Restore(prev)
		return ledger.Entry{}, false, err
	}
	w.debug("action recorded", "dialog", ref.DialogKey, "utterance", ref.ID, "action", e.Action.Kind)
	return e, ok, nil
}

// ToggleFlag adds or removes source from the dialogs that flagged the utterance.
func (w *Workspace) ToggleFlag(ctx context.Context, ref core.UtteranceRef, source string) (e ledger.Entry, ok bool, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	u, err := w.resolve("toggle-flag", ref)
	if err != nil {
		return ledger.Entry{}, false, err
	}
	if err := w.requireDialog("source", source); err != nil {
		return ledger.Entry{}, false, err
	}

	prev := w.ledger.Snapshot()
	e, ok = w.ledger.ToggleFlag(u.Text, source)
	if err := w.persistTodo(ctx); err != nil {
		w.ledger.Restore(prev)
		return ledger.Entry{}, false, err
	}
	w.debug("flag toggled", "dialog", ref.DialogKey, "utterance", ref.ID, "source", source, "flagged", e.IsFlaggedFrom(source))
	return e, ok, nil
}

// ToDoList returns a copy of the resolution ledger.
func (w *Workspace) ToDoList() ledger.Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.ledger.Snapshot()
}

// Display labels the utterance ref points to as seen from viewer.
func (w *Workspace) Display(ref core.UtteranceRef, viewer string) (conflict.Display, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	u, err := w.resolve("display", ref)
	if err != nil {
		return "", err
	}
	e, _ := w.ledger.Get(u.Text)
	return conflict.DisplayOf(e, viewer), nil
}

// Watch reports changes to the persisted documents, when the repository supports it.
func (w *Workspace) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	watchable, ok := w.repo.(core.Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return watchable.Watch(ctx, pattern)
}

// resolve must be called with mu held.
func (w *Workspace) resolve(op string, ref core.UtteranceRef) (core.Utterance, error) {
	u, ok := w.corpus.Resolve(ref)
	if !ok {
		if w.logger != nil {
			w.logger.Warn("utterance ref does not resolve", "op", op, "dialog", ref.DialogKey, "utterance", ref.ID)
		}
		return core.Utterance{}, &core.ContractError{Op: op, Ref: ref}
	}
	return u, nil
}

func (w *Workspace) requireDialog(field, key string) error {
	if !w.corpus.HasDialog(key) {
		return &core.ValidationError{Field: field, Value: key, Err: core.ErrUnknownDialog}
	}
	return nil
}

func (w *Workspace) debug(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Debug(msg, args...)
	}
}
