// Package crosstalk finds lexical overlap between the dialogs of an intent
// classification training set and tracks how that overlap gets remediated.
//
// A dialog owner picks a few keywords that characterize their dialog. Every
// utterance of every other dialog is scored against those keywords; a score
// above 0% is a conflict. Authors then record a decision per conflicting
// utterance (remove it, edit it, move it to another dialog, or flag it as
// seen) and crosstalk reports which dialogs still have open conflicts.
//
// Architecture:
//
//   - pkg/text, pkg/match: tokenization and keyword scoring.
//   - pkg/keywords, pkg/ledger: keyword profiles and the resolution ledger.
//   - pkg/conflict: cross-dialog scan and aggregation.
//   - pkg/workspace: the single owner of mutable state, persisted through core.Repository.
//   - pkg/adapters: filesystem (JSON/YAML), SQLite and in-memory storage.
//
// Usage:
//
//	ws, err := crosstalk.New(ctx, "./vault", crosstalk.WithAdapter("sqlite"))
//	if err != nil {
//		return err
//	}
//	_, err = ws.AddKeyword(ctx, "Billing", "refund")
//	summary, err := ws.Summary("Billing")
package crosstalk
