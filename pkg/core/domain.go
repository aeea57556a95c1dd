// Package core holds the domain entities shared by every crosstalk package and the
// storage contract the core consumes.
package core

// Utterance is a single training phrase owned by a dialog.
// ID is stable across reloads and independent of the position of the utterance in any list.
type Utterance struct {
	ID           string `json:"id,omitempty" yaml:"id,omitempty"`
	Text         string `json:"utterance" yaml:"utterance"`
	DialogKey    string `json:"dialogKey" yaml:"dialogKey"`
	IsQuestion   bool   `json:"isQuestion" yaml:"isQuestion"`
	IsImperative bool   `json:"isImperative" yaml:"isImperative"`
}

// Dialog is a named intent bucket.
type Dialog struct {
	Key         string `json:"dialogKey" yaml:"dialogKey"`
	ServiceKey  string `json:"serviceKey" yaml:"serviceKey"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Service groups dialogs. It is carried through untouched.
type Service struct {
	Name             string `json:"name" yaml:"name"`
	Description      string `json:"description,omitempty" yaml:"description,omitempty"`
	IsTransactional  bool   `json:"isTransactional,omitempty" yaml:"isTransactional,omitempty"`
	IsAnalysisNeeded bool   `json:"isAnalysisNeeded,omitempty" yaml:"isAnalysisNeeded,omitempty"`
	IsAuthRequired   bool   `json:"isAuthRequired,omitempty" yaml:"isAuthRequired,omitempty"`
	AltService       string `json:"altService,omitempty" yaml:"altService,omitempty"`
}

// Corpus is the snapshot of entities handed over by the entity collaborator.
type Corpus struct {
	Utterances []Utterance `json:"utterances" yaml:"utterances"`
	Dialogs    []Dialog    `json:"dialogs" yaml:"dialogs"`
	Services   []Service   `json:"services" yaml:"services"`
}

// UtteranceRef addresses one utterance inside the dialog that owns it.
type UtteranceRef struct {
	DialogKey string `json:"dialogKey"`
	ID        string `json:"id"`
}

// HasDialog reports whether key names a dialog of the corpus.
func (c Corpus) HasDialog(key string) bool {
	for _, d := range c.Dialogs {
		if d.Key == key {
			return true
		}
	}
	return false
}

// UtterancesOf returns the utterances owned by dialogKey in collection order.
func (c Corpus) UtterancesOf(dialogKey string) []Utterance {
	var out []Utterance
	for _, u := range c.Utterances {
		if u.DialogKey == dialogKey {
			out = append(out, u)
		}
	}
	return out
}

// Resolve returns the utterance a ref points to.
// The utterance must be owned by ref.DialogKey.
func (c Corpus) Resolve(ref UtteranceRef) (Utterance, bool) {
	if ref.ID == "" {
		return Utterance{}, false
	}
	for _, u := range c.Utterances {
		if u.ID == ref.ID && u.DialogKey == ref.DialogKey {
			return u, true
		}
	}
	return Utterance{}, false
}

// RefByText finds the first utterance of dialogKey whose text is exactly text.
func (c Corpus) RefByText(dialogKey, text string) (UtteranceRef, bool) {
	for _, u := range c.Utterances {
		if u.DialogKey == dialogKey && u.Text == text {
			return UtteranceRef{DialogKey: dialogKey, ID: u.ID}, true
		}
	}
	return UtteranceRef{}, false
}

// Clone returns a deep copy so callers can never mutate a holder's snapshot.
func (c Corpus) Clone() Corpus {
	return Corpus{
		Utterances: append([]Utterance(nil), c.Utterances...),
		Dialogs:    append([]Dialog(nil), c.Dialogs...),
		Services:   append([]Service(nil), c.Services...),
	}
}
