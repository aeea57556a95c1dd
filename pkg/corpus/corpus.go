// Package corpus loads the entity collections handed over by the authoring
// tool and converts them to and from stored documents.
package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/crosstalk/pkg/core"
	"github.com/aretw0/crosstalk/pkg/text"
	"github.com/aretw0/crosstalk/pkg/typed"
)

// Format is an input encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// namespace seeds the name-based utterance IDs.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/aretw0/crosstalk/utterance"))

// item is one element of the flat upload format. Only the fields of its
// objectType are meaningful.
type item struct {
	ObjectType       string `json:"objectType" yaml:"objectType"`
	ID               string `json:"id" yaml:"id"`
	Utterance        string `json:"utterance" yaml:"utterance"`
	DialogKey        string `json:"dialogKey" yaml:"dialogKey"`
	IsQuestion       bool   `json:"isQuestion" yaml:"isQuestion"`
	IsImperative     bool   `json:"isImperative" yaml:"isImperative"`
	ServiceKey       string `json:"serviceKey" yaml:"serviceKey"`
	Description      string `json:"description" yaml:"description"`
	Name             string `json:"name" yaml:"name"`
	IsTransactional  bool   `json:"isTransactional" yaml:"isTransactional"`
	IsAnalysisNeeded bool   `json:"isAnalysisNeeded" yaml:"isAnalysisNeeded"`
	IsAuthRequired   bool   `json:"isAuthRequired" yaml:"isAuthRequired"`
	AltService       string `json:"altService" yaml:"altService"`
}

// Decode reads either the combined {utterances, dialogs, services} object or
// a flat array of objects tagged with objectType. Items of unknown type are
// skipped. Missing utterance IDs are assigned.
func Decode(r io.Reader, format Format) (core.Corpus, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return core.Corpus{}, err
	}

	var c core.Corpus
	if isArray(data) {
		var items []item
		if err := unmarshal(data, format, &items); err != nil {
			return core.Corpus{}, err
		}
		c = fromItems(items)
	} else if err := unmarshal(data, format, &c); err != nil {
		return core.Corpus{}, err
	}

	AssignIDs(&c)
	return c, nil
}

func unmarshal(data []byte, format Format, v any) error {
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("invalid yaml: %w", err)
		}
	case FormatJSON, "":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("invalid json: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	return nil
}

// isArray reports whether the document's top level is a sequence, in either
// JSON or block-style YAML.
func isArray(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("[")) || bytes.HasPrefix(trimmed, []byte("- ")) {
		return true
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil || len(node.Content) == 0 {
		return false
	}
	return node.Content[0].Kind == yaml.SequenceNode
}

func fromItems(items []item) core.Corpus {
	c := core.Corpus{
		Utterances: []core.Utterance{},
		Dialogs:    []core.Dialog{},
		Services:   []core.Service{},
	}
	for _, it := range items {
		switch it.ObjectType {
		case "utterance", "prompt":
			c.Utterances = append(c.Utterances, core.Utterance{
				ID:           it.ID,
				Text:         it.Utterance,
				DialogKey:    it.DialogKey,
				IsQuestion:   it.IsQuestion,
				IsImperative: it.IsImperative,
			})
		case "dialog", "idea":
			c.Dialogs = append(c.Dialogs, core.Dialog{
				Key:         it.DialogKey,
				ServiceKey:  it.ServiceKey,
				Description: it.Description,
			})
		case "service":
			c.Services = append(c.Services, core.Service{
				Name:             it.Name,
				Description:      it.Description,
				IsTransactional:  it.IsTransactional,
				IsAnalysisNeeded: it.IsAnalysisNeeded,
				IsAuthRequired:   it.IsAuthRequired,
				AltService:       it.AltService,
			})
		}
	}
	return c
}

// AssignIDs fills empty utterance IDs with a UUID derived from the dialog
// key, the text and the occurrence number of that pair, so reloading the
// same data yields the same IDs.
func AssignIDs(c *core.Corpus) {
	seen := make(map[string]int)
	for i := range c.Utterances {
		u := &c.Utterances[i]
		name := u.DialogKey + "\x1f" + u.Text
		n := seen[name]
		seen[name]++
		if u.ID != "" {
			continue
		}
		if n > 0 {
			name = fmt.Sprintf("%s\x1f%d", name, n)
		}
		u.ID = uuid.NewSHA1(namespace, []byte(name)).String()
	}
}

// ToDocument stores the corpus under core.DocCorpus.
func ToDocument(c core.Corpus) (core.Document, error) {
	fields, err := typed.ToFields(c)
	if err != nil {
		return core.Document{}, err
	}
	return core.Document{ID: core.DocCorpus, Fields: fields}, nil
}

// FromDocument is the inverse of ToDocument.
func FromDocument(doc core.Document) (core.Corpus, error) {
	var c core.Corpus
	if err := typed.FromFields(doc.Fields, &c); err != nil {
		return core.Corpus{}, fmt.Errorf("corpus document: %w", err)
	}
	AssignIDs(&c)
	return c, nil
}

// SortedByWordCount returns a copy of utterances ordered from shortest to
// longest. Ties keep their original order.
func SortedByWordCount(utterances []core.Utterance) []core.Utterance {
	out := append([]core.Utterance(nil), utterances...)
	sort.SliceStable(out, func(i, j int) bool {
		return text.WordCount(out[i].Text) < text.WordCount(out[j].Text)
	})
	return out
}
