// Package typed maps Go values onto the flexible documents of a core.Repository.
package typed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/crosstalk/pkg/core"
)

// DocumentModel is a typed view of a stored document.
type DocumentModel[T any] struct {
	ID    string
	Data  T
	Saver Saver[T] // Active Record reference
}

// Saver avoids coupling DocumentModel to a concrete store.
type Saver[T any] interface {
	Save(ctx context.Context, doc *DocumentModel[T]) error
}

// Save persists the document using the attached saver.
func (d *DocumentModel[T]) Save(ctx context.Context) error {
	if d.Saver == nil {
		return fmt.Errorf("document %s is detached (missing Saver)", d.ID)
	}
	return d.Saver.Save(ctx, d)
}

// Repository wraps a core.Repository to provide type-safe access.
type Repository[T any] struct {
	repo core.Repository
}

// NewRepository creates a type-safe wrapper around an existing repository.
func NewRepository[T any](repo core.Repository) *Repository[T] {
	return &Repository[T]{repo: repo}
}

// Save persists a typed document. Data must encode to a JSON object.
func (r *Repository[T]) Save(ctx context.Context, doc *DocumentModel[T]) error {
	fields, err := ToFields(doc.Data)
	if err != nil {
		return fmt.Errorf("document %s: %w", doc.ID, err)
	}
	if doc.Saver == nil {
		doc.Saver = r
	}
	return r.repo.Save(ctx, core.Document{ID: doc.ID, Fields: fields})
}

// Get retrieves a document and decodes it.
func (r *Repository[T]) Get(ctx context.Context, id string) (*DocumentModel[T], error) {
	coreDoc, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return fromCore(coreDoc, r)
}

// List returns all documents that decode into T.
func (r *Repository[T]) List(ctx context.Context) ([]*DocumentModel[T], error) {
	coreDocs, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*DocumentModel[T], 0, len(coreDocs))
	for _, d := range coreDocs {
		model, err := fromCore(d, r)
		if err != nil {
			return nil, fmt.Errorf("failed to process document %s: %w", d.ID, err)
		}
		result = append(result, model)
	}
	return result, nil
}

// Delete removes a document by ID.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	return r.repo.Delete(ctx, id)
}

// ToFields converts v into the generic payload stored by repositories.
func ToFields(v any) (core.Fields, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal typed data: %w", err)
	}
	fields := core.Fields{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("typed data is not an object: %w", err)
	}
	return fields, nil
}

// FromFields decodes a generic payload into v.
func FromFields(fields core.Fields, v any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("fields marshal failed: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal to target type failed: %w", err)
	}
	return nil
}

func fromCore[T any](coreDoc core.Document, saver Saver[T]) (*DocumentModel[T], error) {
	var data T
	if err := FromFields(coreDoc.Fields, &data); err != nil {
		return nil, err
	}
	return &DocumentModel[T]{
		ID:    coreDoc.ID,
		Data:  data,
		Saver: saver,
	}, nil
}
