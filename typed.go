package crosstalk

import (
	"github.com/aretw0/crosstalk/pkg/core"
	"github.com/aretw0/crosstalk/pkg/typed"
)

// DocumentModel is a typed view of a stored document.
type DocumentModel[T any] = typed.DocumentModel[T]

// TypedRepository wraps a core.Repository to provide type-safe access.
type TypedRepository[T any] = typed.Repository[T]

// NewTyped creates a type-safe wrapper around repo.
func NewTyped[T any](repo core.Repository) *TypedRepository[T] {
	return typed.NewRepository[T](repo)
}
