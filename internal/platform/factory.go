package platform

import (
	"context"

	"github.com/aretw0/crosstalk/pkg/core"
	"github.com/aretw0/crosstalk/pkg/workspace"
)

// New opens the storage at uri and loads a workspace from it.
//
//	ws, err := crosstalk.New(ctx, "./vault", crosstalk.WithAdapter("sqlite"))
func New(ctx context.Context, uri string, opts ...Option) (*workspace.Workspace, error) {
	repo, err := Init(ctx, uri, opts...)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	ws := workspace.New(repo, workspace.WithLogger(o.logger))
	if err := ws.Load(ctx); err != nil {
		if c, ok := repo.(core.Closer); ok {
			_ = c.Close()
		}
		return nil, err
	}
	return ws, nil
}
