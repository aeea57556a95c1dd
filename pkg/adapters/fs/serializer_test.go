package fs_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/crosstalk/pkg/adapters/fs"
	"github.com/aretw0/crosstalk/pkg/core"
)

func TestSerializers(t *testing.T) {
	fields := core.Fields{
		"Billing": map[string]any{
			"keywords": []any{"refund", "invoice"},
			"statuses": map[string]any{"I need a refund?": "100%"},
		},
	}

	for ext, s := range fs.DefaultSerializers() {
		t.Run(ext, func(t *testing.T) {
			data, err := s.Serialize(fields)
			require.NoError(t, err)

			parsed, err := s.Parse(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, fields, parsed)

			empty, err := s.Parse(bytes.NewReader(nil))
			require.NoError(t, err)
			assert.Empty(t, empty)
		})
	}
}

func TestSerializersRejectGarbage(t *testing.T) {
	_, err := fs.JSONSerializer{}.Parse(bytes.NewReader([]byte("{")))
	assert.Error(t, err)
	_, err = fs.YAMLSerializer{}.Parse(bytes.NewReader([]byte("a: [")))
	assert.Error(t, err)
}
