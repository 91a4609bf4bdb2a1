package mcp_test

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/nvimsul/internal/runtime"
	"github.com/aretw0/nvimsul/internal/testutils"
	nvimmcp "github.com/aretw0/nvimsul/pkg/adapters/mcp"
	"github.com/aretw0/nvimsul/pkg/domain"
)

func newServer(t *testing.T) *nvimmcp.Server {
	t.Helper()
	a := runtime.NewAdapter(runtime.NewLifecycle(&testutils.FakeSpawner{}, nil))
	t.Cleanup(func() { _ = a.Close() })
	return nvimmcp.NewServer(a, domain.DefaultAlphabet())
}

func TestHandleQuery(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	t.Run("Word Array", func(t *testing.T) {
		resp, err := s.HandleQuery(ctx, mcp.CallToolRequest{}, map[string]interface{}{
			"word": []interface{}{":", "<Esc>", "v"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Normal", "Command-line editing", "Normal", "Visual"}, resp.Outputs)
	})

	t.Run("Keys String", func(t *testing.T) {
		resp, err := s.HandleQuery(ctx, mcp.CallToolRequest{}, map[string]interface{}{
			"keys": "v <Esc>",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"v", "<Esc>"}, resp.Word)
		assert.Equal(t, "Normal", resp.Outputs[2])
	})

	t.Run("Empty Word", func(t *testing.T) {
		resp, err := s.HandleQuery(ctx, mcp.CallToolRequest{}, map[string]interface{}{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Normal"}, resp.Outputs)
		assert.Empty(t, resp.Word)
	})

	t.Run("Unknown Symbol", func(t *testing.T) {
		_, err := s.HandleQuery(ctx, mcp.CallToolRequest{}, map[string]interface{}{
			"keys": "v dd",
		})
		assert.ErrorIs(t, err, domain.ErrUnknownSymbol)
	})

	t.Run("Bad Arguments", func(t *testing.T) {
		_, err := s.HandleQuery(ctx, mcp.CallToolRequest{}, map[string]interface{}{
			"word": map[string]interface{}{"a": 1},
		})
		assert.Error(t, err)
	})
}

func TestHandleClassify(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	resp, err := s.HandleClassify(ctx, mcp.CallToolRequest{}, map[string]interface{}{"mode": "niI"})
	require.NoError(t, err)
	assert.Equal(t, "Insert Normal (insert)", resp.State)

	resp, err = s.HandleClassify(ctx, mcp.CallToolRequest{}, map[string]interface{}{"mode": "n", "blocking": true})
	require.NoError(t, err)
	assert.Equal(t, "Normal"+domain.BlockingSuffix, resp.State)

	_, err = s.HandleClassify(ctx, mcp.CallToolRequest{}, map[string]interface{}{"mode": "zz"})
	assert.ErrorIs(t, err, domain.ErrClassification)
}
