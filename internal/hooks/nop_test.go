package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/srbhr/Resume-Matcher-sub001/types"
)

func TestNewNop(t *testing.T) {
	hooks := NewNop()
	ctx := context.Background()

	require.NotNil(t, hooks.OnLayoutChanged)
	require.NotNil(t, hooks.OnStateChanged)
	require.NotNil(t, hooks.OnError)

	require.NoError(t, hooks.OnLayoutChanged(ctx, types.EmptyLayout(), types.Layout{}))
	require.NoError(t, hooks.OnStateChanged(ctx, types.ControllerIdle, types.ControllerCalculating))
	require.NoError(t, hooks.OnError(ctx, errors.New("boom")))
}

func TestNopHooks_CancelledContext(t *testing.T) {
	hooks := NewNop()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, hooks.OnLayoutChanged(ctx, types.Layout{}, types.Layout{}))
	require.NoError(t, hooks.OnError(ctx, nil))
}

func TestWithDefaults(t *testing.T) {
	t.Run("nil hooks", func(t *testing.T) {
		h := WithDefaults(nil)
		require.NotNil(t, h.OnLayoutChanged)
		require.NotNil(t, h.OnStateChanged)
		require.NotNil(t, h.OnError)
	})

	t.Run("partial hooks keep custom callbacks", func(t *testing.T) {
		called := false
		h := WithDefaults(&types.Hooks{
			OnError: func(context.Context, error) error {
				called = true
				return nil
			},
		})

		require.NotNil(t, h.OnLayoutChanged)
		require.NotNil(t, h.OnStateChanged)
		require.NoError(t, h.OnError(context.Background(), errors.New("x")))
		require.True(t, called)
	})
}
