package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/srbhr/Resume-Matcher-sub001/types"
)

func TestCombine_Defaults(t *testing.T) {
	static := NewStatic(750, []types.AtomicBlock{{Top: 10, Bottom: 20}})
	provider := Combine(static, nil, nil)

	height, err := provider.MeasureContentHeight(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 750.0, height, 1e-9)

	require.NoError(t, provider.AwaitReady(context.Background()))

	// The silent notifier never calls back; unsubscribe is safe.
	unsubscribe := provider.OnChange(func() { t.Fatal("unexpected change notification") })
	static.Update(800, nil)
	unsubscribe()
}

func TestCombine_Parts(t *testing.T) {
	measurer := NewStatic(100, nil)
	notifier := NewStatic(0, nil)
	gate := NewGate()

	provider := Combine(measurer, notifier, gate)

	changed := make(chan struct{}, 1)
	provider.OnChange(func() { changed <- struct{}{} })
	notifier.Update(0, nil)
	<-changed

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, provider.AwaitReady(ctx))

	gate.Open()
	require.NoError(t, provider.AwaitReady(context.Background()))
}
