// Package hooks provides default hook implementations.
package hooks

import (
	"context"

	"github.com/srbhr/Resume-Matcher-sub001/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// so callers never need nil checks.
type NopHooks struct{}

var (
	_ func(context.Context, types.Layout, types.Layout) error                   = (*NopHooks)(nil).OnLayoutChanged
	_ func(context.Context, types.ControllerState, types.ControllerState) error = (*NopHooks)(nil).OnStateChanged
	_ func(context.Context, error) error                                        = (*NopHooks)(nil).OnError
)

// NewNop creates a new no-op hooks implementation.
func NewNop() types.Hooks {
	h := &NopHooks{}

	return types.Hooks{
		OnLayoutChanged: h.OnLayoutChanged,
		OnStateChanged:  h.OnStateChanged,
		OnError:         h.OnError,
	}
}

// WithDefaults returns a copy of h where every nil callback is replaced by
// its no-op. A nil h yields NewNop().
func WithDefaults(h *types.Hooks) types.Hooks {
	out := NewNop()
	if h == nil {
		return out
	}

	if h.OnLayoutChanged != nil {
		out.OnLayoutChanged = h.OnLayoutChanged
	}
	if h.OnStateChanged != nil {
		out.OnStateChanged = h.OnStateChanged
	}
	if h.OnError != nil {
		out.OnError = h.OnError
	}

	return out
}

// OnLayoutChanged is a no-op implementation.
func (h *NopHooks) OnLayoutChanged(_ context.Context, _, _ types.Layout) error {
	return nil
}

// OnStateChanged is a no-op implementation.
func (h *NopHooks) OnStateChanged(_ context.Context, _, _ types.ControllerState) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(_ context.Context, _ error) error {
	return nil
}
