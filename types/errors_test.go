package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	t.Run("wrapped errors keep identity", func(t *testing.T) {
		wrapped := fmt.Errorf("configure: %w", ErrControllerStopped)
		require.ErrorIs(t, wrapped, ErrControllerStopped)
		require.NotErrorIs(t, wrapped, ErrNotStarted)
	})

	t.Run("all errors are distinct", func(t *testing.T) {
		allErrors := []error{
			ErrInvalidConfig,
			ErrProviderRequired,
			ErrAlreadyStarted,
			ErrNotStarted,
			ErrControllerStopped,
			ErrUnknownPageSize,
			ErrMarginOutOfRange,
			ErrMeasurementUnavailable,
			ErrPublishFailed,
			ErrNoKeysFound,
		}

		for i, err1 := range allErrors {
			for j, err2 := range allErrors {
				if i == j {
					require.ErrorIs(t, err1, err2)
				} else {
					require.False(t, errors.Is(err1, err2), "errors should be distinct: %v vs %v", err1, err2)
				}
			}
		}
	})
}

func TestIsNoKeysFoundError(t *testing.T) {
	require.False(t, IsNoKeysFoundError(nil))
	require.True(t, IsNoKeysFoundError(ErrNoKeysFound))
	require.True(t, IsNoKeysFoundError(fmt.Errorf("list: %w", ErrNoKeysFound)))
	require.True(t, IsNoKeysFoundError(errors.New("nats: no keys found")))
	require.False(t, IsNoKeysFoundError(errors.New("timeout")))
}
