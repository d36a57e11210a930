package reflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/srbhr/Resume-Matcher-sub001/internal/logging"
	"github.com/srbhr/Resume-Matcher-sub001/internal/metrics"
	"github.com/srbhr/Resume-Matcher-sub001/types"
)

func TestStateMachine_Transition(t *testing.T) {
	sm := NewStateMachine(logging.NewNop(), metrics.NewNop())
	require.Equal(t, types.ControllerIdle, sm.State())

	from, changed := sm.Transition(types.ControllerCalculating)
	require.True(t, changed)
	require.Equal(t, types.ControllerIdle, from)

	_, changed = sm.Transition(types.ControllerCalculating)
	require.False(t, changed)
}

func TestStateMachine_SlowSubscriberDoesNotBlock(t *testing.T) {
	sm := NewStateMachine(logging.NewNop(), metrics.NewNop())

	ch, unsubscribe := sm.Subscribe()
	defer unsubscribe()

	for range 10 {
		sm.Transition(types.ControllerCalculating)
		sm.Transition(types.ControllerIdle)
	}

	require.Len(t, ch, cap(ch))
}

func TestStateMachine_Unsubscribe(t *testing.T) {
	sm := NewStateMachine(logging.NewNop(), metrics.NewNop())

	ch, unsubscribe := sm.Subscribe()
	<-ch
	unsubscribe()
	unsubscribe()

	_, ok := <-ch
	require.False(t, ok)
}

func TestStateMachine_SubscribeAfterClose(t *testing.T) {
	sm := NewStateMachine(logging.NewNop(), metrics.NewNop())
	sm.Close()

	ch, unsubscribe := sm.Subscribe()
	defer unsubscribe()

	_, ok := <-ch
	require.False(t, ok)
}

func TestDebouncer(t *testing.T) {
	d := newDebouncer(time.Hour)
	require.Nil(t, d.C())

	require.False(t, d.reset())
	require.NotNil(t, d.C())
	require.True(t, d.reset())

	d.fired()
	require.Nil(t, d.C())

	d.reset()
	d.stop()
	require.Nil(t, d.C())
}
