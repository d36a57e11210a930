package natsutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
)

func TestIsConnectivityError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"timeout", nats.ErrTimeout, true},
		{"no servers", fmt.Errorf("publish: %w", nats.ErrNoServers), true},
		{"closed", nats.ErrConnectionClosed, true},
		{"refused", errors.New("dial tcp: connection refused"), true},
		{"other", errors.New("bad key"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsConnectivityError(tt.err))
		})
	}
}

func TestRunEmbedded(t *testing.T) {
	_, err := RunEmbedded(EmbeddedOptions{})
	require.Error(t, err)

	ns, err := RunEmbedded(EmbeddedOptions{Port: -1, StoreDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})

	nc, err := nats.Connect(ns.ClientURL())
	require.NoError(t, err)
	defer nc.Close()

	require.True(t, nc.IsConnected())
	require.True(t, ns.JetStreamEnabled())
}
