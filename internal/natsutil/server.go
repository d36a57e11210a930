package natsutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// ErrServerNotReady is returned when an embedded server does not accept
// connections within the startup timeout.
var ErrServerNotReady = errors.New("embedded NATS server not ready")

// EmbeddedOptions configures RunEmbedded.
type EmbeddedOptions struct {
	// Host defaults to 127.0.0.1.
	Host string

	// Port of -1 picks a random free port. Zero means the NATS default (4222).
	Port int

	// StoreDir holds JetStream data. Required.
	StoreDir string

	// ReadyTimeout defaults to 5s.
	ReadyTimeout time.Duration
}

// RunEmbedded starts an in-process NATS server with JetStream enabled and
// waits until it accepts connections.
//
// The caller owns the server and must call Shutdown.
func RunEmbedded(opts EmbeddedOptions) (*server.Server, error) {
	if opts.StoreDir == "" {
		return nil, errors.New("StoreDir is required")
	}
	if opts.Host == "" {
		opts.Host = "127.0.0.1"
	}
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = 5 * time.Second
	}

	ns, err := server.NewServer(&server.Options{
		Host:      opts.Host,
		Port:      opts.Port,
		JetStream: true,
		StoreDir:  opts.StoreDir,
		NoLog:     true,
		NoSigs:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedded NATS server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(opts.ReadyTimeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("%w after %v", ErrServerNotReady, opts.ReadyTimeout)
	}

	return ns, nil
}
