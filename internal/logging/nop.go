package logging

import "github.com/srbhr/Resume-Matcher-sub001/types"

// NopLogger discards all log messages.
//
// Example:
//
//	ctrl, err := pagination.NewController(&cfg, provider, pagination.WithLogger(logging.NewNop()))
type NopLogger struct{}

var _ types.Logger = (*NopLogger)(nil)

// NewNop creates a logger that discards all messages.
func NewNop() *NopLogger {
	return &NopLogger{}
}

// Debug discards the message.
func (n *NopLogger) Debug(_ string, _ ...any) {}

// Info discards the message.
func (n *NopLogger) Info(_ string, _ ...any) {}

// Warn discards the message.
func (n *NopLogger) Warn(_ string, _ ...any) {}

// Error discards the message.
func (n *NopLogger) Error(_ string, _ ...any) {}

// Fatal discards the message. It does NOT call os.Exit.
func (n *NopLogger) Fatal(_ string, _ ...any) {}
