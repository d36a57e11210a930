package logging

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/srbhr/Resume-Matcher-sub001/types"
)

// TestLogger implements types.Logger on testing.TB so messages show up in
// test output.
//
// Messages logged after the test has finished are dropped instead of
// panicking; asynchronous hooks may still be draining at that point.
type TestLogger struct {
	tb   testing.TB
	mu   sync.Mutex
	done bool
}

var _ types.Logger = (*TestLogger)(nil)

// NewTest creates a logger that writes through tb.Logf.
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    logger := logging.NewTest(t)
//	    logger.Info("test started", "id", 123)
//	}
func NewTest(tb testing.TB) *TestLogger {
	l := &TestLogger{tb: tb}
	tb.Cleanup(func() {
		l.mu.Lock()
		l.done = true
		l.mu.Unlock()
	})

	return l
}

// Debug logs a debug-level message with optional key-value pairs.
func (l *TestLogger) Debug(msg string, keysAndValues ...any) {
	l.log("DEBUG", msg, keysAndValues)
}

// Info logs an info-level message with optional key-value pairs.
func (l *TestLogger) Info(msg string, keysAndValues ...any) {
	l.log("INFO", msg, keysAndValues)
}

// Warn logs a warning-level message with optional key-value pairs.
func (l *TestLogger) Warn(msg string, keysAndValues ...any) {
	l.log("WARN", msg, keysAndValues)
}

// Error logs an error-level message with optional key-value pairs.
func (l *TestLogger) Error(msg string, keysAndValues ...any) {
	l.log("ERROR", msg, keysAndValues)
}

// Fatal logs the message and fails the test.
func (l *TestLogger) Fatal(msg string, keysAndValues ...any) {
	l.tb.Fatalf("FATAL: %s %s", msg, formatKeyValues(keysAndValues))
}

func (l *TestLogger) log(level, msg string, keysAndValues []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done {
		return
	}
	l.tb.Logf("%s: %s %s", level, msg, formatKeyValues(keysAndValues))
}

// formatKeyValues renders key-value pairs as "k=v" separated by spaces.
func formatKeyValues(keysAndValues []any) string {
	if len(keysAndValues) == 0 {
		return ""
	}

	var sb strings.Builder
	for i := 0; i < len(keysAndValues); i += 2 {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if i+1 < len(keysAndValues) {
			fmt.Fprintf(&sb, "%v=%v", keysAndValues[i], keysAndValues[i+1])
		} else {
			fmt.Fprintf(&sb, "%v=<missing>", keysAndValues[i])
		}
	}

	return sb.String()
}
