package testing

import (
	"testing"

	"github.com/srbhr/Resume-Matcher-sub001/internal/logging"
	"github.com/srbhr/Resume-Matcher-sub001/types"
)

// NewTestLogger creates a logger that writes to the test log.
//
// Messages logged after the test has finished are dropped.
func NewTestLogger(tb testing.TB) types.Logger {
	return logging.NewTest(tb)
}
