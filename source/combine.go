package source

import (
	"context"

	"github.com/srbhr/Resume-Matcher-sub001/types"
)

// Combine assembles a MeasurementProvider from separate parts.
//
// A nil notifier never reports changes; a nil barrier is Ready.
//
// Parameters:
//   - m: Geometry source (required)
//   - n: Change notifications (optional)
//   - b: Readiness barrier (optional)
//
// Example:
//
//	notifier, _ := notify.NewNATS(conn, "resume.42.changed")
//	provider := source.Combine(measurer, notifier, fontsGate)
func Combine(m types.Measurer, n types.ChangeNotifier, b types.ReadinessBarrier) types.MeasurementProvider {
	if n == nil {
		n = silentNotifier{}
	}
	if b == nil {
		b = Ready
	}

	return &combined{Measurer: m, ChangeNotifier: n, ReadinessBarrier: b}
}

type combined struct {
	types.Measurer
	types.ChangeNotifier
	types.ReadinessBarrier
}

type silentNotifier struct{}

func (silentNotifier) OnChange(func()) func() { return func() {} }

// All returns a barrier that resolves once every given barrier has resolved.
func All(barriers ...types.ReadinessBarrier) types.ReadinessBarrier {
	return allBarrier(barriers)
}

type allBarrier []types.ReadinessBarrier

func (a allBarrier) AwaitReady(ctx context.Context) error {
	for _, b := range a {
		if err := b.AwaitReady(ctx); err != nil {
			return err
		}
	}

	return nil
}
