package telemetry

import "context"

// Counter receives business counters. Implementations must not block the
// caller on delivery failures.
type Counter interface {
	Count(ctx context.Context, name string, value float64, dims map[string]string)
}

// Metric names.
const (
	MetricProductCreated      = "ProductCreated"
	MetricProductDeleted      = "ProductDeleted"
	MetricCartItemAdded       = "CartItemAdded"
	MetricCartOrphansDetected = "CartOrphansDetected"
	MetricCartOrphansRemoved  = "CartOrphansRemoved"
)

type nopCounter struct{}

func (nopCounter) Count(context.Context, string, float64, map[string]string) {}

// Nop returns a Counter that drops everything.
func Nop() Counter { return nopCounter{} }

// OrNop returns c, or Nop when c is nil.
func OrNop(c Counter) Counter {
	if c == nil {
		return Nop()
	}
	return c
}
