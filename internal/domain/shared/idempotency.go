package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which event IDs have already been handled, so
// a redelivered payment confirmation does not notify a tenant twice.
type IdempotencyStore interface {
	// MarkProcessed records the event ID with a TTL. It reports true when
	// the ID was new and false when it had been seen before.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the event ID has been recorded.
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Close releases the store's resources.
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL bounds how long an event ID stays suppressed. Once it expires
	// the same ID is treated as new again.
	TTL time.Duration

	Enabled bool
}

// DefaultIdempotencyConfig enables checking with a 24 hour window.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
