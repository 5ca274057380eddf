package boundary

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shieldgate/widgethost/internal/infrastructure/resilience"
	"github.com/shieldgate/widgethost/internal/logging"
	"go.uber.org/zap"
)

// Loader fetches remote widget content by constructed address. Prefetching
// warms the remote service for a boundary about to be displayed; its failure
// never fails the render that triggered it. A circuit breaker stops fetch
// attempts while the challenge origin is down.
type Loader struct {
	client  *resty.Client
	breaker *resilience.Breaker
	logger  *logging.Logger
}

// NewLoader creates a loader with retrying HTTP semantics.
func NewLoader(logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewNop()
	}

	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(250 * time.Millisecond).
		SetHeader("User-Agent", "shieldgate-widgethost")

	breaker := resilience.New("challenge-origin", resilience.Settings{
		FailureThreshold: 5,
		Probes:           2,
		Cooldown:         30 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("challenge origin breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})

	return &Loader{client: client, breaker: breaker, logger: logger}
}

// Load fetches the widget content at address.
func (l *Loader) Load(ctx context.Context, address string) error {
	return l.breaker.Do(func() error {
		resp, err := l.client.R().SetContext(ctx).Get(address)
		if err != nil {
			return fmt.Errorf("widget content fetch failed: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("widget content fetch returned %s", resp.Status())
		}
		return nil
	})
}

// Prefetch loads the address in the background, logging failures. This is
// the asynchronous tail of boundary creation.
func (l *Loader) Prefetch(address string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := l.Load(ctx, address); err != nil {
			l.logger.Warn("widget content prefetch failed",
				zap.String("address", address),
				zap.Error(err),
			)
		}
	}()
}
