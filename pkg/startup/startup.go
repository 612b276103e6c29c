// Package startup brings service dependencies up in order with retry, and
// tears them down in reverse on shutdown.
package startup

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
)

// Dependency is a startable piece of the service (HTTP server, Kafka
// consumer, tracer provider). Start must not block beyond initialization.
type Dependency interface {
	GetName() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Startup starts dependencies in the order they were added. A failed attempt
// retries the whole sequence with Fibonacci backoff; already-started
// dependencies are not restarted.
type Startup struct {
	order       []Dependency
	started     map[string]bool
	logger      ectologger.Logger
	maxAttempts int
}

func New(logger ectologger.Logger, maxAttempts int) *Startup {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Startup{
		started:     make(map[string]bool),
		logger:      logger,
		maxAttempts: maxAttempts,
	}
}

func (s *Startup) Add(dependency Dependency) {
	s.order = append(s.order, dependency)
}

func (s *Startup) Start(ctx context.Context) error {
	var lastErr error

	a, b := 1, 1
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		s.logger.WithField("attempt", attempt).Infof("Beginning startup attempt %d", attempt)

		lastErr = s.startAll(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt >= s.maxAttempts {
			break
		}

		s.logger.WithError(lastErr).Infof("Retrying in %d seconds (attempt %d/%d)", a, attempt, s.maxAttempts)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(a) * time.Second):
		}
		a, b = b, a+b
	}

	return fmt.Errorf("startup failed after %d attempts: %w", s.maxAttempts, lastErr)
}

func (s *Startup) startAll(ctx context.Context) error {
	for _, dependency := range s.order {
		name := dependency.GetName()
		if s.started[name] {
			continue
		}

		s.logger.WithField("dependency", name).Infof("Starting dependency '%s'", name)
		if err := dependency.Start(ctx); err != nil {
			s.logger.WithError(err).Errorf("Failed to start dependency '%s'", name)
			return err
		}
		s.started[name] = true
	}
	return nil
}

// Stop stops started dependencies in reverse order. All stops are attempted;
// the first error is returned.
func (s *Startup) Stop(ctx context.Context) error {
	var firstErr error
	for i := len(s.order) - 1; i >= 0; i-- {
		dependency := s.order[i]
		name := dependency.GetName()
		if !s.started[name] {
			continue
		}

		s.logger.WithField("dependency", name).Infof("Stopping dependency '%s'", name)
		if err := dependency.Stop(ctx); err != nil {
			s.logger.WithError(err).Errorf("Failed to stop dependency '%s'", name)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		s.started[name] = false
	}
	return firstErr
}
