package analyst

import (
	"context"
	"time"

	"github.com/aleister1102/jsmon/internal/common"
	"golang.org/x/time/rate"
)

// Middleware decorates a Provider
type Middleware func(Provider) Provider

// Wrap applies middlewares so that the first one is the outermost
func Wrap(inner Provider, mws ...Middleware) Provider {
	p := inner
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			p = mws[i](p)
		}
	}
	return p
}

type providerFunc struct {
	name string
	fn   func(ctx context.Context, req Request) (string, error)
}

func (p providerFunc) Name() string { return p.name }

func (p providerFunc) Generate(ctx context.Context, req Request) (string, error) {
	return p.fn(ctx, req)
}

// WithRetry retries provider failures with the given retrier.
// Returns nil when the retrier is disabled so Wrap skips it.
func WithRetry(retrier *common.Retrier) Middleware {
	if !retrier.Enabled() {
		return nil
	}
	return func(next Provider) Provider {
		return providerFunc{
			name: next.Name(),
			fn: func(ctx context.Context, req Request) (string, error) {
				var out string
				err := retrier.Do(ctx, "ai:"+req.Operation, func(ctx context.Context) error {
					var err error
					out, err = next.Generate(ctx, req)
					return err
				})
				return out, err
			},
		}
	}
}

// WithRateLimit spaces requests to at most rpm per minute. Zero disables it.
func WithRateLimit(rpm int) Middleware {
	if rpm <= 0 {
		return nil
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
	return func(next Provider) Provider {
		return providerFunc{
			name: next.Name(),
			fn: func(ctx context.Context, req Request) (string, error) {
				if err := limiter.Wait(ctx); err != nil {
					return "", err
				}
				return next.Generate(ctx, req)
			},
		}
	}
}

// WithTimeout bounds every single call
func WithTimeout(d time.Duration) Middleware {
	if d <= 0 {
		return nil
	}
	return func(next Provider) Provider {
		return providerFunc{
			name: next.Name(),
			fn: func(ctx context.Context, req Request) (string, error) {
				ctx, cancel := context.WithTimeout(ctx, d)
				defer cancel()
				return next.Generate(ctx, req)
			},
		}
	}
}
