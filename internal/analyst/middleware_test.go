package analyst

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aleister1102/jsmon/internal/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetrier(maxRetries int) *common.Retrier {
	return common.NewRetrier(common.RetryPolicy{
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		MaxDelay:   time.Millisecond,
	}, zerolog.Nop())
}

func TestWrap_Order(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next Provider) Provider {
			return providerFunc{name: next.Name(), fn: func(ctx context.Context, req Request) (string, error) {
				order = append(order, name)
				return next.Generate(ctx, req)
			}}
		}
	}

	p := Wrap(&fakeProvider{responses: []string{"ok"}}, tag("outer"), nil, tag("inner"))
	out, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.Equal(t, "fake", p.Name())
}

func TestWithRetry(t *testing.T) {
	transient := &common.AIProviderError{Provider: "fake", Err: errors.New("503")}

	t.Run("retries provider errors", func(t *testing.T) {
		inner := &fakeProvider{errs: []error{transient, transient}, responses: []string{"", "", "done"}}
		out, err := Wrap(inner, WithRetry(fastRetrier(3))).Generate(context.Background(), Request{Operation: "x"})
		require.NoError(t, err)
		assert.Equal(t, "done", out)
		assert.Len(t, inner.requests, 3)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		inner := &fakeProvider{errs: []error{transient, transient, transient}, responses: []string{""}}
		_, err := Wrap(inner, WithRetry(fastRetrier(1))).Generate(context.Background(), Request{})
		assert.ErrorIs(t, err, transient)
		assert.Len(t, inner.requests, 2)
	})

	t.Run("disabled retrier is skipped", func(t *testing.T) {
		assert.Nil(t, WithRetry(common.NoRetry()))
		inner := &fakeProvider{errs: []error{transient}, responses: []string{"never"}}
		_, err := Wrap(inner, WithRetry(common.NoRetry())).Generate(context.Background(), Request{})
		assert.Error(t, err)
		assert.Len(t, inner.requests, 1)
	})

	t.Run("malformed answers are not retried", func(t *testing.T) {
		malformed := &common.MalformedAIResponseError{Operation: "x", Err: errors.New("bad")}
		inner := &fakeProvider{errs: []error{malformed}, responses: []string{"never"}}
		_, err := Wrap(inner, WithRetry(fastRetrier(3))).Generate(context.Background(), Request{})
		assert.ErrorIs(t, err, malformed)
		assert.Len(t, inner.requests, 1)
	})
}

func TestWithRateLimit(t *testing.T) {
	assert.Nil(t, WithRateLimit(0))

	inner := &fakeProvider{responses: []string{"ok"}}
	p := Wrap(inner, WithRateLimit(1))

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = p.Generate(ctx, Request{})
	assert.Error(t, err)
	assert.Len(t, inner.requests, 1)
}

func TestWithTimeout(t *testing.T) {
	slow := providerFunc{name: "slow", fn: func(ctx context.Context, _ Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	_, err := Wrap(slow, WithTimeout(10*time.Millisecond)).Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
