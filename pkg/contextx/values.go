package contextx

import (
	"context"
	"errors"
	"fmt"
)

var ErrNoValue = errors.New("no value in context")

// contextKey is distinct for every T, so each value type owns one slot.
type contextKey[T any] struct{}

func withValue[T any](ctx context.Context, value T) context.Context {
	return context.WithValue(ctx, contextKey[T]{}, value)
}

func valueFrom[T any](ctx context.Context, name string) (T, error) {
	value, ok := ctx.Value(contextKey[T]{}).(T)
	if !ok {
		return value, fmt.Errorf("%s: %w", name, ErrNoValue)
	}

	return value, nil
}
