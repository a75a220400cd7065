package sieve

import (
	"context"

	"github.com/ib-77/sieve3/pkg/sieve/stream"
)

type OptionKey string

const (
	BufferOptionKey  OptionKey = "buffer_options"
	FactoryOptionKey OptionKey = "factory_options"
)

type BufferLimitOption struct {
	Value int
}
type BufferOptions struct {
	Capacity BufferLimitOption
}

// FactoryOptions override how the pipeline obtains streams and stage
// goroutines. The zero value means the real constructors; tests use the
// hooks to inject creation failures.
type FactoryOptions struct {
	NewStream func(capacity int) (*stream.Stream[int], error)
	Spawn     func(run func()) error
}

func WithBufferOptions(ctx context.Context, capacity int) context.Context {
	return context.WithValue(ctx, BufferOptionKey, BufferOptions{BufferLimitOption{Value: capacity}})
}

func WithFactoryOptions(ctx context.Context, opts FactoryOptions) context.Context {
	return context.WithValue(ctx, FactoryOptionKey, opts)
}

func GetBufferCapacity(ctx context.Context, defaultCapacity int) int {
	options, ok := ctx.Value(BufferOptionKey).(BufferOptions)
	if ok {
		return options.Capacity.Value
	}
	return defaultCapacity
}

func getFactoryOptions(ctx context.Context) FactoryOptions {
	options, _ := ctx.Value(FactoryOptionKey).(FactoryOptions)
	if options.NewStream == nil {
		options.NewStream = func(capacity int) (*stream.Stream[int], error) {
			return stream.New[int](capacity), nil
		}
	}
	if options.Spawn == nil {
		options.Spawn = func(run func()) error {
			go run()
			return nil
		}
	}
	return options
}
