// Package embed provides the one-call embedding API for the virtual machine.
//
// Pass an input, get a result. The zero-configuration entry points run the
// built-in demonstration program; RunProgram accepts arbitrary bytecode.
//
// Basic usage:
//
//	out, err := embed.Run(5) // out == 8
//
// With options:
//
//	out, err := embed.RunWithOptions(vm.FibCode, 5,
//	    embed.WithStrategy(vm.StrategyTransition),
//	    embed.WithTimeout(time.Second),
//	)
package embed

import (
	"context"
	"errors"
	"time"

	"github.com/ashergottlieb/vm-specialization/pkg/vm"
)

// Common errors
var (
	ErrTimeout          = errors.New("execution timeout exceeded")
	ErrInstructionLimit = errors.New("instruction limit exceeded")
)

// Run executes the built-in demonstration program with register 0 seeded to
// input and returns the final value of register 0.
func Run(input uint32) (uint32, error) {
	return RunProgram(vm.FibCode, input)
}

// RunProgram executes code with register 0 seeded to input and returns the
// final value of register 0.
func RunProgram(code []byte, input uint32) (uint32, error) {
	machine := vm.New()
	if err := machine.Load(code); err != nil {
		return 0, err
	}
	return machine.Execute(input)
}

// Options configures execution behavior for RunWithOptions.
type Options struct {
	// Strategy selects the dispatch loop. All strategies produce the same
	// results; they differ only in how instructions are selected.
	Strategy vm.Strategy

	// Timeout sets maximum execution time. Zero means no timeout.
	Timeout time.Duration

	// MaxSteps limits the number of instructions executed.
	// Zero means unlimited.
	MaxSteps int64

	// Tracer receives each instruction before it executes.
	Tracer vm.Tracer

	// Context for cancellation. If nil, context.Background() is used.
	Context context.Context
}

// Option is a functional option for configuring execution.
type Option func(*Options)

// WithStrategy selects the dispatch strategy.
func WithStrategy(s vm.Strategy) Option {
	return func(o *Options) {
		o.Strategy = s
	}
}

// WithTimeout sets execution timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithMaxSteps sets the instruction limit.
func WithMaxSteps(n int64) Option {
	return func(o *Options) {
		o.MaxSteps = n
	}
}

// WithTracer installs a per-instruction trace hook.
func WithTracer(t vm.Tracer) Option {
	return func(o *Options) {
		o.Tracer = t
	}
}

// WithContext sets the context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		o.Context = ctx
	}
}

// RunWithOptions executes code with advanced configuration.
//
// Example:
//
//	out, err := embed.RunWithOptions(code, 12,
//	    embed.WithTimeout(5*time.Second),
//	    embed.WithMaxSteps(10000),
//	)
func RunWithOptions(code []byte, input uint32, opts ...Option) (uint32, error) {
	options := &Options{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(options)
	}

	machine := vm.New()
	if err := machine.Load(code); err != nil {
		return 0, err
	}

	machine.SetStrategy(options.Strategy)
	machine.SetMaxSteps(options.MaxSteps)
	machine.SetTracer(options.Tracer)

	ctx := options.Context
	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}
	machine.SetContext(ctx)

	out, err := machine.Execute(input)
	if err != nil {
		switch {
		case errors.Is(err, vm.ErrInstructionLimit):
			return 0, ErrInstructionLimit
		case errors.Is(err, context.DeadlineExceeded):
			return 0, ErrTimeout
		}
		return 0, err
	}
	return out, nil
}
