// Package framework runs the polling loop and background runners of
// the daemons.
package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// RunFunc is func form of Runnable.
type RunFunc func(context.Context) error

// Run implements Runnable.
func (f RunFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Message is anything posted to the loop, consumed by controllers.
type Message interface{}

// Phases of an iteration. All sense controllers run before act
// controllers.
const (
	PhaseSense = iota
	PhaseAct

	phaseCount
)

// Controller is invoked once per iteration.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc is func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(cc ControlContext) error {
	return f(cc)
}

// LoopControl exposes the loop to runners.
type LoopControl interface {
	// PostMessage enqueues a message for the next iteration.
	PostMessage(Message)
	// TriggerNext starts the next iteration without waiting for the interval.
	TriggerNext()
}

// ControlContext is the context of the current iteration.
type ControlContext interface {
	Context() context.Context
	Time() time.Time
	// TakeMessages visits messages posted before this iteration.
	// A message is consumed when fn returns true.
	TakeMessages(fn func(Message) bool)

	LoopControl
}

// LoopAdder adds components to a loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}
