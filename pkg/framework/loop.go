package framework

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is used when Loop.Interval is zero.
const DefaultInterval = 100 * time.Millisecond

// Loop runs controllers periodically and background runners alongside.
type Loop struct {
	Interval time.Duration

	phases  [phaseCount][]Controller
	runners []Runnable

	lock     sync.Mutex
	inbox    []Message
	wakeUpCh chan struct{}
}

type loopCtxKey struct{}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultInterval, wakeUpCh: make(chan struct{}, 1)}
}

// LoopCtlFrom gets LoopControl from the context passed to runners.
func LoopCtlFrom(ctx context.Context) LoopControl {
	return ctx.Value(loopCtxKey{}).(LoopControl)
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers in a phase.
func (l *Loop) AddController(phase int, ctls ...Controller) *Loop {
	l.phases[phase] = append(l.phases[phase], ctls...)
	return l
}

// AddRunnable adds runners started together with the loop.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	if l.wakeUpCh == nil {
		l.wakeUpCh = make(chan struct{}, 1)
	}
	runner := NewRunnerWith(context.WithValue(ctx, loopCtxKey{}, l))
	runner.Go(l.runners...)

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if err := runner.Wait(); err != nil {
				return err
			}
			return ctx.Err()
		case <-ticker.C:
			l.runIteration(ctx)
		case <-l.wakeUpCh:
			l.runIteration(ctx)
		}
	}
}

// PostMessage implements LoopControl.
func (l *Loop) PostMessage(msg Message) {
	l.lock.Lock()
	l.inbox = append(l.inbox, msg)
	l.lock.Unlock()
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

func (l *Loop) runIteration(ctx context.Context) {
	iter := &iteration{Loop: l, ctx: ctx, time: time.Now()}
	l.lock.Lock()
	iter.messages, l.inbox = l.inbox, nil
	l.lock.Unlock()
	for _, ctls := range l.phases {
		for _, ctl := range ctls {
			if err := ctl.Control(iter); err != nil {
				glog.Errorf("controller error: %v", err)
			}
		}
	}
	if len(iter.messages) > 0 {
		glog.V(2).Infof("%d messages not consumed", len(iter.messages))
	}
}

type iteration struct {
	*Loop
	ctx      context.Context
	time     time.Time
	messages []Message
}

func (t *iteration) Context() context.Context { return t.ctx }
func (t *iteration) Time() time.Time          { return t.time }

func (t *iteration) TakeMessages(fn func(Message) bool) {
	remains := t.messages[:0]
	for _, msg := range t.messages {
		if !fn(msg) {
			remains = append(remains, msg)
		}
	}
	t.messages = remains
}
