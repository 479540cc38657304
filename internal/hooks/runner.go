package hooks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	queueDepth  = 256
	taskTimeout = 10 * time.Second
)

// Runner executes events on a background goroutine. Not durable across
// restarts; deployments that need delivery beyond process life use the SQS
// dispatcher and the worker binary instead.
type Runner struct {
	applier   Applier
	queue     chan Event
	log       *zap.Logger
	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewRunner creates a stopped Runner; call Start before dispatching.
func NewRunner(applier Applier, log *zap.Logger) *Runner {
	return &Runner{
		applier: applier,
		queue:   make(chan Event, queueDepth),
		log:     log.With(zap.String("component", "hooks")),
		done:    make(chan struct{}),
	}
}

// Start launches the dispatch loop. The loop's lifetime is bound to ctx, not
// to any request.
func (r *Runner) Start(ctx context.Context) {
	r.startOnce.Do(func() {
		bg, cancel := context.WithCancel(ctx)
		r.cancel = cancel
		go r.loop(bg)
	})
}

// Stop ends the dispatch loop and waits for the in-flight event to finish.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		if r.cancel != nil {
			r.cancel()
		}
		<-r.done
	})
}

// Dispatch queues an event. A full queue drops the event with a log line
// rather than blocking the request that produced it.
func (r *Runner) Dispatch(_ context.Context, ev Event) {
	select {
	case r.queue <- ev:
	default:
		r.log.Warn("hook queue full, dropping event",
			zap.String("type", ev.Type),
			zap.String("order_id", ev.OrderID))
	}
}

func (r *Runner) loop(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-r.queue:
			taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), taskTimeout)
			Apply(taskCtx, r.applier, ev, r.log)
			cancel()
		}
	}
}
