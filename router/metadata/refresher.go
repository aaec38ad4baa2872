package metadata

import (
	"context"
	"sync"

	"github.com/pg-sharding/shardproxy/pkg/proxylog"
	"github.com/pg-sharding/shardproxy/router/route"
)

// Refresher schedules metadata refresh for executed statements.
// Refresh never blocks and never reports failures to the caller.
type Refresher interface {
	Refresh(rr *route.RouteResult)
}

const defaultQueueSize = 64

// AsyncRefresher applies refresh tasks on a single worker goroutine.
type AsyncRefresher struct {
	handler *RefreshHandler
	tasks   chan Task

	mu     sync.RWMutex
	closed bool

	wg   sync.WaitGroup
	stop context.CancelFunc
}

var _ Refresher = &AsyncRefresher{}

func NewAsyncRefresher(handler *RefreshHandler, queueSize int) *AsyncRefresher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &AsyncRefresher{
		handler: handler,
		tasks:   make(chan Task, queueSize),
	}
}

func (r *AsyncRefresher) Start(ctx context.Context) {
	ctx, r.stop = context.WithCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case task, ok := <-r.tasks:
				if !ok {
					return
				}
				if err := r.handler.Apply(ctx, task); err != nil {
					proxylog.Zero.Error().
						Err(err).
						Str("table", task.Table).
						Str("action", task.Action.String()).
						Msg("failed to refresh table metadata")
				}
			}
		}
	}()
}

func (r *AsyncRefresher) Refresh(rr *route.RouteResult) {
	for _, task := range r.handler.Build(rr) {
		r.Submit(task)
	}
}

// Submit enqueues a task, dropping it when the queue is full.
func (r *AsyncRefresher) Submit(task Task) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.tasks <- task:
	default:
		proxylog.Zero.Warn().
			Str("table", task.Table).
			Str("action", task.Action.String()).
			Msg("metadata refresh queue is full, dropping task")
	}
}

// Stop drains queued tasks and waits for the worker to exit.
func (r *AsyncRefresher) Stop() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.tasks)
	r.mu.Unlock()

	r.wg.Wait()
	if r.stop != nil {
		r.stop()
	}
}
