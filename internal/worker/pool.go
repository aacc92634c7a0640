package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"mystic_market/internal/domain/entity"
	"mystic_market/pkg/logx"
)

var ErrAlreadyRunning = errors.New("notification pool is already running")

type Sender interface {
	Send(ctx context.Context, tx entity.Transaction) error
}

type job struct {
	ctx    context.Context //nolint:containedctx
	tx     entity.Transaction
	result chan bool
}

// NotificationPool delivers notifications on a fixed set of goroutines.
// Dispatch never blocks: a full queue answers false right away.
type NotificationPool struct {
	sender   Sender
	jobs     chan job
	workers  int
	timeout  time.Duration
	onResult func(ok bool)

	// Control fields
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	stopped    bool
	wg         sync.WaitGroup
}

func NewNotificationPool(sender Sender, workers, queueSize int) *NotificationPool {
	return &NotificationPool{
		sender:   sender,
		jobs:     make(chan job, max(queueSize, 0)),
		workers:  max(workers, 1),
		timeout:  10 * time.Second, //nolint:mnd
		onResult: func(bool) {},
	}
}

// WithTimeout bounds a single delivery.
func (p *NotificationPool) WithTimeout(timeout time.Duration) *NotificationPool {
	p.timeout = timeout
	return p
}

func (p *NotificationPool) WithResultHook(hook func(ok bool)) *NotificationPool {
	p.onResult = hook
	return p
}

// Dispatch queues tx. The delivery outlives the caller's context but keeps
// its values for logging. After Run returns every dispatch answers false.
func (p *NotificationPool) Dispatch(ctx context.Context, tx entity.Transaction) <-chan bool {
	result := make(chan bool, 1)

	p.mu.Lock()

	if p.stopped {
		p.mu.Unlock()

		logger(ctx).Warn("notification pool is stopped",
			slog.String(logx.FieldTransactionID, tx.ID.String()),
		)

		p.finish(result, false)

		return result
	}

	select {
	case p.jobs <- job{ctx: context.WithoutCancel(ctx), tx: tx, result: result}:
		p.mu.Unlock()
	default:
		p.mu.Unlock()

		logger(ctx).Warn("notification queue is full",
			slog.String(logx.FieldTransactionID, tx.ID.String()),
		)

		p.finish(result, false)
	}

	return result
}

func (p *NotificationPool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancelFunc = cancel
	p.isRunning = true
	p.stopped = false

	p.wg.Add(1)

	go func() {
		defer p.wg.Done()
		defer func() {
			p.mu.Lock()
			p.isRunning = false
			p.cancelFunc = nil
			p.mu.Unlock()
		}()

		_ = p.Run(runCtx)
	}()

	return nil
}

func (p *NotificationPool) Stop() {
	p.mu.Lock()

	if !p.isRunning {
		p.mu.Unlock()
		return
	}

	if p.cancelFunc != nil {
		p.cancelFunc()
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *NotificationPool) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.isRunning
}

// Run works the queue until ctx is done. Jobs still queued at that point are
// answered with false.
func (p *NotificationPool) Run(ctx context.Context) error {
	p.mu.Lock()
	p.stopped = false
	p.mu.Unlock()

	logger(ctx).Info("notification pool started", slog.Int("workers", p.workers))

	var wg sync.WaitGroup

	for range p.workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for {
				select {
				case <-ctx.Done():
					return
				case j := <-p.jobs:
					p.deliver(j)
				}
			}
		}()
	}

	wg.Wait()

	// No job can enter the queue once stopped is set, so drain sees them all.
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	p.drain()

	logger(ctx).Info("notification pool stopped")

	return ctx.Err() //nolint:wrapcheck
}

func (p *NotificationPool) deliver(j job) {
	ctx, cancel := context.WithTimeout(j.ctx, p.timeout)
	defer cancel()

	err := p.sender.Send(ctx, j.tx)
	if err != nil {
		logger(ctx).Error("notification failed",
			slog.String(logx.FieldTransactionID, j.tx.ID.String()),
			logx.Error(err),
		)
	}

	p.finish(j.result, err == nil)
}

func (p *NotificationPool) drain() {
	for {
		select {
		case j := <-p.jobs:
			p.finish(j.result, false)
		default:
			return
		}
	}
}

func (p *NotificationPool) finish(result chan<- bool, ok bool) {
	p.onResult(ok)
	result <- ok
}
