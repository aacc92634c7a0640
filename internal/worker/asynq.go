package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"mystic_market/internal/domain/entity"
	"mystic_market/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const TypeNotification = "notification:send"

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqDispatcher hands notifications to an asynq queue. Its result reports
// whether the task was enqueued, not whether it was delivered.
type AsynqDispatcher struct {
	client   enqueuer
	queue    string
	timeout  time.Duration
	onResult func(ok bool)
}

func NewAsynqDispatcher(client enqueuer, queue string, timeout time.Duration) *AsynqDispatcher {
	return &AsynqDispatcher{
		client:   client,
		queue:    queue,
		timeout:  timeout,
		onResult: func(bool) {},
	}
}

func (d *AsynqDispatcher) WithResultHook(hook func(ok bool)) *AsynqDispatcher {
	d.onResult = hook
	return d
}

// Dispatch enqueues tx in the background and returns at once.
func (d *AsynqDispatcher) Dispatch(ctx context.Context, tx entity.Transaction) <-chan bool {
	result := make(chan bool, 1)

	go func() {
		ok := d.enqueue(ctx, tx)
		d.onResult(ok)
		result <- ok
	}()

	return result
}

func (d *AsynqDispatcher) enqueue(ctx context.Context, tx entity.Transaction) bool {
	payload, err := json.Marshal(tx)
	if err != nil {
		logger(ctx).Error("json.Marshal", logx.Error(err))
		return false
	}

	task := asynq.NewTask(TypeNotification, payload,
		asynq.MaxRetry(0),
		asynq.Queue(d.queue),
		asynq.Timeout(d.timeout),
	)

	enqueueCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	info, err := d.client.EnqueueContext(enqueueCtx, task)
	if err != nil {
		logger(ctx).Error("notification not enqueued",
			slog.String(logx.FieldTransactionID, tx.ID.String()),
			logx.Error(err),
		)

		return false
	}

	logger(ctx).Debug("notification enqueued",
		slog.String(logx.FieldTransactionID, tx.ID.String()),
		slog.String("task-id", info.ID),
	)

	return true
}

// NotificationHandler sends queued notifications. Failed tasks are archived,
// never retried.
func NotificationHandler(sender Sender) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var tx entity.Transaction

		if err := json.Unmarshal(task.Payload(), &tx); err != nil {
			return fmt.Errorf("json.Unmarshal: %w: %w", err, asynq.SkipRetry)
		}

		if err := sender.Send(ctx, tx); err != nil {
			logger(ctx).Error("notification failed",
				slog.String(logx.FieldTransactionID, tx.ID.String()),
				logx.Error(err),
			)

			return fmt.Errorf("sender.Send: %w: %w", err, asynq.SkipRetry)
		}

		return nil
	}
}
