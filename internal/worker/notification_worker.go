package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/fixithub/complaint-service/internal/events"
	"github.com/fixithub/complaint-service/internal/service"
)

// ErrQueueFull is returned to publishers when notifications back up.
var ErrQueueFull = errors.New("notification queue full")

// NotificationWorker moves notification delivery off the request path. It
// subscribes to notification events and drains them on its own goroutine.
type NotificationWorker struct {
	notifications *service.NotificationService
	logger        *zap.Logger
	queue         chan queued
	wg            sync.WaitGroup
	cancel        context.CancelFunc
}

type queued struct {
	ctx   context.Context
	event events.Event
}

// NewNotificationWorker creates a worker with a bounded queue.
func NewNotificationWorker(notifications *service.NotificationService, logger *zap.Logger, buffer int) *NotificationWorker {
	if buffer <= 0 {
		buffer = 64
	}
	return &NotificationWorker{
		notifications: notifications,
		logger:        logger,
		queue:         make(chan queued, buffer),
	}
}

// Start subscribes the worker and begins draining. The worker runs until
// Stop, even after ctx is cancelled, so events published while the server
// finishes in-flight requests are still delivered.
func (w *NotificationWorker) Start(ctx context.Context, dispatcher events.Dispatcher) {
	for _, eventType := range service.NotificationEventTypes {
		dispatcher.Subscribe(eventType, w.enqueue)
	}

	ctx, w.cancel = context.WithCancel(context.WithoutCancel(ctx))
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case item := <-w.queue:
				w.deliver(item)
			case <-ctx.Done():
				w.drain()
				return
			}
		}
	}()
}

// Stop delivers what is already queued and waits for the worker to exit.
func (w *NotificationWorker) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	w.wg.Wait()
}

func (w *NotificationWorker) enqueue(ctx context.Context, event events.Event) error {
	// request contexts end with the response; keep values only
	item := queued{ctx: context.WithoutCancel(ctx), event: event}
	select {
	case w.queue <- item:
		return nil
	default:
		w.logger.Warn("notification dropped", zap.String("event_type", string(event.Type)), zap.String("subject_id", event.SubjectID))
		return ErrQueueFull
	}
}

func (w *NotificationWorker) drain() {
	for {
		select {
		case item := <-w.queue:
			w.deliver(item)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(item queued) {
	if err := w.notifications.Handle(item.ctx, item.event); err != nil {
		w.logger.Warn("notification failed", zap.String("event_type", string(item.event.Type)), zap.Error(err))
	}
}
