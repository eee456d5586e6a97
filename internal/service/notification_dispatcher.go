package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"clinic-scheduler/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
)

// Timeout for one outbox push
const outboxPushTimeout = 5 * time.Second

// NotificationDispatcher hands notifications to the outbox after an operation committed.
// Dispatch never blocks longer than the enqueue timeout and never reports failure:
// a notification that cannot be queued or pushed is logged and dropped.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, notifications ...entity.Notification)
	Stop()
}

type NotificationDispatcherConfig struct {
	OutboxKey      string
	Workers        int
	QueueSize      int
	EnqueueTimeout time.Duration
}

type notificationDispatcher struct {
	redisClient *redis.Client
	log         *logrus.Logger
	cfg         NotificationDispatcherConfig

	queue   chan entity.Notification
	workers conc.WaitGroup

	// guards closing the queue against concurrent Dispatch calls
	mu      sync.RWMutex
	stopped bool
}

// NewNotificationDispatcher starts cfg.Workers workers draining the queue into the
// Redis list cfg.OutboxKey. Call Stop() during graceful shutdown to drain the queue.
func NewNotificationDispatcher(redisClient *redis.Client, log *logrus.Logger, cfg NotificationDispatcherConfig) NotificationDispatcher {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}

	d := &notificationDispatcher{
		redisClient: redisClient,
		log:         log,
		cfg:         cfg,
		queue:       make(chan entity.Notification, cfg.QueueSize),
	}

	for i := 0; i < cfg.Workers; i++ {
		d.workers.Go(d.work)
	}

	return d
}

func (d *notificationDispatcher) Dispatch(ctx context.Context, notifications ...entity.Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, n := range notifications {
		if d.stopped {
			d.log.Warnf("Dropped notification %s (%s): dispatcher stopped", n.ID, n.Kind)
			continue
		}
		if !d.enqueue(ctx, n) {
			d.log.Warnf("Dropped notification %s (%s) for %s: queue full", n.ID, n.Kind, n.Recipient)
		}
	}
}

func (d *notificationDispatcher) enqueue(ctx context.Context, n entity.Notification) bool {
	select {
	case d.queue <- n:
		return true
	default:
	}

	timer := time.NewTimer(d.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case d.queue <- n:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

func (d *notificationDispatcher) work() {
	for n := range d.queue {
		d.push(n)
	}
}

func (d *notificationDispatcher) push(n entity.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		d.log.Warnf("Failed to encode notification %s: %+v", n.ID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), outboxPushTimeout)
	defer cancel()

	if err := d.redisClient.LPush(ctx, d.cfg.OutboxKey, payload).Err(); err != nil {
		d.log.Warnf("Failed to push notification %s (%s) to outbox: %+v", n.ID, n.Kind, err)
		return
	}
	d.log.Debugf("Queued notification %s (%s) for %s", n.ID, n.Kind, n.Recipient)
}

// Stop rejects new notifications, then waits until the queued ones are pushed.
// Safe to call multiple times.
func (d *notificationDispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	d.workers.Wait()
	d.log.Info("NotificationDispatcher stopped")
}
