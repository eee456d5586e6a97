package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrLockNotAcquired is returned when a doctor's lock could not be taken before the wait expired
var ErrLockNotAcquired = errors.New("doctor lock not acquired")

const (
	// RedisDoctorLockKeyPrefix prefixes the distributed lock key of a doctor
	RedisDoctorLockKeyPrefix = "scheduling:lock:doctor:"

	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute

	// Polling interval while waiting on a lock held by another instance
	redisLockRetryInterval = 25 * time.Millisecond
)

// releaseLockScript deletes the lock only when it is still held by the caller's token,
// so an expired lock re-acquired by another instance is never released by us.
var releaseLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// DoctorLocker serializes every read-check-write sequence touching one doctor's
// appointments or availability.
type DoctorLocker interface {
	// Lock blocks until the doctor's lock is held, the wait expires or ctx is done.
	// The returned func releases the lock and is safe to call once.
	Lock(ctx context.Context, doctorID uuid.UUID) (func(), error)
	Stop()
}

// =============================================================================
// In-process locker
// =============================================================================

// LocalDoctorLocker keeps one mutex per doctor in memory. It is correct for a
// single instance only; multi-instance deployments use RedisDoctorLocker.
//
// Lock ordering: acquire the doctor lock FIRST, then open the DB transaction.
type LocalDoctorLocker struct {
	log  *logrus.Logger
	wait time.Duration

	doctorMu sync.Map // map[uuid.UUID]*mutexWithTimestamp

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp is a context-aware mutex that tracks usage for cleanup
type mutexWithTimestamp struct {
	slot     chan struct{}
	lastUsed atomic.Int64 // Unix timestamp
}

func newMutexWithTimestamp() *mutexWithTimestamp {
	return &mutexWithTimestamp{slot: make(chan struct{}, 1)}
}

func (m *mutexWithTimestamp) tryLock() bool {
	select {
	case m.slot <- struct{}{}:
		return true
	default:
		return false
	}
}

func (m *mutexWithTimestamp) unlock() {
	<-m.slot
}

// NewLocalDoctorLocker starts the background mutex cleanup. Call Stop() during graceful shutdown.
func NewLocalDoctorLocker(log *logrus.Logger, wait time.Duration) *LocalDoctorLocker {
	l := &LocalDoctorLocker{
		log:      log,
		wait:     wait,
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupMutexMapLoop()

	return l
}

func (l *LocalDoctorLocker) Lock(ctx context.Context, doctorID uuid.UUID) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	for {
		mt := l.getDoctorMutex(doctorID)
		select {
		case mt.slot <- struct{}{}:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: doctor %s: %v", ErrLockNotAcquired, doctorID, ctx.Err())
		}

		// the cleanup loop may have evicted this mutex while we waited on it
		if current, ok := l.doctorMu.Load(doctorID); ok && current == mt {
			mt.lastUsed.Store(time.Now().Unix())
			var once sync.Once
			return func() {
				once.Do(func() {
					mt.lastUsed.Store(time.Now().Unix())
					mt.unlock()
				})
			}, nil
		}
		mt.unlock()
	}
}

// Stop gracefully shuts down the cleanup loop. Safe to call multiple times.
func (l *LocalDoctorLocker) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stopChan)
		l.wg.Wait()
		l.log.Info("LocalDoctorLocker stopped")
	}
}

func (l *LocalDoctorLocker) getDoctorMutex(doctorID uuid.UUID) *mutexWithTimestamp {
	mt, _ := l.doctorMu.LoadOrStore(doctorID, newMutexWithTimestamp())
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

func (l *LocalDoctorLocker) cleanupMutexMapLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			l.log.Debug("Mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			l.cleanupStaleMutexes(time.Now().Add(-mutexStaleThreshold))
		}
	}
}

// cleanupStaleMutexes removes mutexes unused since cutoff. The lastUsed check happens
// while holding the mutex so a concurrent Lock never sees its mutex disappear unnoticed.
func (l *LocalDoctorLocker) cleanupStaleMutexes(cutoff time.Time) int {
	cutoffUnix := cutoff.Unix()
	var cleaned int

	l.doctorMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.tryLock() {
			if mt.lastUsed.Load() < cutoffUnix {
				l.doctorMu.Delete(key)
				cleaned++
			}
			mt.unlock()
		}
		return true
	})

	if cleaned > 0 {
		l.log.Debugf("Cleaned up %d stale mutexes", cleaned)
	}
	return cleaned
}

// =============================================================================
// Distributed locker
// =============================================================================

// RedisDoctorLocker holds the doctor lock as a Redis key (SET NX PX) so several
// service instances serialize on the same doctor.
type RedisDoctorLocker struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
	wait        time.Duration
}

func NewRedisDoctorLocker(redisClient *redis.Client, log *logrus.Logger, ttl, wait time.Duration) *RedisDoctorLocker {
	return &RedisDoctorLocker{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
		wait:        wait,
	}
}

func (l *RedisDoctorLocker) Lock(ctx context.Context, doctorID uuid.UUID) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	key := RedisDoctorLockKeyPrefix + doctorID.String()
	token := uuid.NewString()

	ticker := time.NewTicker(redisLockRetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.redisClient.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil && ctx.Err() == nil {
			l.log.Warnf("Failed to acquire redis lock for doctor %s: %+v", doctorID, err)
			return nil, fmt.Errorf("acquire redis lock for doctor %s: %w", doctorID, err)
		}
		if ok {
			var once sync.Once
			return func() {
				once.Do(func() { l.release(key, token, doctorID) })
			}, nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: doctor %s: %v", ErrLockNotAcquired, doctorID, ctx.Err())
		}
	}
}

// release runs on a fresh context: the request context may already be canceled
func (l *RedisDoctorLocker) release(key, token string, doctorID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := releaseLockScript.Run(ctx, l.redisClient, []string{key}, token).Err(); err != nil {
		l.log.Warnf("Failed to release redis lock for doctor %s (expires after TTL): %+v", doctorID, err)
	}
}

func (l *RedisDoctorLocker) Stop() {}
