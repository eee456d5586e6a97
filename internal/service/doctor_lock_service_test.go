package service

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

// lockerContract runs the behavior both lockers share
func lockerContract(t *testing.T, locker DoctorLocker) {
	ctx := context.Background()
	doctorA, doctorB := uuid.New(), uuid.New()

	unlockA, err := locker.Lock(ctx, doctorA)
	require.NoError(t, err)

	t.Run("same doctor waits and times out", func(t *testing.T) {
		_, err := locker.Lock(ctx, doctorA)
		assert.ErrorIs(t, err, ErrLockNotAcquired)
	})

	t.Run("other doctor is independent", func(t *testing.T) {
		unlockB, err := locker.Lock(ctx, doctorB)
		require.NoError(t, err)
		unlockB()
	})

	t.Run("canceled context gives up", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := locker.Lock(canceled, doctorA)
		assert.ErrorIs(t, err, ErrLockNotAcquired)
	})

	unlockA()
	unlockA() // second release is a no-op

	again, err := locker.Lock(ctx, doctorA)
	require.NoError(t, err)
	again()
}

func mutualExclusion(t *testing.T, locker DoctorLocker) {
	doctorID := uuid.New()
	var (
		inside  atomic.Int32
		overlap atomic.Bool
		wg      sync.WaitGroup
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), doctorID)
			if !assert.NoError(t, err) {
				return
			}
			if inside.Add(1) > 1 {
				overlap.Store(true)
			}
			time.Sleep(2 * time.Millisecond)
			inside.Add(-1)
			unlock()
		}()
	}
	wg.Wait()
	assert.False(t, overlap.Load(), "two holders inside the critical section")
}

func TestLocalDoctorLocker(t *testing.T) {
	locker := NewLocalDoctorLocker(quietLogger(), 50*time.Millisecond)
	t.Cleanup(locker.Stop)

	lockerContract(t, locker)
}

func TestLocalDoctorLocker_MutualExclusion(t *testing.T) {
	locker := NewLocalDoctorLocker(quietLogger(), 5*time.Second)
	t.Cleanup(locker.Stop)

	mutualExclusion(t, locker)
}

func TestLocalDoctorLocker_CleanupSkipsHeldMutexes(t *testing.T) {
	locker := NewLocalDoctorLocker(quietLogger(), 50*time.Millisecond)
	t.Cleanup(locker.Stop)

	idle, held := uuid.New(), uuid.New()
	unlockIdle, err := locker.Lock(context.Background(), idle)
	require.NoError(t, err)
	unlockIdle()
	unlockHeld, err := locker.Lock(context.Background(), held)
	require.NoError(t, err)

	cleaned := locker.cleanupStaleMutexes(time.Now().Add(time.Hour))
	assert.Equal(t, 1, cleaned)

	_, stillThere := locker.doctorMu.Load(held)
	assert.True(t, stillThere)
	_, idleThere := locker.doctorMu.Load(idle)
	assert.False(t, idleThere)

	// the held lock is still exclusive after cleanup
	_, err = locker.Lock(context.Background(), held)
	assert.ErrorIs(t, err, ErrLockNotAcquired)
	unlockHeld()
}

func TestLocalDoctorLocker_StopIsIdempotent(t *testing.T) {
	locker := NewLocalDoctorLocker(quietLogger(), time.Second)
	locker.Stop()
	locker.Stop()
}

func TestRedisDoctorLocker(t *testing.T) {
	_, client := newMiniredis(t)
	locker := NewRedisDoctorLocker(client, quietLogger(), time.Minute, 100*time.Millisecond)

	lockerContract(t, locker)
}

func TestRedisDoctorLocker_MutualExclusion(t *testing.T) {
	_, client := newMiniredis(t)
	locker := NewRedisDoctorLocker(client, quietLogger(), time.Minute, 5*time.Second)

	mutualExclusion(t, locker)
}

func TestRedisDoctorLocker_KeyAndExpiry(t *testing.T) {
	mr, client := newMiniredis(t)
	locker := NewRedisDoctorLocker(client, quietLogger(), 10*time.Second, 100*time.Millisecond)
	doctorID := uuid.New()
	key := RedisDoctorLockKeyPrefix + doctorID.String()

	unlock, err := locker.Lock(context.Background(), doctorID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, 10*time.Second, mr.TTL(key))

	unlock()
	assert.False(t, mr.Exists(key))
}

func TestRedisDoctorLocker_ReleaseKeepsForeignLock(t *testing.T) {
	mr, client := newMiniredis(t)
	first := NewRedisDoctorLocker(client, quietLogger(), time.Second, 100*time.Millisecond)
	second := NewRedisDoctorLocker(client, quietLogger(), time.Minute, 100*time.Millisecond)
	doctorID := uuid.New()
	key := RedisDoctorLockKeyPrefix + doctorID.String()

	unlockFirst, err := first.Lock(context.Background(), doctorID)
	require.NoError(t, err)

	// the first holder overran its TTL and someone else took the lock
	mr.FastForward(2 * time.Second)
	unlockSecond, err := second.Lock(context.Background(), doctorID)
	require.NoError(t, err)

	unlockFirst()
	assert.True(t, mr.Exists(key), "stale holder released a lock it no longer owns")

	unlockSecond()
	assert.False(t, mr.Exists(key))
}

func TestRedisDoctorLocker_RedisDown(t *testing.T) {
	mr, client := newMiniredis(t)
	locker := NewRedisDoctorLocker(client, quietLogger(), time.Minute, time.Second)
	mr.Close()

	_, err := locker.Lock(context.Background(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLockNotAcquired)
}
