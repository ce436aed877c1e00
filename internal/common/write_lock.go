package common

import (
	"context"
	"errors"
	"sync"
	"time"

	"steel-ledger/mtrledger/internal/logging"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotObtained is returned when another writer kept the lock for the whole wait window.
var ErrLockNotObtained = errors.New("write lock not obtained")

const (
	defaultLockTTL  = 60 * time.Second
	defaultLockWait = 30 * time.Second
)

// WriteLocker serializes writers. The returned unlock func is safe to call more than once.
type WriteLocker interface {
	Lock(ctx context.Context, name string) (unlock func(), err error)
}

// LocalWriteLocker serializes writers inside one process.
type LocalWriteLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
	wait  time.Duration
}

var _ WriteLocker = (*LocalWriteLocker)(nil)

func NewLocalWriteLocker(wait time.Duration) *LocalWriteLocker {
	if wait <= 0 {
		wait = defaultLockWait
	}
	return &LocalWriteLocker{slots: make(map[string]chan struct{}), wait: wait}
}

func (l *LocalWriteLocker) slot(name string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[name]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[name] = s
	}
	return s
}

func (l *LocalWriteLocker) Lock(ctx context.Context, name string) (func(), error) {
	s := l.slot(name)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case s <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-s }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrLockNotObtained
	}
}

// RedisWriteLocker serializes writers across every instance sharing one Redis.
type RedisWriteLocker struct {
	locker *redislock.Client
	ttl    time.Duration
	wait   time.Duration
}

var _ WriteLocker = (*RedisWriteLocker)(nil)

func NewRedisWriteLocker(client *redis.Client) *RedisWriteLocker {
	return &RedisWriteLocker{
		locker: redislock.New(client),
		ttl:    defaultLockTTL,
		wait:   defaultLockWait,
	}
}

func (l *RedisWriteLocker) Lock(ctx context.Context, name string) (func(), error) {
	obtainCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	lock, err := l.locker.Obtain(obtainCtx, name, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(250 * time.Millisecond),
	})
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrLockNotObtained
		}
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				logging.Warn("Failed to release write lock", "lock", name, "error", err)
			}
		})
	}, nil
}
