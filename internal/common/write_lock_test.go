package common

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLocalWriteLocker_Serializes(t *testing.T) {
	locker := NewLocalWriteLocker(50 * time.Millisecond)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "w")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := locker.Lock(ctx, "w"); !errors.Is(err, ErrLockNotObtained) {
		t.Errorf("Expected ErrLockNotObtained while held, got %v", err)
	}

	// other names are independent
	unlockOther, err := locker.Lock(ctx, "other")
	if err != nil {
		t.Fatalf("Expected independent lock, got %v", err)
	}
	unlockOther()

	unlock()
	unlock() // second call is a no-op

	unlock2, err := locker.Lock(ctx, "w")
	if err != nil {
		t.Fatalf("Expected lock after release, got %v", err)
	}
	unlock2()
}

func TestLocalWriteLocker_ContextCancelled(t *testing.T) {
	locker := NewLocalWriteLocker(time.Second)
	unlock, _ := locker.Lock(context.Background(), "w")
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := locker.Lock(ctx, "w"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
