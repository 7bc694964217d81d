package dbopen

import (
	"context"
	"errors"
	"testing"
)

func TestWithBusyRetry_RecoversFromBusy(t *testing.T) {
	attempts := 0
	err := withBusyRetry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts: got %d, want 3", attempts)
	}
}

func TestWithBusyRetry_NonBusyFailsAtOnce(t *testing.T) {
	sentinel := errors.New("constraint violation")
	attempts := 0
	err := withBusyRetry(context.Background(), func() error {
		attempts++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("error: got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts: got %d, want 1", attempts)
	}
}

func TestWithBusyRetry_GivesUp(t *testing.T) {
	attempts := 0
	err := withBusyRetry(context.Background(), func() error {
		attempts++
		return errors.New("SQLITE_BUSY")
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if attempts != busyAttempts {
		t.Fatalf("attempts: got %d, want %d", attempts, busyAttempts)
	}
}

func TestWithBusyRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withBusyRetry(ctx, func() error {
		return errors.New("database is locked")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error: got %v", err)
	}
}
