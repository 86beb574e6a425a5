package permissions

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countdown struct {
	left atomic.Int32
}

func (c *countdown) Granted() bool { return c.left.Add(-1) < 0 }

func (c *countdown) Request() bool { return c.Granted() }

func TestWaitGranted(t *testing.T) {
	p := &countdown{}
	p.left.Store(3)

	if err := WaitGranted(context.Background(), p, time.Millisecond); err != nil {
		t.Fatalf("WaitGranted: %v", err)
	}
	if n := p.left.Load(); n != -1 {
		t.Errorf("checked %d times, want 4", 3-n)
	}
}

func TestWaitGrantedCancelled(t *testing.T) {
	p := &countdown{}
	p.left.Store(1 << 30)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := WaitGranted(ctx, p, time.Millisecond); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}
