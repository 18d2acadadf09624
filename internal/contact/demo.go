package contact

import (
	"context"
	"time"
)

const DefaultDemoDelay = 2 * time.Second

// Demo pretends to deliver after a delay. It never touches the network.
type Demo struct {
	Delay time.Duration
}

func NewDemo(delay time.Duration) *Demo {
	if delay < 0 {
		delay = 0
	}
	return &Demo{Delay: delay}
}

func (d *Demo) Name() string { return "demo" }

func (d *Demo) Send(ctx context.Context, _ Form) error {
	if d.Delay == 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
