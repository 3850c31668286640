package agent

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrChannelClosed reports that an agent's control program has exited,
	// so no further action requests will arrive.
	ErrChannelClosed = errors.New("control program channel closed")

	// ErrNoAgentContext reports a binding invoked without an agent behind it.
	ErrNoAgentContext = errors.New("binding called outside an agent context")

	// ErrInvalidAmount rejects non-finite move and turn amounts.
	ErrInvalidAmount = errors.New("action amount must be a finite number")
)

// Link is the request/acknowledge channel between an agent and its control
// program. The program sends one request and parks until the simulation
// resumes it, so at most one request is ever unacknowledged.
type Link struct {
	requests chan Request
	resumes  chan struct{}
	done     chan struct{}
	once     sync.Once
}

func newLink() *Link {
	return &Link{
		requests: make(chan Request, 1),
		resumes:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Do sends req and blocks until the simulation signals completion or ctx ends.
func (l *Link) Do(ctx context.Context, req Request) error {
	select {
	case l.requests <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-l.resumes:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// poll is the simulation side's non-blocking receive.
func (l *Link) poll() (Request, bool, error) {
	select {
	case req := <-l.requests:
		return req, true, nil
	default:
	}
	select {
	case <-l.done:
		return Request{}, false, ErrChannelClosed
	default:
		return Request{}, false, nil
	}
}

// await is poll that waits up to timeout for the program to send.
func (l *Link) await(timeout time.Duration) (Request, bool, error) {
	if req, ok, err := l.poll(); ok || err != nil {
		return req, ok, err
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case req := <-l.requests:
		return req, true, nil
	case <-l.done:
		return l.poll()
	case <-timer.C:
		return Request{}, false, nil
	}
}

// resume wakes the parked control program without ever blocking the caller.
func (l *Link) resume() {
	select {
	case l.resumes <- struct{}{}:
	default:
	}
}

// finish marks the control program as gone.
func (l *Link) finish() {
	l.once.Do(func() { close(l.done) })
}

// Pending returns the number of requests waiting to be dequeued (0 or 1).
func (l *Link) Pending() int {
	return len(l.requests)
}

// Done is closed once the control program has exited.
func (l *Link) Done() <-chan struct{} {
	return l.done
}
