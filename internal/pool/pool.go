// Package pool implements a bounded, thread-safe pool of live connx.Connection
// instances: lazy creation up to a configured size, FIFO-fair acquisition
// with a timeout, liveness discard of poisoned connections, and scoped
// checkout via With.
package pool

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"redisconn/internal/connx"
	"redisconn/internal/logger"
	"redisconn/internal/resp"
)

// ErrPoolClosed is returned by Checkout and With once Shutdown has run.
var ErrPoolClosed = errors.New("redisconn: pool closed")

// Factory dials one new Connection. It captures whatever address and
// per-connection timeouts the caller configured (e.g. connx.ConnectTCP or
// connx.ConnectLocal bound to fixed arguments).
type Factory func() (*connx.Connection, error)

// Options configures a Pool. Zero-value fields fall back to the defaults
// returned by DefaultOptions.
type Options struct {
	// Size is the maximum number of simultaneously live connections.
	Size int
	// AcquireTimeout bounds how long Checkout waits for a free connection.
	AcquireTimeout time.Duration
	// MaxOpsPerSecond throttles checkout throughput across the whole pool
	// when positive; zero means unlimited.
	MaxOpsPerSecond float64
}

// DefaultOptions returns size 5, a 5s acquisition timeout, and no
// throughput cap.
func DefaultOptions() Options {
	return Options{
		Size:           5,
		AcquireTimeout: 5 * time.Second,
	}
}

// Pool is safe for concurrent use by any number of goroutines.
type Pool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	factory Factory
	size    int
	timeout time.Duration
	log     *logger.Logger

	idle    []*connx.Connection
	all     map[*connx.Connection]struct{}
	pending int // tickets that passed the capacity gate but haven't dialed yet
	closed  bool

	queue      []uint64 // FIFO ticket queue of waiting checkouts
	nextTicket uint64

	limiter *rate.Limiter

	createdTotal   int64
	destroyedTotal int64
}

// New builds a Pool. log may be nil (defaults to a no-op logger).
func New(factory Factory, opts Options, log *logger.Logger) *Pool {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	if opts.AcquireTimeout <= 0 {
		opts.AcquireTimeout = DefaultOptions().AcquireTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	p := &Pool{
		factory: factory,
		size:    opts.Size,
		timeout: opts.AcquireTimeout,
		log:     log,
		all:     make(map[*connx.Connection]struct{}),
	}
	p.cond = sync.NewCond(&p.mu)
	if opts.MaxOpsPerSecond > 0 {
		burst := int(opts.MaxOpsPerSecond)
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(opts.MaxOpsPerSecond), burst)
	}
	return p
}

// Checkout returns a live connection: an idle one if available, a freshly
// dialed one if under capacity (the slot is reserved in p.pending before
// the factory runs, so two tickets can never both pass the capacity gate),
// or, once the pool is saturated, waits in FIFO order for a checkin up to
// the configured acquisition timeout. On expiry it fails with a *resp.Fault
// of KindPoolTimeout.
func (p *Pool) Checkout() (*connx.Connection, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}

	ticket := p.nextTicket
	p.nextTicket++
	p.queue = append(p.queue, ticket)
	deadline := time.Now().Add(p.timeout)

	defer p.dropTicket(ticket)

	for {
		if p.closed {
			p.mu.Unlock()
			return nil, ErrPoolClosed
		}

		if len(p.queue) > 0 && p.queue[0] == ticket {
			if n := len(p.idle); n > 0 {
				conn := p.idle[n-1]
				p.idle = p.idle[:n-1]
				p.popFront()
				p.mu.Unlock()
				return p.throttle(conn, deadline)
			}
			if len(p.all)+p.pending < p.size {
				p.pending++
				p.popFront()
				p.mu.Unlock()
				conn, err := p.dial()
				if err != nil {
					p.mu.Lock()
					p.pending--
					p.cond.Broadcast()
					p.mu.Unlock()
					return nil, err
				}
				return p.throttle(conn, deadline)
			}
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			p.mu.Unlock()
			return nil, resp.NewPoolTimeout("checkout exceeded acquisition timeout")
		}

		timer := time.AfterFunc(remaining, func() {
			p.mu.Lock()
			p.cond.Broadcast()
			p.mu.Unlock()
		})
		p.cond.Wait()
		timer.Stop()
	}
}

// dial runs the factory outside the pool lock and records the result. The
// caller has already reserved this connection's slot in p.pending under
// p.mu, so the capacity check in Checkout and the p.all insert here can
// never both admit more than p.size connections.
func (p *Pool) dial() (*connx.Connection, error) {
	conn, err := p.factory()
	if err != nil {
		p.log.Warnf("connection factory failed: %v", err)
		return nil, err
	}
	p.mu.Lock()
	p.pending--
	p.all[conn] = struct{}{}
	p.createdTotal++
	p.log.Infof("connection established (active=%d idle=%d)", len(p.all)-len(p.idle), len(p.idle))
	p.mu.Unlock()
	return conn, nil
}

// throttle waits for the rate limiter (if configured) to admit one more
// checkout, bounded by the same acquisition deadline Checkout is honoring.
// A limiter wait that would exceed deadline fails the checkout with
// KindPoolTimeout and returns conn to the idle pool rather than leaking it.
func (p *Pool) throttle(conn *connx.Connection, deadline time.Time) (*connx.Connection, error) {
	if p.limiter == nil {
		return conn, nil
	}
	ctx := context.Background()
	if !deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}
	if err := p.limiter.Wait(ctx); err != nil {
		p.Checkin(conn)
		return nil, resp.NewPoolTimeout("checkout exceeded acquisition timeout while rate-limited")
	}
	return conn, nil
}

// Checkin returns conn to the pool if it is still healthy; otherwise it is
// closed and the pool's total count drops by one, so the next Checkout
// dials a fresh replacement.
func (p *Pool) Checkin(conn *connx.Connection) {
	p.mu.Lock()
	defer func() {
		p.cond.Broadcast()
		p.mu.Unlock()
	}()

	if p.closed {
		delete(p.all, conn)
		_ = conn.Close()
		return
	}

	if conn.IsConnected() && !conn.IsPoisoned() {
		p.idle = append(p.idle, conn)
		return
	}

	delete(p.all, conn)
	p.destroyedTotal++
	p.log.Warnf("discarding poisoned connection on checkin (active=%d idle=%d)", len(p.all)-len(p.idle), len(p.idle))
	_ = conn.Close()
}

// With is the scoped-acquisition helper: checkout, invoke fn, and checkin
// on every exit path including a panic from fn. If fn panics, the
// connection is checked in (discarded if it was poisoned by the panic's
// cause) and the panic is re-raised.
func (p *Pool) With(fn func(*connx.Connection) error) error {
	conn, err := p.Checkout()
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			p.Checkin(conn)
			panic(r)
		}
	}()
	err = fn(conn)
	p.Checkin(conn)
	return err
}

// Shutdown closes every idle and outstanding connection and rejects
// subsequent checkouts with ErrPoolClosed.
func (p *Pool) Shutdown() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	conns := make([]*connx.Connection, 0, len(p.all))
	for c := range p.all {
		conns = append(conns, c)
	}
	p.all = make(map[*connx.Connection]struct{})
	p.idle = nil
	p.cond.Broadcast()
	p.mu.Unlock()

	var firstErr error
	for _, c := range conns {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Stats is a point-in-time snapshot of pool occupancy, used by
// internal/diag for operator-facing diagnostics.
type Stats struct {
	Idle           int
	Active         int
	Total          int
	Waiters        int
	CreatedTotal   int64
	DestroyedTotal int64
}

// Stats returns a snapshot of the pool's current occupancy.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Idle:           len(p.idle),
		Active:         len(p.all) - len(p.idle),
		Total:          len(p.all),
		Waiters:        len(p.queue),
		CreatedTotal:   p.createdTotal,
		DestroyedTotal: p.destroyedTotal,
	}
}

// popFront removes the ticket currently at the head of the queue. Callers
// hold p.mu and have already verified queue[0] is the ticket being served.
func (p *Pool) popFront() {
	p.queue = p.queue[1:]
}

// dropTicket removes ticket from the queue wherever it sits (a no-op if
// it was already popped by popFront). Used via defer so a Checkout that
// exits on ErrPoolClosed or a timeout never leaves a stale ticket blocking
// everyone behind it.
func (p *Pool) dropTicket(ticket uint64) {
	p.mu.Lock()
	for i, t := range p.queue {
		if t == ticket {
			p.queue = append(p.queue[:i], p.queue[i+1:]...)
			break
		}
	}
	p.cond.Broadcast()
	p.mu.Unlock()
}
