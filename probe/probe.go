// Package probe implements the single timed TCP connection attempt.
package probe

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"strconv"
	"syscall"
	"time"

	"github.com/pingware/portping/option"
)

// Reason classifies why a probe failed.
type Reason int

const (
	ReasonNone Reason = iota
	// ReasonTimeout means the wall-clock budget elapsed before the
	// connection completed, whatever the dial would eventually report.
	ReasonTimeout
	// ReasonRefused covers actively refused or unreachable targets.
	ReasonRefused
	ReasonOther
)

func (r Reason) String() string {
	switch r {
	case ReasonTimeout:
		return "timed out"
	case ReasonRefused:
		return "connection refused or unreachable"
	case ReasonOther:
		return "i/o error"
	default:
		return "none"
	}
}

// Result is the outcome of one probe. RTT is only meaningful when OK is
// true. LocalAddr is best effort and may be nil even on success.
type Result struct {
	OK        bool
	RTT       time.Duration
	LocalAddr net.Addr
	Reason    Reason
	Err       error
}

// TCPProber attempts TCP connections to a fixed address and port, each one
// bounded by the configured timeout. Every probe opens and closes its own
// socket; nothing is kept alive between attempts.
type TCPProber struct {
	dialer  *net.Dialer
	addr    netip.Addr
	port    uint16
	timeout time.Duration
}

type TCPProberOption = option.Option[TCPProber]

const defaultTimeout = time.Second

// New creates a TCP prober for the given address and port.
func New(addr netip.Addr, port uint16, opts ...TCPProberOption) *TCPProber {
	t := &TCPProber{
		addr:    addr,
		port:    port,
		timeout: defaultTimeout,
		dialer:  &net.Dialer{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// WithTimeout bounds each connection attempt. The timeout must be positive.
func WithTimeout(timeout time.Duration) TCPProberOption {
	return func(t *TCPProber) {
		t.timeout = timeout
	}
}

// WithDialer configures a custom net.Dialer for TCP connections.
func WithDialer(dialer *net.Dialer) TCPProberOption {
	return func(t *TCPProber) {
		t.dialer = dialer
	}
}

// Addr returns the probed address.
func (t *TCPProber) Addr() netip.Addr {
	return t.addr
}

// Port returns the probed port.
func (t *TCPProber) Port() uint16 {
	return t.port
}

const tcp = "tcp"

func (t *TCPProber) address() string {
	return net.JoinHostPort(t.addr.String(), strconv.Itoa(int(t.port)))
}

// Probe races one connection attempt against the timeout and reports the
// elapsed time. The first of {connect completes, deadline elapses} wins.
func (t *TCPProber) Probe(ctx context.Context) Result {
	dctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	start := time.Now()
	conn, err := t.dialer.DialContext(dctx, tcp, t.address())
	rtt := time.Since(start)

	if err != nil {
		return Result{Reason: classify(err), Err: err}
	}

	// Failing to learn the local endpoint only loses diagnostic detail.
	local := conn.LocalAddr()
	conn.Close()

	return Result{OK: true, RTT: rtt, LocalAddr: local}
}

func classify(err error) Reason {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return ReasonTimeout
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETUNREACH):
		return ReasonRefused
	}

	return ReasonOther
}
