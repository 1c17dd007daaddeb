package probe_test

import (
	"context"
	"net"
	"net/netip"
	"syscall"
	"testing"
	"time"

	"github.com/pingware/portping/probe"
)

// startServer starts a listener on a loopback port and accepts connections
// until the test ends.
func startServer(t *testing.T) uint16 {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("start test server: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	return uint16(listener.Addr().(*net.TCPAddr).Port)
}

// closedPort returns a loopback port that was just released, so connecting
// to it is refused.
func closedPort(t *testing.T) uint16 {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	port := uint16(listener.Addr().(*net.TCPAddr).Port)
	listener.Close()

	return port
}

func TestNew(t *testing.T) {
	ip := netip.MustParseAddr("192.168.1.1")
	port := uint16(80)

	p := probe.New(ip, port)

	if p.Addr() != ip {
		t.Errorf("Addr() = %s, want %s", p.Addr(), ip)
	}
	if p.Port() != port {
		t.Errorf("Port() = %d, want %d", p.Port(), port)
	}
}

func TestProbeSuccess(t *testing.T) {
	port := startServer(t)
	p := probe.New(netip.MustParseAddr("127.0.0.1"), port, probe.WithTimeout(time.Second))

	res := p.Probe(context.Background())

	if !res.OK {
		t.Fatalf("Probe() failed: %v (%s)", res.Err, res.Reason)
	}
	if res.RTT <= 0 {
		t.Errorf("RTT = %v, want > 0", res.RTT)
	}
	if res.LocalAddr == nil {
		t.Error("LocalAddr is nil on a completed connection")
	}
	if res.Reason != probe.ReasonNone {
		t.Errorf("Reason = %s, want none", res.Reason)
	}
}

func TestProbeRefused(t *testing.T) {
	port := closedPort(t)
	p := probe.New(netip.MustParseAddr("127.0.0.1"), port, probe.WithTimeout(time.Second))

	res := p.Probe(context.Background())

	if res.OK {
		t.Fatal("Probe() succeeded against a closed port")
	}
	if res.Reason != probe.ReasonRefused {
		t.Errorf("Reason = %s, want refused (err: %v)", res.Reason, res.Err)
	}
	if res.Err == nil {
		t.Error("Err is nil on a failed probe")
	}
}

func TestProbeTimeout(t *testing.T) {
	port := startServer(t)

	// the control hook holds the dial until the deadline fires, so the
	// timeout path does not depend on an unroutable address
	dialer := &net.Dialer{
		ControlContext: func(ctx context.Context, network, address string, c syscall.RawConn) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	p := probe.New(netip.MustParseAddr("127.0.0.1"), port,
		probe.WithDialer(dialer), probe.WithTimeout(100*time.Millisecond))

	start := time.Now()
	res := p.Probe(context.Background())
	elapsed := time.Since(start)

	if res.OK {
		t.Fatal("Probe() succeeded while the dial was held past the deadline")
	}
	if res.Reason != probe.ReasonTimeout {
		t.Errorf("Reason = %s, want timed out (err: %v)", res.Reason, res.Err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("probe took %v, the timeout did not bound it", elapsed)
	}
}

func TestProbeContextCancellation(t *testing.T) {
	port := startServer(t)
	p := probe.New(netip.MustParseAddr("127.0.0.1"), port, probe.WithTimeout(5*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := p.Probe(ctx)

	if res.OK {
		t.Error("Probe() succeeded with a cancelled context")
	}
}

func TestProbeWithDialer(t *testing.T) {
	port := startServer(t)
	dialer := &net.Dialer{}
	p := probe.New(netip.MustParseAddr("127.0.0.1"), port,
		probe.WithDialer(dialer), probe.WithTimeout(time.Second))

	res := p.Probe(context.Background())
	if !res.OK {
		t.Fatalf("Probe() failed: %v", res.Err)
	}
}

func TestReasonString(t *testing.T) {
	tests := []struct {
		reason probe.Reason
		want   string
	}{
		{probe.ReasonNone, "none"},
		{probe.ReasonTimeout, "timed out"},
		{probe.ReasonRefused, "connection refused or unreachable"},
		{probe.ReasonOther, "i/o error"},
	}

	for _, tt := range tests {
		if got := tt.reason.String(); got != tt.want {
			t.Errorf("Reason(%d).String() = %q, want %q", tt.reason, got, tt.want)
		}
	}
}
