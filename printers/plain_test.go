package printers_test

import (
	"bytes"
	"errors"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pingware/portping/printers"
	"github.com/pingware/portping/probe"
	"github.com/pingware/portping/statistics"
)

func newCapturedPlain(opts ...printers.PlainPrinterOption) (*printers.PlainPrinter, *bytes.Buffer) {
	p := printers.NewPlainPrinter(opts...)
	buf := &bytes.Buffer{}
	p.Out = buf
	return p, buf
}

func hostStats() *statistics.Statistics {
	return &statistics.Statistics{
		Hostname: "example.com",
		IP:       netip.MustParseAddr("93.184.216.34"),
		Port:     443,
	}
}

func TestPlainPrintStart(t *testing.T) {
	p, buf := newCapturedPlain()

	p.PrintStart(hostStats())

	assert.Equal(t, "TCP pinging example.com (IPv4 - 93.184.216.34) on port 443\n", buf.String())
}

func TestPlainPrintStartLiteralIP(t *testing.T) {
	p, buf := newCapturedPlain()

	s := hostStats()
	s.Hostname = s.IP.String()
	s.DestIsIP = true
	p.PrintStart(s)

	assert.Equal(t, "TCP pinging 93.184.216.34 (IPv4) on port 443\n", buf.String())
}

func TestPlainPrintProbeSuccess(t *testing.T) {
	p, buf := newCapturedPlain()

	r := probe.Result{OK: true, RTT: 12500 * time.Microsecond}
	p.PrintProbeSuccess(hostStats(), 3, r)

	assert.Equal(t, "Reply from example.com:443: seq=3 time=12.50 ms\n", buf.String())
}

func TestPlainPrintProbeSuccessVerbose(t *testing.T) {
	p, buf := newCapturedPlain(printers.WithVerbose[*printers.PlainPrinter]())

	local := &net.TCPAddr{IP: net.ParseIP("10.0.0.5"), Port: 54321}
	r := probe.Result{OK: true, RTT: 10 * time.Millisecond, LocalAddr: local}
	p.PrintProbeSuccess(hostStats(), 0, r)

	out := buf.String()
	assert.Contains(t, out, "seq=0 time=10.00 ms")
	assert.Contains(t, out, "  -> local endpoint 10.0.0.5:54321")
}

func TestPlainPrintProbeSuccessVerboseNoLocalAddr(t *testing.T) {
	p, buf := newCapturedPlain(printers.WithVerbose[*printers.PlainPrinter]())

	r := probe.Result{OK: true, RTT: 10 * time.Millisecond}
	p.PrintProbeSuccess(hostStats(), 0, r)

	assert.Contains(t, buf.String(), "local endpoint unavailable")
}

func TestPlainPrintProbeFailure(t *testing.T) {
	tests := []struct {
		name   string
		reason probe.Reason
		want   string
	}{
		{
			name:   "timeout line",
			reason: probe.ReasonTimeout,
			want:   "Timed out waiting for example.com:443: seq=7\n",
		},
		{
			name:   "refused line",
			reason: probe.ReasonRefused,
			want:   "No reply from example.com:443: seq=7\n",
		},
		{
			name:   "other error line",
			reason: probe.ReasonOther,
			want:   "No reply from example.com:443: seq=7\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, buf := newCapturedPlain()

			r := probe.Result{Reason: tt.reason, Err: errors.New("boom")}
			p.PrintProbeFailure(hostStats(), 7, r)

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPlainPrintProbeFailureVerbose(t *testing.T) {
	p, buf := newCapturedPlain(printers.WithVerbose[*printers.PlainPrinter]())

	r := probe.Result{Reason: probe.ReasonRefused, Err: errors.New("connect: connection refused")}
	p.PrintProbeFailure(hostStats(), 1, r)

	assert.Contains(t, buf.String(), "  -> connection refused or unreachable: connect: connection refused")
}

func TestPlainPrintStatistics(t *testing.T) {
	p, buf := newCapturedPlain()

	s := hostStats()
	for _, rtt := range []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond} {
		s.Record(true, rtt)
	}
	s.Record(false, 0)

	p.PrintStatistics(s)

	out := buf.String()
	assert.Contains(t, out, "--- example.com (93.184.216.34) TCP ping statistics ---")
	assert.Contains(t, out, "4 probes transmitted, 3 received, 25.0% packet loss")
	assert.Contains(t, out, "rtt min/avg/max = 10.00/20.00/30.00 ms")
	assert.NotContains(t, out, "median", "extended metrics need verbose")
}

func TestPlainPrintStatisticsVerbose(t *testing.T) {
	p, buf := newCapturedPlain(printers.WithVerbose[*printers.PlainPrinter]())

	s := hostStats()
	for _, rtt := range []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond} {
		s.Record(true, rtt)
	}

	p.PrintStatistics(s)

	assert.Contains(t, buf.String(), "rtt median/stddev/jitter = 20.00/10.00/")
}

func TestPlainPrintStatisticsAllFailed(t *testing.T) {
	p, buf := newCapturedPlain(printers.WithVerbose[*printers.PlainPrinter]())

	s := hostStats()
	for i := 0; i < 5; i++ {
		s.Record(false, 0)
	}

	p.PrintStatistics(s)

	out := buf.String()
	assert.Contains(t, out, "5 probes transmitted, 0 received, 100.0% packet loss")
	assert.NotContains(t, out, "rtt min", "no RTT line without successful samples")
}

func TestPlainPrintStatisticsOneSampleSkipsExtended(t *testing.T) {
	p, buf := newCapturedPlain(printers.WithVerbose[*printers.PlainPrinter]())

	s := hostStats()
	s.Record(true, 10*time.Millisecond)

	p.PrintStatistics(s)

	out := buf.String()
	assert.Contains(t, out, "rtt min/avg/max")
	assert.NotContains(t, out, "median")
}

func TestPlainDone(t *testing.T) {
	p, _ := newCapturedPlain()
	require.NoError(t, p.Done())
}
