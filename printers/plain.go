// Package printers contains the logic for printing information
package printers

import (
	"fmt"
	"io"
	"os"

	"github.com/pingware/portping/probe"
	"github.com/pingware/portping/statistics"
)

// PlainPrinter prints probe results in a simple, uncolored text format.
type PlainPrinter struct {
	Out io.Writer
	opt options
}

type PlainPrinterOption = func(*PlainPrinter)

// NewPlainPrinter creates a PlainPrinter writing to stdout.
func NewPlainPrinter(opts ...PlainPrinterOption) *PlainPrinter {
	p := &PlainPrinter{Out: os.Stdout}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *PlainPrinter) options() *options {
	return &p.opt
}

// PrintStart prints the banner naming the target, its family and the
// resolved address.
func (p *PlainPrinter) PrintStart(s *statistics.Statistics) {
	if s.DestIsIP {
		fmt.Fprintf(p.Out, "TCP pinging %s (%s) on port %d\n", s.IP, family(s), s.Port)
		return
	}
	fmt.Fprintf(p.Out, "TCP pinging %s (%s - %s) on port %d\n", s.Hostname, family(s), s.IP, s.Port)
}

// PrintProbeSuccess prints the reply line for one successful probe.
func (p *PlainPrinter) PrintProbeSuccess(s *statistics.Statistics, seq uint, r probe.Result) {
	fmt.Fprintf(p.Out, "Reply from %s: seq=%d time=%.2f ms\n",
		s.TargetStr(), seq, statistics.ToMilliseconds(r.RTT))

	if p.opt.Verbose {
		if r.LocalAddr != nil {
			fmt.Fprintf(p.Out, "  -> local endpoint %s\n", r.LocalAddr)
		} else {
			fmt.Fprintf(p.Out, "  -> local endpoint unavailable\n")
		}
	}
}

// PrintProbeFailure prints the no-response line for one failed probe.
func (p *PlainPrinter) PrintProbeFailure(s *statistics.Statistics, seq uint, r probe.Result) {
	if r.Reason == probe.ReasonTimeout {
		fmt.Fprintf(p.Out, "Timed out waiting for %s: seq=%d\n", s.TargetStr(), seq)
	} else {
		fmt.Fprintf(p.Out, "No reply from %s: seq=%d\n", s.TargetStr(), seq)
	}

	if p.opt.Verbose {
		fmt.Fprintf(p.Out, "  -> %s: %v\n", r.Reason, r.Err)
	}
}

// PrintStatistics prints the end-of-run summary.
func (p *PlainPrinter) PrintStatistics(s *statistics.Statistics) {
	if s.DestIsIP {
		fmt.Fprintf(p.Out, "\n--- %s TCP ping statistics ---\n", s.Hostname)
	} else {
		fmt.Fprintf(p.Out, "\n--- %s (%s) TCP ping statistics ---\n", s.Hostname, s.IP)
	}

	fmt.Fprintf(p.Out, "%d probes transmitted, %d received, %.1f%% packet loss\n",
		s.Transmitted, s.Received, s.LossPercent())

	avg, ok := s.Average()
	if !ok {
		return
	}

	fmt.Fprintf(p.Out, "rtt min/avg/max = %.2f/%.2f/%.2f ms\n",
		statistics.ToMilliseconds(s.MinRTT),
		statistics.ToMilliseconds(avg),
		statistics.ToMilliseconds(s.MaxRTT))

	if !p.opt.Verbose {
		return
	}

	median, _ := s.Median()
	stddev, ok := s.StdDev()
	jitter, _ := s.Jitter()
	if !ok {
		// fewer than two samples, the extended metrics are undefined
		return
	}

	fmt.Fprintf(p.Out, "rtt median/stddev/jitter = %.2f/%.2f/%.2f ms\n",
		statistics.ToMilliseconds(median),
		statistics.ToMilliseconds(stddev),
		statistics.ToMilliseconds(jitter))
}

// PrintError prints an error message to stderr.
func (p *PlainPrinter) PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// Done satisfies the Printer interface; there is nothing to release.
func (p *PlainPrinter) Done() error {
	return nil
}

func family(s *statistics.Statistics) string {
	if s.IP.Is4() {
		return "IPv4"
	}
	return "IPv6"
}
