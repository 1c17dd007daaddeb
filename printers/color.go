package printers

import (
	"github.com/gookit/color"

	"github.com/pingware/portping/probe"
	"github.com/pingware/portping/statistics"
)

// Color functions used when printing information
var (
	ColorCyan        = color.Cyan.Printf
	ColorLightCyan   = color.LightCyan.Printf
	ColorGreen       = color.Green.Printf
	ColorLightGreen  = color.LightGreen.Printf
	ColorYellow      = color.Yellow.Printf
	ColorLightYellow = color.LightYellow.Printf
	ColorRed         = color.Red.Printf
	ColorLightBlue   = color.FgLightBlue.Printf
)

// ColorPrinter provides functionality for printing messages with color
// support: a success tone for replies, a failure tone for losses.
type ColorPrinter struct {
	opt options
}

type ColorPrinterOption = func(*ColorPrinter)

// NewColorPrinter creates a new ColorPrinter instance.
func NewColorPrinter(opts ...ColorPrinterOption) *ColorPrinter {
	p := &ColorPrinter{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *ColorPrinter) options() *options {
	return &p.opt
}

// PrintStart prints the banner naming the target, its family and the
// resolved address, in light cyan.
func (p *ColorPrinter) PrintStart(s *statistics.Statistics) {
	if s.DestIsIP {
		ColorLightCyan("TCP pinging %s (%s) on port %d\n", s.IP, family(s), s.Port)
		return
	}
	ColorLightCyan("TCP pinging %s (%s - %s) on port %d\n", s.Hostname, family(s), s.IP, s.Port)
}

// PrintProbeSuccess prints the reply line for one successful probe.
func (p *ColorPrinter) PrintProbeSuccess(s *statistics.Statistics, seq uint, r probe.Result) {
	ColorLightGreen("Reply from %s: seq=%d time=%.2f ms\n",
		s.TargetStr(), seq, statistics.ToMilliseconds(r.RTT))

	if p.opt.Verbose {
		if r.LocalAddr != nil {
			ColorLightBlue("  -> local endpoint %s\n", r.LocalAddr)
		} else {
			ColorLightBlue("  -> local endpoint unavailable\n")
		}
	}
}

// PrintProbeFailure prints the no-response line for one failed probe.
func (p *ColorPrinter) PrintProbeFailure(s *statistics.Statistics, seq uint, r probe.Result) {
	if r.Reason == probe.ReasonTimeout {
		ColorRed("Timed out waiting for %s: seq=%d\n", s.TargetStr(), seq)
	} else {
		ColorRed("No reply from %s: seq=%d\n", s.TargetStr(), seq)
	}

	if p.opt.Verbose {
		ColorLightBlue("  -> %s: %v\n", r.Reason, r.Err)
	}
}

// PrintStatistics prints the end-of-run summary. The loss percentage is
// toned by severity.
func (p *ColorPrinter) PrintStatistics(s *statistics.Statistics) {
	if s.DestIsIP {
		ColorYellow("\n--- %s TCP ping statistics ---\n", s.Hostname)
	} else {
		ColorYellow("\n--- %s (%s) TCP ping statistics ---\n", s.Hostname, s.IP)
	}

	ColorYellow("%d probes transmitted, %d received, ", s.Transmitted, s.Received)

	loss := s.LossPercent()
	switch {
	case loss == 0:
		ColorGreen("%.1f%%", loss)
	case loss <= 30:
		ColorLightYellow("%.1f%%", loss)
	default:
		ColorRed("%.1f%%", loss)
	}
	ColorYellow(" packet loss\n")

	avg, ok := s.Average()
	if !ok {
		return
	}

	ColorYellow("rtt ")
	ColorGreen("min")
	ColorYellow("/")
	ColorCyan("avg")
	ColorYellow("/")
	ColorRed("max: ")
	ColorGreen("%.2f", statistics.ToMilliseconds(s.MinRTT))
	ColorYellow("/")
	ColorCyan("%.2f", statistics.ToMilliseconds(avg))
	ColorYellow("/")
	ColorRed("%.2f", statistics.ToMilliseconds(s.MaxRTT))
	ColorYellow(" ms\n")

	if !p.opt.Verbose {
		return
	}

	median, _ := s.Median()
	stddev, ok := s.StdDev()
	jitter, _ := s.Jitter()
	if !ok {
		return
	}

	ColorYellow("rtt median/stddev/jitter: %.2f/%.2f/%.2f ms\n",
		statistics.ToMilliseconds(median),
		statistics.ToMilliseconds(stddev),
		statistics.ToMilliseconds(jitter))
}

// PrintError prints an error message in red.
func (p *ColorPrinter) PrintError(format string, args ...any) {
	ColorRed(format+"\n", args...)
}

// Done satisfies the Printer interface; there is nothing to release.
func (p *ColorPrinter) Done() error {
	return nil
}
