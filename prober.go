// Package portping orchestrates repeated TCP connect probes against a single
// target and aggregates their timing statistics.
package portping

import (
	"context"
	"net/netip"
	"time"

	"github.com/pingware/portping/option"
	"github.com/pingware/portping/printers"
	"github.com/pingware/portping/probe"
	"github.com/pingware/portping/statistics"
)

// Pinger is the probe primitive the loop drives. probe.TCPProber satisfies it.
type Pinger interface {
	Probe(ctx context.Context) probe.Result
	Addr() netip.Addr
	Port() uint16
}

// Prober drives periodic probes at a fixed cadence, feeding every outcome to
// the statistics aggregator and the printer. At most one probe is ever in
// flight; outcomes are recorded strictly in issue order.
type Prober struct {
	pinger          Pinger
	printer         Printer
	Interval        time.Duration
	ProbeCountLimit uint
	Statistics      statistics.Statistics
}

type ProberOption = option.Option[Prober]

// WithInterval configures the pause between consecutive probes.
func WithInterval(interval time.Duration) ProberOption {
	return func(p *Prober) {
		p.Interval = interval
	}
}

// WithPrinter configures the printer for probe output formatting.
func WithPrinter(printer Printer) ProberOption {
	return func(p *Prober) {
		p.printer = printer
	}
}

// WithProbeCount configures the maximum number of probes before stopping.
// If set to 0, probing continues until stopped.
func WithProbeCount(count uint) ProberOption {
	return func(p *Prober) {
		p.ProbeCountLimit = count
	}
}

// WithHostname records the user-supplied hostname for display, used when the
// target required DNS resolution.
func WithHostname(hostname string) ProberOption {
	return func(p *Prober) {
		p.Statistics.Hostname = hostname
		p.Statistics.DestIsIP = false
	}
}

const DefaultInterval = time.Second

// NewProber creates a prober around the given pinger.
func NewProber(p Pinger, opts ...ProberOption) *Prober {
	pr := Prober{
		pinger:   p,
		printer:  printers.NewPlainPrinter(),
		Interval: DefaultInterval,
	}

	pr.Statistics.IP = p.Addr()
	pr.Statistics.Hostname = p.Addr().String()
	pr.Statistics.Port = p.Port()
	pr.Statistics.DestIsIP = true

	for _, opt := range opts {
		opt(&pr)
	}
	return &pr
}

// Run probes until the count limit is reached or the flag is stopped, and
// returns the accumulated statistics. The flag is checked before each probe
// and before each wait; stopping never aborts an in-flight probe, it only
// prevents the next one and cuts any pending wait short.
func (p *Prober) Run(flag *StopFlag) *statistics.Statistics {
	p.Statistics.StartTime = time.Now()
	p.printer.PrintStart(&p.Statistics)

	var seq uint

	for flag.Running() && (p.ProbeCountLimit == 0 || seq < p.ProbeCountLimit) {
		res := p.pinger.Probe(context.Background())

		p.Statistics.Record(res.OK, res.RTT)
		if res.OK {
			p.printer.PrintProbeSuccess(&p.Statistics, seq, res)
		} else {
			p.printer.PrintProbeFailure(&p.Statistics, seq, res)
		}
		seq++

		if !flag.Running() || (p.ProbeCountLimit > 0 && seq >= p.ProbeCountLimit) {
			break
		}

		timer := time.NewTimer(p.Interval)
		select {
		case <-timer.C:
		case <-flag.Done():
			timer.Stop()
		}
	}

	p.Statistics.EndTime = time.Now()
	return &p.Statistics
}
