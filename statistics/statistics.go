// Package statistics accumulates probe outcomes and derives summary metrics.
package statistics

import (
	"math"
	"net"
	"net/netip"
	"slices"
	"strconv"
	"time"
)

// Statistics is the running accumulator for one probing session. It is
// created once before the loop starts, fed one outcome per probe via Record,
// and queried when the run ends. It is not safe for concurrent use; the
// probe loop is its only writer.
type Statistics struct {
	// Target information
	IP       netip.Addr
	Port     uint16
	Hostname string
	DestIsIP bool

	// Time tracking
	StartTime time.Time
	EndTime   time.Time

	// Probe counters
	Transmitted uint
	Received    uint

	// RTT tracking. RTTs is append-only, one entry per successful probe,
	// in arrival order.
	RTTs   []time.Duration
	MinRTT time.Duration
	MaxRTT time.Duration

	jitter    time.Duration
	hasJitter bool
}

// TargetStr formats the probed endpoint for display. IPv6 targets are
// bracketed; IPv4 targets keep the user-supplied hostname.
func (s *Statistics) TargetStr() string {
	host := s.Hostname
	if s.IP.Is6() {
		host = s.IP.String()
	}
	return net.JoinHostPort(host, strconv.Itoa(int(s.Port)))
}

// Record ingests the outcome of one probe. Transmitted is bumped on every
// call; the timing fields only move on success.
func (s *Statistics) Record(ok bool, rtt time.Duration) {
	s.Transmitted++

	if !ok {
		return
	}

	if n := len(s.RTTs); n > 0 {
		diff := (rtt - s.RTTs[n-1]).Abs()
		if s.hasJitter {
			// RFC 3550 style smoothing: 1/16 weight on the new
			// inter-probe difference.
			s.jitter = (15*s.jitter + diff) / 16
		} else {
			s.jitter = diff
			s.hasJitter = true
		}
	}

	s.RTTs = append(s.RTTs, rtt)
	s.Received++

	if s.Received == 1 || rtt < s.MinRTT {
		s.MinRTT = rtt
	}
	if rtt > s.MaxRTT {
		s.MaxRTT = rtt
	}
}

// LossPercent returns the percentage of transmitted probes that failed.
// It is 0 when nothing has been transmitted yet.
func (s *Statistics) LossPercent() float64 {
	if s.Transmitted == 0 {
		return 0
	}
	return float64(s.Transmitted-s.Received) / float64(s.Transmitted) * 100
}

// Average returns the mean RTT over all successful probes.
// The second return value is false when there are no samples.
func (s *Statistics) Average() (time.Duration, bool) {
	if s.Received == 0 {
		return 0, false
	}

	var sum time.Duration
	for _, rtt := range s.RTTs {
		sum += rtt
	}

	return sum / time.Duration(s.Received), true
}

// Median returns the median RTT: the middle sample for odd counts, the mean
// of the two middle samples for even counts. The sample order is preserved;
// sorting happens on a copy.
func (s *Statistics) Median() (time.Duration, bool) {
	n := len(s.RTTs)
	if n == 0 {
		return 0, false
	}

	sorted := slices.Clone(s.RTTs)
	slices.Sort(sorted)

	mid := n / 2
	if n%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2, true
	}
	return sorted[mid], true
}

// StdDev returns the Bessel-corrected sample standard deviation of the RTTs.
// It is undefined for fewer than two samples.
func (s *Statistics) StdDev() (time.Duration, bool) {
	n := len(s.RTTs)
	if n < 2 {
		return 0, false
	}

	var sum float64
	for _, rtt := range s.RTTs {
		sum += float64(rtt)
	}
	mean := sum / float64(n)

	var sumSquares float64
	for _, rtt := range s.RTTs {
		diff := float64(rtt) - mean
		sumSquares += diff * diff
	}

	return time.Duration(math.Sqrt(sumSquares / float64(n-1))), true
}

// Jitter returns the smoothed inter-probe RTT variability. It is undefined
// until at least two successful samples have arrived.
func (s *Statistics) Jitter() (time.Duration, bool) {
	return s.jitter, s.hasJitter
}

// ToMilliseconds converts a duration to fractional milliseconds for display.
// Duration.Milliseconds is not an option, because it drops decimal points,
// returning an int.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / float64(time.Millisecond)
}
