// Package dns handles all hostname resolution logic
package dns

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/netip"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pingware/portping/option"
)

var (
	ErrNoIPv4Address = errors.New("no ipv4 address found")
	ErrNoIPv6Address = errors.New("no ipv6 address found")
	ErrResolve       = errors.New("resolve hostname")
)

// Family selects which address family the resolver may return.
type Family int

const (
	// FamilyAuto keeps every IPv4 candidate when at least one exists,
	// otherwise every IPv6 candidate. The two are never mixed.
	FamilyAuto Family = iota
	FamilyIPv4
	FamilyIPv6
)

func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "IPv4"
	case FamilyIPv6:
		return "IPv6"
	default:
		return "auto"
	}
}

// Resolver handles hostname resolution with configurable options
type Resolver struct {
	timeout time.Duration
	family  Family
	log     *logrus.Logger
}

type ResolverOption = option.Option[Resolver]

// WithTimeout sets the DNS resolution timeout
func WithTimeout(timeout time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.timeout = timeout
	}
}

// WithIPv4Only configures the resolver to only return IPv4 addresses
func WithIPv4Only() ResolverOption {
	return func(r *Resolver) {
		r.family = FamilyIPv4
	}
}

// WithIPv6Only configures the resolver to only return IPv6 addresses
func WithIPv6Only() ResolverOption {
	return func(r *Resolver) {
		r.family = FamilyIPv6
	}
}

// WithLogger routes resolution diagnostics to the given logger.
// Only debug-level detail is emitted.
func WithLogger(log *logrus.Logger) ResolverOption {
	return func(r *Resolver) {
		r.log = log
	}
}

const (
	defaultTimeout = 2 * time.Second
	ipv4OrIPv6     = "ip" // allows LookupNetIP to use both IPv4 and IPv6
)

// NewResolver creates a new DNS resolver with optional configuration
func NewResolver(opts ...ResolverOption) *Resolver {
	log := logrus.New()
	log.SetOutput(io.Discard)

	r := &Resolver{
		timeout: defaultTimeout,
		log:     log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve turns a host string into a non-empty, family-filtered, ordered
// list of candidate addresses. Name resolution is attempted first; when it
// errors or yields nothing, the host string is parsed as a literal IP.
func (r *Resolver) Resolve(ctx context.Context, host string) ([]netip.Addr, error) {
	lctx := ctx
	var cancel context.CancelFunc
	if _, ok := ctx.Deadline(); !ok {
		lctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	addrs, err := net.DefaultResolver.LookupNetIP(lctx, ipv4OrIPv6, host)
	if err != nil || len(addrs) == 0 {
		ip, parseErr := netip.ParseAddr(host)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: %s", ErrResolve, host)
		}
		r.log.Debugf("lookup failed for %s, treating it as a literal address", host)
		addrs = []netip.Addr{ip}
	}

	r.log.Debugf("resolved %s to %d address(es), family filter: %s", host, len(addrs), r.family)

	filtered := Filter(addrs, r.family)
	if len(filtered) == 0 {
		if r.family == FamilyIPv6 {
			return nil, fmt.Errorf("%w: %s", ErrNoIPv6Address, host)
		}
		return nil, fmt.Errorf("%w: %s", ErrNoIPv4Address, host)
	}

	if len(filtered) > 1 {
		r.log.Debugf("multiple candidates for %s, the first one (%s) will be used", host, filtered[0])
	}

	return filtered, nil
}

// Filter applies the family preference to a candidate list, preserving
// order. FamilyAuto strictly prefers IPv4: when any IPv4 candidate exists,
// every IPv6 one is dropped.
func Filter(addrs []netip.Addr, family Family) []netip.Addr {
	switch family {
	case FamilyIPv4:
		return filterIPv4(addrs)
	case FamilyIPv6:
		return filterIPv6(addrs)
	default:
		if v4 := filterIPv4(addrs); len(v4) > 0 {
			return v4
		}
		return filterIPv6(addrs)
	}
}

func filterIPv4(addrs []netip.Addr) []netip.Addr {
	var ipList []netip.Addr
	for _, ip := range addrs {
		// static builds (CGO=0) return IPv4-mapped IPv6 addresses
		if ip.Is4() || ip.Is4In6() {
			ipList = append(ipList, ip.Unmap())
		}
	}
	return ipList
}

func filterIPv6(addrs []netip.Addr) []netip.Addr {
	var ipList []netip.Addr
	for _, ip := range addrs {
		if ip.Is6() && !ip.Is4In6() {
			ipList = append(ipList, ip)
		}
	}
	return ipList
}
