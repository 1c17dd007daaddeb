package app

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/pingware/portping"
	"github.com/pingware/portping/dns"
)

var (
	// ErrUsageRequested indicates usage help was requested
	ErrUsageRequested = errors.New("usage requested")

	// ErrVersionRequested indicates version display was requested
	ErrVersionRequested = errors.New("version requested")

	// ErrUpdateCheckRequested indicates update check was requested
	ErrUpdateCheckRequested = errors.New("update check requested")
)

// Config contains all configuration needed to create and run a prober.
type Config struct {
	// Target configuration
	Hostname string
	Port     uint16
	Family   dns.Family

	// Timing options
	Timeout  time.Duration
	Interval time.Duration

	// Probe control. 0 means probe until interrupted.
	ProbeCount uint

	// Output options
	Verbose       bool
	PrinterConfig portping.PrinterConfig
}

// ProcessUserInput parses command-line flags. Returns ErrUsageRequested,
// ErrVersionRequested, or ErrUpdateCheckRequested for special control flow.
func ProcessUserInput() (Config, error) {
	port := flag.Int("p", 80, "target port number (0-65535).")
	count := flag.Uint("n", 0, "stop after <n> probes, regardless of the result. 0 means probe until interrupted.")
	timeout := flag.Uint("t", 1000, "time to wait for each connection, in milliseconds.")
	interval := flag.Uint("i", 1000, "interval between probes, in milliseconds.")
	useIPv4 := flag.Bool("4", false, "only use IPv4 to initiate probes.")
	useIPv6 := flag.Bool("6", false, "only use IPv6 to initiate probes.")
	verbose := flag.Bool("v", false, "show per-probe connection details and extended summary metrics.")
	colorOutput := flag.Bool("c", false, "colorize output.")
	saveToDB := flag.String("db", "", "path and file name to store results in a sqlite3 database.")
	checkUpdates := flag.Bool("u", false, "check for updates and exit.")
	showVer := flag.Bool("version", false, "show version and exit.")

	flag.CommandLine.Usage = func() {
		// no-op, usage is handled by the app package
	}

	flag.Parse()

	args := flag.Args()

	if *showVer {
		return Config{}, ErrVersionRequested
	}

	if *checkUpdates {
		return Config{}, ErrUpdateCheckRequested
	}

	if len(args) != 1 {
		return Config{}, ErrUsageRequested
	}

	if *useIPv4 && *useIPv6 {
		return Config{}, fmt.Errorf("%w: only one IP version can be specified", ErrUsageRequested)
	}

	if *port < 0 || *port > 65535 {
		return Config{}, fmt.Errorf("port should be in 0..65535 range")
	}

	if *timeout == 0 {
		return Config{}, fmt.Errorf("timeout should be a positive number of milliseconds")
	}

	family := dns.FamilyAuto
	if *useIPv4 {
		family = dns.FamilyIPv4
	} else if *useIPv6 {
		family = dns.FamilyIPv6
	}

	return Config{
		Hostname:   args[0],
		Port:       uint16(*port),
		Family:     family,
		Timeout:    time.Duration(*timeout) * time.Millisecond,
		Interval:   time.Duration(*interval) * time.Millisecond,
		ProbeCount: *count,
		Verbose:    *verbose,
		PrinterConfig: portping.PrinterConfig{
			ColorOutput:  *colorOutput,
			Verbose:      *verbose,
			OutputDBPath: *saveToDB,
			Target:       args[0],
			Port:         strconv.Itoa(*port),
		},
	}, nil
}
