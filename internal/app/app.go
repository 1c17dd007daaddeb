// Package app wires the parsed configuration, the resolver, the prober and
// the printers together into one run of the program.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/pingware/portping"
	"github.com/pingware/portping/dns"
	"github.com/pingware/portping/probe"
)

var log = logrus.New()

// Run executes the application and returns an exit code.
func Run() int {
	config, err := ProcessUserInput()
	if err != nil {
		return handleError(err, nil)
	}

	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if config.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	printer, err := portping.NewPrinter(config.PrinterConfig)
	if err != nil {
		return handleError(err, nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	target, err := resolveTarget(ctx, config)
	if err != nil {
		return handleError(err, printer)
	}

	prober := buildProber(target, config, printer)

	flag := portping.NewStopFlag()
	setupSignalHandler(flag)

	log.Debugf("probe parameters: timeout=%v, interval=%v, count=%s",
		config.Timeout, config.Interval, countStr(config.ProbeCount))

	stats := prober.Run(flag)

	// a run with zero transmissions produces no summary
	if stats.Transmitted > 0 {
		printer.PrintStatistics(stats)
	}

	if err := printer.Done(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	return 0
}

// resolveTarget resolves the configured host and picks the first filtered
// candidate for the entire run. Alternates are never retried: a bad first
// address stalls the run, which is accepted behavior.
func resolveTarget(ctx context.Context, config Config) (netip.Addr, error) {
	opts := []dns.ResolverOption{dns.WithLogger(log)}

	switch config.Family {
	case dns.FamilyIPv4:
		opts = append(opts, dns.WithIPv4Only())
	case dns.FamilyIPv6:
		opts = append(opts, dns.WithIPv6Only())
	}

	addrs, err := dns.NewResolver(opts...).Resolve(ctx, config.Hostname)
	if err != nil {
		return netip.Addr{}, err
	}

	return addrs[0], nil
}

func buildProber(target netip.Addr, config Config, printer portping.Printer) *portping.Prober {
	pinger := probe.New(target, config.Port, probe.WithTimeout(config.Timeout))

	opts := []portping.ProberOption{
		portping.WithPrinter(printer),
		portping.WithInterval(config.Interval),
		portping.WithProbeCount(config.ProbeCount),
	}

	if config.Hostname != target.String() {
		opts = append(opts, portping.WithHostname(config.Hostname))
	}

	return portping.NewProber(pinger, opts...)
}

// setupSignalHandler maps the first interrupt to a graceful stop and the
// second to immediate process termination. The second interrupt deliberately
// bypasses the in-flight probe and the summary; it is the escape hatch for a
// very slow probe.
func setupSignalHandler(flag *portping.StopFlag) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println()
		flag.Stop()

		<-sigChan
		os.Exit(0)
	}()
}

func countStr(count uint) string {
	if count == 0 {
		return "unbounded"
	}
	return fmt.Sprint(count)
}

func handleError(err error, printer portping.Printer) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, ErrUsageRequested) {
		PrintUsage()
		return 1
	}

	if errors.Is(err, ErrVersionRequested) {
		PrintVersion()
		return 0
	}

	if errors.Is(err, ErrUpdateCheckRequested) {
		msg, checkErr := CheckForUpdates()
		if checkErr != nil {
			printError(checkErr, printer)
			return 1
		}
		fmt.Println(msg)
		return 0
	}

	printError(err, printer)
	return 1
}

func printError(err error, printer portping.Printer) {
	if printer != nil {
		printer.PrintError("%v", err)
		return
	}

	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}
