package portping

import (
	"os"

	"golang.org/x/term"

	"github.com/pingware/portping/printers"
	"github.com/pingware/portping/probe"
	"github.com/pingware/portping/statistics"
)

var (
	_ Printer = (*printers.ColorPrinter)(nil)
	_ Printer = (*printers.PlainPrinter)(nil)
	_ Printer = (*printers.DatabasePrinter)(nil)
)

// Printer defines a set of methods that any printer implementation must
// provide. Printers are responsible for outputting information, but should
// not modify data or perform calculations.
type Printer interface {
	// PrintStart prints the first message to indicate the target's
	// address and port. This message is printed only once, at the very
	// beginning.
	PrintStart(s *statistics.Statistics)

	// PrintProbeSuccess should print a message after each successful
	// probe, correlated by its zero-based sequence number.
	PrintProbeSuccess(s *statistics.Statistics, seq uint, r probe.Result)

	// PrintProbeFailure should print a message after each failed probe.
	PrintProbeFailure(s *statistics.Statistics, seq uint, r probe.Result)

	// PrintStatistics should print the end-of-run summary. It is not
	// called when nothing was transmitted.
	PrintStatistics(s *statistics.Statistics)

	// PrintError should print an error message. Printer should also
	// apply \n to the given string, if needed.
	PrintError(format string, args ...any)

	// Done releases whatever the printer holds open, such as a database
	// connection. Called once, after the summary.
	Done() error
}

// PrinterConfig holds all configuration options for Printer creation
type PrinterConfig struct {
	ColorOutput  bool
	Verbose      bool
	OutputDBPath string
	Target       string
	Port         string
}

// NewPrinter creates and returns an appropriate printer based on
// configuration. Color output is opt-in and silently degrades to plain text
// when stdout is not a terminal.
func NewPrinter(cfg PrinterConfig) (Printer, error) {
	switch {
	case cfg.OutputDBPath != "":
		return printers.NewDatabasePrinter(cfg.Target, cfg.Port, cfg.OutputDBPath)

	case cfg.ColorOutput && term.IsTerminal(int(os.Stdout.Fd())):
		var opts []printers.ColorPrinterOption
		if cfg.Verbose {
			opts = append(opts, printers.WithVerbose[*printers.ColorPrinter]())
		}
		return printers.NewColorPrinter(opts...), nil

	default:
		var opts []printers.PlainPrinterOption
		if cfg.Verbose {
			opts = append(opts, printers.WithVerbose[*printers.PlainPrinter]())
		}
		return printers.NewPlainPrinter(opts...), nil
	}
}
