package portping_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pingware/portping"
	"github.com/pingware/portping/printers"
)

func TestNewPrinterDefaultsToPlain(t *testing.T) {
	p, err := portping.NewPrinter(portping.PrinterConfig{})

	require.NoError(t, err)
	assert.IsType(t, &printers.PlainPrinter{}, p)
}

func TestNewPrinterColorNeedsTerminal(t *testing.T) {
	// stdout is not a terminal under `go test`, so color degrades to plain
	p, err := portping.NewPrinter(portping.PrinterConfig{ColorOutput: true})

	require.NoError(t, err)
	assert.IsType(t, &printers.PlainPrinter{}, p)
}

func TestNewPrinterDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "results.db")

	p, err := portping.NewPrinter(portping.PrinterConfig{
		OutputDBPath: dbPath,
		Target:       "example.com",
		Port:         "443",
	})

	require.NoError(t, err)
	assert.IsType(t, &printers.DatabasePrinter{}, p)
	require.NoError(t, p.Done())
}
