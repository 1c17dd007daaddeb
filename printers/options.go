package printers

// options contains common display options shared by the printers
type options struct {
	Verbose bool
}

type hasOptions interface {
	options() *options
}

// WithVerbose enables the extra per-probe detail sub-lines and the extended
// summary metrics (median, stddev, jitter).
func WithVerbose[T hasOptions]() func(T) {
	return func(p T) {
		p.options().Verbose = true
	}
}
