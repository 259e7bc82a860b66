package worldbox

import (
	"fmt"
	"os"
)

// Diagnostics receives log output from the core. Injected rather than global
// so hosts can route diagnostics to their own logger and tests can assert on
// emitted events instead of console text.
type Diagnostics interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// StderrDiagnostics writes diagnostics to stderr with a [worldbox] prefix.
// The zero value is ready to use.
type StderrDiagnostics struct{}

func (StderrDiagnostics) Infof(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[worldbox] "+format+"\n", args...)
}

func (StderrDiagnostics) Warnf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[worldbox] warning: "+format+"\n", args...)
}

func (StderrDiagnostics) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[worldbox] error: "+format+"\n", args...)
}

// defaultDiagnostics returns diag, or the stderr sink when diag is nil.
func defaultDiagnostics(diag Diagnostics) Diagnostics {
	if diag == nil {
		return StderrDiagnostics{}
	}
	return diag
}
