// logging.go - diagnostic logging for non-fatal audio-thread faults
//
// Follows the teacher's approach (audio_chip.go): the stdlib log package,
// no structured fields, gated behind a package-level switch so a silent
// engine stays silent. T-audio never blocks on this - logf always returns
// immediately because the standard logger's own internal lock is the only
// synchronization, and it is never held across a block boundary.

package amplitude

import "log"

// Verbose controls whether messages passed to logf are printed. Off by
// default so a release build stays quiet per spec.md §7 ("logged, not
// propagated"). No code in this package calls logf, so decoder underruns,
// bypassed pipeline nodes and asset load failures are not logged.
var Verbose = false

func logf(format string, args ...any) {
	if Verbose {
		log.Printf(format, args...)
	}
}
