//go:build !unix

package lifecycle

import "os"

// No terminal job control here; only the idle timer applies.
var watchedSignals = []os.Signal{}

func classify(os.Signal) event { return eventIgnore }

func suspendSelf() {}
