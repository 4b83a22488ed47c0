//go:build unix

package lifecycle

import (
	"os"
	"syscall"
)

// SIGTSTP is Ctrl-Z, SIGUSR1 is `kill -USR1` from a screen locker or
// script, SIGCONT is `fg`.
var watchedSignals = []os.Signal{syscall.SIGTSTP, syscall.SIGUSR1, syscall.SIGCONT}

func classify(sig os.Signal) event {
	switch sig {
	case syscall.SIGTSTP:
		return eventBackground
	case syscall.SIGUSR1:
		return eventLock
	case syscall.SIGCONT:
		return eventResume
	}
	return eventIgnore
}

// suspendSelf performs the stop that catching SIGTSTP prevented. SIGSTOP
// cannot be caught; the shell's SIGCONT resumes us.
func suspendSelf() {
	_ = syscall.Kill(os.Getpid(), syscall.SIGSTOP)
}
