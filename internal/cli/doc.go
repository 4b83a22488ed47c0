// Package cli provides the interactive Kasa terminal client.
//
// It wires configuration, local storage, the session gate and the
// lifecycle watcher into a REPL. Typical flow: create the vault on first
// run (setup), unlock it (login), work with notes, and lock it again
// explicitly, by suspending the terminal, or by leaving it idle.
//
// Key features:
//   - setup / login / lock
//   - forgot password: reset through the security question, or wipe when
//     the vault has none
//   - notes: list, show, add, edit, delete, color, copy to clipboard
//   - light/dark theme for coloured feedback
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
