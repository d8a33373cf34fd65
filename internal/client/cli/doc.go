// Package cli provides the interactive EchoVault command-line client.
//
// App runs a REPL next to background workers (session expiry, OS color
// scheme watching) and turns commands into calls on the session tracker,
// the entry view model and the theme resolver. Notices posted while a
// command runs are printed as they arrive and stay listed until dismissed.
//
// Commands:
//   - register, login [provider], logout, whoami
//   - list, search [term], view timeline|mindmap, refresh
//   - add, delete <id>
//   - theme [system|light|dark], night on|off
//   - notices, dismiss <n|all>
//   - help, exit | quit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
