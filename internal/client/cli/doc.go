// Package cli provides the interactive gophsnap command-line client.
//
// It wires configuration, the gRPC client, and an interactive REPL. A
// background watcher probes the server and tracks whether it is online,
// offline or in maintenance.
//
// Key features:
//   - Register / Login / Logout / Me
//   - Bet on the even/odd game
//   - Request withdrawals
//   - Show server info
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
