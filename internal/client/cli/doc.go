// Package cli provides the interactive promptmanager command-line client.
//
// App wires configuration, local storage, the API client and the session
// and theme stores, then runs a REPL. Every view goes through a route guard:
// protected views (dashboard, prompts, profile, passwd) send signed-out users
// to login, public views (login, register) send signed-in users to the
// dashboard. A background watcher pings the server and shows online/offline
// in the prompt.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
