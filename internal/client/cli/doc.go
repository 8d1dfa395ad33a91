// Package cli provides the interactive treeboard command-line client.
//
// It wires configuration, the remote store (Postgres when a DSN is
// configured, the local cache otherwise), the session state, and a REPL
// that supports online/offline operation. Typical flow: prompt for the
// user's email, start a background connectivity watcher, and execute user
// commands.
//
// Key features:
//   - Login by email, with an offline demo mode (see 'seed')
//   - Browse colleagues and view their decorated trees with live updates
//   - Send a decorated message (random category, chosen color, optional
//     private flag)
//   - Mission progress and tree customization with locked palettes
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
