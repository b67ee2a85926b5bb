// Package cli provides the interactive linkdrop upload client.
//
// It wires configuration, the HTTP transport, the staging controller, the
// terminal view and the drop zone into a REPL. Typical flow: stage files
// with add or drop, optionally set the link password, then submit.
//
// Key features:
//   - Stage files by path, directory or glob (add) or by dragging them onto
//     the terminal (drop)
//   - Remove, list and resubmit staged files
//   - Ctrl-C cancels a running submission
//   - Online/offline status from the server's gRPC health service
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
