// Package capture turns user selections into staged entries.
//
// A terminal has no drop target: dragging files onto it pastes their paths,
// shell-quoted, separated by spaces or newlines. Capture models the drop
// target over that paste and Pick is the explicit file picker. Both hand
// accepted entries to a Sink (the staging controller) and report every path
// they could not use.
package capture
