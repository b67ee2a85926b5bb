// Package view renders the staging controller to a terminal.
//
// Terminal implements staging.View and capture.Highlighter. It keeps the
// last state it was given and writes line-oriented output: the whole list on
// every render, a carriage-return updated progress line while a submission
// runs, and the notices block after settlement.
package view
