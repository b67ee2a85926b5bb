// Package staging implements the upload staging controller.
//
// A Controller owns an ordered list of files the user picked but has not
// sent yet, and drives one submission at a time through
//
//	Idle -> Submitting -> Processing -> settled -> Idle
//
// Submitting lasts while the request body is streamed; Processing starts
// when the transport reports 100% and lasts until the server answers, with a
// cycling dots indicator on screen. Settlement removes what the server
// accepted, keeps what it rejected (annotated with the reason), shows the
// server notices and returns every control to its idle state.
//
// The controller never talks to a terminal or socket directly: it drives a
// View and a Sender, both supplied by the caller.
package staging
