// Package present orchestrates dialog playback: it drives the script
// interpreter against a presentation surface, samples an input source
// once per step, dispatches line events after reveal, and asks the
// graph resolver where to go next.
package present

import "Fireside/internal/dialog"

// Policy is the small set of pacing decisions that distinguish an
// interactive presentation from an auto-advancing one. One controller
// type carries either.
type Policy struct {
	// WaitForConfirm holds the line on screen until confirm is pressed.
	// When false the line dwells for AdvanceDelay seconds instead.
	WaitForConfirm bool
	// AdvanceDelay is the dwell in seconds before auto-advancing.
	AdvanceDelay float64
	// AutoPickFirst selects display index 0 instead of reading input
	// when a node offers options.
	AutoPickFirst bool
}

// Interactive waits for confirm input and lets the player pick options.
func Interactive() Policy {
	return Policy{WaitForConfirm: true}
}

// AutoAdvance dwells for the given seconds per line and picks the first
// displayed option.
func AutoAdvance(dwell float64) Policy {
	return Policy{AdvanceDelay: dwell, AutoPickFirst: true}
}

// Surface is the presentation collaborator. It receives the revealed
// buffer with an optional cursor glyph, an expression hint per line,
// and the filtered display-ordered option list.
type Surface interface {
	SetText(text, cursor string)
	SetExpression(id int)
	SetOptions(opts []dialog.DisplayOption)
	ClearOptions()
}

// Input is the polled input collaborator, sampled once per scheduler
// step. Navigate returns the pending axis delta, 0 when idle.
type Input interface {
	ConfirmPressed() bool
	CancelPressed() bool
	Navigate() int
}
