// Package dialog presents interactive choices for the -gui flow, through
// zenity when a display is available or plain terminal prompts otherwise.
package dialog

import (
	"context"
	"errors"
)

// ErrCancelled is returned when the user dismisses a dialog. It is a normal
// outcome, not a failure.
var ErrCancelled = errors.New("cancelled")

// Dialog is the interactive collaborator behind the -gui command.
type Dialog interface {
	// ChooseOne presents options and returns the selected one, or
	// ErrCancelled.
	ChooseOne(ctx context.Context, title string, options []string) (string, error)

	// PromptText asks for a line of free text, or ErrCancelled.
	PromptText(ctx context.Context, label string) (string, error)

	// Info and Error display a message, best effort.
	Info(ctx context.Context, text string)
	Error(ctx context.Context, text string)
}
