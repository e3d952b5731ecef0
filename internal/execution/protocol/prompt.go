package protocol

import "context"

// PromptBridge answers line requests sent by the server while a
// command is running, e.g. a merge asking which version to keep.
//
// Prompt receives the output accumulated in the current cycle and the
// maximum answer length, and returns the answer without the trailing
// newline. The demultiplexer is blocked until Prompt returns.
type PromptBridge interface {
	Prompt(ctx context.Context, body string, maxLength int) (string, error)
}

// PromptFunc adapts a function to a PromptBridge.
type PromptFunc func(ctx context.Context, body string, maxLength int) (string, error)

func (f PromptFunc) Prompt(ctx context.Context, body string, maxLength int) (string, error) {
	return f(ctx, body, maxLength)
}
