package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrScriptExhausted is returned by Scripted when it runs out of answers.
	ErrScriptExhausted = errors.New("prompt: no scripted answer left")
)
