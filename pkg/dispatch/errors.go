package dispatch

import "fmt"

// HandlerError wraps a failure raised by one command handler.
type HandlerError struct {
	Command  Command
	Err      error
	Panicked bool
}

func (e *HandlerError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("Command %q failed: %v", string(e.Command), e.Err)
}

func (e *HandlerError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DeliveryError reports an outbound message that could not be delivered.
type DeliveryError struct {
	Command Command
	Target  string
	Err     error
}

func (e *DeliveryError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("dispatch: deliver %s to %s: %v", e.Command, e.Target, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
