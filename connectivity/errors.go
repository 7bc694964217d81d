package connectivity

import "fmt"

// ErrOperationNotFound is returned when Call targets an operation with
// no route and no local handler.
type ErrOperationNotFound struct {
	Operation string
}

func (e *ErrOperationNotFound) Error() string {
	return fmt.Sprintf("connectivity: operation not routable: %s", e.Operation)
}

// ErrNoFactory is returned during Reload when a route's strategy has no
// registered TransportFactory.
type ErrNoFactory struct {
	Operation string
	Strategy  string
}

func (e *ErrNoFactory) Error() string {
	return fmt.Sprintf("connectivity: no transport factory for strategy %q (operation %s)", e.Strategy, e.Operation)
}

// ErrFactoryFailed is returned when a TransportFactory fails to build a
// handler for a route.
type ErrFactoryFailed struct {
	Operation string
	Strategy  string
	Endpoint  string
	Cause     error
}

func (e *ErrFactoryFailed) Error() string {
	return fmt.Sprintf("connectivity: factory %q failed for operation %s (endpoint %s): %v",
		e.Strategy, e.Operation, e.Endpoint, e.Cause)
}

func (e *ErrFactoryFailed) Unwrap() error { return e.Cause }
