package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for model operations.
var (
	// ErrUnknownVariable indicates a lookup of a variable the model does not expose.
	ErrUnknownVariable = errors.New("dynamo: unknown variable")

	// ErrUnknownParam indicates a parameter name the model does not accept.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrNegativeHorizon indicates a sequence or run requested for fewer than zero periods.
	ErrNegativeHorizon = errors.New("dynamo: horizon must be non-negative")

	// ErrDegenerate indicates parameters that produced non-finite values (division by zero).
	ErrDegenerate = errors.New("dynamo: degenerate parameters (NaN or Inf detected)")

	// ErrContextCanceled indicates the run was interrupted.
	ErrContextCanceled = errors.New("dynamo: run canceled by context")

	// ErrNotSetup indicates an experiment was run before Setup.
	ErrNotSetup = errors.New("dynamo: experiment not setup")
)

// UnknownVariable wraps ErrUnknownVariable with the offending name.
func UnknownVariable(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownVariable, name)
}

// UnknownParam wraps ErrUnknownParam with the offending name.
func UnknownParam(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownParam, name)
}

// SimError reports a failure at a specific period of a run.
type SimError struct {
	Period  int
	Message string
	Wrapped error
}

func (e SimError) Error() string {
	return fmt.Sprintf("period %d: %s", e.Period, e.Message)
}

func (e SimError) Unwrap() error {
	return e.Wrapped
}
