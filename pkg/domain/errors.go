package domain

import (
	"errors"
	"fmt"
)

// ErrLifecycle is returned when the editor process fails to spawn, to be
// configured, or to answer an RPC call. It is fatal for the instance.
var ErrLifecycle = errors.New("editor lifecycle failure")

// ErrTimeout is returned when an RPC call exceeds its deadline.
// It is a lifecycle failure: the process is killed before returning.
var ErrTimeout = fmt.Errorf("%w: rpc timeout", ErrLifecycle)

// ErrPrecondition is returned when the adapter is not in the state an
// operation requires (e.g. Pre on an instance that already received input).
var ErrPrecondition = errors.New("sul precondition failed")

// ErrClassification is returned for a raw mode code missing from the classifier table.
var ErrClassification = errors.New("unclassified editor mode")

// ErrNonDeterminism is returned when a repeated query disagrees with a previous answer.
var ErrNonDeterminism = errors.New("non-deterministic behavior detected")

// ErrUnknownSymbol is returned when a symbol outside the alphabet is submitted.
var ErrUnknownSymbol = errors.New("symbol not in alphabet")

// ErrObservationNotFound is returned when a stored trace cannot be found.
var ErrObservationNotFound = errors.New("observation not found")

// ErrDriverNotRegistered is returned when a learning algorithm has no registered driver.
var ErrDriverNotRegistered = errors.New("learning driver not registered")

// NonDeterminismError describes two disagreeing answers to the same query prefix.
type NonDeterminismError struct {
	Word     Word
	Expected CanonicalState
	Got      CanonicalState
}

func (e *NonDeterminismError) Error() string {
	return fmt.Sprintf("%v: after %q expected %q, got %q", ErrNonDeterminism, e.Word.String(), e.Expected, e.Got)
}

func (e *NonDeterminismError) Unwrap() error { return ErrNonDeterminism }

// ClassificationError carries the raw mode that could not be classified.
type ClassificationError struct {
	Raw RawMode
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("%v: code %q (blocking=%t)", ErrClassification, e.Raw.Mode, e.Raw.Blocking)
}

func (e *ClassificationError) Unwrap() error { return ErrClassification }
