package core

import (
	"errors"
	"fmt"
	"strings"
)

// Exported variables.
var (
	// ErrUnmatchedCall is matched by every *UnmatchedCallError.
	ErrUnmatchedCall = errors.New("unmatched call")
	// ErrRealInstance is raised when a stub is registered against a real instance.
	ErrRealInstance = errors.New("cannot stub a real instance")
	// ErrInvalidBehavior is raised when a behavior cannot serve the stubbed method.
	ErrInvalidBehavior = errors.New("invalid stub behavior")
	// ErrInvalidTimes is raised when a bounded stub is given fewer than one use.
	ErrInvalidTimes = errors.New("invalid stub times")
)

// UnmatchedCallError reports a call on a fake that no registered stub accepted.
//
// Dispatch panics with a value of this type; TryDispatch returns it.
type UnmatchedCallError struct {
	Type   string
	Method string
	Args   []any
	// Reasons holds one entry per live stub, newest first. Empty means the
	// method was never stubbed.
	Reasons []string

	render func(any) string
}

func (e *UnmatchedCallError) Error() string {
	var builder strings.Builder

	if len(e.Reasons) == 0 {
		fmt.Fprintf(&builder, "`%s` was called but never stubbed", e.qualifiedName())
	} else {
		fmt.Fprintf(&builder, "`%s` had no suitable stubs", e.qualifiedName())
	}

	fmt.Fprintf(&builder, "\n  Called with: %s", renderArgs(e.Args, e.render))

	if len(e.Reasons) == 0 {
		return builder.String()
	}

	builder.WriteString("\nExisting stubs failed because:")

	for _, reason := range e.Reasons {
		builder.WriteString("\n✗ ")
		builder.WriteString(indent(reason))
	}

	return builder.String()
}

// Is reports ErrUnmatchedCall as the error's kind.
func (e *UnmatchedCallError) Is(target error) bool {
	return target == ErrUnmatchedCall
}

// NeverStubbed reports whether the method had no live stubs at all.
func (e *UnmatchedCallError) NeverStubbed() bool {
	return len(e.Reasons) == 0
}

func (e *UnmatchedCallError) qualifiedName() string {
	if e.Type == "" {
		return e.Method
	}

	return e.Type + "." + e.Method
}

// IsUnmatched reports whether a recovered panic value is an unmatched-call failure.
func IsUnmatched(recovered any) bool {
	err, ok := recovered.(error)

	return ok && errors.Is(err, ErrUnmatchedCall)
}

func realInstanceError(value any) error {
	return fmt.Errorf("%w of %T: construct it with Faux to register stubs", ErrRealInstance, value)
}

// indent keeps multi-line reasons aligned under their bullet.
func indent(reason string) string {
	return strings.ReplaceAll(reason, "\n", "\n  ")
}
