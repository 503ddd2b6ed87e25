// Package impstub provides the stub registry and call dispatch behind Go
// test doubles. A type whose methods route through an Instance can be built
// real, or fake with programmer-supplied behavior per method and argument
// pattern, so code using it can be tested without real side effects.
//
// This is the public API entry point. Implementation lives in internal/core.
package impstub

import (
	"github.com/toejough/impstub/internal/core"
)

// Exported variables.
var (
	// ErrInvalidBehavior is raised when a behavior cannot serve the stubbed method.
	ErrInvalidBehavior = core.ErrInvalidBehavior
	// ErrInvalidTimes is raised when a bounded stub is given fewer than one use.
	ErrInvalidTimes = core.ErrInvalidTimes
	// ErrRealInstance is raised when a stub is registered against a real instance.
	ErrRealInstance = core.ErrRealInstance
	// ErrUnmatchedCall is matched by every *UnmatchedCallError.
	ErrUnmatchedCall = core.ErrUnmatchedCall
)

// Behavior computes a stubbed method's results from its arguments.
type Behavior = core.Behavior

// Exhaustion governs how many times a stub may be consumed.
type Exhaustion = core.Exhaustion

// Bounded returns an exhaustion policy allowing exactly n uses.
func Bounded(n int) Exhaustion {
	return core.Bounded(n)
}

// Unlimited returns the exhaustion policy of a stub that never runs out.
func Unlimited() Exhaustion {
	return core.Unlimited()
}

// Fake is the fake state of an instance: a stub registry plus its options.
type Fake = core.Fake

// NewFake creates a fake of the named type with an empty registry.
func NewFake(typeName string, options ...Option) *Fake {
	return core.NewFake(typeName, options...)
}

// Instance stands in for an object that is either real or fake.
type Instance[T any] = core.Instance[T]

// Faux creates an instance in the fake state, backed by an empty registry.
func Faux[T any](typeName string, options ...Option) Instance[T] {
	return core.Faux[T](typeName, options...)
}

// FauxOf creates an instance in the fake state backed by an existing Fake.
func FauxOf[T any](fake *Fake) Instance[T] {
	return core.FauxOf[T](fake)
}

// Real creates an instance in the real state wrapping value.
func Real[T any](value T) Instance[T] {
	return core.Real(value)
}

// Matcher defines the interface for flexible value matching.
type Matcher = core.Matcher

// MatchValue checks if actual matches expected.
func MatchValue(actual, expected any) (bool, string) {
	return core.MatchValue(actual, expected)
}

// Option configures a Fake at construction.
type Option = core.Option

// WithArgFormatter sets how arguments are rendered in unmatched-call failures.
func WithArgFormatter(render func(arg any) string) Option {
	return core.WithArgFormatter(render)
}

// WithPrivateClones makes Clone copy the stubs instead of sharing them.
func WithPrivateClones() Option {
	return core.WithPrivateClones()
}

// WithReporter reports unmatched calls through t.Fatalf before panicking.
func WithReporter(t TestReporter) Option {
	return core.WithReporter(t)
}

// Registry owns the stubs of one fake instance.
type Registry = core.Registry

// StubBuilder accumulates the matchers and exhaustion policy of one stub.
type StubBuilder[F any] = core.StubBuilder[F]

// Stubbable is anything a stub can be registered against.
type Stubbable = core.Stubbable

// When begins a typed stub for method on target.
func When[F any](target Stubbable, method string) *StubBuilder[F] {
	return core.When[F](target, method)
}

// TestReporter is the minimal interface impstub needs from test frameworks.
type TestReporter = core.TestReporter

// UnmatchedCallError reports a call on a fake that no registered stub accepted.
type UnmatchedCallError = core.UnmatchedCallError

// IsUnmatched reports whether a recovered panic value is an unmatched-call failure.
func IsUnmatched(recovered any) bool {
	return core.IsUnmatched(recovered)
}

// Dispatch resolves a call on fake against its stubs and returns the results.
// It panics with an *UnmatchedCallError when no stub accepts the call.
func Dispatch(fake *Fake, method string, args ...any) []any {
	return core.Dispatch(fake, method, args...)
}

// Func returns a function of type F whose calls are dispatched to method on fake.
func Func[F any](fake *Fake, method string) F {
	return core.Func[F](fake, method)
}

// Result returns results[index] as an R. A nil result yields R's zero value.
func Result[R any](results []any, index int) R {
	return core.Result[R](results, index)
}

// TryDispatch is Dispatch, but reports an unmatched call as an error.
func TryDispatch(fake *Fake, method string, args ...any) ([]any, error) {
	return core.TryDispatch(fake, method, args...)
}
