package core

import (
	"fmt"
	"reflect"
	"slices"
)

// Stubbable is anything a stub can be registered against: a *Fake, or an
// Instance in the fake state. Registering against a real Instance panics
// with ErrRealInstance.
type Stubbable interface {
	stubTarget() *Fake
}

// StubBuilder accumulates the matchers and exhaustion policy of one stub.
// F is the stubbed method's function type; Then only accepts functions of
// that type. Use any when the type is not known statically.
//
// Nothing is registered until one of the Then variants is called.
type StubBuilder[F any] struct {
	fake       *Fake
	method     string
	matcher    invocationMatcher
	exhaustion Exhaustion
}

// When begins a typed stub for method on target.
//
// Example:
//
//	impstub.When[func(int, int) int](calc, "Add").With(1, 2).Then(func(a, b int) int { return 10 })
func When[F any](target Stubbable, method string) *StubBuilder[F] {
	return newStubBuilder[F](target.stubTarget(), method)
}

// Matching restricts the stub to calls whose whole argument list satisfies
// predicate. description appears in failure messages.
func (b *StubBuilder[F]) Matching(description string, predicate func(args []any) bool) *StubBuilder[F] {
	b.matcher = predicateMatcher{description: description, predicate: predicate}

	return b
}

// Once limits the stub to a single use.
func (b *StubBuilder[F]) Once() *StubBuilder[F] {
	return b.Times(1)
}

// Then registers fn as the stub's behavior. fn is called with the call's
// arguments and its results are returned to the caller.
func (b *StubBuilder[F]) Then(fn F) {
	behavior, err := behaviorFromFunc(any(fn))
	if err != nil {
		panic(fmt.Errorf("stubbing %s.%s: %w", b.fake.TypeName(), b.method, err))
	}

	b.register(behavior)
}

// ThenFunc registers a behavior working on the raw argument and result lists.
func (b *StubBuilder[F]) ThenFunc(behavior Behavior) {
	if behavior == nil {
		panic(fmt.Errorf("stubbing %s.%s: %w: nil behavior", b.fake.TypeName(), b.method, ErrInvalidBehavior))
	}

	b.register(behavior)
}

// ThenPanic registers a behavior that panics with value.
func (b *StubBuilder[F]) ThenPanic(value any) {
	b.register(func([]any) []any {
		panic(value)
	})
}

// ThenReturn registers a behavior that returns values on every use.
func (b *StubBuilder[F]) ThenReturn(values ...any) {
	b.register(func([]any) []any {
		return slices.Clone(values)
	})
}

// Times limits the stub to n uses. It panics with ErrInvalidTimes if n < 1.
func (b *StubBuilder[F]) Times(n int) *StubBuilder[F] {
	b.exhaustion = Bounded(n)

	return b
}

// With restricts the stub to calls whose arguments match expected,
// position by position. Plain values are compared with reflect.DeepEqual;
// values implementing Matcher (including gomega matchers) are consulted.
// The call must have exactly len(expected) arguments.
func (b *StubBuilder[F]) With(expected ...any) *StubBuilder[F] {
	b.matcher = positionalMatcher{expected: slices.Clone(expected)}

	return b
}

func (b *StubBuilder[F]) register(behavior Behavior) {
	b.fake.registry.register(b.method, newStubRecord(b.matcher, behavior, b.exhaustion))
	b.fake.logf("impstub: stubbed %s.%s (%v)", b.fake.TypeName(), b.method, b.exhaustion)
}

// behaviorFromFunc adapts a function value of any signature to a Behavior
// by calling it through reflection.
func behaviorFromFunc(fn any) (Behavior, error) {
	fnVal := reflect.ValueOf(fn)

	if !fnVal.IsValid() || fnVal.Kind() != reflect.Func || fnVal.IsNil() {
		return nil, fmt.Errorf("%w: expected a function, got %T", ErrInvalidBehavior, fn)
	}

	fnType := fnVal.Type()

	return func(args []any) []any {
		in, err := reflectArgs(fnType, args)
		if err != nil {
			panic(err)
		}

		if fnType.IsVariadic() {
			return unreflectValues(fnVal.CallSlice(in))
		}

		return unreflectValues(fnVal.Call(in))
	}, nil
}

func newStubBuilder[F any](fake *Fake, method string) *StubBuilder[F] {
	return &StubBuilder[F]{
		fake:       fake,
		method:     method,
		matcher:    anyInvocation{},
		exhaustion: Unlimited(),
	}
}

// reflectArgs converts call arguments to the parameter types of fnType.
// A variadic function receives its variadic arguments as one slice, the way
// they are passed to Dispatch.
func reflectArgs(fnType reflect.Type, args []any) ([]reflect.Value, error) {
	if fnType.NumIn() != len(args) {
		return nil, fmt.Errorf("%w: behavior takes %d args, call has %d", ErrInvalidBehavior, fnType.NumIn(), len(args))
	}

	in := make([]reflect.Value, len(args))

	for i, arg := range args {
		param := fnType.In(i)

		if arg == nil {
			in[i] = reflect.Zero(param)

			continue
		}

		value := reflect.ValueOf(arg)
		if !value.Type().AssignableTo(param) {
			return nil, fmt.Errorf("%w: behavior arg %d is %s, call passed %T", ErrInvalidBehavior, i, param, arg)
		}

		in[i] = value
	}

	return in, nil
}

func unreflectValues(values []reflect.Value) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v.Interface()
	}

	return out
}
