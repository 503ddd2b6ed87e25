package core

// Instance stands in for an object that is either real or fake. The state is
// fixed at construction: Real wraps a real value and never holds a registry,
// Faux wraps an empty Fake and never runs the real construction path.
//
// The zero Instance is real and holds T's zero value.
//
// Generated or hand-written method bodies route through Invoke, or check
// Fake themselves and call Dispatch.
type Instance[T any] struct {
	value T
	fake  *Fake
}

// Faux creates an instance in the fake state, backed by an empty registry.
func Faux[T any](typeName string, options ...Option) Instance[T] {
	return Instance[T]{fake: NewFake(typeName, options...)}
}

// FauxOf creates an instance in the fake state backed by an existing Fake.
func FauxOf[T any](fake *Fake) Instance[T] {
	return Instance[T]{fake: fake}
}

// Real creates an instance in the real state wrapping value.
func Real[T any](value T) Instance[T] {
	return Instance[T]{value: value}
}

// Clone duplicates the instance. A fake clone follows Fake.Clone. A real
// clone uses value.Clone() when T has one, and copies the value otherwise.
func (i Instance[T]) Clone() Instance[T] {
	if i.fake != nil {
		return Instance[T]{fake: i.fake.Clone()}
	}

	if cloner, ok := any(i.value).(interface{ Clone() T }); ok {
		return Instance[T]{value: cloner.Clone()}
	}

	return i
}

// Fake returns the fake state, if the instance is fake.
func (i Instance[T]) Fake() (*Fake, bool) {
	return i.fake, i.fake != nil
}

// Invoke routes a method call. A real instance always calls realImpl with
// its value and the stubs are never consulted; a fake instance dispatches
// method with args.
func (i Instance[T]) Invoke(method string, args []any, realImpl func(T) []any) []any {
	if i.fake == nil {
		return realImpl(i.value)
	}

	return Dispatch(i.fake, method, args...)
}

// IsFake reports whether the instance is in the fake state.
func (i Instance[T]) IsFake() bool {
	return i.fake != nil
}

// Real returns the wrapped value, if the instance is real.
func (i Instance[T]) Real() (T, bool) {
	return i.value, i.fake == nil
}

// When begins a stub for method. It panics with ErrRealInstance on a real
// instance: there is nothing to register against.
func (i Instance[T]) When(method string) *StubBuilder[any] {
	return newStubBuilder[any](i.stubTarget(), method)
}

func (i Instance[T]) stubTarget() *Fake {
	if i.fake == nil {
		panic(realInstanceError(i.value))
	}

	return i.fake
}
