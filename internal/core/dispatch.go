package core

import (
	"fmt"
	"reflect"
)

// Dispatch resolves a call on fake against its stubs and returns the chosen
// behavior's results.
//
// If no stub accepts the call, Dispatch panics with an *UnmatchedCallError
// naming the method and the arguments. It never falls back to a default
// value. Panics raised by user matchers or behaviors propagate unchanged.
func Dispatch(fake *Fake, method string, args ...any) []any {
	results, err := TryDispatch(fake, method, args...)
	if err != nil {
		fake.report(err)
		panic(err)
	}

	return results
}

// Func returns a function of type F whose calls are dispatched to method on
// fake. F must be a function type.
func Func[F any](fake *Fake, method string) F {
	fnType := reflect.TypeFor[F]()
	if fnType.Kind() != reflect.Func {
		panic(fmt.Errorf("%w: Func needs a function type, got %s", ErrInvalidBehavior, fnType))
	}

	relay := func(in []reflect.Value) []reflect.Value {
		results := Dispatch(fake, method, unreflectValues(in)...)

		out, err := reflectResults(fnType, results)
		if err != nil {
			panic(fmt.Errorf("%s.%s: %w", fake.TypeName(), method, err))
		}

		return out
	}

	// MakeFunc returns a value of fnType, as documented.
	return reflect.MakeFunc(fnType, relay).Interface().(F) //nolint:forcetypeassert
}

// Result returns results[index] as an R. A nil result yields R's zero value.
// It panics with ErrInvalidBehavior when the behavior returned too few
// results or a result of the wrong type.
func Result[R any](results []any, index int) R {
	var zero R

	if index >= len(results) {
		panic(fmt.Errorf("%w: stub returned %d results, wanted result %d", ErrInvalidBehavior, len(results), index))
	}

	if results[index] == nil {
		return zero
	}

	value, ok := results[index].(R)
	if !ok {
		panic(fmt.Errorf("%w: result %d is %T, want %s",
			ErrInvalidBehavior, index, results[index], reflect.TypeFor[R]()))
	}

	return value
}

// TryDispatch is Dispatch, but reports an unmatched call as an error
// instead of panicking.
func TryDispatch(fake *Fake, method string, args ...any) ([]any, error) {
	behavior, reasons, ok := fake.registry.Resolve(method, args)
	if !ok {
		return nil, &UnmatchedCallError{
			Type:    fake.TypeName(),
			Method:  method,
			Args:    args,
			Reasons: reasons,
			render:  fake.render,
		}
	}

	fake.logf("impstub: %s.%s%s matched a stub", fake.TypeName(), method, renderArgs(args, fake.render))

	return behavior(args), nil
}

// reflectResults converts a behavior's results to the result types of fnType.
func reflectResults(fnType reflect.Type, results []any) ([]reflect.Value, error) {
	if len(results) != fnType.NumOut() {
		return nil, fmt.Errorf("%w: stub returned %d results, function has %d",
			ErrInvalidBehavior, len(results), fnType.NumOut())
	}

	out := make([]reflect.Value, len(results))

	for i, result := range results {
		resultType := fnType.Out(i)

		if result == nil {
			out[i] = reflect.Zero(resultType)

			continue
		}

		value := reflect.ValueOf(result)
		if !value.Type().AssignableTo(resultType) {
			return nil, fmt.Errorf("%w: result %d is %T, want %s", ErrInvalidBehavior, i, result, resultType)
		}

		out[i] = value
	}

	return out, nil
}
