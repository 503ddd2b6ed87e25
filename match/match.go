// Package match provides argument matchers for impstub's StubBuilder.With.
// Gomega matchers work there too; this package adds the ones gomega lacks.
// It is designed to be dot-imported for a matcher DSL, but Equal and Satisfy
// collide with gomega's, so import it by name next to a gomega dot import:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    "github.com/toejough/impstub/match"
//	)
//
//	impstub.When[func(int, string) int](calc, "Store").With(BeNumerically(">", 0), match.BeAny).ThenReturn(42)
//
// Every matcher here is stateless and safe to evaluate from many goroutines.
package match

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/toejough/impstub/internal/core"
)

// Exported variables.
var (
	// BeAny is a matcher that matches any value.
	// Useful when you don't care about a particular argument.
	//
	//nolint:gochecknoglobals // Intentional exported constant-like value
	BeAny Matcher = anyMatcher{}
)

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher = core.Matcher

// Equal returns a matcher that compares with reflect.DeepEqual. Plain values
// passed to With already behave this way; Equal makes the intent explicit
// and lets an expected value that is itself a Matcher be compared literally.
func Equal(expected any) Matcher {
	return equalMatcher{expected: expected}
}

// EqualWith returns a matcher comparing the argument to expected with a
// custom equality, for expected values of a different type than the
// argument.
//
// Example:
//
//	EqualWith(wantUser, func(want UserRow, got *User) bool { return want.ID == got.ID })
func EqualWith[E, T any](expected E, equal func(expected E, actual T) bool) Matcher {
	return &predicateMatcher[T]{
		description: fmt.Sprintf("equal to %v", expected),
		predicate: func(actual T) error {
			if !equal(expected, actual) {
				return errNotEqual
			}

			return nil
		},
	}
}

// Fields returns a pattern matcher for structs (or pointers to structs).
// Each entry names a field and the value or Matcher it must match; fields
// not named are ignored. Nested patterns are allowed.
//
// Example:
//
//	Fields(map[string]any{"Payload": "hello", "ID": BeNumerically(">", 0)})
func Fields(fields map[string]any) Matcher {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}

	sort.Strings(names)

	return fieldsMatcher{fields: fields, names: names}
}

// Pattern returns a matcher accepting arguments of type T for which fits
// returns true. shape describes the accepted values in failure messages.
//
// Example:
//
//	Pattern("Some(n) if n > 3", func(v *int) bool { return v != nil && *v > 3 })
func Pattern[T any](shape string, fits func(T) bool) Matcher {
	return &predicateMatcher[T]{
		description: "matching " + shape,
		predicate: func(actual T) error {
			if !fits(actual) {
				return errNoFit
			}

			return nil
		},
	}
}

// Predicate returns a matcher accepting arguments of type T for which
// predicate returns true. description appears in failure messages.
func Predicate[T any](description string, predicate func(T) bool) Matcher {
	return &predicateMatcher[T]{
		description: description,
		predicate: func(actual T) error {
			if !predicate(actual) {
				return errPredicateFalse
			}

			return nil
		},
	}
}

// Satisfy returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not.
//
// Example:
//
//	Satisfy(func(x int) error {
//	    if x < 0 { return fmt.Errorf("expected positive, got %d", x) }
//	    return nil
//	})
func Satisfy[T any](predicate func(T) error) Matcher {
	return &predicateMatcher[T]{description: "predicate", predicate: predicate}
}

// unexported variables.
var (
	errNoFit          = errors.New("does not fit")
	errNotEqual       = errors.New("not equal")
	errNotStruct      = errors.New("not a struct")
	errPredicateFalse = errors.New("predicate returned false")
	errTypeMismatch   = errors.New("type mismatch")
)

// anyMatcher is the implementation of the BeAny matcher.
type anyMatcher struct{}

// FailureMessage returns an empty string since BeAny always matches.
func (anyMatcher) FailureMessage(any) string {
	return ""
}

// Match always returns true - matches any value.
func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

func (anyMatcher) String() string {
	return "_"
}

type equalMatcher struct {
	expected any
}

func (m equalMatcher) FailureMessage(actual any) string {
	return core.EqualityFailure(actual, m.expected)
}

func (m equalMatcher) Match(actual any) (bool, error) {
	return reflect.DeepEqual(actual, m.expected), nil
}

type fieldsMatcher struct {
	fields map[string]any
	names  []string
}

func (m fieldsMatcher) FailureMessage(actual any) string {
	mismatches, err := m.mismatches(actual)
	if err != nil {
		return fmt.Sprintf("value %v: %v", actual, err)
	}

	return fmt.Sprintf("value %v does not fit the pattern:\n  %s", actual, strings.Join(mismatches, "\n  "))
}

func (m fieldsMatcher) Match(actual any) (bool, error) {
	mismatches, err := m.mismatches(actual)
	if err != nil {
		return false, err
	}

	return len(mismatches) == 0, nil
}

// mismatches lists every named field that does not match, in name order.
func (m fieldsMatcher) mismatches(actual any) ([]string, error) {
	value := reflect.ValueOf(actual)

	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, fmt.Errorf("%w: got nil %s", errNotStruct, value.Type())
		}

		value = value.Elem()
	}

	if value.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %T", errNotStruct, actual)
	}

	var mismatches []string

	for _, name := range m.names {
		field := value.FieldByName(name)
		if !field.IsValid() {
			mismatches = append(mismatches, fmt.Sprintf("%s: no such field on %s", name, value.Type()))

			continue
		}

		if !field.CanInterface() {
			mismatches = append(mismatches, name+": field is unexported")

			continue
		}

		ok, msg := core.MatchValue(field.Interface(), m.fields[name])
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf("%s: %s", name, msg))
		}
	}

	return mismatches, nil
}

// predicateMatcher backs Satisfy, Predicate, Pattern and EqualWith. It keeps
// no state between Match and FailureMessage; the predicate is re-run.
type predicateMatcher[T any] struct {
	description string
	predicate   func(T) error
}

func (m *predicateMatcher[T]) FailureMessage(actual any) string {
	val, ok := as[T](actual)
	if !ok {
		return fmt.Sprintf("value %v is %T, not %s", actual, actual, reflect.TypeFor[T]())
	}

	err := m.predicate(val)
	if err != nil {
		return fmt.Sprintf("value %v does not satisfy %s: %v", actual, m.description, err)
	}

	return fmt.Sprintf("value %v does not satisfy %s", actual, m.description)
}

func (m *predicateMatcher[T]) Match(actual any) (bool, error) {
	val, ok := as[T](actual)
	if !ok {
		return false, fmt.Errorf("%w: expected %s, got %T", errTypeMismatch, reflect.TypeFor[T](), actual)
	}

	return m.predicate(val) == nil, nil
}

func (m *predicateMatcher[T]) String() string {
	return m.description
}

// as converts actual to T. A nil actual converts to T's zero value when T
// can hold nil.
func as[T any](actual any) (T, bool) {
	if val, ok := actual.(T); ok {
		return val, true
	}

	var zero T

	if actual != nil {
		return zero, false
	}

	switch reflect.TypeFor[T]().Kind() { //nolint:exhaustive // only nilable kinds accept nil
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return zero, true
	default:
		return zero, false
	}
}
