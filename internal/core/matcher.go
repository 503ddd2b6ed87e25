package core

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/google/go-cmp/cmp"
)

// Matcher decides whether a single argument qualifies for a stub.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
//
// Implementations must be safe for concurrent use: a stub's matchers are
// evaluated on every call that reaches it, from any goroutine.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// MatchValue checks if actual matches expected.
// If expected implements the Matcher interface, uses its Match method.
// Otherwise, uses reflect.DeepEqual for comparison.
// Returns (success, errorMessage). If success is true, errorMessage is empty.
func MatchValue(actual, expected any) (bool, string) {
	if matcher, ok := expected.(Matcher); ok {
		success, err := matcher.Match(actual)
		if err != nil {
			return false, err.Error()
		}

		if !success {
			return false, matcher.FailureMessage(actual)
		}

		return true, ""
	}

	if reflect.DeepEqual(actual, expected) {
		return true, ""
	}

	return false, EqualityFailure(actual, expected)
}

// EqualityFailure describes why actual is not equal to expected. Composite
// values get a structural diff and multi-line strings get a unified diff.
func EqualityFailure(actual, expected any) string {
	msg := fmt.Sprintf("expected %v, got %v", expected, actual)

	expectedStr, expectedIsStr := expected.(string)
	actualStr, actualIsStr := actual.(string)

	if expectedIsStr && actualIsStr {
		if !strings.Contains(expectedStr, "\n") && !strings.Contains(actualStr, "\n") {
			return fmt.Sprintf("expected %q, got %q", expectedStr, actualStr)
		}

		return "strings differ:\n" + textdiff.Unified("expected", "actual", expectedStr, actualStr)
	}

	if diff := structuralDiff(actual, expected); diff != "" {
		return msg + "\ndiff (-expected +actual):\n" + diff
	}

	return msg
}

// invocationMatcher decides whether a whole argument tuple qualifies for a stub.
// A nil error is a match; otherwise the error says why not.
type invocationMatcher interface {
	matchArgs(args []any) error
}

// anyInvocation accepts every call, whatever its arguments.
type anyInvocation struct{}

func (anyInvocation) matchArgs([]any) error {
	return nil
}

// positionalMatcher holds one expectation per argument. Plain values are
// compared for equality, Matchers are consulted.
type positionalMatcher struct {
	expected []any
}

func (m positionalMatcher) matchArgs(args []any) error {
	if len(args) != len(m.expected) {
		//nolint:err113 // validation error with dynamic context
		return fmt.Errorf("expected %d args, got %d", len(m.expected), len(args))
	}

	var mismatches []string

	for index, expected := range m.expected {
		ok, failureMsg := MatchValue(args[index], expected)
		if ok {
			continue
		}

		if failureMsg == "" {
			failureMsg = fmt.Sprintf("matcher failed for value %#v", args[index])
		}

		mismatches = append(mismatches, fmt.Sprintf("arg %d: %s", index, failureMsg))
	}

	switch len(mismatches) {
	case 0:
		return nil
	case 1:
		//nolint:err113 // validation error with dynamic context
		return fmt.Errorf("argument did not match: %s", mismatches[0])
	default:
		//nolint:err113 // validation error with dynamic context
		return fmt.Errorf("arguments did not match:\n  %s", strings.Join(mismatches, "\n  "))
	}
}

// predicateMatcher checks the whole argument tuple with a user function.
type predicateMatcher struct {
	description string
	predicate   func(args []any) bool
}

func (m predicateMatcher) matchArgs(args []any) error {
	if m.predicate(args) {
		return nil
	}

	//nolint:err113 // validation error with dynamic context
	return fmt.Errorf("arguments did not satisfy %s", m.description)
}

func defaultRender(value any) string {
	return fmt.Sprintf("%#v", value)
}

func isComposite(value reflect.Value) bool {
	switch value.Kind() { //nolint:exhaustive // only composites get a diff
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array, reflect.Pointer:
		return true
	default:
		return false
	}
}

func renderArgs(args []any, render func(any) string) string {
	if render == nil {
		render = defaultRender
	}

	rendered := make([]string, len(args))
	for i, arg := range args {
		rendered[i] = render(arg)
	}

	return "(" + strings.Join(rendered, ", ") + ")"
}

// structuralDiff returns a go-cmp diff for two composite values of the same
// type, or "" when no useful diff can be produced.
func structuralDiff(actual, expected any) (diff string) {
	actualVal := reflect.ValueOf(actual)
	expectedVal := reflect.ValueOf(expected)

	if !actualVal.IsValid() || !expectedVal.IsValid() || actualVal.Type() != expectedVal.Type() {
		return ""
	}

	if !isComposite(actualVal) {
		return ""
	}

	// cmp panics on some shapes; fall back to the plain message.
	defer func() {
		if recover() != nil {
			diff = ""
		}
	}()

	return cmp.Diff(expected, actual, cmp.Exporter(func(reflect.Type) bool { return true }))
}
