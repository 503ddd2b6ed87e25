package core_test

import (
	"errors"
	"fmt"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/impstub/internal/core"
)

func TestDispatch_EqualityStubServesEveryMatchingCall(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fake := core.NewFake("Calc")
	fake.When("Triple").With(3).ThenReturn(10)

	for range 3 {
		g.Expect(core.Dispatch(fake, "Triple", 3)).To(Equal([]any{10}))
	}

	var err *core.UnmatchedCallError

	g.Expect(func() { core.Dispatch(fake, "Triple", 4) }).To(PanicWith(
		SatisfyAll(
			BeAssignableToTypeOf(err),
			MatchError(core.ErrUnmatchedCall),
			MatchError(ContainSubstring("Calc.Triple")),
			MatchError(ContainSubstring("Called with: (4)")),
		),
	))
}

func TestDispatch_NewerWildcardShadowsOlderBoundedStub(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fake := core.NewFake("Calc")
	fake.When("Next").Once().ThenReturn(1)
	fake.When("Next").ThenReturn(2)

	g.Expect(core.Dispatch(fake, "Next")).To(Equal([]any{2}))
	g.Expect(core.Dispatch(fake, "Next")).To(Equal([]any{2}))

	// The bounded stub was never reached, so it is still live.
	g.Expect(fake.Stubbed("Next")).To(Equal(2))
}

func TestDispatch_FallsThroughToOlderStubOnceNewerIsExhausted(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fake := core.NewFake("Calc")
	fake.When("Next").ThenReturn("fallback")
	fake.When("Next").Times(2).ThenReturn("bounded")

	g.Expect(core.Dispatch(fake, "Next")).To(Equal([]any{"bounded"}))
	g.Expect(core.Dispatch(fake, "Next")).To(Equal([]any{"bounded"}))
	g.Expect(core.Dispatch(fake, "Next")).To(Equal([]any{"fallback"}))
	g.Expect(fake.Stubbed("Next")).To(Equal(1))
}

func TestDispatch_NeverStubbedMessage(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fake := core.NewFake("Mailer")

	_, err := core.TryDispatch(fake, "Send", "bob", 3)

	var unmatched *core.UnmatchedCallError

	g.Expect(errors.As(err, &unmatched)).To(BeTrue())
	g.Expect(unmatched.NeverStubbed()).To(BeTrue())
	g.Expect(unmatched.Method).To(Equal("Send"))
	g.Expect(unmatched.Args).To(Equal([]any{"bob", 3}))
	g.Expect(err.Error()).To(Equal("`Mailer.Send` was called but never stubbed\n  Called with: (\"bob\", 3)"))
}

func TestDispatch_NoSuitableStubsListsEveryReasonNewestFirst(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fake := core.NewFake("Mailer")
	fake.When("Send").With("alice", 1).ThenReturn(nil)
	fake.When("Send").With("bob").ThenReturn(nil)
	fake.When("Send").Matching("an urgent send", func([]any) bool { return false }).ThenReturn(nil)

	_, err := core.TryDispatch(fake, "Send", "bob", 3)

	g.Expect(err).To(MatchError(core.ErrUnmatchedCall))
	g.Expect(err.Error()).To(Equal("`Mailer.Send` had no suitable stubs\n" +
		"  Called with: (\"bob\", 3)\n" +
		"Existing stubs failed because:\n" +
		"✗ arguments did not satisfy an urgent send\n" +
		"✗ expected 1 args, got 2\n" +
		"✗ arguments did not match:\n" +
		"    arg 0: expected \"alice\", got \"bob\"\n" +
		"    arg 1: expected 1, got 3"))
}

func TestDispatch_ExhaustedStubsAreNotReported(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fake := core.NewFake("Calc")
	fake.When("Next").Once().ThenReturn(1)

	g.Expect(core.Dispatch(fake, "Next")).To(Equal([]any{1}))

	_, err := core.TryDispatch(fake, "Next")

	var unmatched *core.UnmatchedCallError

	g.Expect(errors.As(err, &unmatched)).To(BeTrue())
	g.Expect(unmatched.NeverStubbed()).To(BeTrue())
}

func TestDispatch_ReportsThroughReporterBeforePanicking(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var reported, logged []string

	mockT := &mockTester{
		fatalf: func(format string, args ...any) {
			reported = append(reported, fmt.Sprintf(format, args...))
		},
		logf: func(format string, args ...any) {
			logged = append(logged, fmt.Sprintf(format, args...))
		},
	}

	fake := core.NewFake("Calc", core.WithReporter(mockT))
	fake.When("Add").With(1, 2).ThenReturn(3)

	g.Expect(core.Dispatch(fake, "Add", 1, 2)).To(Equal([]any{3}))
	g.Expect(func() { core.Dispatch(fake, "Add", 2, 2) }).To(PanicWith(MatchError(core.ErrUnmatchedCall)))

	g.Expect(reported).To(HaveExactElements(HavePrefix("impstub: `Calc.Add` had no suitable stubs")))
	g.Expect(logged).To(Equal([]string{
		"impstub: stubbed Calc.Add (unlimited)",
		"impstub: Calc.Add(1, 2) matched a stub",
	}))
}

func TestDispatch_UserPanicsPropagateUnchanged(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fake := core.NewFake("Disk")
	fake.When("Write").ThenPanic("disk full")

	g.Expect(func() { core.Dispatch(fake, "Write") }).To(PanicWith("disk full"))

	// The stub is still usable afterwards.
	g.Expect(func() { core.Dispatch(fake, "Write") }).To(PanicWith("disk full"))
}

func TestWithArgFormatter_RendersArguments(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fake := core.NewFake("Calc", core.WithArgFormatter(func(arg any) string {
		return fmt.Sprintf("<%v>", arg)
	}))

	_, err := core.TryDispatch(fake, "Add", 1, "two")

	g.Expect(err).To(MatchError(ContainSubstring("Called with: (<1>, <two>)")))
}

func TestIsUnmatched(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fake := core.NewFake("Calc")

	recovered := func() (value any) {
		defer func() { value = recover() }()

		core.Dispatch(fake, "Add", 1)

		return nil
	}()

	g.Expect(core.IsUnmatched(recovered)).To(BeTrue())
	g.Expect(core.IsUnmatched("some other panic")).To(BeFalse())
	g.Expect(core.IsUnmatched(errors.New("unrelated"))).To(BeFalse())
}

func TestFunc_RoutesTypedCallsThroughDispatch(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fake := core.NewFake("Parser")
	core.When[func(string) (int, error)](fake, "Parse").With("42").ThenReturn(42, nil)
	core.When[func(string) (int, error)](fake, "Parse").With("x").ThenReturn(0, errors.New("not a number"))

	parse := core.Func[func(string) (int, error)](fake, "Parse")

	n, err := parse("42")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(n).To(Equal(42))

	_, err = parse("x")
	g.Expect(err).To(MatchError("not a number"))

	g.Expect(func() { parse("y") }).To(PanicWith(MatchError(core.ErrUnmatchedCall)))
}

func TestFunc_VariadicArgumentsArriveAsASlice(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fake := core.NewFake("Logger")
	core.When[func(string, ...any) string](fake, "Printf").
		Then(func(format string, args ...any) string { return fmt.Sprintf(format, args...) })

	printf := core.Func[func(string, ...any) string](fake, "Printf")

	g.Expect(printf("%d-%s", 7, "x")).To(Equal("7-x"))
}

func TestFunc_PanicsOnWrongResultCount(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fake := core.NewFake("Parser")
	fake.When("Parse").ThenReturn(1)

	parse := core.Func[func(string) (int, error)](fake, "Parse")

	g.Expect(func() { parse("1") }).To(PanicWith(MatchError(core.ErrInvalidBehavior)))
	g.Expect(func() { core.Func[int](fake, "Parse") }).To(PanicWith(MatchError(core.ErrInvalidBehavior)))
}

func TestResult(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	results := []any{"ok", nil, 3}

	g.Expect(core.Result[string](results, 0)).To(Equal("ok"))
	g.Expect(core.Result[error](results, 1)).To(BeNil())
	g.Expect(core.Result[int](results, 2)).To(Equal(3))
	g.Expect(func() { core.Result[int](results, 0) }).To(PanicWith(MatchError(core.ErrInvalidBehavior)))
	g.Expect(func() { core.Result[int](results, 3) }).To(PanicWith(MatchError(core.ErrInvalidBehavior)))
}
