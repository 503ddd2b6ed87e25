package fakematching_test

import (
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/impstub"
	fakematching "github.com/toejough/impstub/UAT/core/fake-matching"
	"github.com/toejough/impstub/match"
)

// TestMatchByFields ignores the fields the test does not care about.
func TestMatchByFields(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	svc := fakematching.FakeProcessor()
	svc.When("Process").With(match.Fields(map[string]any{
		"Payload": "hello",
		"ID":      BeNumerically(">", 0),
	})).ThenReturn(true)
	svc.When("Process").With(match.BeAny).Once().ThenReturn(false)

	// The newer wildcard wins first, then the field pattern takes over.
	g.Expect(fakematching.UseService(svc, "hello")).To(BeFalse())
	g.Expect(fakematching.UseService(svc, "hello")).To(BeTrue())
	g.Expect(func() { fakematching.UseService(svc, "bye") }).To(PanicWith(MatchError(
		ContainSubstring(`Payload: expected "hello", got "bye"`),
	)))
}

// TestMatchWithGomegaMatcher uses gomega's struct matcher helpers directly.
func TestMatchWithGomegaMatcher(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	svc := fakematching.FakeProcessor()
	svc.When("Process").With(HaveField("Payload", HavePrefix("urgent:"))).ThenReturn(true)

	g.Expect(fakematching.UseService(svc, "urgent: reboot")).To(BeTrue())
}

// TestMatchAgainstAnotherType compares the argument to a value of a different type.
func TestMatchAgainstAnotherType(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	type row struct {
		Key  int
		Body string
	}

	svc := fakematching.FakeProcessor()
	svc.When("Process").With(match.EqualWith(row{Key: 123, Body: "x"},
		func(want row, got fakematching.Data) bool { return want.Key == got.ID && want.Body == got.Payload },
	)).ThenReturn(true)

	g.Expect(fakematching.UseService(svc, "x")).To(BeTrue())
}

// TestMatchWholeInvocation applies one predicate to the full argument list.
func TestMatchWholeInvocation(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	svc := fakematching.FakeProcessor()
	impstub.When[func(fakematching.Data) bool](svc, "Process").
		Matching("a recent timestamp", func(args []any) bool {
			d, ok := args[0].(fakematching.Data)

			return ok && d.Timestamp >= 1600000000
		}).
		Then(func(d fakematching.Data) bool { return len(d.Payload) > 0 })

	g.Expect(fakematching.UseService(svc, "")).To(BeFalse())
	g.Expect(fakematching.UseService(svc, "data")).To(BeTrue())
}

// TestRealProcessor shows the zero value running the real implementation.
func TestRealProcessor(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var svc fakematching.Processor

	g.Expect(fakematching.UseService(svc, "anything")).To(BeTrue())
	g.Expect(func() { svc.When("Process") }).To(PanicWith(MatchError(impstub.ErrRealInstance)))
}
