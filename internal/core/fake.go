package core

// Fake is the fake state of an instance: a stub registry plus the options
// it was created with.
type Fake struct {
	registry      *Registry
	privateClones bool
	reporter      TestReporter
	render        func(any) string
}

// NewFake creates a fake of the named type with an empty registry.
func NewFake(typeName string, options ...Option) *Fake {
	fake := &Fake{registry: NewRegistry(typeName)}

	for _, o := range options {
		fake = o(fake)
	}

	return fake
}

// Clone returns a duplicate of the fake. By default the duplicate shares the
// registry: both observe and exhaust the same stubs. With WithPrivateClones
// the duplicate gets its own copy of the live stubs instead.
func (f *Fake) Clone() *Fake {
	dup := *f

	if f.privateClones {
		dup.registry = f.registry.clone()
	}

	return &dup
}

// Methods returns the names of the methods that have live stubs, sorted.
func (f *Fake) Methods() []string {
	return f.registry.Methods()
}

// Reset drops every stub registered against method.
func (f *Fake) Reset(method string) {
	f.registry.Reset(method)
	f.logf("impstub: reset %s.%s", f.TypeName(), method)
}

// SharesStubsWith reports whether f and other resolve against the same registry.
func (f *Fake) SharesStubsWith(other *Fake) bool {
	return other != nil && f.registry == other.registry
}

// Stubbed returns the number of live stubs for method. Exhausted stubs are
// pruned and not counted.
func (f *Fake) Stubbed(method string) int {
	return f.registry.Stubbed(method)
}

// TypeName returns the name of the faked type.
func (f *Fake) TypeName() string {
	return f.registry.TypeName()
}

// When begins a stub for method. Finish it with one of the Then variants.
func (f *Fake) When(method string) *StubBuilder[any] {
	return newStubBuilder[any](f, method)
}

func (f *Fake) logf(format string, args ...any) {
	if log, ok := f.reporter.(logger); ok {
		log.Logf(format, args...)
	}
}

// report hands an unmatched call to the reporter, if any.
func (f *Fake) report(err error) {
	if f.reporter == nil {
		return
	}

	f.reporter.Helper()
	f.reporter.Fatalf("impstub: %v", err)
}

func (f *Fake) stubTarget() *Fake {
	return f
}
