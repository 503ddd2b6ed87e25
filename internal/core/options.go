package core

// Option configures a Fake at construction.
type Option func(*Fake) *Fake

// TestReporter is the minimal interface impstub needs from test frameworks.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// WithArgFormatter sets how arguments are rendered in unmatched-call
// failures. The default is %#v.
func WithArgFormatter(render func(arg any) string) Option {
	return func(f *Fake) *Fake {
		f.render = render
		return f
	}
}

// WithPrivateClones makes Clone copy the stubs instead of sharing them.
// Stubs registered or consumed through a private clone are invisible to the
// original, and the other way round.
func WithPrivateClones() Option {
	return func(f *Fake) *Fake {
		f.privateClones = true
		return f
	}
}

// WithReporter reports unmatched calls through t.Fatalf before panicking.
// If t also has a Logf method (as *testing.T does), registrations and
// resolutions are traced through it.
//
// Fatalf on a *testing.T stops the calling goroutine, so tests that recover
// the unmatched-call panic should not set a reporter.
func WithReporter(t TestReporter) Option {
	return func(f *Fake) *Fake {
		f.reporter = t
		return f
	}
}

// logger is satisfied by *testing.T and *testing.B.
type logger interface {
	Logf(format string, args ...any)
}
