package core

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// Behavior computes a stubbed method's results from its arguments.
type Behavior func(args []any) []any

// Exhaustion governs how many times a stub may be consumed.
// The zero value is Unlimited.
type Exhaustion struct {
	uses int64 // 0 means unlimited
}

// Bounded returns an exhaustion policy allowing exactly n uses.
// It panics if n is less than one.
func Bounded(n int) Exhaustion {
	if n < 1 {
		panic(fmt.Errorf("%w: a stub must be usable at least once, got %d", ErrInvalidTimes, n))
	}

	return Exhaustion{uses: int64(n)}
}

// Unlimited returns the exhaustion policy of a stub that never runs out.
func Unlimited() Exhaustion {
	return Exhaustion{}
}

// IsBounded reports whether the policy limits the number of uses.
func (e Exhaustion) IsBounded() bool {
	return e.uses > 0
}

func (e Exhaustion) String() string {
	if !e.IsBounded() {
		return "unlimited"
	}

	return fmt.Sprintf("bounded(%d)", e.uses)
}

// unexported variables.
var (
	errExhausted = errors.New("stub was exhausted")
)

// stubRecord is one stored override: a matcher, a behavior, and how many uses remain.
type stubRecord struct {
	matcher   invocationMatcher
	behavior  Behavior
	bounded   bool
	remaining atomic.Int64
}

func newStubRecord(matcher invocationMatcher, behavior Behavior, exhaustion Exhaustion) *stubRecord {
	if matcher == nil {
		matcher = anyInvocation{}
	}

	record := &stubRecord{
		matcher:  matcher,
		behavior: behavior,
		bounded:  exhaustion.IsBounded(),
	}
	record.remaining.Store(exhaustion.uses)

	return record
}

// copy returns an independent record with the same matcher, behavior and
// remaining uses.
func (r *stubRecord) copy() *stubRecord {
	dup := &stubRecord{
		matcher:  r.matcher,
		behavior: r.behavior,
		bounded:  r.bounded,
	}
	dup.remaining.Store(r.remaining.Load())

	return dup
}

func (r *stubRecord) exhausted() bool {
	return r.bounded && r.remaining.Load() <= 0
}

// tryConsume returns the record's behavior if it accepts args and still has
// uses left. A bounded record is decremented atomically, so two goroutines
// can never both spend its last use.
func (r *stubRecord) tryConsume(args []any) (Behavior, error) {
	err := r.matcher.matchArgs(args)
	if err != nil {
		return nil, err
	}

	if !r.bounded {
		return r.behavior, nil
	}

	for {
		remaining := r.remaining.Load()
		if remaining <= 0 {
			return nil, errExhausted
		}

		if r.remaining.CompareAndSwap(remaining, remaining-1) {
			return r.behavior, nil
		}
	}
}
