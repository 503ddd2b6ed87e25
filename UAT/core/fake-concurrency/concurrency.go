// Package fakeconcurrency demonstrates one fake serving many goroutines.
package fakeconcurrency

import (
	"sync"

	"github.com/toejough/impstub"
)

// Tokens hands out tokens from a pool.
type Tokens struct {
	impstub.Instance[*pool]
}

// FakeTokens creates a Tokens in the fake state.
func FakeTokens() Tokens {
	return Tokens{impstub.Faux[*pool]("Tokens")}
}

// NewTokens creates real Tokens with n tokens available.
func NewTokens(n int) Tokens {
	return Tokens{impstub.Real(&pool{left: n})}
}

// Take returns a token, or false when the pool is empty.
func (t Tokens) Take(worker int) (string, bool) {
	results := t.Invoke("Take", []any{worker}, func(p *pool) []any {
		p.mu.Lock()
		defer p.mu.Unlock()

		if p.left == 0 {
			return []any{"", false}
		}

		p.left--

		return []any{"token", true}
	})

	return impstub.Result[string](results, 0), impstub.Result[bool](results, 1)
}

// RunWorkers has each of n workers try to take one token, each from its own
// clone of tokens, and returns how many succeeded.
func RunWorkers(tokens Tokens, n int) int {
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		got int
	)

	wg.Add(n)

	for worker := range n {
		clone := Tokens{tokens.Clone()}

		go func() {
			defer wg.Done()

			if _, ok := clone.Take(worker); ok {
				mu.Lock()
				got++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	return got
}

type pool struct {
	mu   sync.Mutex
	left int
}
