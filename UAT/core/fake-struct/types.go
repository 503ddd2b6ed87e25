// Package fakestruct demonstrates a struct type whose methods can run for
// real or be faked per call, the way a code generator would emit them.
package fakestruct

import (
	"errors"

	"github.com/toejough/impstub"
)

// Exported variables.
var (
	ErrNotFound = errors.New("not found")
)

// Calculator is a concrete type with memory. Its methods route through the
// embedded Instance, so a fake Calculator never touches memory.
type Calculator struct {
	impstub.Instance[*memory]
}

// Fake creates a Calculator in the fake state. Stub its methods with When.
func Fake(options ...impstub.Option) Calculator {
	return Calculator{impstub.Faux[*memory]("Calculator", options...)}
}

// New creates a real Calculator with empty memory.
func New() Calculator {
	return Calculator{impstub.Real(&memory{})}
}

// Add returns the sum of two integers.
func (c Calculator) Add(a, b int) int {
	results := c.Invoke("Add", []any{a, b}, func(*memory) []any {
		return []any{a + b}
	})

	return impstub.Result[int](results, 0)
}

// Clone duplicates the calculator. A fake clone shares its stubs.
func (c Calculator) Clone() Calculator {
	return Calculator{c.Instance.Clone()}
}

// Get retrieves the current memory value.
func (c Calculator) Get() (int, error) {
	results := c.Invoke("Get", nil, func(m *memory) []any {
		if m.value == 0 {
			return []any{0, ErrNotFound}
		}

		return []any{m.value, nil}
	})

	return impstub.Result[int](results, 0), impstub.Result[error](results, 1)
}

// Reset clears the memory.
func (c Calculator) Reset() {
	c.Invoke("Reset", nil, func(m *memory) []any {
		m.value = 0

		return nil
	})
}

// Store saves a value to memory and returns the previous value.
func (c Calculator) Store(value int) int {
	results := c.Invoke("Store", []any{value}, func(m *memory) []any {
		prev := m.value
		m.value = value

		return []any{prev}
	})

	return impstub.Result[int](results, 0)
}

// UseCalculator is a helper that exercises the Calculator methods.
func UseCalculator(calc interface {
	Add(a, b int) int
	Store(value int) int
	Get() (int, error)
	Reset()
},
) (int, error) {
	const (
		a = 1
		b = 2
	)

	sum := calc.Add(a, b)
	_ = calc.Store(sum)

	got, err := calc.Get()

	calc.Reset()

	return got, err
}

type memory struct {
	value int
}

// Clone copies the memory so a real clone does not share it.
func (m *memory) Clone() *memory {
	return &memory{value: m.value}
}
