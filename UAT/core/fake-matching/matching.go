// Package fakematching demonstrates stubs selected by argument shape.
package fakematching

import "github.com/toejough/impstub"

// Data is a complex struct where we might only care about matching some fields.
type Data struct {
	ID        int
	Payload   string
	Timestamp int64
}

// Processor handles Data. The zero Processor is real and accepts everything.
type Processor struct {
	impstub.Instance[struct{}]
}

// FakeProcessor creates a Processor in the fake state.
func FakeProcessor() Processor {
	return Processor{impstub.Faux[struct{}]("Processor")}
}

// Process reports whether d was accepted.
func (p Processor) Process(d Data) bool {
	results := p.Invoke("Process", []any{d}, func(struct{}) []any {
		return []any{true}
	})

	return impstub.Result[bool](results, 0)
}

// UseService sends one Data with the given payload.
func UseService(svc interface{ Process(d Data) bool }, payload string) bool {
	const (
		id        = 123
		timestamp = 1600000000
	)

	return svc.Process(Data{
		ID:        id,
		Payload:   payload,
		Timestamp: timestamp,
	})
}
