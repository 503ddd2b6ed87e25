package core

import (
	"slices"
	"sync"
)

// Registry owns the stubs of one fake instance, one slot per method.
//
// The map of slots is only locked long enough to find or create a slot; each
// slot serializes its own registrations and resolutions. Activity on one
// method therefore never waits behind a behavior or matcher of another.
// There is no process-wide registry: every Registry belongs to one fake and
// the clones that share it.
type Registry struct {
	typeName string

	mu    sync.RWMutex // Protects slots (the map, not the slot contents)
	slots map[string]*methodSlot
}

// NewRegistry creates an empty registry for a fake of the named type.
func NewRegistry(typeName string) *Registry {
	return &Registry{
		typeName: typeName,
		slots:    make(map[string]*methodSlot),
	}
}

// Methods returns the names of every method that currently has live stubs, sorted.
func (r *Registry) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	methods := make([]string, 0, len(r.slots))

	for method, slot := range r.slots {
		if slot.len() > 0 {
			methods = append(methods, method)
		}
	}

	slices.Sort(methods)

	return methods
}

// Reset drops every stub registered against method.
func (r *Registry) Reset(method string) {
	slot := r.lookup(method)
	if slot == nil {
		return
	}

	slot.reset()
}

// Resolve finds the newest live stub for method that accepts args, consumes
// one use of it, and returns its behavior. ok is false when nothing matched;
// reasons then holds why each live stub declined, newest first.
//
// Resolving a method that was never stubbed does not create a slot for it.
func (r *Registry) Resolve(method string, args []any) (behavior Behavior, reasons []string, ok bool) {
	slot := r.lookup(method)
	if slot == nil {
		return nil, nil, false
	}

	behavior, reasons = slot.resolve(args)

	return behavior, reasons, behavior != nil
}

// Stubbed returns the number of live stubs registered against method.
func (r *Registry) Stubbed(method string) int {
	slot := r.lookup(method)
	if slot == nil {
		return 0
	}

	return slot.len()
}

// TypeName returns the name of the faked type, used in diagnostics.
func (r *Registry) TypeName() string {
	return r.typeName
}

// clone returns a registry with private copies of every live stub.
func (r *Registry) clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dup := NewRegistry(r.typeName)

	for method, slot := range r.slots {
		dup.slots[method] = slot.clone()
	}

	return dup
}

func (r *Registry) lookup(method string) *methodSlot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.slots[method]
}

// register stores record as the newest stub of method.
func (r *Registry) register(method string, record *stubRecord) {
	r.slotFor(method).register(record)
}

// slotFor returns the slot for method, creating it if needed.
func (r *Registry) slotFor(method string) *methodSlot {
	if slot := r.lookup(method); slot != nil {
		return slot
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[method]
	if !ok {
		slot = &methodSlot{}
		r.slots[method] = slot
	}

	return slot
}
