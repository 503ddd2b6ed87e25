package core

import (
	"errors"
	"slices"
	"sync"
)

// methodSlot holds the stubs registered against one method, in registration
// order. Resolution scans newest first, so a later stub overrides an earlier
// one for overlapping arguments.
type methodSlot struct {
	mu      sync.Mutex // Protects records
	records []*stubRecord
}

// clone returns a slot holding independent copies of the live records.
func (s *methodSlot) clone() *methodSlot {
	s.mu.Lock()
	defer s.mu.Unlock()

	dup := &methodSlot{records: make([]*stubRecord, 0, len(s.records))}

	for _, record := range s.records {
		if !record.exhausted() {
			dup.records = append(dup.records, record.copy())
		}
	}

	return dup
}

func (s *methodSlot) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

func (s *methodSlot) register(record *stubRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)
}

func (s *methodSlot) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
}

// resolve consumes the newest record that accepts args and returns its
// behavior. When none does, it returns the rejection reason of every live
// record, newest first. Exhausted records are pruned as they are met.
//
// The lock is released on the way out even when a user matcher panics.
func (s *methodSlot) resolve(args []any) (Behavior, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var reasons []string

	for index := len(s.records) - 1; index >= 0; index-- {
		record := s.records[index]

		behavior, err := record.tryConsume(args)
		if err == nil {
			if record.exhausted() {
				s.records = slices.Delete(s.records, index, index+1)
			}

			return behavior, nil
		}

		if errors.Is(err, errExhausted) {
			s.records = slices.Delete(s.records, index, index+1)

			continue
		}

		reasons = append(reasons, err.Error())
	}

	return nil, reasons
}
