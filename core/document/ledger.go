package document

import (
	"fmt"
	"sync"
)

// BudgetExceededError is returned when accepting a file would push the
// whole submission past its byte budget. The triggering file is not
// accepted and the ledger is left unchanged.
type BudgetExceededError struct {
	RequestedBytes int64
	RemainingBytes int64
	CapacityBytes  int64
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf(
		"attachment budget exceeded: %d bytes requested but only %d of %d remaining",
		e.RequestedBytes, e.RemainingBytes, e.CapacityBytes,
	)
}

// BudgetLedger tracks the cumulative byte size of all attachments in an
// editing session against a fixed capacity. After every mutation the
// total stays within capacity: TryAdd/TryReplace reject atomically.
//
// The editor drives the ledger from a single goroutine, but the same
// session may also be driven by a server request; the mutex keeps
// read-then-write updates of the total atomic either way.
type BudgetLedger struct {
	mu       sync.RWMutex
	capacity int64
	entries  map[string]int64
}

func NewBudgetLedger(capacityBytes int64) *BudgetLedger {
	return &BudgetLedger{
		capacity: capacityBytes,
		entries:  make(map[string]int64),
	}
}

// Load records an entry without a capacity check. Hydration from
// persisted state only; the stored record is ground truth.
func (l *BudgetLedger) Load(id string, sizeBytes int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[id] = sizeBytes
}

// TryAdd records a new entry, or fails with BudgetExceededError if the
// total would overshoot the capacity.
func (l *BudgetLedger) TryAdd(id string, sizeBytes int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := l.total()
	if total+sizeBytes > l.capacity {
		return &BudgetExceededError{
			RequestedBytes: sizeBytes,
			RemainingBytes: l.capacity - total,
			CapacityBytes:  l.capacity,
		}
	}
	l.entries[id] = sizeBytes
	return nil
}

// TryReplace swaps an entry's size, or fails with BudgetExceededError
// if the new total would overshoot. A missing entry counts as size 0.
func (l *BudgetLedger) TryReplace(id string, newSizeBytes int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := l.total() - l.entries[id]
	if total+newSizeBytes > l.capacity {
		return &BudgetExceededError{
			RequestedBytes: newSizeBytes,
			RemainingBytes: l.capacity - total,
			CapacityBytes:  l.capacity,
		}
	}
	l.entries[id] = newSizeBytes
	return nil
}

// Remove drops an entry. Always succeeds.
func (l *BudgetLedger) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, id)
}

func (l *BudgetLedger) Capacity() int64 {
	return l.capacity
}

func (l *BudgetLedger) Total() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.total()
}

func (l *BudgetLedger) Remaining() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.capacity - l.total()
}

func (l *BudgetLedger) PercentUsed() float64 {
	if l.capacity == 0 {
		return 0
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return float64(l.total()) / float64(l.capacity) * 100
}

// total must be called with l.mu held.
func (l *BudgetLedger) total() int64 {
	var sum int64
	for _, size := range l.entries {
		sum += size
	}
	return sum
}
