package cart

import (
	"fmt"
	"sync"
	"time"
)

// Quotation is the mutable cart owned by one user session. All mutations and
// snapshots go through the mutex so a render observes either the pre- or
// post-mutation cart, never a partial one.
type Quotation struct {
	ID       string
	Agency   string
	Year     string
	Checkin  time.Time
	Checkout time.Time

	mu    sync.Mutex
	items []LineItem
}

// Nights returns the stay length in nights.
func (q *Quotation) Nights() int {
	return int(q.Checkout.Sub(q.Checkin) / (24 * time.Hour))
}

func (q *Quotation) add(item LineItem) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, item)
}

// Remove deletes the line item at the given position.
func (q *Quotation) Remove(index int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if index < 0 || index >= len(q.items) {
		return fmt.Errorf("item index %d out of range: %w", index, ErrInvalidInput)
	}
	q.items = append(q.items[:index], q.items[index+1:]...)
	return nil
}

// Clear removes every line item.
func (q *Quotation) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}

// Snapshot returns a copy of the cart contents in insertion order.
func (q *Quotation) Snapshot() []LineItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]LineItem, len(q.items))
	copy(out, q.items)
	return out
}
