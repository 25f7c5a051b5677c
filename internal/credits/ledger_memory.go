package credits

import (
	"context"
	"sync"
)

// MemoryLedger is a process-lifetime Ledger. One mutex serializes every
// mutation, spending volume is tiny and overspend is the failure that matters.
type MemoryLedger struct {
	mu   sync.Mutex
	data map[string]int
}

// NewMemoryLedger constructs an empty MemoryLedger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{data: make(map[string]int)}
}

func (l *MemoryLedger) InitIfAbsent(ctx context.Context, paymentID string, quota int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if quota < 0 {
		return ErrInvalidQuota
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.data[paymentID]; !ok {
		l.data[paymentID] = quota
	}
	return nil
}

func (l *MemoryLedger) Consume(ctx context.Context, paymentID string) (ConsumeResult, error) {
	if err := ctx.Err(); err != nil {
		return ConsumeResult{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	current, ok := l.data[paymentID]
	if !ok || current <= 0 {
		return ConsumeResult{OK: false, Remaining: 0}, nil
	}
	current--
	l.data[paymentID] = current
	return ConsumeResult{OK: true, Remaining: current}, nil
}

func (l *MemoryLedger) Remaining(ctx context.Context, paymentID string) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	n, ok := l.data[paymentID]
	return n, ok, nil
}
