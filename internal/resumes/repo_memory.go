package resumes

import (
	"context"
	"sync"
)

// MemoryRepo keeps submissions for the life of the process.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Submission
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Submission),
	}
}

// Save stores sub under clientSessionID, replacing any previous entry.
func (r *MemoryRepo) Save(ctx context.Context, clientSessionID string, sub Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sub.ClientSessionID = clientSessionID
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[clientSessionID] = sub
	return nil
}

// Get returns the submission for clientSessionID or ErrNotFound.
func (r *MemoryRepo) Get(ctx context.Context, clientSessionID string) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.data[clientSessionID]
	if !ok {
		return Submission{}, ErrNotFound
	}
	return sub, nil
}
