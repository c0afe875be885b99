package repository

import (
	"context"
	"sync"

	"github.com/fixithub/complaint-service/internal/domain"
)

// memoryStore keeps every record in process memory behind one lock so
// capacity checks and inserts are atomic.
type memoryStore struct {
	mu          sync.RWMutex
	residencies []domain.Residency
	users       []domain.User
	// complaints are kept newest first.
	complaints []domain.Complaint
}

// NewMemoryRepositories returns repositories sharing one in-memory store.
func NewMemoryRepositories() Repositories {
	store := &memoryStore{}
	return Repositories{
		Residencies: &memoryResidencyRepository{store: store},
		Users:       &memoryUserRepository{store: store},
		Complaints:  &memoryComplaintRepository{store: store},
	}
}

type memoryResidencyRepository struct {
	store *memoryStore
}

func (r *memoryResidencyRepository) Create(_ context.Context, residency *domain.Residency) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.residencies = append(r.store.residencies, *residency)
	return nil
}

func (r *memoryResidencyRepository) GetByID(_ context.Context, id string) (*domain.Residency, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for i := range r.store.residencies {
		if r.store.residencies[i].ID == id {
			residency := r.store.residencies[i]
			return &residency, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryResidencyRepository) List(_ context.Context) ([]domain.Residency, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return append([]domain.Residency{}, r.store.residencies...), nil
}

type memoryUserRepository struct {
	store *memoryStore
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User, limit int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	known := false
	for i := range r.store.residencies {
		if r.store.residencies[i].ID == user.ResidencyID {
			known = true
			break
		}
	}
	if !known {
		return ErrNotFound
	}

	count := 0
	for i := range r.store.users {
		if r.store.users[i].ResidencyID == user.ResidencyID && r.store.users[i].Role == user.Role {
			count++
		}
	}
	if count >= limit {
		return ErrCapacityReached
	}

	r.store.users = append(r.store.users, *user)
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for i := range r.store.users {
		if r.store.users[i].ID == id {
			user := r.store.users[i]
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepository) FindByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for i := range r.store.users {
		if r.store.users[i].Phone == identifier || r.store.users[i].Username == identifier {
			user := r.store.users[i]
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepository) ListByResidency(_ context.Context, residencyID string) ([]domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := []domain.User{}
	for i := range r.store.users {
		if r.store.users[i].ResidencyID == residencyID {
			result = append(result, r.store.users[i])
		}
	}
	return result, nil
}

type memoryComplaintRepository struct {
	store *memoryStore
}

func (r *memoryComplaintRepository) Create(_ context.Context, complaint *domain.Complaint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.complaints = append([]domain.Complaint{*complaint}, r.store.complaints...)
	return nil
}

func (r *memoryComplaintRepository) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		complaint := r.store.complaints[i]
		return &complaint, nil
	}
	return nil, ErrNotFound
}

func (r *memoryComplaintRepository) List(_ context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := []domain.Complaint{}
	skipped := 0
	for i := range r.store.complaints {
		if !filter.Matches(&r.store.complaints[i]) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		result = append(result, r.store.complaints[i])
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

func (r *memoryComplaintRepository) UpdateStatus(_ context.Context, id string, status domain.ComplaintStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.store.complaints[i].Status = status
	return nil
}

func (r *memoryComplaintRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.store.complaints = append(r.store.complaints[:i:i], r.store.complaints[i+1:]...)
	return nil
}

// indexOf must be called with the lock held.
func (r *memoryComplaintRepository) indexOf(id string) int {
	for i := range r.store.complaints {
		if r.store.complaints[i].ID == id {
			return i
		}
	}
	return -1
}
