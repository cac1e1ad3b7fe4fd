package profiles

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// MemoryRepository keeps profiles in process memory, in insertion order.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles []types.JobProfile
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) ListProfiles(_ context.Context) ([]types.JobProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.JobProfile, len(r.profiles))
	for i, p := range r.profiles {
		out[i] = p.Clone()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IsDefault && !out[j].IsDefault
	})
	return out, nil
}

func (r *MemoryRepository) GetProfile(_ context.Context, id string) (*types.JobProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		p := r.profiles[i].Clone()
		return &p, nil
	}
	return nil, nil
}

func (r *MemoryRepository) ProfileNameExists(_ context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.profiles {
		if strings.EqualFold(p.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) InsertProfile(_ context.Context, p types.JobProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(p.ID) >= 0 {
		return &ValidationError{Field: "id", Message: "already exists"}
	}
	r.profiles = append(r.profiles, p.Clone())
	return nil
}

func (r *MemoryRepository) UpsertDefaultProfile(_ context.Context, p types.JobProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p = p.Clone()
	p.IsDefault = true
	if i := r.indexOf(p.ID); i >= 0 {
		p.CreatedAt = r.profiles[i].CreatedAt
		r.profiles[i] = p
		return nil
	}
	r.profiles = append(r.profiles, p)
	return nil
}

func (r *MemoryRepository) DeleteUserProfile(_ context.Context, id string) (DeleteOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return DeleteNotFound, nil
	}
	if r.profiles[i].IsDefault {
		return DeleteRefusedDefault, nil
	}
	r.profiles = append(r.profiles[:i], r.profiles[i+1:]...)
	return Deleted, nil
}

func (r *MemoryRepository) indexOf(id string) int {
	for i, p := range r.profiles {
		if p.ID == id {
			return i
		}
	}
	return -1
}
