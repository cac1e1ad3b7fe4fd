// Package profiles stores named job profiles and enforces their invariants:
// names are required and unique, ids are generated, and default profiles can
// be neither deleted nor replaced by users.
package profiles

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/logger"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// DeleteOutcome is the result of an atomic check-and-delete in a Repository.
type DeleteOutcome int

const (
	Deleted DeleteOutcome = iota
	DeleteNotFound
	DeleteRefusedDefault
)

// Repository is the backing storage for a Store. GetProfile returns nil, nil
// for an unknown id. DeleteUserProfile must check IsDefault and delete
// atomically.
type Repository interface {
	ListProfiles(ctx context.Context) ([]types.JobProfile, error)
	GetProfile(ctx context.Context, id string) (*types.JobProfile, error)
	ProfileNameExists(ctx context.Context, name string) (bool, error)
	InsertProfile(ctx context.Context, p types.JobProfile) error
	UpsertDefaultProfile(ctx context.Context, p types.JobProfile) error
	DeleteUserProfile(ctx context.Context, id string) (DeleteOutcome, error)
}

// ListSuggester proposes requirement lists for a profile known only by name.
type ListSuggester interface {
	SuggestLists(ctx context.Context, name string) (types.JobProfileLists, error)
}

// Store is the job profile service used by the HTTP layer and the analyzer.
// Writes are serialized; reads go straight to the repository.
type Store struct {
	repo      Repository
	suggester ListSuggester
	logger    *zap.Logger
	now       func() time.Time

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithSuggester enables model-suggested lists for profiles created with only a name.
func WithSuggester(s ListSuggester) Option {
	return func(st *Store) {
		st.suggester = s
	}
}

// WithLogger sets the store's logger.
func WithLogger(l *zap.Logger) Option {
	return func(st *Store) {
		if l != nil {
			st.logger = l
		}
	}
}

// NewStore creates a Store over repo.
func NewStore(repo Repository, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed installs the default profiles. Running it again refreshes their lists.
func (s *Store) Seed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range DefaultProfiles() {
		p.CreatedAt = s.now()
		if err := s.repo.UpsertDefaultProfile(ctx, p); err != nil {
			return fmt.Errorf("failed to seed job profile %s: %w", p.ID, err)
		}
	}
	return nil
}

// List returns default profiles first, then user profiles in creation order.
func (s *Store) List(ctx context.Context) ([]types.JobProfile, error) {
	profiles, err := s.repo.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list job profiles: %w", err)
	}
	return profiles, nil
}

// Get returns the profile with id or a NotFoundError.
func (s *Store) Get(ctx context.Context, id string) (types.JobProfile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return types.JobProfile{}, &NotFoundError{ID: id}
	}

	p, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		return types.JobProfile{}, fmt.Errorf("failed to get job profile %s: %w", id, err)
	}
	if p == nil {
		return types.JobProfile{}, &NotFoundError{ID: id}
	}
	return *p, nil
}

// Create validates req and stores a new user profile with a fresh id.
func (s *Store) Create(ctx context.Context, req types.CreateJobProfileRequest) (types.JobProfile, error) {
	if err := validateRequest(&req); err != nil {
		return types.JobProfile{}, err
	}

	lists := req.Lists()
	if lists.Empty() && s.suggester != nil {
		// Model latency must not be spent holding the write lock.
		lists = s.suggest(ctx, req.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.repo.ProfileNameExists(ctx, req.Name)
	if err != nil {
		return types.JobProfile{}, fmt.Errorf("failed to check job profile name: %w", err)
	}
	if exists {
		return types.JobProfile{}, &ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("a job profile named %q already exists", req.Name),
		}
	}

	profile := types.JobProfile{
		ID:                 uuid.NewString(),
		Name:               req.Name,
		RequiredSkills:     lists.RequiredSkills,
		PreferredSkills:    lists.PreferredSkills,
		ExperienceKeywords: lists.ExperienceKeywords,
		EducationKeywords:  lists.EducationKeywords,
		IsDefault:          false,
		CreatedAt:          s.now(),
	}
	if err := s.repo.InsertProfile(ctx, profile); err != nil {
		return types.JobProfile{}, fmt.Errorf("failed to create job profile: %w", err)
	}

	s.logger.Info("job profile created",
		zap.String(logger.FieldProfileID, profile.ID),
		zap.String("name", profile.Name))
	return profile.Clone(), nil
}

// Delete removes a user profile. Default profiles yield ForbiddenOperationError.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, err := s.repo.DeleteUserProfile(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete job profile %s: %w", id, err)
	}

	switch outcome {
	case DeleteNotFound:
		return &NotFoundError{ID: id}
	case DeleteRefusedDefault:
		return &ForbiddenOperationError{ID: id, Operation: "delete"}
	}

	s.logger.Info("job profile deleted", zap.String(logger.FieldProfileID, id))
	return nil
}

func (s *Store) suggest(ctx context.Context, name string) types.JobProfileLists {
	suggested, err := s.suggester.SuggestLists(ctx, name)
	if err != nil {
		s.logger.Warn("job profile list suggestion failed; creating with empty lists",
			zap.String("name", name),
			zap.Error(err))
		return emptyLists()
	}

	return types.JobProfileLists{
		RequiredSkills:     capList(types.CleanList(suggested.RequiredSkills)),
		PreferredSkills:    capList(types.CleanList(suggested.PreferredSkills)),
		ExperienceKeywords: capList(types.CleanList(suggested.ExperienceKeywords)),
		EducationKeywords:  capList(types.CleanList(suggested.EducationKeywords)),
	}
}

func emptyLists() types.JobProfileLists {
	return types.JobProfileLists{
		RequiredSkills:     []string{},
		PreferredSkills:    []string{},
		ExperienceKeywords: []string{},
		EducationKeywords:  []string{},
	}
}

func capList(items []string) []string {
	out := items[:0]
	for _, item := range items {
		if len(item) > types.MaxProfileItemLength {
			continue
		}
		out = append(out, item)
		if len(out) == types.MaxProfileListLength {
			break
		}
	}
	return out
}
