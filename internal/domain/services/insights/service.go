// Package insights orchestrates the privacy engine for API consumers: it
// loads the three settings sources, resolves effective privacy per member,
// samples snapshot histories and produces squad aggregates, leaderboards,
// member portfolios and activity feeds that all honor the same resolved
// decision.
package insights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/squadfolio/squadfolio_service/internal/domain/entities"
	"github.com/squadfolio/squadfolio_service/internal/domain/services/history"
	"github.com/squadfolio/squadfolio_service/internal/domain/services/privacy"
	apperrors "github.com/squadfolio/squadfolio_service/pkg/errors"
	"github.com/squadfolio/squadfolio_service/pkg/logger"
	"github.com/squadfolio/squadfolio_service/pkg/metrics"
)

// WorkspaceRepository interface for workspace and membership persistence
type WorkspaceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Workspace, error)
	ListMembers(ctx context.Context, workspaceID uuid.UUID) ([]entities.WorkspaceMember, error)
	GetMember(ctx context.Context, workspaceID, userID uuid.UUID) (*entities.WorkspaceMember, error)
	UpdatePolicy(ctx context.Context, workspaceID uuid.UUID, policy entities.WorkspacePrivacyPolicy) error
}

// PrivacySettingsRepository interface for the three persisted settings
// sources. Reads return the raw stored JSON (nil when absent); deserializing
// is always the defensive, total parse.
type PrivacySettingsRepository interface {
	GetUserDefaults(ctx context.Context, userID uuid.UUID) ([]byte, error)
	UpsertUserDefaults(ctx context.Context, userID uuid.UUID, settings entities.PrivacySettings) error
	GetWorkspaceOverride(ctx context.Context, workspaceID, userID uuid.UUID) ([]byte, error)
	UpsertWorkspaceOverride(ctx context.Context, workspaceID, userID uuid.UUID, settings entities.PrivacySettings) error
	DeleteWorkspaceOverride(ctx context.Context, workspaceID, userID uuid.UUID) error
}

// SnapshotRepository interface for portfolio snapshot and holdings reads
type SnapshotRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entities.PortfolioSnapshot, error)
	ListPositionsByUser(ctx context.Context, userID uuid.UUID) ([]entities.Position, error)
	ListWatchlistSymbols(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// ActivityRepository interface for raw activity events
type ActivityRepository interface {
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, limit int) ([]entities.ActivityEvent, error)
	Record(ctx context.Context, event entities.ActivityEvent) error
}

// Cache is a read-through cache for derived responses. Implementations may
// be nil-backed in tests; the service treats misses and errors identically.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Service resolves privacy and serves visibility-aware aggregates.
type Service struct {
	workspaceRepo WorkspaceRepository
	privacyRepo   PrivacySettingsRepository
	snapshotRepo  SnapshotRepository
	activityRepo  ActivityRepository
	cache         Cache
	cacheTTL      time.Duration
	sampler       *history.Sampler
	aggregator    *history.Aggregator
	logger        *logger.Logger
}

// NewService creates a new insights service. cache may be nil.
func NewService(
	workspaceRepo WorkspaceRepository,
	privacyRepo PrivacySettingsRepository,
	snapshotRepo SnapshotRepository,
	activityRepo ActivityRepository,
	cache Cache,
	cacheTTL time.Duration,
	log *logger.Logger,
) *Service {
	return &Service{
		workspaceRepo: workspaceRepo,
		privacyRepo:   privacyRepo,
		snapshotRepo:  snapshotRepo,
		activityRepo:  activityRepo,
		cache:         cache,
		cacheTTL:      cacheTTL,
		sampler:       history.NewSampler(),
		aggregator:    history.NewAggregator(),
		logger:        log,
	}
}

// WithSampler replaces the sampler, used by tests to pin the clock.
func (s *Service) WithSampler(sampler *history.Sampler) *Service {
	s.sampler = sampler
	return s
}

// EffectivePrivacyFor resolves a member's effective privacy inside a
// workspace from the three persisted sources. Absent records are no
// constraint; the resolution itself never fails.
func (s *Service) EffectivePrivacyFor(ctx context.Context, workspace *entities.Workspace, userID uuid.UUID) (entities.EffectivePrivacy, error) {
	rawDefaults, err := s.privacyRepo.GetUserDefaults(ctx, userID)
	if err != nil {
		return entities.EffectivePrivacy{}, fmt.Errorf("failed to load user defaults: %w", err)
	}
	userDefault := entities.ParsePrivacySettings(rawDefaults)

	var override *entities.PrivacySettings
	rawOverride, err := s.privacyRepo.GetWorkspaceOverride(ctx, workspace.ID, userID)
	if err != nil {
		return entities.EffectivePrivacy{}, fmt.Errorf("failed to load workspace override: %w", err)
	}
	if rawOverride != nil {
		parsed := entities.ParsePrivacySettings(rawOverride)
		override = &parsed
	}

	policy := workspace.Policy()
	effective := privacy.Resolve(userDefault, &policy, override)
	metrics.PrivacyResolutionsTotal.WithLabelValues(string(effective.Source)).Inc()
	return effective, nil
}

// GetEffectivePrivacy returns the requester's own resolved privacy for a
// workspace.
func (s *Service) GetEffectivePrivacy(ctx context.Context, workspaceID, requesterID uuid.UUID) (*entities.EffectivePrivacy, error) {
	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireMember(ctx, workspaceID, requesterID); err != nil {
		return nil, err
	}

	effective, err := s.EffectivePrivacyFor(ctx, workspace, requesterID)
	if err != nil {
		return nil, err
	}
	return &effective, nil
}

// requireMember checks workspace membership for the requesting user.
func (s *Service) requireMember(ctx context.Context, workspaceID, userID uuid.UUID) (*entities.WorkspaceMember, error) {
	member, err := s.workspaceRepo.GetMember(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrMemberNotFound) {
			return nil, apperrors.ErrNotAMember
		}
		return nil, err
	}
	return member, nil
}

// memberSeries loads and samples every member's history with their resolved
// privacy attached. The aggregator needs the full set before it runs; the
// per-member fetches are independent reads.
func (s *Service) memberSeries(ctx context.Context, workspace *entities.Workspace, members []entities.WorkspaceMember, period entities.HistoryPeriod) ([]history.MemberSeries, error) {
	series := make([]history.MemberSeries, 0, len(members))
	for _, member := range members {
		effective, err := s.EffectivePrivacyFor(ctx, workspace, member.UserID)
		if err != nil {
			return nil, err
		}

		snapshots, err := s.snapshotRepo.ListByUser(ctx, member.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load snapshots for member %s: %w", member.UserID, err)
		}

		sampled := s.sampler.Sample(snapshots, period, member.JoinedAt)
		metrics.SampleCoverage.Observe(float64(sampled.Coverage))

		series = append(series, history.MemberSeries{
			UserID:      member.UserID,
			DisplayName: member.DisplayName,
			Effective:   effective,
			History:     sampled,
		})
	}
	return series, nil
}
