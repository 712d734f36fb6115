package proposalconfig

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lamachat/recall/internal/domain"
	domcfg "github.com/lamachat/recall/internal/domain/proposalconfig"
)

// Service manages the per-user versioned weighting config.
type Service struct {
	repo   Repository
	cache  CacheClearer
	logger *zap.Logger
	now    func() time.Time
}

// New creates a config service. cache may be nil (no cache to clear).
func New(repo Repository, cache CacheClearer, logger *zap.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger, now: time.Now}
}

// WithClock overrides the clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Get returns the user's current config. When no version is persisted it
// returns the hardcoded default with isDefault=true; the default itself is
// never written to the store.
func (s *Service) Get(ctx context.Context, userID string) (domcfg.Config, bool, error) {
	cfg, _, err := s.repo.Current(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrConfigNotFound) {
			return domcfg.Default(), true, nil
		}
		return domcfg.Config{}, false, fmt.Errorf("load config: %w", err)
	}
	return cfg, false, nil
}

// Update validates the patch, merges it onto the current config, persists the
// result as a new version, and only after successful persistence clears the
// proposal cache (cached scores were computed under the old weights). An empty
// patch is a no-op: no version is written and the cache stays warm.
func (s *Service) Update(ctx context.Context, userID string, patch domcfg.Patch) (domcfg.Config, string, error) {
	if err := patch.Validate(); err != nil {
		return domcfg.Config{}, "", err
	}

	current, _, err := s.Get(ctx, userID)
	if err != nil {
		return domcfg.Config{}, "", err
	}

	if patch.IsEmpty() {
		return current, current.VersionHash(), nil
	}

	next, err := current.Apply(patch, s.now().UnixMilli())
	if err != nil {
		return domcfg.Config{}, "", err
	}

	hash, err := s.repo.SaveVersion(ctx, userID, next)
	if err != nil {
		return domcfg.Config{}, "", fmt.Errorf("persist config: %w", err)
	}

	if s.cache != nil {
		s.cache.Clear()
	}

	s.logger.Info("proposal config updated",
		zap.String("version", hash),
	)
	return next, hash, nil
}

// Version returns one prior config version by hash.
func (s *Service) Version(ctx context.Context, userID, hash string) (domcfg.Config, error) {
	cfg, err := s.repo.Version(ctx, userID, hash)
	if err != nil {
		return domcfg.Config{}, fmt.Errorf("load config version: %w", err)
	}
	return cfg, nil
}

// ListVersions returns all version hashes for the user, newest first.
func (s *Service) ListVersions(ctx context.Context, userID string) ([]string, error) {
	hashes, err := s.repo.ListVersions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list config versions: %w", err)
	}
	if hashes == nil {
		hashes = []string{}
	}
	return hashes, nil
}
