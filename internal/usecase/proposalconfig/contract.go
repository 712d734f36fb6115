package proposalconfig

import (
	"context"

	domcfg "github.com/lamachat/recall/internal/domain/proposalconfig"
)

// Repository defines the versioned persistence contract for proposal configs.
type Repository interface {
	Current(ctx context.Context, userID string) (domcfg.Config, string, error)
	Version(ctx context.Context, userID, hash string) (domcfg.Config, error)
	ListVersions(ctx context.Context, userID string) ([]string, error)
	SaveVersion(ctx context.Context, userID string, cfg domcfg.Config) (string, error)
}

// CacheClearer wipes the proposal cache after a config change.
type CacheClearer interface {
	Clear()
}
