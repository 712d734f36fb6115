package proposalconfig

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lamachat/recall/internal/db"
	"github.com/lamachat/recall/internal/domain"
	domcfg "github.com/lamachat/recall/internal/domain/proposalconfig"
)

// store is the consumer interface for config persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	LPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// Repo persists proposal configs as append-only content-addressed versions,
// keyed by a deterministic identity derived from the user. Each update writes
// a new version blob, pushes its hash onto the version list, and repoints the
// current pointer last.
type Repo struct {
	store store
}

// New creates a config repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Current returns the user's current config and its version hash.
// Returns domain.ErrConfigNotFound when the user has no persisted config.
func (r *Repo) Current(ctx context.Context, userID string) (domcfg.Config, string, error) {
	data, err := r.store.Get(ctx, currentKey(userID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domcfg.Config{}, "", domain.ErrConfigNotFound
		}
		return domcfg.Config{}, "", fmt.Errorf("get current config pointer: %w", err)
	}

	hash := string(data)
	cfg, err := r.Version(ctx, userID, hash)
	if err != nil {
		return domcfg.Config{}, "", err
	}
	return cfg, hash, nil
}

// Version returns one prior config version by hash.
func (r *Repo) Version(ctx context.Context, userID, hash string) (domcfg.Config, error) {
	data, err := r.store.Get(ctx, versionKey(userID, hash))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domcfg.Config{}, domain.ErrConfigNotFound
		}
		return domcfg.Config{}, fmt.Errorf("get config version %s: %w", hash, err)
	}

	var cfg domcfg.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return domcfg.Config{}, fmt.Errorf("unmarshal config version %s: %w", hash, err)
	}
	return cfg, nil
}

// ListVersions returns all version hashes, newest first.
func (r *Repo) ListVersions(ctx context.Context, userID string) ([]string, error) {
	hashes, err := r.store.LRange(ctx, versionsKey(userID), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("lrange config versions: %w", err)
	}
	return hashes, nil
}

// SaveVersion persists cfg as a new version and returns its hash. Write order
// matters: blob, then version list, then the current pointer — the pointer
// only ever references a fully persisted blob.
func (r *Repo) SaveVersion(ctx context.Context, userID string, cfg domcfg.Config) (string, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	hash := cfg.VersionHash()

	if err := r.store.Set(ctx, versionKey(userID, hash), data); err != nil {
		return "", fmt.Errorf("set config version %s: %w", hash, err)
	}
	if err := r.store.LPush(ctx, versionsKey(userID), hash); err != nil {
		return "", fmt.Errorf("lpush config version %s: %w", hash, err)
	}
	if err := r.store.Set(ctx, currentKey(userID), []byte(hash)); err != nil {
		return "", fmt.Errorf("set current config pointer: %w", err)
	}
	return hash, nil
}

// Redis key patterns: recall:cfg:{user}:current, recall:cfg:{user}:v:{hash},
// recall:cfg:{user}:versions

// userKey derives the deterministic storage identity for a user.
func userKey(userID string) string {
	h := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(h[:16])
}

func currentKey(userID string) string {
	return fmt.Sprintf("%scfg:%s:current", domain.KeyPrefix, userKey(userID))
}

func versionKey(userID, hash string) string {
	return fmt.Sprintf("%scfg:%s:v:%s", domain.KeyPrefix, userKey(userID), hash)
}

func versionsKey(userID string) string {
	return fmt.Sprintf("%scfg:%s:versions", domain.KeyPrefix, userKey(userID))
}
