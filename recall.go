// Package recall embeds the cross-conversation proposal engine in-process.
// A desktop host links this package directly instead of talking to the HTTP
// server in cmd/recall.
package recall

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lamachat/recall/internal/cache"
	"github.com/lamachat/recall/internal/db"
	dbRedis "github.com/lamachat/recall/internal/db/redis"
	messagerepo "github.com/lamachat/recall/internal/repository/message"
	configrepo "github.com/lamachat/recall/internal/repository/proposalconfig"
	subjectrepo "github.com/lamachat/recall/internal/repository/subject"
	openaiExt "github.com/lamachat/recall/internal/transport/openai"
	ingestuc "github.com/lamachat/recall/internal/usecase/ingest"
	proposaluc "github.com/lamachat/recall/internal/usecase/proposal"
	configuc "github.com/lamachat/recall/internal/usecase/proposalconfig"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the recall SDK entry point.
type Client struct {
	store       db.Store
	userID      string
	proposalSvc *proposaluc.Service
	configSvc   *configuc.Service
	ingestSvc   *ingestuc.Service
}

// New creates a recall Client and connects to the object store.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		userID: "local",
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("recall: store address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("recall: create store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("recall: store not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	subjectRepo := subjectrepo.New(store)
	configRepo := configrepo.New(store)
	messageRepo := messagerepo.New(store)

	memo := cache.New(cfg.cacheCapacity, cfg.cacheTTL, nil)

	configSvc := configuc.New(configRepo, memo, cfg.logger)
	proposalSvc := proposaluc.New(subjectRepo, configSvc, memo, cfg.logger).
		WithMessages(messageRepo)
	if cfg.dismissalCapacity > 0 {
		proposalSvc = proposalSvc.WithDismissalCapacity(cfg.dismissalCapacity)
	}

	extractor := openaiExt.NewExtractor(&openaiExt.Config{
		APIKey:   cfg.extractionAPIKey,
		BaseURL:  cfg.extractionBaseURL,
		Model:    cfg.extractionModel,
		Provider: cfg.extractionProvider,
		Logger:   cfg.logger,
	})
	ingestSvc := ingestuc.New(extractor, subjectRepo, messageRepo, cfg.logger)

	return &Client{
		store:       store,
		userID:      cfg.userID,
		proposalSvc: proposalSvc,
		configSvc:   configSvc,
		ingestSvc:   ingestSvc,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks store connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// ProposalsForTopic returns ranked proposals for the topic, resolving the
// topic's current subjects from the store.
func (c *Client) ProposalsForTopic(ctx context.Context, topicID string) (proposaluc.Result, error) {
	return c.proposalSvc.GetForTopic(ctx, c.userID, topicID, nil, false)
}

// RefreshProposals recomputes proposals for the topic, bypassing the cache.
func (c *Client) RefreshProposals(ctx context.Context, topicID string) (proposaluc.Result, error) {
	return c.proposalSvc.GetForTopic(ctx, c.userID, topicID, nil, true)
}

// Dismiss suppresses a proposal's past subject for this topic for the rest of
// the session. Returns the number of proposals still visible.
func (c *Client) Dismiss(ctx context.Context, proposalID, topicID, pastSubjectID string) (int, error) {
	return c.proposalSvc.Dismiss(ctx, proposalID, topicID, pastSubjectID)
}

// Share resolves a proposal into shareable content and dismisses it.
func (c *Client) Share(
	ctx context.Context,
	proposalID, topicID, pastSubjectID string,
	includeMessages bool,
) (proposaluc.SharedContent, error) {
	return c.proposalSvc.Share(ctx, proposalID, topicID, pastSubjectID, includeMessages)
}

// Config returns the current weighting config and whether it is the default.
func (c *Client) Config(ctx context.Context) (Config, bool, error) {
	cfg, isDefault, err := c.configSvc.Get(ctx, c.userID)
	if err != nil {
		return Config{}, false, err
	}
	return configFromDomain(cfg), isDefault, nil
}

// UpdateConfig applies a partial update and returns the new config and its
// version hash.
func (c *Client) UpdateConfig(ctx context.Context, patch ConfigPatch) (Config, string, error) {
	cfg, hash, err := c.configSvc.Update(ctx, c.userID, patch.toDomain())
	if err != nil {
		return Config{}, "", err
	}
	return configFromDomain(cfg), hash, nil
}

// ConfigVersions returns all persisted config version hashes, newest first.
func (c *Client) ConfigVersions(ctx context.Context) ([]string, error) {
	return c.configSvc.ListVersions(ctx, c.userID)
}

// ConfigVersion returns one prior config version by hash.
func (c *Client) ConfigVersion(ctx context.Context, hash string) (Config, error) {
	cfg, err := c.configSvc.Version(ctx, c.userID, hash)
	if err != nil {
		return Config{}, err
	}
	return configFromDomain(cfg), nil
}

// AnalyzeTopic extracts keywords from the topic's messages and persists the
// resulting subject. Returns the subject's identity hash.
func (c *Client) AnalyzeTopic(
	ctx context.Context,
	topicID, description string,
	messages []string,
) (string, error) {
	subj, err := c.ingestSvc.AnalyzeTopic(ctx, topicID, description, messages)
	if err != nil {
		return "", err
	}
	return subj.ID(), nil
}
