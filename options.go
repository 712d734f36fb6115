package recall

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	userID string

	cacheCapacity     int
	cacheTTL          time.Duration
	dismissalCapacity int

	extractionAPIKey   string
	extractionBaseURL  string
	extractionModel    string
	extractionProvider string

	logger *zap.Logger
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithUserID sets the user identity for config scoping.
// Defaults to "local" for single-user desktop installs.
func WithUserID(userID string) Option {
	return optionFunc(func(c *clientConfig) {
		if userID != "" {
			c.userID = userID
		}
	})
}

// WithCache sets the memo cache capacity and entry TTL.
// Defaults: capacity 50, TTL 60s.
func WithCache(capacity int, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheCapacity = capacity
		c.cacheTTL = ttl
	})
}

// WithDismissalCapacity bounds the session dismissal set. Default: 1000.
func WithDismissalCapacity(capacity int) Option {
	return optionFunc(func(c *clientConfig) {
		c.dismissalCapacity = capacity
	})
}

// WithExtraction configures the keyword extraction provider.
// An empty apiKey selects the built-in heuristic extractor.
func WithExtraction(provider, apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.extractionProvider = provider
		c.extractionAPIKey = apiKey
		c.extractionBaseURL = baseURL
		c.extractionModel = model
	})
}

// WithLogger enables structured logging for client operations.
// Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		if l != nil {
			c.logger = l
		}
	})
}
