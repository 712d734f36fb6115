package proposalconfig

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Default weighting values, applied when a user has no persisted config.
const (
	DefaultMatchWeight     = 0.7
	DefaultRecencyWeight   = 0.3
	DefaultRecencyWindowMs = 7 * 24 * 60 * 60 * 1000
	DefaultMinJaccard      = 0.2
	DefaultMaxProposals    = 5

	// MaxProposalsLimit is the upper bound for the maxProposals field.
	MaxProposalsLimit = 50
)

// Config is the versioned proposal weighting configuration. It is replaced,
// never mutated: every update produces a new content-addressed version.
// matchWeight and recencyWeight are not renormalized to sum to 1.
type Config struct {
	matchWeight     float64
	recencyWeight   float64
	recencyWindowMs int64
	minJaccard      float64
	maxProposals    int
	updatedAt       int64
}

// Default returns the hardcoded in-memory default config. It is never persisted.
func Default() Config {
	return Config{
		matchWeight:     DefaultMatchWeight,
		recencyWeight:   DefaultRecencyWeight,
		recencyWindowMs: DefaultRecencyWindowMs,
		minJaccard:      DefaultMinJaccard,
		maxProposals:    DefaultMaxProposals,
	}
}

// Reconstruct rebuilds a config from stored data without re-validation.
func Reconstruct(
	matchWeight, recencyWeight float64,
	recencyWindowMs int64,
	minJaccard float64,
	maxProposals int,
	updatedAt int64,
) Config {
	return Config{
		matchWeight:     matchWeight,
		recencyWeight:   recencyWeight,
		recencyWindowMs: recencyWindowMs,
		minJaccard:      minJaccard,
		maxProposals:    maxProposals,
		updatedAt:       updatedAt,
	}
}

// MatchWeight returns the similarity weight.
func (c Config) MatchWeight() float64 { return c.matchWeight }

// RecencyWeight returns the recency weight.
func (c Config) RecencyWeight() float64 { return c.recencyWeight }

// RecencyWindowMs returns the recency window in milliseconds.
func (c Config) RecencyWindowMs() int64 { return c.recencyWindowMs }

// MinJaccard returns the similarity threshold.
func (c Config) MinJaccard() float64 { return c.minJaccard }

// MaxProposals returns the result truncation bound.
func (c Config) MaxProposals() int { return c.maxProposals }

// UpdatedAt returns the last update time in unix milliseconds.
func (c Config) UpdatedAt() int64 { return c.updatedAt }

// Apply merges a validated patch onto the config and stamps updatedAt,
// returning the replacement config. The receiver is left untouched.
func (c Config) Apply(p Patch, now int64) (Config, error) {
	if err := p.Validate(); err != nil {
		return Config{}, err
	}
	next := c
	if p.MatchWeight != nil {
		next.matchWeight = *p.MatchWeight
	}
	if p.RecencyWeight != nil {
		next.recencyWeight = *p.RecencyWeight
	}
	if p.RecencyWindowMs != nil {
		next.recencyWindowMs = *p.RecencyWindowMs
	}
	if p.MinJaccard != nil {
		next.minJaccard = *p.MinJaccard
	}
	if p.MaxProposals != nil {
		next.maxProposals = *p.MaxProposals
	}
	next.updatedAt = now
	return next, nil
}

// canonical is the deterministic JSON shape used for version hashing and storage.
type canonical struct {
	MatchWeight     float64 `json:"match_weight"`
	RecencyWeight   float64 `json:"recency_weight"`
	RecencyWindowMs int64   `json:"recency_window_ms"`
	MinJaccard      float64 `json:"min_jaccard"`
	MaxProposals    int     `json:"max_proposals"`
	UpdatedAt       int64   `json:"updated_at"`
}

// MarshalJSON serializes the config in canonical field order.
func (c Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(canonical{
		MatchWeight:     c.matchWeight,
		RecencyWeight:   c.recencyWeight,
		RecencyWindowMs: c.recencyWindowMs,
		MinJaccard:      c.minJaccard,
		MaxProposals:    c.maxProposals,
		UpdatedAt:       c.updatedAt,
	})
}

// UnmarshalJSON hydrates the config from its canonical JSON form.
func (c *Config) UnmarshalJSON(data []byte) error {
	var raw canonical
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Reconstruct(
		raw.MatchWeight, raw.RecencyWeight, raw.RecencyWindowMs,
		raw.MinJaccard, raw.MaxProposals, raw.UpdatedAt,
	)
	return nil
}

// VersionHash returns the content address of the config: the hex sha256 of its
// canonical JSON form.
func (c Config) VersionHash() string {
	data, _ := c.MarshalJSON()
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
