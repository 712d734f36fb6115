package recall

import (
	domcfg "github.com/lamachat/recall/internal/domain/proposalconfig"
)

// Config is the public view of the proposal weighting configuration.
type Config struct {
	MatchWeight     float64
	RecencyWeight   float64
	RecencyWindowMs int64
	MinJaccard      float64
	MaxProposals    int
	UpdatedAt       int64
	VersionHash     string
}

// ConfigPatch is a partial config update. Nil fields are left unchanged.
type ConfigPatch struct {
	MatchWeight     *float64
	RecencyWeight   *float64
	RecencyWindowMs *int64
	MinJaccard      *float64
	MaxProposals    *int
}

func configFromDomain(c domcfg.Config) Config {
	return Config{
		MatchWeight:     c.MatchWeight(),
		RecencyWeight:   c.RecencyWeight(),
		RecencyWindowMs: c.RecencyWindowMs(),
		MinJaccard:      c.MinJaccard(),
		MaxProposals:    c.MaxProposals(),
		UpdatedAt:       c.UpdatedAt(),
		VersionHash:     c.VersionHash(),
	}
}

func (p ConfigPatch) toDomain() domcfg.Patch {
	return domcfg.Patch{
		MatchWeight:     p.MatchWeight,
		RecencyWeight:   p.RecencyWeight,
		RecencyWindowMs: p.RecencyWindowMs,
		MinJaccard:      p.MinJaccard,
		MaxProposals:    p.MaxProposals,
	}
}
