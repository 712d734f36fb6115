package proposalconfig

import "github.com/lamachat/recall/internal/domain"

// Patch is a typed partial update for Config. Nil fields are left unchanged.
// Unknown fields are rejected at the transport boundary before a Patch exists.
type Patch struct {
	MatchWeight     *float64 `json:"match_weight,omitempty"`
	RecencyWeight   *float64 `json:"recency_weight,omitempty"`
	RecencyWindowMs *int64   `json:"recency_window_ms,omitempty"`
	MinJaccard      *float64 `json:"min_jaccard,omitempty"`
	MaxProposals    *int     `json:"max_proposals,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.MatchWeight == nil && p.RecencyWeight == nil &&
		p.RecencyWindowMs == nil && p.MinJaccard == nil && p.MaxProposals == nil
}

// Validate checks every present field against its bound and reports the first
// offending field in declaration order.
func (p Patch) Validate() error {
	if p.MatchWeight != nil && (*p.MatchWeight < 0 || *p.MatchWeight > 1) {
		return domain.NewInvalidConfig("matchWeight", "must be between 0 and 1")
	}
	if p.RecencyWeight != nil && (*p.RecencyWeight < 0 || *p.RecencyWeight > 1) {
		return domain.NewInvalidConfig("recencyWeight", "must be between 0 and 1")
	}
	if p.RecencyWindowMs != nil && *p.RecencyWindowMs <= 0 {
		return domain.NewInvalidConfig("recencyWindowMs", "must be positive")
	}
	if p.MinJaccard != nil && (*p.MinJaccard < 0 || *p.MinJaccard > 1) {
		return domain.NewInvalidConfig("minJaccard", "must be between 0 and 1")
	}
	if p.MaxProposals != nil && (*p.MaxProposals < 1 || *p.MaxProposals > MaxProposalsLimit) {
		return domain.NewInvalidConfig("maxProposals", "must be between 1 and 50")
	}
	return nil
}
