// Package ranker turns similarity matches into a sorted, truncated proposal
// list. It is pure: the clock is an explicit parameter.
package ranker

import (
	"sort"

	"github.com/lamachat/recall/internal/domain/proposal"
	"github.com/lamachat/recall/internal/domain/proposalconfig"
	"github.com/lamachat/recall/internal/matcher"
)

// RecencyScore maps a last-activity timestamp onto [0,1]: 1 for activity at or
// after now, falling linearly to 0 at the edge of the window.
func RecencyScore(lastActivityAt, now, windowMs int64) float64 {
	if windowMs <= 0 {
		return 0
	}
	s := 1 - float64(now-lastActivityAt)/float64(windowMs)
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// Rank scores, sorts, and truncates matches per the config. The combined score
// is matchWeight*similarity + recencyWeight*recency; since the weights are not
// renormalized it may leave [0,1]. Ties break by matchScore descending, then
// past subject ID ascending.
func Rank(
	matches []matcher.Match,
	cfg proposalconfig.Config,
	now int64,
) []proposal.Proposal {
	proposals := make([]proposal.Proposal, len(matches))
	for i, m := range matches {
		recency := RecencyScore(m.Subject.LastActivityAt(), now, cfg.RecencyWindowMs())
		score := cfg.MatchWeight()*m.Similarity + cfg.RecencyWeight()*recency
		proposals[i] = proposal.New(
			m.Subject.ID(),
			m.Subject.TopicID(),
			m.Subject.Description(),
			m.Similarity,
			recency,
			score,
			m.Subject.Terms(),
		)
	}

	sort.Slice(proposals, func(i, j int) bool {
		a, b := &proposals[i], &proposals[j]
		if a.Score() != b.Score() {
			return a.Score() > b.Score()
		}
		if a.MatchScore() != b.MatchScore() {
			return a.MatchScore() > b.MatchScore()
		}
		return a.PastSubjectID() < b.PastSubjectID()
	})

	if max := cfg.MaxProposals(); max > 0 && len(proposals) > max {
		proposals = proposals[:max]
	}
	return proposals
}
