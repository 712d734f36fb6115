// Package matcher computes keyword-set similarity between the active topic's
// subjects and the subjects of all other topics. It is pure: no I/O, no clock.
package matcher

import (
	"sort"

	"github.com/lamachat/recall/internal/domain/subject"
)

// Match pairs a candidate past subject with its best similarity against the
// active topic's subjects.
type Match struct {
	Subject    subject.Subject
	Similarity float64
}

// Jaccard returns |A∩B| / |A∪B| over the two subjects' keyword identity sets.
// A subject with zero keywords never matches anything (similarity 0).
func Jaccard(a, b *subject.Subject) float64 {
	aIDs := a.KeywordIDs()
	bIDs := b.KeywordIDs()
	if len(aIDs) == 0 || len(bIDs) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(aIDs))
	for _, id := range aIDs {
		set[id] = struct{}{}
	}

	intersection := 0
	for _, id := range bIDs {
		if _, ok := set[id]; ok {
			intersection++
		}
	}

	union := len(set) + len(bIDs) - intersection
	return float64(intersection) / float64(union)
}

// Candidates scores every corpus subject against the current subjects and
// returns one match per eligible candidate. A candidate is eligible when its
// best similarity is positive, reaches minJaccard, and it belongs to a
// different topic; a zero similarity never matches even at minJaccard 0.
// When several current subjects match the same candidate, only the maximum
// similarity is kept. Order is deterministic: similarity descending, then
// lastActivityAt descending, then subject ID ascending.
func Candidates(
	topicID string,
	current []subject.Subject,
	corpus []subject.Subject,
	minJaccard float64,
) []Match {
	if len(current) == 0 || len(corpus) == 0 {
		return []Match{}
	}

	best := make(map[string]Match, len(corpus))
	for i := range corpus {
		cand := &corpus[i]
		if cand.TopicID() == topicID {
			continue
		}
		for j := range current {
			sim := Jaccard(&current[j], cand)
			if sim == 0 || sim < minJaccard {
				continue
			}
			if prev, ok := best[cand.ID()]; !ok || sim > prev.Similarity {
				best[cand.ID()] = Match{Subject: *cand, Similarity: sim}
			}
		}
	}

	matches := make([]Match, 0, len(best))
	for _, m := range best {
		matches = append(matches, m)
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		if a.Subject.LastActivityAt() != b.Subject.LastActivityAt() {
			return a.Subject.LastActivityAt() > b.Subject.LastActivityAt()
		}
		return a.Subject.ID() < b.Subject.ID()
	})

	return matches
}
