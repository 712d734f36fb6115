package subject

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/lamachat/recall/internal/domain/keyword"
)

// Subject is a content-addressed record grouping the keywords that characterize
// one theme within a topic. Identity is derived from the topic and the sorted
// keyword identities, so it does not depend on keyword insertion order.
type Subject struct {
	id             string
	topicID        string
	description    string
	keywords       []keyword.Keyword
	createdAt      int64
	lastActivityAt int64
}

// New creates a subject, deduplicating keywords and deriving the identity hash.
// Timestamps are unix milliseconds.
func New(
	topicID, description string,
	keywords []keyword.Keyword,
	createdAt, lastActivityAt int64,
) (Subject, error) {
	if topicID == "" {
		return Subject{}, fmt.Errorf("topic id is required")
	}

	deduped := dedupeSorted(keywords)
	ids := make([]string, len(deduped))
	for i, k := range deduped {
		ids[i] = k.ID()
	}

	return Subject{
		id:             identityHash(topicID, ids),
		topicID:        topicID,
		description:    description,
		keywords:       deduped,
		createdAt:      createdAt,
		lastActivityAt: lastActivityAt,
	}, nil
}

// Reconstruct rebuilds a subject from stored data without re-hashing.
func Reconstruct(
	id, topicID, description string,
	keywords []keyword.Keyword,
	createdAt, lastActivityAt int64,
) Subject {
	return Subject{
		id:             id,
		topicID:        topicID,
		description:    description,
		keywords:       dedupeSorted(keywords),
		createdAt:      createdAt,
		lastActivityAt: lastActivityAt,
	}
}

// ID returns the identity hash.
func (s *Subject) ID() string { return s.id }

// TopicID returns the owning topic.
func (s *Subject) TopicID() string { return s.topicID }

// Description returns the human-readable theme description.
func (s *Subject) Description() string { return s.description }

// Keywords returns the keywords sorted by identity.
func (s *Subject) Keywords() []keyword.Keyword { return s.keywords }

// KeywordIDs returns the sorted keyword identity hashes.
func (s *Subject) KeywordIDs() []string {
	ids := make([]string, len(s.keywords))
	for i, k := range s.keywords {
		ids[i] = k.ID()
	}
	return ids
}

// Terms returns the keyword terms in identity order.
func (s *Subject) Terms() []string {
	terms := make([]string, len(s.keywords))
	for i, k := range s.keywords {
		terms[i] = k.Term()
	}
	return terms
}

// CreatedAt returns the creation time in unix milliseconds.
func (s *Subject) CreatedAt() int64 { return s.createdAt }

// LastActivityAt returns the last activity time in unix milliseconds.
func (s *Subject) LastActivityAt() int64 { return s.lastActivityAt }

// Fingerprint returns the sorted subject IDs joined into a single string.
// Any change in the subject set changes the fingerprint.
func Fingerprint(subjects []Subject) string {
	ids := make([]string, len(subjects))
	for i := range subjects {
		ids[i] = subjects[i].id
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

func identityHash(topicID string, sortedKeywordIDs []string) string {
	h := sha256.New()
	h.Write([]byte(topicID))
	for _, id := range sortedKeywordIDs {
		h.Write([]byte{'\n'})
		h.Write([]byte(id))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func dedupeSorted(keywords []keyword.Keyword) []keyword.Keyword {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]keyword.Keyword, 0, len(keywords))
	for _, k := range keywords {
		if _, ok := seen[k.ID()]; ok {
			continue
		}
		seen[k.ID()] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
