package message

import (
	"context"
	"fmt"

	"github.com/lamachat/recall/internal/domain"
)

// maxSamples caps the per-topic message sample list.
const maxSamples = 100

// store is the consumer interface for message samples (ISP).
type store interface {
	LPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LTrim(ctx context.Context, key string, start, stop int64) error
}

// Repo keeps recent message samples per topic, used to enrich share payloads.
type Repo struct {
	store store
}

// New creates a message repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Recent returns up to n most recent messages for a topic, newest first.
// A topic with no samples yields an empty slice.
func (r *Repo) Recent(ctx context.Context, topicID string, n int) ([]string, error) {
	if n <= 0 {
		return []string{}, nil
	}
	msgs, err := r.store.LRange(ctx, messagesKey(topicID), 0, int64(n-1))
	if err != nil {
		return nil, fmt.Errorf("lrange messages %s: %w", topicID, err)
	}
	return msgs, nil
}

// Record prepends a message sample and trims the list to its cap.
func (r *Repo) Record(ctx context.Context, topicID, text string) error {
	key := messagesKey(topicID)
	if err := r.store.LPush(ctx, key, text); err != nil {
		return fmt.Errorf("lpush message %s: %w", topicID, err)
	}
	if err := r.store.LTrim(ctx, key, 0, maxSamples-1); err != nil {
		return fmt.Errorf("ltrim messages %s: %w", topicID, err)
	}
	return nil
}

func messagesKey(topicID string) string {
	return fmt.Sprintf("%stopic:%s:messages", domain.KeyPrefix, topicID)
}
