package subject

import (
	"context"
	"fmt"

	"github.com/lamachat/recall/internal/domain"
	domsub "github.com/lamachat/recall/internal/domain/subject"
)

// store is the consumer interface for subject persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo reads and writes content-addressed subjects. The proposal engine only
// reads; the ingest pipeline owns the write path.
type Repo struct {
	store store
}

// New creates a subject repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Get resolves a subject by identity hash.
func (r *Repo) Get(ctx context.Context, id string) (domsub.Subject, error) {
	m, err := r.store.HGetAll(ctx, subjectKey(id))
	if err != nil {
		return domsub.Subject{}, fmt.Errorf("hgetall subject %s: %w", id, err)
	}
	if len(m) == 0 {
		return domsub.Subject{}, domain.ErrSubjectNotFound
	}
	return subjectFromHash(m)
}

// ForTopic returns all subjects belonging to one topic.
func (r *Repo) ForTopic(ctx context.Context, topicID string) ([]domsub.Subject, error) {
	ids, err := r.store.SMembers(ctx, topicSubjectsKey(topicID))
	if err != nil {
		return nil, fmt.Errorf("smembers topic %s: %w", topicID, err)
	}
	return r.byIDs(ctx, ids)
}

// ForOtherTopics returns the corpus: every subject belonging to a topic other
// than topicID.
func (r *Repo) ForOtherTopics(ctx context.Context, topicID string) ([]domsub.Subject, error) {
	topics, err := r.store.SMembers(ctx, topicsKey())
	if err != nil {
		return nil, fmt.Errorf("smembers topics: %w", err)
	}

	var ids []string
	for _, t := range topics {
		if t == topicID {
			continue
		}
		members, err := r.store.SMembers(ctx, topicSubjectsKey(t))
		if err != nil {
			return nil, fmt.Errorf("smembers topic %s: %w", t, err)
		}
		ids = append(ids, members...)
	}

	return r.byIDs(ctx, ids)
}

// Put stores a subject and indexes it under its topic. Content addressing
// makes double-writes harmless.
func (r *Repo) Put(ctx context.Context, s domsub.Subject) error {
	fields, err := subjectToHash(s)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, subjectKey(s.ID()), fields); err != nil {
		return fmt.Errorf("hset subject %s: %w", s.ID(), err)
	}
	if err := r.store.SAdd(ctx, topicSubjectsKey(s.TopicID()), s.ID()); err != nil {
		return fmt.Errorf("sadd topic subjects %s: %w", s.TopicID(), err)
	}
	if err := r.store.SAdd(ctx, topicsKey(), s.TopicID()); err != nil {
		return fmt.Errorf("sadd topics: %w", err)
	}
	return nil
}

func (r *Repo) byIDs(ctx context.Context, ids []string) ([]domsub.Subject, error) {
	if len(ids) == 0 {
		return []domsub.Subject{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = subjectKey(id)
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi subjects: %w", err)
	}

	subjects := make([]domsub.Subject, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			// Index member without a blob: upstream deletion in progress.
			continue
		}
		s, err := subjectFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse subject %s: %w", ids[i], err)
		}
		subjects = append(subjects, s)
	}
	return subjects, nil
}

// Redis key patterns: recall:subject:{id}, recall:topic:{topicID}:subjects, recall:topics

func subjectKey(id string) string {
	return fmt.Sprintf("%ssubject:%s", domain.KeyPrefix, id)
}

func topicSubjectsKey(topicID string) string {
	return fmt.Sprintf("%stopic:%s:subjects", domain.KeyPrefix, topicID)
}

func topicsKey() string {
	return domain.KeyPrefix + "topics"
}
