package subject

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lamachat/recall/internal/domain"
)

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrSubjectNotFound) {
		t.Errorf("expected ErrSubjectNotFound, got %v", err)
	}
}

func TestPutGet_RoundTrip(t *testing.T) {
	repo, ms := newTestRepo(t)
	orig := testSubject(t, "topic-1", "rust", "ownership")

	stored := make(map[string]map[string]string)
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		stored[key] = fields
		return nil
	}
	ms.hgetAllFn = func(_ context.Context, key string) (map[string]string, error) {
		return stored[key], nil
	}

	if err := repo.Put(context.Background(), orig); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := repo.Get(context.Background(), orig.ID())
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got.ID() != orig.ID() {
		t.Errorf("ID: got %q, want %q", got.ID(), orig.ID())
	}
	if got.TopicID() != orig.TopicID() {
		t.Errorf("TopicID: got %q, want %q", got.TopicID(), orig.TopicID())
	}
	if got.Description() != orig.Description() {
		t.Errorf("Description: got %q, want %q", got.Description(), orig.Description())
	}
	if len(got.Keywords()) != 2 {
		t.Fatalf("keywords: got %d, want 2", len(got.Keywords()))
	}
	if got.LastActivityAt() != orig.LastActivityAt() {
		t.Errorf("LastActivityAt: got %d, want %d", got.LastActivityAt(), orig.LastActivityAt())
	}
}

func TestPut_IndexesTopicAndTopics(t *testing.T) {
	repo, ms := newTestRepo(t)
	s := testSubject(t, "topic-1", "rust")

	var saddKeys []string
	var saddMembers []string
	ms.saddFn = func(_ context.Context, key string, members ...string) error {
		saddKeys = append(saddKeys, key)
		saddMembers = append(saddMembers, members...)
		return nil
	}

	if err := repo.Put(context.Background(), s); err != nil {
		t.Fatalf("put: %v", err)
	}

	if len(saddKeys) != 2 {
		t.Fatalf("expected 2 index writes, got %d", len(saddKeys))
	}
	if !strings.Contains(saddKeys[0], "topic:topic-1:subjects") {
		t.Errorf("first index write must target the topic set: %s", saddKeys[0])
	}
	if saddMembers[0] != s.ID() {
		t.Errorf("topic set must contain the subject id, got %s", saddMembers[0])
	}
	if !strings.HasSuffix(saddKeys[1], "topics") {
		t.Errorf("second index write must target the topics set: %s", saddKeys[1])
	}
	if saddMembers[1] != "topic-1" {
		t.Errorf("topics set must contain the topic id, got %s", saddMembers[1])
	}
}

func TestForTopic_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.smembersFn = func(_ context.Context, _ string) ([]string, error) {
		return nil, nil
	}

	subjects, err := repo.ForTopic(context.Background(), "topic-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(subjects) != 0 {
		t.Errorf("expected empty, got %d", len(subjects))
	}
}

func TestForOtherTopics_ExcludesOwnTopic(t *testing.T) {
	repo, ms := newTestRepo(t)

	s2 := testSubject(t, "topic-2", "go")
	s3 := testSubject(t, "topic-3", "python")

	blobs := map[string]map[string]string{}
	h2, _ := subjectToHash(s2)
	h3, _ := subjectToHash(s3)
	blobs[subjectKey(s2.ID())] = h2
	blobs[subjectKey(s3.ID())] = h3

	ms.smembersFn = func(_ context.Context, key string) ([]string, error) {
		switch key {
		case topicsKey():
			return []string{"topic-1", "topic-2", "topic-3"}, nil
		case topicSubjectsKey("topic-1"):
			t.Fatal("own topic's subject set must not be read")
			return nil, nil
		case topicSubjectsKey("topic-2"):
			return []string{s2.ID()}, nil
		case topicSubjectsKey("topic-3"):
			return []string{s3.ID()}, nil
		}
		return nil, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, keys []string) ([]map[string]string, error) {
		out := make([]map[string]string, len(keys))
		for i, k := range keys {
			out[i] = blobs[k]
		}
		return out, nil
	}

	corpus, err := repo.ForOtherTopics(context.Background(), "topic-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(corpus) != 2 {
		t.Fatalf("expected 2 corpus subjects, got %d", len(corpus))
	}
	for _, s := range corpus {
		if s.TopicID() == "topic-1" {
			t.Error("corpus must not contain the active topic's subjects")
		}
	}
}

func TestByIDs_SkipsMissingBlobs(t *testing.T) {
	repo, ms := newTestRepo(t)
	s := testSubject(t, "topic-2", "go")
	blob, _ := subjectToHash(s)

	ms.smembersFn = func(_ context.Context, key string) ([]string, error) {
		return []string{s.ID(), "deleted-id"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, keys []string) ([]map[string]string, error) {
		return []map[string]string{blob, {}}, nil
	}

	subjects, err := repo.ForTopic(context.Background(), "topic-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(subjects) != 1 {
		t.Errorf("expected missing blob skipped, got %d subjects", len(subjects))
	}
}

func TestGet_PropagatesStoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	storeErr := errors.New("connection refused")
	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return nil, storeErr
	}

	_, err := repo.Get(context.Background(), "any")
	if !errors.Is(err, storeErr) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}
