package proposal

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/lamachat/recall/internal/cache"
	"github.com/lamachat/recall/internal/domain"
	"github.com/lamachat/recall/internal/domain/keyword"
	"github.com/lamachat/recall/internal/domain/proposalconfig"
	"github.com/lamachat/recall/internal/domain/subject"
)

// mockSubjects implements SubjectSource for tests.
type mockSubjects struct {
	getFn            func(ctx context.Context, id string) (subject.Subject, error)
	forTopicFn       func(ctx context.Context, topicID string) ([]subject.Subject, error)
	forOtherTopicsFn func(ctx context.Context, topicID string) ([]subject.Subject, error)

	corpusReads int
}

func (m *mockSubjects) Get(ctx context.Context, id string) (subject.Subject, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return subject.Subject{}, domain.ErrSubjectNotFound
}

func (m *mockSubjects) ForTopic(ctx context.Context, topicID string) ([]subject.Subject, error) {
	if m.forTopicFn != nil {
		return m.forTopicFn(ctx, topicID)
	}
	return nil, nil
}

func (m *mockSubjects) ForOtherTopics(ctx context.Context, topicID string) ([]subject.Subject, error) {
	m.corpusReads++
	if m.forOtherTopicsFn != nil {
		return m.forOtherTopicsFn(ctx, topicID)
	}
	return nil, nil
}

// mockConfigs implements ConfigSource for tests.
type mockConfigs struct {
	cfg proposalconfig.Config
	err error
}

func (m *mockConfigs) Get(_ context.Context, _ string) (proposalconfig.Config, bool, error) {
	if m.err != nil {
		return proposalconfig.Config{}, false, m.err
	}
	return m.cfg, true, nil
}

// mockMessages implements MessageSource for tests.
type mockMessages struct {
	recentFn func(ctx context.Context, topicID string, n int) ([]string, error)
}

func (m *mockMessages) Recent(ctx context.Context, topicID string, n int) ([]string, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, topicID, n)
	}
	return nil, nil
}

func buildSubject(t *testing.T, topicID string, lastActivityAt int64, terms ...string) subject.Subject {
	t.Helper()
	keywords := make([]keyword.Keyword, len(terms))
	for i, term := range terms {
		k, err := keyword.New(term)
		if err != nil {
			t.Fatalf("keyword %q: %v", term, err)
		}
		keywords[i] = k
	}
	s, err := subject.New(topicID, "about "+topicID, keywords, lastActivityAt, lastActivityAt)
	if err != nil {
		t.Fatalf("subject: %v", err)
	}
	return s
}

// newTestService wires a service against fixed time and deterministic IDs.
func newTestService(t *testing.T, subjects SubjectSource) (*Service, *mockConfigs) {
	t.Helper()
	configs := &mockConfigs{cfg: proposalconfig.Default()}
	svc := New(subjects, configs, cache.New(10, time.Minute, nil), zap.NewNop()).
		WithClock(func() time.Time { return time.UnixMilli(1700000000000) })
	return svc, configs
}
