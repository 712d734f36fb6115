package chi

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lamachat/recall/internal/cache"
	"github.com/lamachat/recall/internal/domain"
	"github.com/lamachat/recall/internal/domain/keyword"
	domcfg "github.com/lamachat/recall/internal/domain/proposalconfig"
	"github.com/lamachat/recall/internal/domain/subject"
	healthuc "github.com/lamachat/recall/internal/usecase/health"
	ingestuc "github.com/lamachat/recall/internal/usecase/ingest"
	proposaluc "github.com/lamachat/recall/internal/usecase/proposal"
	configuc "github.com/lamachat/recall/internal/usecase/proposalconfig"
)

// mockSubjects implements proposaluc.SubjectSource for tests.
type mockSubjects struct {
	getFn            func(ctx context.Context, id string) (subject.Subject, error)
	forTopicFn       func(ctx context.Context, topicID string) ([]subject.Subject, error)
	forOtherTopicsFn func(ctx context.Context, topicID string) ([]subject.Subject, error)
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
	if m.forOtherTopicsFn != nil {
		return m.forOtherTopicsFn(ctx, topicID)
	}
	return nil, nil
}

// mockConfigRepo is an in-memory configuc.Repository.
type mockConfigRepo struct {
	current  map[string]domcfg.Config
	versions map[string]map[string]domcfg.Config
	order    map[string][]string
}

func newMockConfigRepo() *mockConfigRepo {
	return &mockConfigRepo{
		current:  make(map[string]domcfg.Config),
		versions: make(map[string]map[string]domcfg.Config),
		order:    make(map[string][]string),
	}
}

func (m *mockConfigRepo) Current(_ context.Context, userID string) (domcfg.Config, string, error) {
	cfg, ok := m.current[userID]
	if !ok {
		return domcfg.Config{}, "", domain.ErrConfigNotFound
	}
	return cfg, cfg.VersionHash(), nil
}

func (m *mockConfigRepo) Version(_ context.Context, userID, hash string) (domcfg.Config, error) {
	cfg, ok := m.versions[userID][hash]
	if !ok {
		return domcfg.Config{}, domain.ErrConfigNotFound
	}
	return cfg, nil
}

func (m *mockConfigRepo) ListVersions(_ context.Context, userID string) ([]string, error) {
	return m.order[userID], nil
}

func (m *mockConfigRepo) SaveVersion(_ context.Context, userID string, cfg domcfg.Config) (string, error) {
	hash := cfg.VersionHash()
	if m.versions[userID] == nil {
		m.versions[userID] = make(map[string]domcfg.Config)
	}
	m.versions[userID][hash] = cfg
	m.order[userID] = append([]string{hash}, m.order[userID]...)
	m.current[userID] = cfg
	return hash, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockExtractor struct {
	terms []string
}

func (m *mockExtractor) Extract(_ context.Context, _ string) ([]string, error) {
	return m.terms, nil
}

type mockSubjectWriter struct{}

func (m *mockSubjectWriter) Put(_ context.Context, _ subject.Subject) error { return nil }

// newTestRouter wires the full handler stack over in-memory collaborators.
func newTestRouter(t *testing.T, subjects proposaluc.SubjectSource, storeErr error) (chi.Router, *mockConfigRepo) {
	t.Helper()
	repo := newMockConfigRepo()
	memo := cache.New(10, time.Minute, nil)
	logger := zap.NewNop()

	configSvc := configuc.New(repo, memo, logger)
	proposalSvc := proposaluc.New(subjects, configSvc, memo, logger)
	ingestSvc := ingestuc.New(&mockExtractor{terms: []string{"rust", "async"}}, &mockSubjectWriter{}, nil, logger)
	healthSvc := healthuc.New(&mockPinger{err: storeErr}, nil)

	srv := NewServer(proposalSvc, configSvc, ingestSvc, healthSvc, logger)
	r := chi.NewRouter()
	srv.Routes(r)
	return r, repo
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

func doRequestAs(t *testing.T, r chi.Router, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var raw string
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		raw = string(b)
	}
	return doRaw(t, r, method, path, user, raw)
}

func doRequest(t *testing.T, r chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return doRequestAs(t, r, method, path, "", body)
}

func doRaw(t *testing.T, r chi.Router, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
