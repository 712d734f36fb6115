package proposal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lamachat/recall/internal/cache"
	"github.com/lamachat/recall/internal/domain"
	domprop "github.com/lamachat/recall/internal/domain/proposal"
	"github.com/lamachat/recall/internal/domain/subject"
	"github.com/lamachat/recall/internal/matcher"
	"github.com/lamachat/recall/internal/metrics"
	"github.com/lamachat/recall/internal/ranker"
)

// Service is the proposal engine. It owns the memo cache and the session
// dismissal set as private fields; distinct instances never share state.
type Service struct {
	subjects  SubjectSource
	configs   ConfigSource
	messages  MessageSource
	cache     *cache.Cache
	dismissed *dismissals
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// New creates a proposal engine. subjects may be nil while the store is still
// initializing; requests then return benign empty results.
func New(subjects SubjectSource, configs ConfigSource, c *cache.Cache, logger *zap.Logger) *Service {
	return &Service{
		subjects:  subjects,
		configs:   configs,
		cache:     c,
		dismissed: newDismissals(0),
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// WithMessages attaches the message sample collaborator used by Share.
func (s *Service) WithMessages(m MessageSource) *Service {
	s.messages = m
	return s
}

// WithDismissalCapacity overrides the suppression set bound.
func (s *Service) WithDismissalCapacity(capacity int) *Service {
	s.dismissed = newDismissals(capacity)
	return s
}

// WithClock overrides the clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Result is the outcome of a proposal request.
type Result struct {
	Proposals   []domprop.Proposal
	Count       int
	Cached      bool
	ComputeTime time.Duration
}

// SharedContent is the shareable payload built by Share. recall never inserts
// it into a conversation; that is the caller's responsibility.
type SharedContent struct {
	SubjectName string
	Keywords    []string
	Messages    []string
}

// GetForTopic returns ranked proposals for a topic. When current is nil the
// topic's subjects are resolved via the subject store; an uninitialized store
// or an empty subject set is a valid empty result, not an error. forceRefresh
// bypasses the cache read but still writes the fresh computation.
func (s *Service) GetForTopic(
	ctx context.Context,
	userID, topicID string,
	current []subject.Subject,
	forceRefresh bool,
) (Result, error) {
	if topicID == "" {
		return Result{}, domain.ErrTopicNotFound
	}

	cfg, _, err := s.configs.Get(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: load config: %w", domain.ErrComputation, err)
	}

	if current == nil {
		if s.subjects == nil {
			return s.emptyResult(), nil
		}
		current, err = s.subjects.ForTopic(ctx, topicID)
		if err != nil {
			if errors.Is(err, domain.ErrStoreNotReady) {
				return s.emptyResult(), nil
			}
			return Result{}, fmt.Errorf("%w: resolve subjects: %w", domain.ErrComputation, err)
		}
	}
	if len(current) == 0 {
		return s.emptyResult(), nil
	}

	key := cache.Key(topicID, subject.Fingerprint(current))

	if !forceRefresh {
		if cached, ok := s.cache.Get(key, s.now()); ok {
			filtered := s.filterDismissed(topicID, cached)
			metrics.ProposalsReturned.Observe(float64(len(filtered)))
			return Result{Proposals: filtered, Count: len(filtered), Cached: true}, nil
		}
	}

	start := s.now()

	corpus, err := s.subjects.ForOtherTopics(ctx, topicID)
	if err != nil {
		if errors.Is(err, domain.ErrStoreNotReady) {
			return s.emptyResult(), nil
		}
		return Result{}, fmt.Errorf("%w: load corpus: %w", domain.ErrComputation, err)
	}

	matches := matcher.Candidates(topicID, current, corpus, cfg.MinJaccard())
	ranked := ranker.Rank(matches, cfg, start.UnixMilli())
	for i := range ranked {
		ranked[i] = ranked[i].WithID(s.newID())
	}

	elapsed := s.now().Sub(start)
	metrics.ProposalComputeDuration.Observe(elapsed.Seconds())

	// The unfiltered list is cached; dismissal filtering applies to the
	// cache's output so later dismissals never force recomputation.
	s.cache.Put(key, ranked, s.now())

	filtered := s.filterDismissed(topicID, ranked)
	metrics.ProposalsReturned.Observe(float64(len(filtered)))

	s.logger.Debug("computed proposals",
		zap.String("topic_id", topicID),
		zap.Int("corpus_size", len(corpus)),
		zap.Int("matches", len(matches)),
		zap.Int("returned", len(filtered)),
		zap.Duration("compute_time", elapsed),
	)

	return Result{
		Proposals:   filtered,
		Count:       len(filtered),
		Cached:      false,
		ComputeTime: elapsed,
	}, nil
}

// Dismiss suppresses a past subject for a topic for the rest of the session.
// Returns the number of proposals still visible for the topic's most recent
// cached computation.
func (s *Service) Dismiss(ctx context.Context, proposalID, topicID, pastSubjectID string) (int, error) {
	_ = ctx
	if proposalID == "" || topicID == "" || pastSubjectID == "" {
		return 0, domain.ErrProposalNotFound
	}

	s.dismissed.add(topicID, pastSubjectID)

	remaining := 0
	if cached, ok := s.cache.LatestForTopic(topicID, s.now()); ok {
		remaining = len(s.filterDismissed(topicID, cached))
	}
	return remaining, nil
}

// Share resolves a past subject into a shareable payload and implicitly
// dismisses it. A subject that no longer resolves yields ErrSubjectNotFound
// with no suppression side effect.
func (s *Service) Share(
	ctx context.Context,
	proposalID, topicID, pastSubjectID string,
	includeMessages bool,
) (SharedContent, error) {
	if proposalID == "" || topicID == "" || pastSubjectID == "" {
		return SharedContent{}, domain.ErrProposalNotFound
	}
	if s.subjects == nil {
		return SharedContent{}, domain.ErrSubjectNotFound
	}

	subj, err := s.subjects.Get(ctx, pastSubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrSubjectNotFound) || errors.Is(err, domain.ErrStoreNotReady) {
			return SharedContent{}, domain.ErrSubjectNotFound
		}
		return SharedContent{}, fmt.Errorf("resolve subject %s: %w", pastSubjectID, err)
	}

	content := SharedContent{
		SubjectName: subj.Description(),
		Keywords:    subj.Terms(),
	}

	if includeMessages && s.messages != nil {
		msgs, err := s.messages.Recent(ctx, subj.TopicID(), 5)
		if err != nil {
			// Samples are optional enrichment; the share still succeeds.
			s.logger.Warn("failed to load message samples",
				zap.String("topic_id", subj.TopicID()), zap.Error(err))
		} else {
			content.Messages = msgs
		}
	}

	s.dismissed.add(topicID, pastSubjectID)
	return content, nil
}

// DismissedCount returns the size of the session suppression set.
func (s *Service) DismissedCount() int {
	return s.dismissed.len()
}

func (s *Service) filterDismissed(topicID string, proposals []domprop.Proposal) []domprop.Proposal {
	out := make([]domprop.Proposal, 0, len(proposals))
	for _, p := range proposals {
		if s.dismissed.contains(topicID, p.PastSubjectID()) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *Service) emptyResult() Result {
	return Result{Proposals: []domprop.Proposal{}}
}
