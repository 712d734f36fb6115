// Package ingest is the analysis pipeline that feeds the subject store. It
// sits entirely upstream of the proposal engine: the engine only ever reads
// what ingest writes.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lamachat/recall/internal/domain"
	"github.com/lamachat/recall/internal/domain/keyword"
	"github.com/lamachat/recall/internal/domain/subject"
)

// Service extracts keywords from conversation text and persists the resulting
// subject plus message samples.
type Service struct {
	extractor Extractor
	subjects  SubjectWriter
	messages  MessageWriter
	logger    *zap.Logger
	now       func() time.Time
}

// New creates an ingest service. messages may be nil (samples not recorded).
func New(extractor Extractor, subjects SubjectWriter, messages MessageWriter, logger *zap.Logger) *Service {
	return &Service{
		extractor: extractor,
		subjects:  subjects,
		messages:  messages,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// AnalyzeTopic extracts keywords from the topic's messages, builds the
// content-addressed subject, and persists it. Double analysis of unchanged
// text is harmless: the identity hash collapses to the same subject.
func (s *Service) AnalyzeTopic(
	ctx context.Context,
	topicID, description string,
	messages []string,
) (subject.Subject, error) {
	if topicID == "" {
		return subject.Subject{}, domain.ErrTopicNotFound
	}

	text := strings.Join(messages, "\n")
	terms, err := s.extractor.Extract(ctx, text)
	if err != nil {
		return subject.Subject{}, fmt.Errorf("extract keywords: %w", err)
	}

	keywords := make([]keyword.Keyword, 0, len(terms))
	for _, t := range terms {
		k, err := keyword.New(t)
		if err != nil {
			continue
		}
		keywords = append(keywords, k)
	}

	now := s.now().UnixMilli()
	subj, err := subject.New(topicID, description, keywords, now, now)
	if err != nil {
		return subject.Subject{}, fmt.Errorf("build subject: %w", err)
	}

	if err := s.subjects.Put(ctx, subj); err != nil {
		return subject.Subject{}, fmt.Errorf("persist subject: %w", err)
	}

	if s.messages != nil {
		for _, m := range messages {
			if err := s.messages.Record(ctx, topicID, m); err != nil {
				s.logger.Warn("failed to record message sample",
					zap.String("topic_id", topicID), zap.Error(err))
				break
			}
		}
	}

	s.logger.Debug("topic analyzed",
		zap.String("topic_id", topicID),
		zap.String("subject_id", subj.ID()),
		zap.Int("keywords", len(keywords)),
	)
	return subj, nil
}
