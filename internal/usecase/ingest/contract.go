package ingest

import (
	"context"

	"github.com/lamachat/recall/internal/domain/subject"
)

// Extractor pulls keyword terms out of conversation text.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]string, error)
}

// SubjectWriter persists subjects into the content-addressed store.
type SubjectWriter interface {
	Put(ctx context.Context, s subject.Subject) error
}

// MessageWriter records message samples per topic.
type MessageWriter interface {
	Record(ctx context.Context, topicID, text string) error
}
