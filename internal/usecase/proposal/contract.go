package proposal

import (
	"context"

	"github.com/lamachat/recall/internal/domain/proposalconfig"
	"github.com/lamachat/recall/internal/domain/subject"
)

// SubjectSource resolves subjects from the external content-addressed store.
type SubjectSource interface {
	Get(ctx context.Context, id string) (subject.Subject, error)
	ForTopic(ctx context.Context, topicID string) ([]subject.Subject, error)
	ForOtherTopics(ctx context.Context, topicID string) ([]subject.Subject, error)
}

// ConfigSource supplies the effective weighting config for a user.
type ConfigSource interface {
	Get(ctx context.Context, userID string) (cfg proposalconfig.Config, isDefault bool, err error)
}

// MessageSource supplies recent message samples for share payloads.
type MessageSource interface {
	Recent(ctx context.Context, topicID string, n int) ([]string, error)
}
