package chi

import (
	"fmt"
	"time"

	"github.com/lamachat/recall/internal/domain/keyword"
	domprop "github.com/lamachat/recall/internal/domain/proposal"
	domcfg "github.com/lamachat/recall/internal/domain/proposalconfig"
	"github.com/lamachat/recall/internal/domain/subject"
	proposaluc "github.com/lamachat/recall/internal/usecase/proposal"
)

// errorCode identifies an API error class.
type errorCode string

const (
	codeBadRequest              errorCode = "bad_request"
	codeValidationFailed        errorCode = "validation_failed"
	codeTopicNotFound           errorCode = "topic_not_found"
	codeSubjectNotFound         errorCode = "subject_not_found"
	codeProposalNotFound        errorCode = "proposal_not_found"
	codeConfigNotFound          errorCode = "config_not_found"
	codeExtractionProviderError errorCode = "extraction_provider_error"
	codeComputationFailed       errorCode = "computation_failed"
	codeInternalError           errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// subjectRequest is an inline current-subject in a proposals request.
type subjectRequest struct {
	Description    string   `json:"description"`
	Keywords       []string `json:"keywords"`
	LastActivityAt *int64   `json:"last_activity_at,omitempty"`
}

type proposalsRequest struct {
	Subjects     []subjectRequest `json:"subjects,omitempty"`
	ForceRefresh bool             `json:"force_refresh,omitempty"`
}

type proposalItem struct {
	ID            string   `json:"id"`
	PastSubjectID string   `json:"past_subject_id"`
	OriginTopicID string   `json:"origin_topic_id"`
	SubjectName   string   `json:"subject_name"`
	MatchScore    float64  `json:"match_score"`
	RecencyScore  float64  `json:"recency_score"`
	Score         float64  `json:"score"`
	Keywords      []string `json:"keywords"`
}

type proposalsResponse struct {
	Proposals     []proposalItem `json:"proposals"`
	Count         int            `json:"count"`
	Cached        bool           `json:"cached"`
	ComputeTimeMs int64          `json:"compute_time_ms"`
}

type analyzeRequest struct {
	Description string   `json:"description"`
	Messages    []string `json:"messages"`
}

type subjectResponse struct {
	ID             string   `json:"id"`
	TopicID        string   `json:"topic_id"`
	Description    string   `json:"description"`
	Keywords       []string `json:"keywords"`
	CreatedAt      int64    `json:"created_at"`
	LastActivityAt int64    `json:"last_activity_at"`
}

type configResponse struct {
	MatchWeight     float64 `json:"match_weight"`
	RecencyWeight   float64 `json:"recency_weight"`
	RecencyWindowMs int64   `json:"recency_window_ms"`
	MinJaccard      float64 `json:"min_jaccard"`
	MaxProposals    int     `json:"max_proposals"`
	UpdatedAt       int64   `json:"updated_at"`
}

type configEnvelope struct {
	Config      configResponse `json:"config"`
	IsDefault   bool           `json:"is_default"`
	VersionHash string         `json:"version_hash"`
}

type updateConfigResponse struct {
	Success     bool           `json:"success"`
	Config      configResponse `json:"config"`
	VersionHash string         `json:"version_hash"`
}

type versionListResponse struct {
	Versions []string `json:"versions"`
}

type dismissRequest struct {
	ProposalID    string `json:"proposal_id"`
	TopicID       string `json:"topic_id"`
	PastSubjectID string `json:"past_subject_id"`
}

type dismissResponse struct {
	Success        bool `json:"success"`
	RemainingCount int  `json:"remaining_count"`
}

type shareRequest struct {
	ProposalID      string `json:"proposal_id"`
	TopicID         string `json:"topic_id"`
	PastSubjectID   string `json:"past_subject_id"`
	IncludeMessages bool   `json:"include_messages,omitempty"`
}

type sharedContentResponse struct {
	SubjectName string   `json:"subject_name"`
	Keywords    []string `json:"keywords"`
	Messages    []string `json:"messages,omitempty"`
}

type shareResponse struct {
	Success bool                  `json:"success"`
	Content sharedContentResponse `json:"content"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func resultToResponse(res proposaluc.Result) proposalsResponse {
	items := make([]proposalItem, len(res.Proposals))
	for i := range res.Proposals {
		items[i] = proposalToItem(&res.Proposals[i])
	}
	return proposalsResponse{
		Proposals:     items,
		Count:         res.Count,
		Cached:        res.Cached,
		ComputeTimeMs: res.ComputeTime.Milliseconds(),
	}
}

func proposalToItem(p *domprop.Proposal) proposalItem {
	keywords := p.Keywords()
	if keywords == nil {
		keywords = []string{}
	}
	return proposalItem{
		ID:            p.ID(),
		PastSubjectID: p.PastSubjectID(),
		OriginTopicID: p.OriginTopicID(),
		SubjectName:   p.SubjectName(),
		MatchScore:    p.MatchScore(),
		RecencyScore:  p.RecencyScore(),
		Score:         p.Score(),
		Keywords:      keywords,
	}
}

func subjectToResponse(s subject.Subject) subjectResponse {
	return subjectResponse{
		ID:             s.ID(),
		TopicID:        s.TopicID(),
		Description:    s.Description(),
		Keywords:       s.Terms(),
		CreatedAt:      s.CreatedAt(),
		LastActivityAt: s.LastActivityAt(),
	}
}

func configToResponse(c domcfg.Config) configResponse {
	return configResponse{
		MatchWeight:     c.MatchWeight(),
		RecencyWeight:   c.RecencyWeight(),
		RecencyWindowMs: c.RecencyWindowMs(),
		MinJaccard:      c.MinJaccard(),
		MaxProposals:    c.MaxProposals(),
		UpdatedAt:       c.UpdatedAt(),
	}
}

func sharedContentToResponse(c proposaluc.SharedContent) sharedContentResponse {
	keywords := c.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return sharedContentResponse{
		SubjectName: c.SubjectName,
		Keywords:    keywords,
		Messages:    c.Messages,
	}
}

// subjectFromRequest builds a subject from an inline request item. Timestamps
// default to now when the client omits last_activity_at.
func subjectFromRequest(topicID string, item subjectRequest) (subject.Subject, error) {
	keywords := make([]keyword.Keyword, 0, len(item.Keywords))
	for _, t := range item.Keywords {
		k, err := keyword.New(t)
		if err != nil {
			return subject.Subject{}, fmt.Errorf("keyword %q: %w", t, err)
		}
		keywords = append(keywords, k)
	}

	at := time.Now().UnixMilli()
	if item.LastActivityAt != nil {
		at = *item.LastActivityAt
	}

	subj, err := subject.New(topicID, item.Description, keywords, at, at)
	if err != nil {
		return subject.Subject{}, fmt.Errorf("build subject: %w", err)
	}
	return subj, nil
}
