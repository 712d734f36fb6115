package subject

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/lamachat/recall/internal/domain/keyword"
	domsub "github.com/lamachat/recall/internal/domain/subject"
)

// keywordRow is the JSON-serializable representation of a keyword for HSET.
type keywordRow struct {
	ID   string `json:"id"`
	Term string `json:"term"`
}

// subjectToHash converts a domain Subject to a map for HSET.
func subjectToHash(s domsub.Subject) (map[string]string, error) {
	rows := make([]keywordRow, len(s.Keywords()))
	for i, k := range s.Keywords() {
		rows[i] = keywordRow{ID: k.ID(), Term: k.Term()}
	}
	keywordsJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal keywords: %w", err)
	}
	return map[string]string{
		"id":               s.ID(),
		"topic_id":         s.TopicID(),
		"description":      s.Description(),
		"keywords_json":    string(keywordsJSON),
		"created_at":       strconv.FormatInt(s.CreatedAt(), 10),
		"last_activity_at": strconv.FormatInt(s.LastActivityAt(), 10),
	}, nil
}

// subjectFromHash hydrates a domain Subject from an HGETALL result map.
func subjectFromHash(m map[string]string) (domsub.Subject, error) {
	createdAt, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return domsub.Subject{}, fmt.Errorf("invalid created_at: %w", err)
	}
	lastActivityAt, err := strconv.ParseInt(m["last_activity_at"], 10, 64)
	if err != nil {
		return domsub.Subject{}, fmt.Errorf("invalid last_activity_at: %w", err)
	}

	var rows []keywordRow
	if kj := m["keywords_json"]; kj != "" {
		if err := json.Unmarshal([]byte(kj), &rows); err != nil {
			return domsub.Subject{}, fmt.Errorf("unmarshal keywords: %w", err)
		}
	}
	keywords := make([]keyword.Keyword, len(rows))
	for i, r := range rows {
		keywords[i] = keyword.Reconstruct(r.ID, r.Term)
	}

	return domsub.Reconstruct(
		m["id"], m["topic_id"], m["description"],
		keywords, createdAt, lastActivityAt,
	), nil
}
