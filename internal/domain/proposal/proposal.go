package proposal

// Proposal is a derived, never-persisted suggestion linking the active topic to
// a similar past subject. Scores are not guaranteed to lie in [0,1] when weights
// are configured outside typical ranges; consumers sort, never normalize.
type Proposal struct {
	id            string
	pastSubjectID string
	originTopicID string
	subjectName   string
	matchScore    float64
	recencyScore  float64
	score         float64
	keywords      []string
}

// New creates a proposal.
func New(
	pastSubjectID, originTopicID, subjectName string,
	matchScore, recencyScore, score float64,
	keywords []string,
) Proposal {
	return Proposal{
		pastSubjectID: pastSubjectID,
		originTopicID: originTopicID,
		subjectName:   subjectName,
		matchScore:    matchScore,
		recencyScore:  recencyScore,
		score:         score,
		keywords:      keywords,
	}
}

// WithID returns a copy carrying the given derived identifier.
func (p Proposal) WithID(id string) Proposal {
	p.id = id
	return p
}

// ID returns the derived proposal identifier.
func (p *Proposal) ID() string { return p.id }

// PastSubjectID returns the suggested past subject's identity hash.
func (p *Proposal) PastSubjectID() string { return p.pastSubjectID }

// OriginTopicID returns the topic the past subject belongs to.
func (p *Proposal) OriginTopicID() string { return p.originTopicID }

// SubjectName returns the past subject's description.
func (p *Proposal) SubjectName() string { return p.subjectName }

// MatchScore returns the Jaccard similarity component.
func (p *Proposal) MatchScore() float64 { return p.matchScore }

// RecencyScore returns the clamped recency component.
func (p *Proposal) RecencyScore() float64 { return p.recencyScore }

// Score returns the weighted rank score.
func (p *Proposal) Score() float64 { return p.score }

// Keywords returns the past subject's keyword terms.
func (p *Proposal) Keywords() []string { return p.keywords }
