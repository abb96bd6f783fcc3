// Package domain defines the core types shared across the classification service.
package domain

// Classification is the two-value review verdict enum.
type Classification string

const (
	// ClassificationFake marks a review as fabricated or promotional.
	ClassificationFake Classification = "Fake"
	// ClassificationReal marks a review as a genuine customer experience.
	ClassificationReal Classification = "Real"
)

// Valid reports whether c is one of the two known classifications.
func (c Classification) Valid() bool {
	return c == ClassificationFake || c == ClassificationReal
}

// Decision stage constants recorded on each verdict.
const (
	StageGated       = "gated"
	StageRuleMatched = "rule_matched"
	StageInferred    = "inferred"
)

// ReviewSubmission is a review as received from the caller. It is
// transient: the service classifies it and returns a verdict; the
// caller owns persistence.
type ReviewSubmission struct {
	Reviewer string `json:"reviewer" binding:"required"`
	Comment  string `json:"comment"  binding:"required"`
	Rating   int    `json:"rating"   binding:"required,min=1,max=5"`
}

// ReviewVerdict is the immutable outcome of classifying one submission.
type ReviewVerdict struct {
	Classification Classification `json:"classification"`
	Explanation    string         `json:"explanation"`

	// Stage records which pipeline stage produced the verdict
	// (gated, rule_matched, inferred). Informational only.
	Stage string `json:"stage,omitempty"`
}
