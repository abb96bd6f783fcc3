package classifier

import (
	"strings"

	"github.com/veritrust/classifier/internal/domain"
)

// minTokensForAnalysis is the length gate threshold: comments with
// fewer whitespace-separated tokens carry too little signal for either
// the rules or the model, so they default to the less harmful verdict.
const minTokensForAnalysis = 6

const gateExplanation = "Short reviews are treated as genuine."

// gateShortReview returns a Real verdict for trivially short comments,
// or nil when the comment is long enough to analyze. Empty and
// whitespace-only comments count as zero tokens and are gated.
func gateShortReview(comment string) *domain.ReviewVerdict {
	if len(strings.Fields(comment)) >= minTokensForAnalysis {
		return nil
	}
	return &domain.ReviewVerdict{
		Classification: domain.ClassificationReal,
		Explanation:    gateExplanation,
		Stage:          domain.StageGated,
	}
}
