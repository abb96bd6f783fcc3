package classifier

import (
	"strings"
	"unicode/utf8"

	"github.com/veritrust/classifier/internal/signals"
)

// maxUncomplainedLength is the character threshold for the long-review
// rule: lengthy reviews that never mention a single drawback read as
// scripted.
const maxUncomplainedLength = 350

// reviewRule is one deterministic fake-review check. Rules are pure:
// they see the original-case text and its lower-cased form and report
// a match. A matching rule classifies the review as Fake with its
// explanation; evaluation stops at the first match.
type reviewRule struct {
	name        string
	explanation string
	match       func(text, lowered string) bool
}

// reviewRules is evaluated in order. Precedence is deliberate: cheap,
// high-precision lexical checks run before anything else, and the
// case handling differs per table (regional scripts have no case
// folding), so the raw/lowered split below must stay as is.
var reviewRules = []reviewRule{
	{
		name:        "emoji_without_complaint",
		explanation: "Hype emojis with no complaint suggest promotional intent.",
		match: func(text, lowered string) bool {
			return signals.ContainsHypeEmoji(text) && !signals.HasComplaintWord(lowered)
		},
	},
	{
		name:        "english_exaggeration",
		explanation: "Contains exaggerated praise typical of fake reviews.",
		match: func(_, lowered string) bool {
			return signals.HasExaggeration(lowered)
		},
	},
	{
		name:        "regional_exaggeration",
		explanation: "Contains exaggerated praise in a regional language.",
		match: func(text, _ string) bool {
			return signals.HasRegionalExaggeration(text)
		},
	},
	{
		name:        "marketing_pressure",
		explanation: "Contains marketing-pressure phrasing.",
		match: func(text, lowered string) bool {
			return signals.HasMarketing(lowered, text)
		},
	},
	{
		name:        "excessive_length",
		explanation: "Unusually long review with no drawbacks mentioned.",
		match: func(text, lowered string) bool {
			// Character count, not bytes: regional scripts are multi-byte
			// and must hit the same threshold as English.
			return utf8.RuneCountInString(text) > maxUncomplainedLength &&
				!signals.HasNeutralWord(lowered)
		},
	},
}

// evaluateRules runs the ordered rule list against comment and returns
// the first matching rule, or nil when every rule passes. A nil result
// is inconclusive, not proof of authenticity: absence of a fake signal
// says nothing, so the caller escalates to model inference.
func evaluateRules(comment string) *reviewRule {
	text := signals.Normalize(comment)
	lowered := strings.ToLower(text)

	for i := range reviewRules {
		if reviewRules[i].match(text, lowered) {
			return &reviewRules[i]
		}
	}
	return nil
}
