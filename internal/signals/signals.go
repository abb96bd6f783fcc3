// Package signals holds the curated lexical tables used by the review
// rule engine: hype vocabulary in English and several Indian scripts,
// marketing-pressure phrases, and the emoji ranges typical of inflated
// reviews. All tables are immutable after package init and every query
// is safe for concurrent use.
//
// Matching is substring based. English tables are matched against
// lower-cased text; the regional tables are matched against the
// original text because those scripts have no case folding. That
// asymmetry is intentional and load-bearing.
package signals

import (
	"regexp"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"golang.org/x/text/unicode/norm"
)

var exaggerationTerms = []string{
	"best", "perfect", "life-changing", "ultimate", "unbelievable",
	"world's best", "100%", "must buy", "greatest", "mind blowing",
	"insane product", "changed my life",
}

// regionalExaggerationTerms groups hype phrases by language but is
// evaluated as one flat set.
var regionalExaggerationTerms = []string{
	// Kannada
	"ಅತ್ಯುತ್ತಮ", "ಪರಿಪೂರ್ಣ", "ಅದ್ಭುತ", "ಜೀವನ ಬದಲಾಯಿಸಿತು",
	// Tamil
	"சிறந்த", "அற்புதம்", "மிகவும் சிறந்தது", "உலகிலேயே சிறந்தது",
	// Hindi
	"सबसे अच्छा", "अद्भुत", "जीवन बदल", "कमाल", "एकदम सही",
	// Telugu
	"అద్భుతం", "అత్యుత్తమ", "వెరీ బెస్ట్", "జీవితాన్ని మార్చింది",
}

var marketingTerms = []string{
	"buy now", "must buy", "don't miss", "limited offer",
	"ಈಗಲೇ ಖರೀದಿ ಮಾಡಿ", "உடனே வாங்க", "వెంటనే కొనండి",
	"offer", "discount", "grab it fast",
}

// hypeEmoji covers the pictographic blocks used decoratively in
// reviews: Miscellaneous Symbols and Pictographs (U+1F300) through
// Symbols and Pictographs Extended-A (U+1FAFF). The emoticon and
// supplemental-symbol ranges fall inside this span.
var hypeEmoji = &unicode.RangeTable{
	R32: []unicode.Range32{
		{Lo: 0x1F300, Hi: 0x1FAFF, Stride: 1},
	},
}

var (
	exaggerationMatcher = ahocorasick.NewStringMatcher(exaggerationTerms)
	regionalMatcher     = ahocorasick.NewStringMatcher(regionalExaggerationTerms)
	marketingMatcher    = ahocorasick.NewStringMatcher(marketingTerms)
)

var (
	complaintPattern = regexp.MustCompile(`\b(bad|issue|problem|poor|complaint)\b`)
	neutralPattern   = regexp.MustCompile(`\b(bad|issue|problem|average|poor|complaint|ok|not good)\b`)
)

// Normalize returns text in NFC form so composed and decomposed
// regional script sequences match the tables consistently.
func Normalize(text string) string {
	return norm.NFC.String(text)
}

// HasExaggeration reports whether lowered contains an English hype term.
// The caller must pass lower-cased text.
func HasExaggeration(lowered string) bool {
	return exaggerationMatcher.Contains([]byte(lowered))
}

// HasRegionalExaggeration reports whether text contains a regional hype
// phrase. Matched against the original casing.
func HasRegionalExaggeration(text string) bool {
	return regionalMatcher.Contains([]byte(text))
}

// HasMarketing reports whether either the lower-cased or original text
// contains a purchase-pressure phrase.
func HasMarketing(lowered, original string) bool {
	return marketingMatcher.Contains([]byte(lowered)) ||
		marketingMatcher.Contains([]byte(original))
}

// ContainsHypeEmoji reports whether any rune of text falls in the hype
// emoji ranges.
func ContainsHypeEmoji(text string) bool {
	for _, r := range text {
		if unicode.Is(hypeEmoji, r) {
			return true
		}
	}
	return false
}

// HasComplaintWord reports whether lowered contains a whole-word
// complaint term (bad, issue, problem, poor, complaint).
func HasComplaintWord(lowered string) bool {
	return complaintPattern.MatchString(lowered)
}

// HasNeutralWord reports whether lowered contains any whole-word term
// from the wider complaint/neutral set used by the long-review rule.
func HasNeutralWord(lowered string) bool {
	return neutralPattern.MatchString(lowered)
}
