package heuristics

import "regexp"

// strongVerbs is the curated lexicon of action verbs that signal impact
// when they open a bullet.
var strongVerbs = map[string]bool{
	"led": true, "built": true, "created": true, "launched": true,
	"drove": true, "increased": true, "decreased": true, "reduced": true,
	"improved": true, "delivered": true, "designed": true, "developed": true,
	"implemented": true, "managed": true, "owned": true, "automated": true,
	"optimized": true, "migrated": true, "scaled": true, "shipped": true,
	"architected": true, "mentored": true, "negotiated": true, "saved": true,
	"grew": true, "accelerated": true, "streamlined": true, "established": true,
}

// weakStarters are generic openers that bury the achievement. Each maps to
// the replacement suggested in the fix.
var weakStarters = []struct {
	phrase      string
	replacement string
}{
	{"responsible for", "Led, Managed, or Owned"},
	{"helped with", "Contributed to or Drove"},
	{"helped", "Contributed to or Drove"},
	{"worked on", "Developed, Built, or Created"},
	{"assisted with", "Supported or Co-led"},
	{"assisted", "Supported or Co-led"},
	{"did", "a specific action verb such as Built or Delivered"},
	{"was involved in", "Led or Contributed to"},
	{"participated in", "Drove or Co-led"},
}

var (
	// metricPattern recognizes quantified outcomes: percentages, money,
	// multipliers, and "by N" deltas. A bare count ("team of 5") does not
	// qualify as a quantified result.
	metricPattern = regexp.MustCompile(`(?i)\d+(?:[.,]\d+)?\s*%|[$€£]\s?\d|\d+(?:[.,]\d+)?\s*[kKmM](?:\b|illion)|\d+(?:\.\d+)?x\b|\bby\s+\d`)

	// passivePattern matches auxiliary-verb + past-participle constructions.
	passivePattern = regexp.MustCompile(`(?i)\b(?:was|were|is|are|am|be|been|being)\s+\w+(?:ed|en)\b`)

	firstPersonPattern = regexp.MustCompile(`(?i)\b(?:I|me|my|mine|we|our|ours)\b`)

	pastTenseOpener    = regexp.MustCompile(`^[A-Za-z]+ed\b`)
	presentTenseOpener = regexp.MustCompile(`^[A-Za-z]+(?:ing|s)\b`)
)

// maxLineWords is the brevity threshold: a bullet longer than this is
// flagged as carrying more than one idea.
const maxLineWords = 24
