// Package heuristics computes the deterministic rule-based half of a
// resume evaluation: impact, brevity, and style sub-scores plus one
// SectionAnalysis per segmented section. Given identical input the output
// is identical, which keeps the overall score reproducible regardless of
// what the generative track does.
package heuristics

import (
	"math"
	"strings"

	"resumedoctor/internal/types"
)

// Scores is the scorer output: three document-level sub-scores and the
// per-section findings.
type Scores struct {
	Impact   int
	Brevity  int
	Style    int
	Sections []types.SectionAnalysis
}

type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Score evaluates every section of the extracted text. A section with no
// checkable lines scores 100: there is nothing to penalize, and a zero
// would punish a structurally absent section twice.
func (s *Scorer) Score(et types.ExtractedText) Scores {
	var totalLines, impactHits, brevityHits, styleHits int
	sections := make([]types.SectionAnalysis, 0, len(et.Sections))

	for _, section := range et.Sections {
		lines := checkableLines(section.RawText)
		analysis := types.SectionAnalysis{
			SectionName:     section.Name,
			Issues:          []string{},
			ActionableFixes: []string{},
		}

		var sectionHits int
		record := func(fs []finding, counter *int) {
			for _, f := range fs {
				analysis.Issues = append(analysis.Issues, f.issue)
				analysis.ActionableFixes = append(analysis.ActionableFixes, f.fix)
				sectionHits++
				*counter++
			}
		}

		for _, line := range lines {
			record(impactFindings(line), &impactHits)
			record(brevityFindings(line), &brevityHits)
			record(styleFindings(line), &styleHits)
		}
		if tf := tenseFinding(lines); tf != nil {
			record([]finding{*tf}, &styleHits)
		}

		analysis.Score = normalize(sectionHits, len(lines))
		sections = append(sections, analysis)
		totalLines += len(lines)
	}

	return Scores{
		Impact:   normalize(impactHits, totalLines),
		Brevity:  normalize(brevityHits, totalLines),
		Style:    normalize(styleHits, totalLines),
		Sections: sections,
	}
}

// checkableLines returns the non-empty content lines of a section,
// skipping the contact block noise only in so far as empty lines go; every
// remaining line is subject to the rules.
func checkableLines(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// normalize converts a triggered-rule count over checkable lines into a
// score bounded to [0,100]. Zero lines means a perfect score.
func normalize(hits, lines int) int {
	if lines == 0 {
		return 100
	}
	score := 100 - int(math.Round(100*float64(hits)/float64(lines)))
	return Clamp(score)
}

// Clamp bounds a score to [0,100].
func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// WorstDimension names the lowest of the three sub-scores, used for the
// deterministic summary fallback.
func (sc Scores) WorstDimension() (string, int) {
	name, score := "impact", sc.Impact
	if sc.Brevity < score {
		name, score = "brevity", sc.Brevity
	}
	if sc.Style < score {
		name, score = "style", sc.Style
	}
	return name, score
}
