package heuristics

import (
	"fmt"
	"strings"
)

// finding is one triggered rule: what was found and the concrete rewrite
// suggested for it.
type finding struct {
	issue string
	fix   string
}

// impactFindings evaluates the quantified-metric and verb-strength rules
// for a single line.
func impactFindings(line string) []finding {
	var findings []finding
	lower := strings.ToLower(strings.TrimSpace(trimBullet(line)))
	if lower == "" {
		return nil
	}

	for _, weak := range weakStarters {
		if strings.HasPrefix(lower, weak.phrase) {
			findings = append(findings, finding{
				issue: fmt.Sprintf("Generic opener %q buries the achievement: %q", weak.phrase, snippet(line)),
				fix:   fmt.Sprintf("Replace %q with %s and lead with the outcome", weak.phrase, weak.replacement),
			})
			break
		}
	}

	firstWord := strings.Trim(strings.SplitN(lower, " ", 2)[0], ".,:;")
	if strongVerbs[firstWord] && !metricPattern.MatchString(line) {
		findings = append(findings, finding{
			issue: fmt.Sprintf("Bullet lacks a quantified metric: %q", snippet(line)),
			fix:   fmt.Sprintf("Pair %q with a measurable outcome, e.g. a percentage, dollar amount, or time saved", firstWord),
		})
	}

	return findings
}

// brevityFindings flags lines above the length threshold.
func brevityFindings(line string) []finding {
	words := len(strings.Fields(line))
	if words <= maxLineWords {
		return nil
	}
	return []finding{{
		issue: fmt.Sprintf("Line runs %d words, above the %d-word limit: %q", words, maxLineWords, snippet(line)),
		fix:   "Split this into two single-idea bullets and cut filler words",
	}}
}

// styleFindings evaluates passive voice and first-person pronoun rules for
// a single line.
func styleFindings(line string) []finding {
	var findings []finding

	if m := passivePattern.FindString(line); m != "" {
		findings = append(findings, finding{
			issue: fmt.Sprintf("Passive voice %q weakens the statement: %q", m, snippet(line)),
			fix:   "Rewrite in active voice with the candidate as the subject",
		})
	}

	if m := firstPersonPattern.FindString(line); m != "" {
		findings = append(findings, finding{
			issue: fmt.Sprintf("First-person pronoun %q: %q", m, snippet(line)),
			fix:   "Drop the pronoun; resume bullets are written in implied first person",
		})
	}

	return findings
}

// tenseFinding checks verb tense consistency across a whole section: mixing
// past-tense and present-tense bullet openers reads as sloppy.
func tenseFinding(lines []string) *finding {
	var past, present int
	for _, line := range lines {
		opener := strings.TrimSpace(trimBullet(line))
		switch {
		case pastTenseOpener.MatchString(opener):
			past++
		case presentTenseOpener.MatchString(opener):
			present++
		}
	}
	if past == 0 || present == 0 {
		return nil
	}
	return &finding{
		issue: fmt.Sprintf("Mixed verb tense: %d past-tense and %d present-tense bullets", past, present),
		fix:   "Use past tense for previous roles and present tense only for the current one",
	}
}

func trimBullet(line string) string {
	trimmed := strings.TrimSpace(line)
	for _, prefix := range []string{"-", "•", "*", "·"} {
		trimmed = strings.TrimPrefix(trimmed, prefix)
	}
	return strings.TrimSpace(trimmed)
}

// snippet shortens a line for inclusion in an issue string.
func snippet(line string) string {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) <= 60 {
		return trimmed
	}
	return trimmed[:57] + "..."
}
