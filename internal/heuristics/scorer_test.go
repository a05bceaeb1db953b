package heuristics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumedoctor/internal/types"
)

func singleSection(name, text string) types.ExtractedText {
	return types.ExtractedText{
		Text:     text,
		Sections: []types.Section{{Name: name, RawText: text}},
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	et := singleSection("Experience",
		"- Responsible for maintaining billing services\n- Increased revenue by 20% through pricing experiments")

	s := NewScorer()
	first := s.Score(et)
	second := s.Score(et)

	assert.Equal(t, first, second)
}

func TestWeakStarterFlagged(t *testing.T) {
	scores := NewScorer().Score(singleSection("Experience",
		"- Responsible for maintaining billing services"))

	require.Len(t, scores.Sections, 1)
	section := scores.Sections[0]
	require.Len(t, section.Issues, 1)
	assert.Contains(t, section.Issues[0], `Generic opener "responsible for"`)
	assert.Contains(t, section.ActionableFixes[0], "Led, Managed, or Owned")
	assert.Less(t, scores.Impact, 100)
}

func TestStrongVerbWithoutMetricFlagged(t *testing.T) {
	// A bare count ("team of 5") is not a quantified outcome.
	scores := NewScorer().Score(singleSection("Experience",
		"- Led team of 5 engineers"))

	require.Len(t, scores.Sections, 1)
	section := scores.Sections[0]
	require.NotEmpty(t, section.Issues)
	assert.Contains(t, section.Issues[0], "lacks a quantified metric")
	assert.Less(t, scores.Impact, 100)
}

func TestQuantifiedBulletPasses(t *testing.T) {
	scores := NewScorer().Score(singleSection("Experience",
		"- Increased revenue by 20% through pricing experiments"))

	require.Len(t, scores.Sections, 1)
	assert.Empty(t, scores.Sections[0].Issues)
	assert.Equal(t, 100, scores.Impact)
	assert.Equal(t, 100, scores.Brevity)
	assert.Equal(t, 100, scores.Style)
}

func TestLongLineFlaggedForBrevity(t *testing.T) {
	long := "- Collaborated closely with " + strings.Repeat("various cross functional stakeholders ", 8) + "daily"

	scores := NewScorer().Score(singleSection("Experience", long))

	require.Len(t, scores.Sections, 1)
	require.NotEmpty(t, scores.Sections[0].Issues)
	assert.Contains(t, scores.Sections[0].Issues[0], "word limit")
	assert.Less(t, scores.Brevity, 100)
}

func TestPassiveVoiceAndFirstPersonFlagged(t *testing.T) {
	scores := NewScorer().Score(singleSection("Summary",
		"The deployment platform was designed by me"))

	require.Len(t, scores.Sections, 1)
	issues := scores.Sections[0].Issues
	require.Len(t, issues, 2)
	assert.Contains(t, issues[0], "Passive voice")
	assert.Contains(t, issues[1], "First-person pronoun")
	assert.Equal(t, 0, scores.Style)
}

func TestMixedTenseFlaggedOncePerSection(t *testing.T) {
	scores := NewScorer().Score(singleSection("Experience",
		"- Delivered the payment rework under budget by 15%\n- Maintaining the scheduler fleet since then by 3%"))

	require.Len(t, scores.Sections, 1)
	var tenseIssues int
	for _, issue := range scores.Sections[0].Issues {
		if strings.Contains(issue, "Mixed verb tense") {
			tenseIssues++
		}
	}
	assert.Equal(t, 1, tenseIssues)
	assert.Less(t, scores.Style, 100)
}

func TestEmptySectionScoresPerfect(t *testing.T) {
	scores := NewScorer().Score(types.ExtractedText{
		Sections: []types.Section{{Name: "Education", RawText: ""}},
	})

	require.Len(t, scores.Sections, 1)
	assert.Equal(t, 100, scores.Sections[0].Score)
	assert.Equal(t, 100, scores.Impact)
	assert.Equal(t, 100, scores.Brevity)
	assert.Equal(t, 100, scores.Style)
}

func TestScoresStayWithinBounds(t *testing.T) {
	// Every line trips multiple rules at once.
	text := strings.Repeat("I was involved in things that were handled by me\n", 5)

	scores := NewScorer().Score(singleSection("Experience", text))

	for _, v := range []int{scores.Impact, scores.Brevity, scores.Style} {
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 100)
	}
	for _, section := range scores.Sections {
		assert.GreaterOrEqual(t, section.Score, 0)
		assert.LessOrEqual(t, section.Score, 100)
	}
}

func TestWorstDimension(t *testing.T) {
	name, score := Scores{Impact: 80, Brevity: 60, Style: 90}.WorstDimension()
	assert.Equal(t, "brevity", name)
	assert.Equal(t, 60, score)

	name, _ = Scores{Impact: 50, Brevity: 60, Style: 90}.WorstDimension()
	assert.Equal(t, "impact", name)

	// Ties keep the earlier dimension.
	name, _ = Scores{Impact: 70, Brevity: 70, Style: 70}.WorstDimension()
	assert.Equal(t, "impact", name)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-5))
	assert.Equal(t, 100, Clamp(250))
	assert.Equal(t, 42, Clamp(42))
}
