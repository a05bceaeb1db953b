package analysis

import (
	"context"
	"errors"
	"math"
	"testing"

	"resumedoctor/internal/ai"
	rdErrors "resumedoctor/internal/errors"
	"resumedoctor/internal/extract"
	"resumedoctor/internal/heuristics"
	"resumedoctor/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	output types.SynthesisOutput
	usage  *ai.TokenUsage
	err    error
	calls  int
}

func (s *stubProvider) SynthesizeFeedback(_ context.Context, _ types.SynthesisInput) (types.SynthesisOutput, *ai.TokenUsage, error) {
	s.calls++
	return s.output, s.usage, s.err
}

func (s *stubProvider) GetModelInfo(_ context.Context) *ai.ModelInfo {
	return &ai.ModelInfo{Name: "stub", Available: s.err == nil}
}

func (s *stubProvider) Close() error { return nil }

func testLogger(t *testing.T) *rdErrors.Logger {
	t.Helper()
	logger, err := rdErrors.New("error")
	require.NoError(t, err)
	return logger
}

func testExtractedText() types.ExtractedText {
	return types.ExtractedText{
		Text: "Experience\nResponsible for maintaining billing services\nIncreased revenue by 20% through checkout redesign\n\nSkills\nGo, Python, SQL",
		Sections: []types.Section{
			{Name: "Experience", RawText: "Responsible for maintaining billing services\nIncreased revenue by 20% through checkout redesign"},
			{Name: "Skills", RawText: "Go, Python, SQL"},
		},
		PageCount:  1,
		Confidence: 1.0,
	}
}

func TestAnalyzeExtractedAggregatesWeightedScore(t *testing.T) {
	logger := testLogger(t)
	pl := NewPipeline(extract.NewExtractor(nil, logger), logger)

	et := testExtractedText()
	result, err := pl.AnalyzeExtracted(context.Background(), et, "")
	require.NoError(t, err)

	scores := heuristics.NewScorer().Score(et)
	expected := int(math.Round(0.40*float64(scores.Impact) + 0.30*float64(scores.Brevity) + 0.30*float64(scores.Style)))

	assert.Equal(t, expected, result.OverallScore)
	assert.Equal(t, scores.Impact, result.ImpactScore)
	assert.Equal(t, scores.Brevity, result.BrevityScore)
	assert.Equal(t, scores.Style, result.StyleScore)
	assert.GreaterOrEqual(t, result.OverallScore, 0)
	assert.LessOrEqual(t, result.OverallScore, 100)
}

func TestAnalyzeExtractedDeterministicUnderProviderFailure(t *testing.T) {
	logger := testLogger(t)
	provider := &stubProvider{err: errors.New("model overloaded")}
	pl := NewPipeline(extract.NewExtractor(nil, logger), logger, WithProvider(provider))

	et := testExtractedText()
	first, err := pl.AnalyzeExtracted(context.Background(), et, "backend engineer")
	require.NoError(t, err)
	second, err := pl.AnalyzeExtracted(context.Background(), et, "backend engineer")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first.SummaryFeedback, "fallback summary must be present when synthesis fails")
	assert.Contains(t, first.SummaryFeedback, "Automated review")
	assert.Equal(t, 2, provider.calls)
}

func TestAnalyzeExtractedMergesSynthesis(t *testing.T) {
	logger := testLogger(t)
	provider := &stubProvider{
		output: types.SynthesisOutput{
			SummaryFeedback: "Strong resume overall; quantify the billing work.",
			Sections: []types.SectionSuggestion{
				{
					SectionName:     "Experience",
					Issues:          []string{"The billing bullet does not state the outcome"},
					ActionableFixes: []string{"Rewrite as: Maintained billing services processing $2M monthly"},
				},
				{
					SectionName:     "Hobbies",
					Issues:          []string{"Invented section"},
					ActionableFixes: []string{"Should be dropped"},
				},
			},
		},
	}
	pl := NewPipeline(extract.NewExtractor(nil, logger), logger, WithProvider(provider))

	result, err := pl.AnalyzeExtracted(context.Background(), testExtractedText(), "")
	require.NoError(t, err)

	assert.Equal(t, "Strong resume overall; quantify the billing work.", result.SummaryFeedback)

	var experience *types.SectionAnalysis
	for i := range result.Sections {
		if result.Sections[i].SectionName == "Experience" {
			experience = &result.Sections[i]
		}
		assert.NotEqual(t, "Hobbies", result.Sections[i].SectionName,
			"suggestions for sections absent from the resume must be dropped")
	}
	require.NotNil(t, experience)
	assert.Contains(t, experience.Issues, "The billing bullet does not state the outcome")
	assert.Contains(t, experience.ActionableFixes, "Rewrite as: Maintained billing services processing $2M monthly")
}

func TestAnalyzeExtractedEmptySummaryFallsBack(t *testing.T) {
	logger := testLogger(t)
	provider := &stubProvider{
		output: types.SynthesisOutput{SummaryFeedback: "   \n"},
	}
	pl := NewPipeline(extract.NewExtractor(nil, logger), logger, WithProvider(provider))

	result, err := pl.AnalyzeExtracted(context.Background(), testExtractedText(), "")
	require.NoError(t, err)

	assert.True(t, result.Degraded)
	assert.NotEmpty(t, result.SummaryFeedback)
	assert.Contains(t, result.SummaryFeedback, "Automated review")
	assert.Equal(t, 1, provider.calls)
}

func TestAnalyzeExtractedCarriesTokenUsage(t *testing.T) {
	logger := testLogger(t)
	usage := &ai.TokenUsage{InputTokens: 1200, OutputTokens: 340, TotalTokens: 1540}
	provider := &stubProvider{
		output: types.SynthesisOutput{SummaryFeedback: "Solid resume."},
		usage:  usage,
	}
	pl := NewPipeline(extract.NewExtractor(nil, logger), logger, WithProvider(provider))

	result, err := pl.AnalyzeExtracted(context.Background(), testExtractedText(), "")
	require.NoError(t, err)

	require.NotNil(t, result.TokenUsage)
	assert.Equal(t, usage, result.TokenUsage)

	// Degraded results never report usage.
	failing := &stubProvider{usage: usage, err: errors.New("model overloaded")}
	degraded, err := NewPipeline(extract.NewExtractor(nil, logger), logger, WithProvider(failing)).
		AnalyzeExtracted(context.Background(), testExtractedText(), "")
	require.NoError(t, err)
	assert.Nil(t, degraded.TokenUsage)
}

func TestAnalyzeExtractedDeduplicatesSuggestions(t *testing.T) {
	logger := testLogger(t)
	et := testExtractedText()

	base, err := NewPipeline(extract.NewExtractor(nil, logger), logger).AnalyzeExtracted(context.Background(), et, "")
	require.NoError(t, err)

	var ruleIssue string
	for _, sec := range base.Sections {
		if sec.SectionName == "Experience" && len(sec.Issues) > 0 {
			ruleIssue = sec.Issues[0]
		}
	}
	require.NotEmpty(t, ruleIssue, "the weak-verb bullet must produce a rule finding")

	provider := &stubProvider{
		output: types.SynthesisOutput{
			SummaryFeedback: "ok",
			Sections: []types.SectionSuggestion{
				{SectionName: "Experience", Issues: []string{ruleIssue}},
			},
		},
	}
	merged, err := NewPipeline(extract.NewExtractor(nil, logger), logger, WithProvider(provider)).
		AnalyzeExtracted(context.Background(), et, "")
	require.NoError(t, err)

	for _, sec := range merged.Sections {
		if sec.SectionName != "Experience" {
			continue
		}
		count := 0
		for _, issue := range sec.Issues {
			if issue == ruleIssue {
				count++
			}
		}
		assert.Equal(t, 1, count, "generative duplicate of a rule finding must be dropped")
	}
}

func TestAnalyzeExtractedStructuralCompleteness(t *testing.T) {
	logger := testLogger(t)
	pl := NewPipeline(extract.NewExtractor(nil, logger), logger)

	result, err := pl.AnalyzeExtracted(context.Background(), testExtractedText(), "")
	require.NoError(t, err)

	assert.NotNil(t, result.MissingKeywords, "missing_keywords must serialize as [] not null")
	assert.NotNil(t, result.ParsedData.Skills)
	assert.Len(t, result.Sections, 2)
	for _, sec := range result.Sections {
		assert.GreaterOrEqual(t, sec.Score, 0)
		assert.LessOrEqual(t, sec.Score, 100)
	}
	assert.Contains(t, result.ParsedData.Skills, "Go")
}

func TestAnalyzeExtractedMissingKeywordsFromJobDescription(t *testing.T) {
	logger := testLogger(t)
	pl := NewPipeline(extract.NewExtractor(nil, logger), logger)

	result, err := pl.AnalyzeExtracted(context.Background(), testExtractedText(),
		"Looking for experience with Kubernetes, Terraform, and Go")
	require.NoError(t, err)

	assert.Contains(t, result.MissingKeywords, "Kubernetes")
	assert.Contains(t, result.MissingKeywords, "Terraform")
	assert.NotContains(t, result.MissingKeywords, "Go", "keywords already on the resume are not missing")
}
