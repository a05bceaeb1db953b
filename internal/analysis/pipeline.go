// Package analysis runs the two-track resume audit: a deterministic
// rule-based track and a generative feedback track, reconciled into a
// single result. The deterministic track is authoritative for scores;
// the generative track only ever contributes prose and suggestions.
package analysis

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"resumedoctor/internal/ai"
	rdErrors "resumedoctor/internal/errors"
	"resumedoctor/internal/extract"
	"resumedoctor/internal/heuristics"
	"resumedoctor/internal/keywords"
	"resumedoctor/internal/parse"
	"resumedoctor/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Score weights for the aggregate. Impact dominates because it is the
// dimension recruiters weigh hardest.
const (
	impactWeight  = 0.40
	brevityWeight = 0.30
	styleWeight   = 0.30
)

// Pipeline orchestrates extraction, parsing, scoring, keyword matching,
// and generative synthesis.
type Pipeline struct {
	extractor    *extract.Extractor
	parser       *parse.Parser
	scorer       *heuristics.Scorer
	matcher      *keywords.Matcher
	provider     ai.Provider
	genaiTimeout time.Duration
	logger       *rdErrors.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithProvider attaches a generative provider. Without one the pipeline
// runs deterministic-only and every result uses the fallback summary.
func WithProvider(p ai.Provider) Option {
	return func(pl *Pipeline) { pl.provider = p }
}

// WithGenAITimeout bounds the generative track.
func WithGenAITimeout(d time.Duration) Option {
	return func(pl *Pipeline) { pl.genaiTimeout = d }
}

// NewPipeline builds a pipeline with the given extractor and logger.
func NewPipeline(extractor *extract.Extractor, logger *rdErrors.Logger, opts ...Option) *Pipeline {
	pl := &Pipeline{
		extractor:    extractor,
		parser:       parse.NewParser(),
		scorer:       heuristics.NewScorer(),
		matcher:      keywords.NewMatcher(),
		genaiTimeout: 45 * time.Second,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(pl)
	}
	return pl
}

// Extract runs only the extraction stage. Used by the extraction-only
// surface and the parse command.
func (pl *Pipeline) Extract(doc types.RawDocument) (types.ExtractedText, error) {
	return pl.extractor.Extract(doc)
}

// Parse runs extraction and structured parsing without scoring.
func (pl *Pipeline) Parse(doc types.RawDocument) (types.ParsedCandidate, error) {
	et, err := pl.extractor.Extract(doc)
	if err != nil {
		return types.ParsedCandidate{}, err
	}
	return pl.parser.Parse(et), nil
}

// ParseExtracted runs structured parsing on already-extracted text.
func (pl *Pipeline) ParseExtracted(et types.ExtractedText) types.ParsedCandidate {
	return pl.parser.Parse(et)
}

// Analyze runs the full audit on a raw document.
func (pl *Pipeline) Analyze(ctx context.Context, doc types.RawDocument, jobDescription string) (types.AnalysisResult, error) {
	et, err := pl.extractor.Extract(doc)
	if err != nil {
		return types.AnalysisResult{}, err
	}
	return pl.AnalyzeExtracted(ctx, et, jobDescription)
}

type synthesisResult struct {
	output types.SynthesisOutput
	usage  *ai.TokenUsage
	err    error
}

// AnalyzeExtracted runs the audit on already-extracted text. The
// generative track runs concurrently with the deterministic one; its
// failure or timeout degrades the result to a templated summary but
// never fails the analysis.
func (pl *Pipeline) AnalyzeExtracted(ctx context.Context, et types.ExtractedText, jobDescription string) (types.AnalysisResult, error) {
	tracer := otel.Tracer("resumedoctor.analysis")
	ctx, span := tracer.Start(ctx, "analysis.pipeline")
	defer span.End()

	span.SetAttributes(
		attribute.Int("resume.pages", et.PageCount),
		attribute.Int("resume.sections", len(et.Sections)),
		attribute.Bool("job_description.present", jobDescription != ""),
	)

	// Kick off the generative track first so it overlaps the
	// deterministic work.
	synthCh := make(chan synthesisResult, 1)
	if pl.provider != nil {
		go func() {
			synthCtx, cancel := context.WithTimeout(ctx, pl.genaiTimeout)
			defer cancel()
			output, usage, err := pl.provider.SynthesizeFeedback(synthCtx, types.SynthesisInput{
				ResumeText:     et.Text,
				JobDescription: jobDescription,
			})
			synthCh <- synthesisResult{output: output, usage: usage, err: err}
		}()
	}

	candidate := pl.parser.Parse(et)
	scores := pl.scorer.Score(et)
	missing := pl.matcher.Missing(jobDescription, et, candidate)

	result := types.AnalysisResult{
		OverallScore:    aggregateScore(scores),
		ImpactScore:     scores.Impact,
		BrevityScore:    scores.Brevity,
		StyleScore:      scores.Style,
		Sections:        scores.Sections,
		MissingKeywords: missing,
		ParsedData:      candidate,
	}

	degraded := true
	if pl.provider != nil {
		select {
		case synth := <-synthCh:
			switch {
			case rdErrors.IsGenAIUnavailable(synth.err):
				pl.logger.Warn("Generative model unavailable, using deterministic fallback",
					"error", synth.err.Error())
			case synth.err != nil:
				pl.logger.Warn("Generative synthesis failed, using deterministic fallback",
					"error", synth.err.Error())
			case strings.TrimSpace(synth.output.SummaryFeedback) == "":
				pl.logger.Warn("Generative synthesis returned an empty summary, using deterministic fallback")
			default:
				pl.mergeSynthesis(&result, synth.output)
				degraded = false
				result.TokenUsage = synth.usage
				if synth.usage != nil {
					pl.logger.Debug("Synthesis token usage",
						"input_tokens", synth.usage.InputTokens,
						"output_tokens", synth.usage.OutputTokens,
						"total_tokens", synth.usage.TotalTokens)
				}
			}
		case <-ctx.Done():
			return types.AnalysisResult{}, ctx.Err()
		}
	}

	if degraded {
		result.SummaryFeedback = fallbackSummary(scores)
	}
	result.Degraded = degraded

	span.SetAttributes(
		attribute.Int("result.overall_score", result.OverallScore),
		attribute.Bool("result.degraded", degraded),
	)

	return result, nil
}

// mergeSynthesis folds generative feedback into the deterministic
// result. Suggestions are appended to the matching section; exact
// duplicates of rule findings are dropped. Generative sections that do
// not correspond to an extracted section are ignored so the model can
// never invent resume structure.
func (pl *Pipeline) mergeSynthesis(result *types.AnalysisResult, synth types.SynthesisOutput) {
	result.SummaryFeedback = strings.TrimSpace(synth.SummaryFeedback)

	byName := make(map[string]int, len(result.Sections))
	for i, sec := range result.Sections {
		byName[strings.ToLower(sec.SectionName)] = i
	}

	for _, suggestion := range synth.Sections {
		idx, ok := byName[strings.ToLower(strings.TrimSpace(suggestion.SectionName))]
		if !ok {
			pl.logger.Debug("Dropping suggestion for unknown section",
				"section", suggestion.SectionName)
			continue
		}
		sec := &result.Sections[idx]
		sec.Issues = appendUnique(sec.Issues, suggestion.Issues)
		sec.ActionableFixes = appendUnique(sec.ActionableFixes, suggestion.ActionableFixes)
	}
}

func appendUnique(dst []string, extra []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, s := range dst {
		seen[s] = struct{}{}
	}
	for _, s := range extra {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		dst = append(dst, s)
	}
	return dst
}

// aggregateScore computes the weighted overall score from the three
// sub-scores, rounded and clamped to [0, 100].
func aggregateScore(scores heuristics.Scores) int {
	weighted := impactWeight*float64(scores.Impact) +
		brevityWeight*float64(scores.Brevity) +
		styleWeight*float64(scores.Style)
	return heuristics.Clamp(int(math.Round(weighted)))
}

// fallbackSummary produces the deterministic summary used when the
// generative track is unavailable.
func fallbackSummary(scores heuristics.Scores) string {
	dimension, score := scores.WorstDimension()
	switch dimension {
	case "impact":
		return fmt.Sprintf("Automated review: your weakest area is impact (%d/100). "+
			"Lead bullets with strong action verbs and quantify results with concrete metrics.", score)
	case "brevity":
		return fmt.Sprintf("Automated review: your weakest area is brevity (%d/100). "+
			"Tighten long bullet points; aim for a single line per accomplishment.", score)
	default:
		return fmt.Sprintf("Automated review: your weakest area is style (%d/100). "+
			"Remove passive voice and first-person pronouns, and keep verb tense consistent within each section.", score)
	}
}
