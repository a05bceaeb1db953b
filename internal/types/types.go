package types

// RawDocument is the immutable upload payload handed to the document
// extractor. It is created once per request and never mutated.
type RawDocument struct {
	Data      []byte
	MediaType string
	Filename  string
}

// Section is a contiguous span of resume text under one semantic heading.
// Sections are non-overlapping and ordered by document position.
type Section struct {
	Name        string `json:"name"`
	RawText     string `json:"raw_text"`
	StartOffset int    `json:"start_offset"`
}

// ExtractedText is the output of the document extractor: the full plain
// text plus a best-effort section segmentation. Confidence is the ratio of
// pages that yielded text to total pages.
type ExtractedText struct {
	Text       string    `json:"text"`
	Sections   []Section `json:"sections"`
	PageCount  int       `json:"page_count"`
	Confidence float64   `json:"confidence"`
}

// SectionByName returns the first section with the given name and whether
// it was found.
func (et ExtractedText) SectionByName(name string) (Section, bool) {
	for _, s := range et.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// ExperienceEntry is one role/company/dates triple in document order.
type ExperienceEntry struct {
	Role    string `json:"role"`
	Company string `json:"company"`
	Dates   string `json:"dates"`
}

// ParsedCandidate holds the structured facts recovered from a resume.
// Every field is best effort: absence is an empty value, never an error.
type ParsedCandidate struct {
	FullName   string            `json:"full_name"`
	Email      string            `json:"email"`
	Skills     []string          `json:"skills"`
	Experience []ExperienceEntry `json:"experience"`
}

// SectionAnalysis carries the per-section findings of the heuristic scorer,
// optionally extended with generative suggestions.
type SectionAnalysis struct {
	SectionName     string   `json:"section_name"`
	Score           int      `json:"score"`
	Issues          []string `json:"issues"`
	ActionableFixes []string `json:"actionable_fixes"`
}

// TokenUsage is the model-side token accounting for one synthesis call.
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// AnalysisResult is the complete evaluation returned for one resume.
// OverallScore is derived from the three sub-scores alone so that a
// generative failure can never change the numeric outcome.
type AnalysisResult struct {
	OverallScore    int               `json:"overall_score"`
	SummaryFeedback string            `json:"summary_feedback"`
	ImpactScore     int               `json:"impact_score"`
	BrevityScore    int               `json:"brevity_score"`
	StyleScore      int               `json:"style_score"`
	Sections        []SectionAnalysis `json:"sections"`
	MissingKeywords []string          `json:"missing_keywords"`
	ParsedData      ParsedCandidate   `json:"parsed_data"`

	// Degraded reports that the summary is the deterministic fallback
	// because generative feedback was unavailable. Not part of the wire
	// format.
	Degraded bool `json:"-"`

	// TokenUsage carries the synthesis token counts when the generative
	// track contributed to this result. Nil on degraded results. Not part
	// of the wire format.
	TokenUsage *TokenUsage `json:"-"`
}

// SynthesisInput is the payload sent to the generative model.
type SynthesisInput struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

// SectionSuggestion carries supplementary generative feedback for one
// resume section. Suggestions are appended to, never replace, the
// heuristic findings for the same section.
type SectionSuggestion struct {
	SectionName     string   `json:"sectionName"`
	Issues          []string `json:"issues"`
	ActionableFixes []string `json:"actionableFixes"`
}

// SynthesisOutput is the structured response of the generative model.
type SynthesisOutput struct {
	SummaryFeedback string              `json:"summaryFeedback"`
	Sections        []SectionSuggestion `json:"sections"`
}
