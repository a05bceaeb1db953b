package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumedoctor/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisResult", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisResult", &AnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "ParsedCandidate", &CandidateTextFormatter{})
	registry.RegisterFormatter("markdown", "ParsedCandidate", &CandidateMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisResult:
		return "AnalysisResult"
	case types.ParsedCandidate:
		return "ParsedCandidate"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// AnalysisTextFormatter handles text formatting for resume analysis results
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME HEALTH CHECK ===\n\n")
	output.WriteString(fmt.Sprintf("Overall Score: %d/100\n", result.OverallScore))
	output.WriteString(fmt.Sprintf("  Impact:  %d/100\n", result.ImpactScore))
	output.WriteString(fmt.Sprintf("  Brevity: %d/100\n", result.BrevityScore))
	output.WriteString(fmt.Sprintf("  Style:   %d/100\n\n", result.StyleScore))

	output.WriteString("Summary:\n")
	output.WriteString(result.SummaryFeedback)
	output.WriteString("\n\n")

	if len(result.Sections) > 0 {
		output.WriteString("=== SECTION FINDINGS ===\n\n")
		for _, section := range result.Sections {
			output.WriteString(fmt.Sprintf("%s (%d/100)\n", section.SectionName, section.Score))
			for _, issue := range section.Issues {
				output.WriteString(fmt.Sprintf("  - %s\n", issue))
			}
			if len(section.ActionableFixes) > 0 {
				output.WriteString("  Fixes:\n")
				for _, fix := range section.ActionableFixes {
					output.WriteString(fmt.Sprintf("  * %s\n", fix))
				}
			}
			output.WriteString("\n")
		}
	}

	if len(result.MissingKeywords) > 0 {
		output.WriteString("=== MISSING KEYWORDS ===\n")
		for _, keyword := range result.MissingKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", keyword))
		}
		output.WriteString("\n")
	}

	output.WriteString(formatCandidateText(result.ParsedData))

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResult"
}

// AnalysisMarkdownFormatter handles markdown formatting for resume analysis results
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Health Check\n\n")
	output.WriteString(fmt.Sprintf("**Overall Score:** %d/100\n\n", result.OverallScore))
	output.WriteString("| Dimension | Score |\n|---|---|\n")
	output.WriteString(fmt.Sprintf("| Impact | %d/100 |\n", result.ImpactScore))
	output.WriteString(fmt.Sprintf("| Brevity | %d/100 |\n", result.BrevityScore))
	output.WriteString(fmt.Sprintf("| Style | %d/100 |\n\n", result.StyleScore))

	output.WriteString("## Summary\n\n")
	output.WriteString(result.SummaryFeedback)
	output.WriteString("\n\n")

	if len(result.Sections) > 0 {
		output.WriteString("## Section Findings\n\n")
		for _, section := range result.Sections {
			output.WriteString(fmt.Sprintf("### %s (%d/100)\n\n", section.SectionName, section.Score))
			for _, issue := range section.Issues {
				output.WriteString(fmt.Sprintf("- %s\n", issue))
			}
			if len(section.ActionableFixes) > 0 {
				output.WriteString("\n**Fixes:**\n")
				for _, fix := range section.ActionableFixes {
					output.WriteString(fmt.Sprintf("- %s\n", fix))
				}
			}
			output.WriteString("\n")
		}
	}

	if len(result.MissingKeywords) > 0 {
		output.WriteString("## Missing Keywords\n\n")
		for _, keyword := range result.MissingKeywords {
			output.WriteString(fmt.Sprintf("- %s\n", keyword))
		}
		output.WriteString("\n")
	}

	output.WriteString("## Parsed Candidate\n\n")
	output.WriteString(formatCandidateMarkdown(result.ParsedData))

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisResult"
}

// CandidateTextFormatter handles text formatting for parsed candidate data
type CandidateTextFormatter struct{}

func (ctf *CandidateTextFormatter) Format(data any) (string, error) {
	candidate, ok := data.(types.ParsedCandidate)
	if !ok {
		return "", fmt.Errorf("expected ParsedCandidate, got %T", data)
	}
	return formatCandidateText(candidate), nil
}

func (ctf *CandidateTextFormatter) SupportedType() string {
	return "ParsedCandidate"
}

// CandidateMarkdownFormatter handles markdown formatting for parsed candidate data
type CandidateMarkdownFormatter struct{}

func (cmf *CandidateMarkdownFormatter) Format(data any) (string, error) {
	candidate, ok := data.(types.ParsedCandidate)
	if !ok {
		return "", fmt.Errorf("expected ParsedCandidate, got %T", data)
	}
	return "# Parsed Candidate\n\n" + formatCandidateMarkdown(candidate), nil
}

func (cmf *CandidateMarkdownFormatter) SupportedType() string {
	return "ParsedCandidate"
}

func formatCandidateText(candidate types.ParsedCandidate) string {
	var output strings.Builder

	output.WriteString("=== PARSED CANDIDATE ===\n")
	output.WriteString(fmt.Sprintf("Name:  %s\n", valueOrDash(candidate.FullName)))
	output.WriteString(fmt.Sprintf("Email: %s\n", valueOrDash(candidate.Email)))

	if len(candidate.Skills) > 0 {
		output.WriteString(fmt.Sprintf("Skills: %s\n", strings.Join(candidate.Skills, ", ")))
	}

	if len(candidate.Experience) > 0 {
		output.WriteString("Experience:\n")
		for _, entry := range candidate.Experience {
			output.WriteString(fmt.Sprintf("  - %s at %s (%s)\n",
				valueOrDash(entry.Role), valueOrDash(entry.Company), valueOrDash(entry.Dates)))
		}
	}

	return output.String()
}

func formatCandidateMarkdown(candidate types.ParsedCandidate) string {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("**Name:** %s\n\n", valueOrDash(candidate.FullName)))
	output.WriteString(fmt.Sprintf("**Email:** %s\n\n", valueOrDash(candidate.Email)))

	if len(candidate.Skills) > 0 {
		output.WriteString("**Skills:** ")
		output.WriteString(strings.Join(candidate.Skills, ", "))
		output.WriteString("\n\n")
	}

	if len(candidate.Experience) > 0 {
		output.WriteString("**Experience:**\n\n")
		for _, entry := range candidate.Experience {
			output.WriteString(fmt.Sprintf("- %s at %s (%s)\n",
				valueOrDash(entry.Role), valueOrDash(entry.Company), valueOrDash(entry.Dates)))
		}
		output.WriteString("\n")
	}

	return output.String()
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
