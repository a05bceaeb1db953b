package extract

import (
	"bytes"
	"fmt"
	"strings"

	"resumedoctor/internal/errors"
	"resumedoctor/internal/types"

	"github.com/ledongthuc/pdf"
)

const pdfMediaType = "application/pdf"

// pdfMagic is the header every PDF starts with. Declared media types lie
// often enough that the bytes are checked too.
var pdfMagic = []byte("%PDF-")

// Extractor converts raw PDF bytes into plain text plus a best-effort
// section segmentation.
type Extractor struct {
	lexicon map[string]string
	logger  *errors.Logger
}

// DefaultHeaderLexicon maps lowercase section header keywords to canonical
// section names. Multiple aliases may map to the same section.
var DefaultHeaderLexicon = map[string]string{
	"summary":              "Summary",
	"professional summary": "Summary",
	"objective":            "Summary",
	"about":                "Summary",
	"experience":           "Experience",
	"work experience":      "Experience",
	"professional experience": "Experience",
	"employment":           "Experience",
	"employment history":   "Experience",
	"education":            "Education",
	"academic background":  "Education",
	"skills":               "Skills",
	"technical skills":     "Skills",
	"core competencies":    "Skills",
	"projects":             "Projects",
	"personal projects":    "Projects",
	"certifications":       "Certifications",
	"certificates":         "Certifications",
	"languages":            "Languages",
	"publications":         "Publications",
	"awards":               "Awards",
	"volunteering":         "Volunteering",
	"volunteer experience": "Volunteering",
}

// ImplicitSectionName is the name given to the contact block that precedes
// the first recognized header.
const ImplicitSectionName = "Header"

// NewExtractor creates an extractor. extraHeaders extends the default
// header lexicon; each extra keyword becomes its own title-cased section.
func NewExtractor(extraHeaders []string, logger *errors.Logger) *Extractor {
	lexicon := make(map[string]string, len(DefaultHeaderLexicon)+len(extraHeaders))
	for k, v := range DefaultHeaderLexicon {
		lexicon[k] = v
	}
	for _, h := range extraHeaders {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if _, exists := lexicon[key]; !exists {
			lexicon[key] = titleCase(key)
		}
	}
	return &Extractor{lexicon: lexicon, logger: logger}
}

// Extract converts the document into text and sections. It fails with
// UNSUPPORTED_FORMAT for non-PDF input and CORRUPT_DOCUMENT when the PDF
// yields nothing at all. Individual unreadable pages only lower the
// extraction confidence.
func (e *Extractor) Extract(doc types.RawDocument) (types.ExtractedText, error) {
	if err := e.checkMediaType(doc); err != nil {
		return types.ExtractedText{}, err
	}

	text, pageCount, goodPages, err := e.extractText(doc.Data)
	if err != nil {
		return types.ExtractedText{}, err
	}

	confidence := 0.0
	if pageCount > 0 {
		confidence = float64(goodPages) / float64(pageCount)
	}
	if goodPages < pageCount && e.logger != nil {
		e.logger.Warn("Partial PDF extraction",
			"filename", doc.Filename,
			"pages_total", pageCount,
			"pages_recovered", goodPages)
	}

	cleaned := CleanText(text)
	return types.ExtractedText{
		Text:       cleaned,
		Sections:   e.Segment(cleaned),
		PageCount:  pageCount,
		Confidence: confidence,
	}, nil
}

func (e *Extractor) checkMediaType(doc types.RawDocument) error {
	declared := strings.ToLower(strings.TrimSpace(doc.MediaType))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if declared != "" && declared != pdfMediaType {
		return errors.NewDocumentError(errors.ErrCodeUnsupportedFormat,
			fmt.Sprintf("Unsupported media type: %s", declared), nil)
	}
	if !bytes.HasPrefix(doc.Data, pdfMagic) {
		return errors.NewDocumentError(errors.ErrCodeUnsupportedFormat,
			"File content is not a PDF", nil)
	}
	return nil
}

// extractText walks the PDF page by page. The pdf package panics on some
// malformed cross-reference tables, so the whole walk runs under recover.
func (e *Extractor) extractText(data []byte) (text string, pageCount, goodPages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewDocumentError(errors.ErrCodeCorruptDocument,
				"PDF parsing failed", fmt.Errorf("pdf reader panic: %v", r))
		}
	}()

	reader, openErr := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if openErr != nil {
		return "", 0, 0, errors.NewDocumentError(errors.ErrCodeCorruptDocument,
			"Failed to open PDF", openErr)
	}

	var builder strings.Builder
	pageCount = reader.NumPage()

	for pageIndex := 1; pageIndex <= pageCount; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			// Skip unreadable pages, the rest of the document still counts.
			continue
		}

		builder.WriteString(pageText)
		builder.WriteString("\n\n")
		goodPages++
	}

	text = builder.String()
	if strings.TrimSpace(text) == "" {
		return "", pageCount, goodPages, errors.NewDocumentError(errors.ErrCodeCorruptDocument,
			"No text content found in PDF", nil)
	}

	return text, pageCount, goodPages, nil
}

// Segment splits cleaned text into ordered, non-overlapping sections.
// Text before the first recognized header lands in the implicit Header
// section, text between two headers belongs to the preceding one.
func (e *Extractor) Segment(text string) []types.Section {
	var sections []types.Section

	current := types.Section{Name: ImplicitSectionName, StartOffset: 0}
	var body strings.Builder

	flush := func() {
		current.RawText = strings.TrimSpace(body.String())
		// The implicit section is dropped when nothing precedes the first
		// header; named sections are kept even when empty so the scorer can
		// report on them.
		if current.Name != ImplicitSectionName || current.RawText != "" {
			sections = append(sections, current)
		}
		body.Reset()
	}

	offset := 0
	for _, line := range strings.Split(text, "\n") {
		if name, ok := e.matchHeader(line); ok {
			flush()
			current = types.Section{Name: name, StartOffset: offset}
		} else {
			body.WriteString(line)
			body.WriteString("\n")
		}
		offset += len(line) + 1
	}
	flush()

	return sections
}

// matchHeader reports whether a line is a recognized section header.
// Headers are short standalone lines, compared case-insensitively with
// trailing punctuation stripped.
func (e *Extractor) matchHeader(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimRight(trimmed, ":")
	if trimmed == "" || len(strings.Fields(trimmed)) > 4 {
		return "", false
	}
	name, ok := e.lexicon[strings.ToLower(trimmed)]
	return name, ok
}

// CleanText trims lines and drops blank ones, normalizing the ragged
// spacing PDF extraction produces.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
