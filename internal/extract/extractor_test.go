package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumedoctor/internal/errors"
	"resumedoctor/internal/types"
)

func TestExtractRejectsDeclaredNonPDF(t *testing.T) {
	e := NewExtractor(nil, nil)

	_, err := e.Extract(types.RawDocument{
		Data:      []byte("%PDF-1.7 whatever"),
		MediaType: "text/plain",
		Filename:  "resume.txt",
	})

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnsupportedFormat, errors.CodeOf(err))
}

func TestExtractRejectsNonPDFBytes(t *testing.T) {
	e := NewExtractor(nil, nil)

	_, err := e.Extract(types.RawDocument{
		Data:      []byte("plain text pretending to be a resume"),
		MediaType: "application/pdf",
		Filename:  "resume.pdf",
	})

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnsupportedFormat, errors.CodeOf(err))
}

func TestExtractRejectsCorruptPDF(t *testing.T) {
	e := NewExtractor(nil, nil)

	_, err := e.Extract(types.RawDocument{
		Data:      []byte("%PDF-1.7\nnot actually a valid document body"),
		MediaType: "application/pdf",
		Filename:  "resume.pdf",
	})

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCorruptDocument, errors.CodeOf(err))
}

func TestExtractStripsMediaTypeParameters(t *testing.T) {
	e := NewExtractor(nil, nil)

	// The declared type passes once parameters are stripped; the bogus body
	// then fails as corrupt rather than unsupported.
	_, err := e.Extract(types.RawDocument{
		Data:      []byte("%PDF-1.4\ngarbage"),
		MediaType: "application/pdf; charset=binary",
		Filename:  "resume.pdf",
	})

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCorruptDocument, errors.CodeOf(err))
}

func TestSegmentSplitsOnRecognizedHeaders(t *testing.T) {
	e := NewExtractor(nil, nil)

	text := CleanText(`Jane Doe
jane.doe@example.com

WORK EXPERIENCE
Software Engineer, Acme Corp
- Built billing services

Skills:
Go, SQL, Kubernetes`)

	sections := e.Segment(text)

	require.Len(t, sections, 3)
	assert.Equal(t, ImplicitSectionName, sections[0].Name)
	assert.Contains(t, sections[0].RawText, "jane.doe@example.com")
	assert.Equal(t, "Experience", sections[1].Name)
	assert.Contains(t, sections[1].RawText, "Built billing services")
	assert.Equal(t, "Skills", sections[2].Name)
	assert.Equal(t, "Go, SQL, Kubernetes", sections[2].RawText)
}

func TestSegmentOrderedByPosition(t *testing.T) {
	e := NewExtractor(nil, nil)

	sections := e.Segment(CleanText("Intro line\nEducation\nBSc\nExperience\nEngineer"))

	require.Len(t, sections, 3)
	for i := 1; i < len(sections); i++ {
		assert.Greater(t, sections[i].StartOffset, sections[i-1].StartOffset)
	}
}

func TestSegmentWithoutHeaders(t *testing.T) {
	e := NewExtractor(nil, nil)

	sections := e.Segment("Just a wall of text\nwith no recognizable headers")

	require.Len(t, sections, 1)
	assert.Equal(t, ImplicitSectionName, sections[0].Name)
}

func TestSegmentDropsEmptyImplicitSection(t *testing.T) {
	e := NewExtractor(nil, nil)

	sections := e.Segment(CleanText("Experience\nEngineer at Acme"))

	require.Len(t, sections, 1)
	assert.Equal(t, "Experience", sections[0].Name)
}

func TestSegmentKeepsEmptyNamedSection(t *testing.T) {
	e := NewExtractor(nil, nil)

	// A header with no body still yields a section so the scorer can see it.
	sections := e.Segment(CleanText("Experience\nSkills\nGo"))

	require.Len(t, sections, 2)
	assert.Equal(t, "Experience", sections[0].Name)
	assert.Equal(t, "", sections[0].RawText)
	assert.Equal(t, "Skills", sections[1].Name)
}

func TestCustomHeadersExtendLexicon(t *testing.T) {
	e := NewExtractor([]string{"patents", "  "}, nil)

	sections := e.Segment(CleanText("Patents\nUS-1234567"))

	require.Len(t, sections, 1)
	assert.Equal(t, "Patents", sections[0].Name)
}

func TestMatchHeaderIgnoresLongLines(t *testing.T) {
	e := NewExtractor(nil, nil)

	_, ok := e.matchHeader("my experience at the company taught me many things about skills")
	assert.False(t, ok)

	name, ok := e.matchHeader("  Technical Skills:  ")
	assert.True(t, ok)
	assert.Equal(t, "Skills", name)
}

func TestCleanText(t *testing.T) {
	in := "  Jane Doe  \n\n\n   Engineer \n"
	assert.Equal(t, "Jane Doe\nEngineer", CleanText(in))
}
