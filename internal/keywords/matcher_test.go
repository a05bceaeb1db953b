package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resumedoctor/internal/types"
)

func TestExtractKeywordsFromSentence(t *testing.T) {
	keywords := ExtractKeywords(
		"We are looking for experience with Python, AWS and Docker.")

	assert.Equal(t, []string{"Python", "AWS", "Docker"}, keywords)
}

func TestExtractKeywordsDeduplicates(t *testing.T) {
	keywords := ExtractKeywords("Python, python, PYTHON")

	assert.Equal(t, []string{"Python"}, keywords)
}

func TestExtractKeywordsKeepsShortCapitalizedPhrases(t *testing.T) {
	keywords := ExtractKeywords(
		"Experience with Kubernetes, Machine Learning, and Go")

	assert.Equal(t, []string{"Kubernetes", "Machine Learning", "Go"}, keywords)
}

func TestExtractKeywordsKeepsCompoundTechnicalTerms(t *testing.T) {
	keywords := ExtractKeywords("Experience building CI/CD pipelines on AWS")

	assert.Equal(t, []string{"CI/CD", "AWS"}, keywords)
}

func TestMissingCompoundTechnicalTerm(t *testing.T) {
	m := NewMatcher()

	et := types.ExtractedText{Text: "Built CI/CD automation for deployments"}

	missing := m.Missing("CI/CD, Jenkins", et, types.ParsedCandidate{})

	assert.Equal(t, []string{"Jenkins"}, missing)
}

func TestExtractKeywordsFiltersSentenceNoise(t *testing.T) {
	keywords := ExtractKeywords(
		"We are seeking a Strong candidate. Requirements include years of experience and the ability to work in a team.")

	assert.Empty(t, keywords)
}

func TestMissingReportsAbsentKeywordsInOrder(t *testing.T) {
	m := NewMatcher()

	et := types.ExtractedText{Text: "Seasoned Go and Python developer"}
	candidate := types.ParsedCandidate{Skills: []string{"Docker"}}

	missing := m.Missing(
		"Must know Python, AWS, Docker and Terraform",
		et, candidate)

	assert.Equal(t, []string{"AWS", "Terraform"}, missing)
}

func TestMissingMatchesAgainstSkillList(t *testing.T) {
	m := NewMatcher()

	// Kubernetes appears only in the parsed skill list, not the raw text.
	et := types.ExtractedText{Text: "resume body"}
	candidate := types.ParsedCandidate{Skills: []string{"Kubernetes"}}

	missing := m.Missing("Requires Kubernetes", et, candidate)

	assert.Empty(t, missing)
}

func TestMissingEmptyJobDescription(t *testing.T) {
	m := NewMatcher()

	missing := m.Missing("   ", types.ExtractedText{Text: "anything"}, types.ParsedCandidate{})

	assert.NotNil(t, missing)
	assert.Empty(t, missing)
}

func TestMissingIsCaseInsensitive(t *testing.T) {
	m := NewMatcher()

	et := types.ExtractedText{Text: "worked with TERRAFORM and aws"}

	missing := m.Missing("Terraform, AWS, GCP", et, types.ParsedCandidate{})

	assert.Equal(t, []string{"GCP"}, missing)
}
