package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumedoctor/internal/extract"
	"resumedoctor/internal/types"
)

func sectioned(pairs ...[2]string) types.ExtractedText {
	et := types.ExtractedText{}
	var all []string
	for _, p := range pairs {
		et.Sections = append(et.Sections, types.Section{Name: p[0], RawText: p[1]})
		all = append(all, p[1])
	}
	for _, s := range all {
		if et.Text != "" {
			et.Text += "\n"
		}
		et.Text += s
	}
	return et
}

func TestParseFullResume(t *testing.T) {
	p := NewParser()

	et := sectioned(
		[2]string{extract.ImplicitSectionName, "Jane Doe\njane.doe@example.com\n555-123-4567"},
		[2]string{"Skills", "Go, Python; Kubernetes\nGo"},
		[2]string{"Experience", "Software Engineer, Acme Corp Jan 2020 - Mar 2023\n- Built billing services\nStaff Engineer at Globex 2023 - Present\n- Led platform team"},
	)

	candidate := p.Parse(et)

	assert.Equal(t, "Jane Doe", candidate.FullName)
	assert.Equal(t, "jane.doe@example.com", candidate.Email)
	assert.Equal(t, []string{"Go", "Python", "Kubernetes"}, candidate.Skills)

	require.Len(t, candidate.Experience, 2)
	assert.Equal(t, "Software Engineer", candidate.Experience[0].Role)
	assert.Equal(t, "Acme Corp", candidate.Experience[0].Company)
	assert.Equal(t, "Jan 2020 - Mar 2023", candidate.Experience[0].Dates)
	assert.Equal(t, "Staff Engineer", candidate.Experience[1].Role)
	assert.Equal(t, "Globex", candidate.Experience[1].Company)
	assert.Equal(t, "2023 - Present", candidate.Experience[1].Dates)
}

func TestParseEmailAndSkillsRoundTrip(t *testing.T) {
	p := NewParser()

	et := sectioned(
		[2]string{extract.ImplicitSectionName, "John Smith\njohn@example.com"},
		[2]string{"Skills", "Java, Spring, SQL"},
	)

	candidate := p.Parse(et)

	assert.Equal(t, "john@example.com", candidate.Email)
	assert.Equal(t, []string{"Java", "Spring", "SQL"}, candidate.Skills)
}

func TestParseNameSkipsContactNoise(t *testing.T) {
	p := NewParser()

	et := sectioned(
		[2]string{extract.ImplicitSectionName, "jane.doe@example.com\n+1 555 123 4567\nJane Doe"},
	)

	candidate := p.Parse(et)
	assert.Equal(t, "Jane Doe", candidate.FullName)
}

func TestParseEmailFallsBackToFullText(t *testing.T) {
	p := NewParser()

	et := sectioned(
		[2]string{extract.ImplicitSectionName, "Jane Doe"},
		[2]string{"Summary", "Reach me at jane@example.org for details"},
	)

	candidate := p.Parse(et)
	assert.Equal(t, "jane@example.org", candidate.Email)
}

func TestParseMissingEverything(t *testing.T) {
	p := NewParser()

	candidate := p.Parse(types.ExtractedText{Text: "some unstructured noise"})

	assert.Equal(t, "", candidate.FullName)
	assert.Equal(t, "", candidate.Email)
	assert.NotNil(t, candidate.Skills)
	assert.Empty(t, candidate.Skills)
	assert.Empty(t, candidate.Experience)
}

func TestParseSkillsDeduplicatesCaseInsensitively(t *testing.T) {
	p := NewParser()

	et := sectioned(
		[2]string{"Skills", "Go, go, GO; Python | python\n- Terraform"},
	)

	candidate := p.Parse(et)
	assert.Equal(t, []string{"Go", "Python", "Terraform"}, candidate.Skills)
}

func TestParseExperienceRoleFromPrecedingLine(t *testing.T) {
	p := NewParser()

	et := sectioned(
		[2]string{"Experience", "Backend Engineer\n03/2021 - 08/2022\nInitech\n- Shipped features"},
	)

	candidate := p.Parse(et)
	require.Len(t, candidate.Experience, 1)
	assert.Equal(t, "Backend Engineer", candidate.Experience[0].Role)
	assert.Equal(t, "Initech", candidate.Experience[0].Company)
	assert.Equal(t, "03/2021 - 08/2022", candidate.Experience[0].Dates)
}
