package parse

import (
	"regexp"
	"strings"

	"resumedoctor/internal/extract"
	"resumedoctor/internal/types"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// dateRangePattern anchors one experience entry: "Jan 2020 - Mar 2023",
	// "2019 – Present", "03/2021 - 08/2022" and the like.
	dateRangePattern = regexp.MustCompile(`(?i)((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{4}|\d{1,2}/\d{4}|\d{4})\s*(?:-|–|—|to)\s*((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{4}|\d{1,2}/\d{4}|\d{4}|Present|Current|Now)`)

	skillDelimiters = regexp.MustCompile(`[,;|•·/\n]`)

	// capitalizedLine matches plausible person names: two to four
	// capitalized words, no digits or symbols.
	capitalizedLine = regexp.MustCompile(`^[A-Z][a-zA-Z'.\-]+(?:\s+[A-Z][a-zA-Z'.\-]+){1,3}$`)
)

// Parser extracts structured candidate facts from segmented resume text.
// It never fails: every field degrades independently to its absent form,
// so the worst case is an almost-empty ParsedCandidate.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse derives a ParsedCandidate from extracted text.
func (p *Parser) Parse(et types.ExtractedText) types.ParsedCandidate {
	header, _ := et.SectionByName(extract.ImplicitSectionName)

	candidate := types.ParsedCandidate{
		FullName: p.parseName(header.RawText),
		Email:    p.parseEmail(header.RawText, et.Text),
		Skills:   []string{},
	}

	if skills, ok := et.SectionByName("Skills"); ok {
		candidate.Skills = p.parseSkills(skills.RawText)
	}
	if exp, ok := et.SectionByName("Experience"); ok {
		candidate.Experience = p.parseExperience(exp.RawText)
	}

	return candidate
}

// parseEmail prefers an address in the contact header, then falls back to
// the first address anywhere in the document.
func (p *Parser) parseEmail(header, full string) string {
	if m := emailPattern.FindString(header); m != "" {
		return m
	}
	return emailPattern.FindString(full)
}

// parseName takes the first capitalized line of the contact block that does
// not look like an address, phone number, or link.
func (p *Parser) parseName(header string) string {
	for _, line := range strings.Split(header, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.ContainsAny(line, "@0123456789") {
			continue
		}
		if capitalizedLine.MatchString(line) {
			return line
		}
	}
	return ""
}

// parseSkills splits the skills section on common delimiters, normalizes
// whitespace, and deduplicates case-insensitively preserving first
// occurrence.
func (p *Parser) parseSkills(text string) []string {
	seen := make(map[string]bool)
	var skills []string

	for _, token := range skillDelimiters.Split(text, -1) {
		skill := strings.TrimSpace(token)
		skill = strings.TrimPrefix(skill, "-")
		skill = strings.TrimSpace(skill)
		if skill == "" || len(skill) > 60 {
			continue
		}
		key := strings.ToLower(skill)
		if seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, skill)
	}

	if skills == nil {
		return []string{}
	}
	return skills
}

// parseExperience groups consecutive lines into entries, one per detected
// date range. The role is taken from the line carrying the date range (or
// the line before it) and the company from the adjacent line.
func (p *Parser) parseExperience(text string) []types.ExperienceEntry {
	lines := strings.Split(text, "\n")
	var entries []types.ExperienceEntry

	for i, line := range lines {
		dates := dateRangePattern.FindString(line)
		if dates == "" {
			continue
		}

		entry := types.ExperienceEntry{Dates: strings.TrimSpace(dates)}

		// The remainder of the date line usually carries the role or the
		// company: "Software Engineer, Acme Corp  2020 - 2023".
		rest := cleanEntryLine(strings.Replace(line, dates, "", 1))
		role, company := splitRoleCompany(rest)

		if role == "" && i > 0 {
			role, _ = splitRoleCompany(cleanEntryLine(lines[i-1]))
		}
		if company == "" && i+1 < len(lines) {
			next := cleanEntryLine(lines[i+1])
			if next != "" && !dateRangePattern.MatchString(lines[i+1]) && !looksLikeBullet(lines[i+1]) {
				company = next
			}
		}

		entry.Role = role
		entry.Company = company
		entries = append(entries, entry)
	}

	return entries
}

// splitRoleCompany splits "Role, Company" or "Role - Company" pairs, or
// returns the whole string as the role.
func splitRoleCompany(s string) (string, string) {
	for _, sep := range []string{",", " - ", " – ", " at ", " @ "} {
		if idx := strings.Index(s, sep); idx > 0 {
			return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+len(sep):])
		}
	}
	return s, ""
}

func cleanEntryLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "-–—|,")
	return strings.TrimSpace(s)
}

func looksLikeBullet(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "-") ||
		strings.HasPrefix(trimmed, "•") ||
		strings.HasPrefix(trimmed, "*")
}
