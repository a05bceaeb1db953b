// Package keywords compares a resume against an optional job description
// and reports the keyword phrases the resume is missing.
package keywords

import (
	"regexp"
	"strings"

	"resumedoctor/internal/types"
)

// technicalTerms is a fixed dictionary of lowercase technology terms that
// count as keywords even when they appear uncapitalized in a job
// description.
var technicalTerms = map[string]bool{
	"python": true, "java": true, "go": true, "golang": true, "rust": true,
	"javascript": true, "typescript": true, "sql": true, "nosql": true,
	"aws": true, "gcp": true, "azure": true, "docker": true,
	"kubernetes": true, "terraform": true, "ansible": true, "linux": true,
	"react": true, "angular": true, "vue": true, "node.js": true,
	"postgresql": true, "mysql": true, "mongodb": true, "redis": true,
	"kafka": true, "rabbitmq": true, "grpc": true, "graphql": true,
	"rest": true, "ci/cd": true, "git": true, "agile": true, "scrum": true,
	"spark": true, "hadoop": true, "tensorflow": true, "pytorch": true,
	"spring": true, "django": true, "flask": true, "kotlin": true,
	"swift": true, "c++": true, "c#": true, "scala": true, "ruby": true,
}

// phraseSplitter deliberately excludes the slash so compound terms such
// as "CI/CD" survive as one token.
var (
	phraseSplitter = regexp.MustCompile(`[,;•·|\n()]+`)
	capitalized    = regexp.MustCompile(`^[A-Z][A-Za-z0-9+#./\-]*$`)
)

// Matcher reports job-description keywords absent from a resume.
type Matcher struct{}

func NewMatcher() *Matcher {
	return &Matcher{}
}

// Missing returns, in first-occurrence order, every keyword phrase of the
// job description that appears neither in the resume text nor in the
// extracted skill set (case-insensitive substring match). An absent or
// empty job description yields an empty list, never an error.
func (m *Matcher) Missing(jobDescription string, et types.ExtractedText, candidate types.ParsedCandidate) []string {
	if strings.TrimSpace(jobDescription) == "" {
		return []string{}
	}

	haystack := strings.ToLower(et.Text)
	for _, skill := range candidate.Skills {
		haystack += "\n" + strings.ToLower(skill)
	}

	missing := []string{}
	for _, keyword := range ExtractKeywords(jobDescription) {
		if !strings.Contains(haystack, strings.ToLower(keyword)) {
			missing = append(missing, keyword)
		}
	}
	return missing
}

// ExtractKeywords tokenizes a job description into candidate keyword
// phrases: capitalized standalone terms plus dictionary technology terms,
// deduplicated case-insensitively in first-occurrence order.
func ExtractKeywords(jobDescription string) []string {
	seen := make(map[string]bool)
	var keywords []string

	add := func(term string) {
		key := strings.ToLower(term)
		if seen[key] {
			return
		}
		seen[key] = true
		keywords = append(keywords, term)
	}

	for _, chunk := range phraseSplitter.Split(jobDescription, -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}

		// A short delimiter-separated chunk is a phrase in its own right
		// ("Machine Learning", "CI/CD pipelines" stays word-scanned below).
		words := strings.Fields(chunk)
		if len(words) <= 3 && allCapitalizedOrTechnical(words) {
			add(chunk)
			continue
		}

		for _, word := range words {
			word = strings.Trim(word, ".,:;!?\"'")
			if word == "" {
				continue
			}
			if technicalTerms[strings.ToLower(word)] {
				add(word)
			} else if len(word) > 2 && capitalized.MatchString(word) && !sentenceNoise(word) {
				add(word)
			}
		}
	}

	return keywords
}

func allCapitalizedOrTechnical(words []string) bool {
	for _, word := range words {
		word = strings.Trim(word, ".,:;!?\"'")
		if word == "" {
			return false
		}
		if !capitalized.MatchString(word) && !technicalTerms[strings.ToLower(word)] {
			return false
		}
	}
	return len(words) > 0
}

// sentenceNoise filters capitalized words that are common sentence
// starters rather than technology or domain terms.
var noiseWords = map[string]bool{
	"the": true, "a": true, "an": true, "we": true, "you": true,
	"our": true, "this": true, "that": true, "your": true, "they": true,
	"must": true, "should": true, "strong": true, "experience": true,
	"requirements": true, "responsibilities": true, "knowledge": true,
	"familiarity": true, "proficiency": true, "years": true, "plus": true,
	"with": true, "and": true, "for": true, "ability": true, "work": true,
	"team": true, "skills": true, "required": true, "preferred": true,
	"looking": true, "seeking": true, "join": true, "about": true,
}

func sentenceNoise(word string) bool {
	return noiseWords[strings.ToLower(word)]
}
