package provider

import (
	"regexp"
	"strings"

	"copyforge-core-shopify-layer/internal/domain"
)

// Section spans run from a recognized heading to the next heading or the end
// of the reply. The match is non-greedy and case-sensitive; anything the
// model writes outside a recognized section is ignored.
var (
	titleSectionRe          = sectionRegexp("TITLE")
	descriptionSectionRe    = sectionRegexp("DESCRIPTION")
	seoTitleSectionRe       = sectionRegexp("SEO_TITLE")
	seoDescriptionSectionRe = sectionRegexp("SEO_DESCRIPTION")
	keywordsSectionRe       = sectionRegexp("KEYWORDS")
)

func sectionRegexp(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)#\s*` + name + `\s*(.*?)(?:\n#\s*[A-Z_]+|\z)`)
}

// ParseProductContent extracts labeled sections out of a model's free-form
// reply. Missing headings degrade silently: title and description fall back
// to the empty string, the optional fields stay absent. Section content is
// not validated.
func ParseProductContent(raw string) domain.ProductContent {
	content := domain.ProductContent{
		Title:       extractSection(titleSectionRe, raw),
		Description: extractSection(descriptionSectionRe, raw),
	}

	content.SEOTitle = extractSection(seoTitleSectionRe, raw)
	content.SEODescription = extractSection(seoDescriptionSectionRe, raw)

	if kw := extractSection(keywordsSectionRe, raw); kw != "" {
		content.Keywords = splitKeywords(kw)
	}

	return content
}

func extractSection(re *regexp.Regexp, raw string) string {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// splitKeywords splits on commas, trims each token and drops empty ones.
// Duplicates are kept as-is.
func splitKeywords(s string) []string {
	parts := strings.Split(s, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	if len(keywords) == 0 {
		return nil
	}
	return keywords
}
