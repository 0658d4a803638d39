package matching

import (
	"strings"
	"unicode/utf8"
)

// fieldProfile ties a study field to the keywords searched in offers and the company
// sectors considered a natural fit.
type fieldProfile struct {
	aliases  []string
	keywords []string
	sectors  []string
}

// fieldProfiles is checked in order; the first profile with an alias contained in the
// student's field wins.
var fieldProfiles = []fieldProfile{
	{
		aliases: []string{"computing", "computer", "informatique", "information technology", "software engineering"},
		keywords: []string{
			"computing", "dev", "development", "java", "python", "web", "mobile", "data", "ai",
			"artificial intelligence", "machine learning", "network", "cybersecurity", "cloud", "software",
		},
		sectors: []string{"computing", "informatique", "tech", "digital", "it", "software", "logiciel"},
	},
	{
		aliases:  []string{"management", "gestion", "business administration"},
		keywords: []string{"management", "administration", "business", "organization", "organisation", "strategy", "project"},
		sectors:  []string{"management", "gestion", "business", "administration"},
	},
	{
		aliases: []string{"marketing"},
		keywords: []string{
			"marketing", "sales", "commercial", "communication", "digital", "social media", "advertising", "brand", "seo",
		},
		sectors: []string{"marketing", "communication", "advertising", "publicité", "media", "médias"},
	},
	{
		aliases: []string{"finance"},
		keywords: []string{
			"finance", "financial", "bank", "trading", "investment", "insurance", "financial analysis", "stock market",
			"treasury", "credit", "risk", "portfolio", "hedge fund",
		},
		sectors: []string{"finance", "bank", "banque", "insurance", "assurance", "investment", "trading", "stock"},
	},
	{
		aliases: []string{"accounting", "comptabilité", "comptabilite"},
		keywords: []string{
			"accounting", "accountant", "audit", "control", "tax", "balance sheet", "management control",
			"consolidation", "reporting", "chartered accountant", "accounting standards", "ifrs", "gaap",
		},
		sectors: []string{"accounting", "comptabilité", "audit", "chartered", "advisory", "consulting", "conseil", "fiduciary"},
	},
	{
		aliases:  []string{"human resources", "ressources humaines"},
		keywords: []string{"hr", "human resources", "recruitment", "recruiting", "training", "payroll", "talent", "career"},
	},
}

// universalSectors accept every field.
var universalSectors = []string{"advisory", "consulting", "conseil"}

var (
	lowerLevelMarkers  = []string{"bachelor", "licence", "license", "undergraduate", "bsc"}
	higherLevelMarkers = []string{"master", "msc", "mba", "engineer", "ingénieur"}
)

type academicLevel int

const (
	levelUnknown academicLevel = iota
	levelLower
	levelHigher
)

func classifyLevel(level string) academicLevel {
	normalized := normalizeText(level)
	switch {
	case containsAny(normalized, lowerLevelMarkers):
		return levelLower
	case containsAny(normalized, higherLevelMarkers):
		return levelHigher
	}
	return levelUnknown
}

func lookupField(field string) (fieldProfile, bool) {
	normalized := normalizeText(field)
	if normalized == "" {
		return fieldProfile{}, false
	}
	for _, p := range fieldProfiles {
		if containsAny(normalized, p.aliases) {
			return p, true
		}
	}
	return fieldProfile{}, false
}

// fieldKeywords returns the keywords for a study field. Unknown fields search for the
// field name itself; an empty field has no keywords.
func fieldKeywords(field string) []string {
	if p, ok := lookupField(field); ok {
		return p.keywords
	}
	normalized := normalizeText(field)
	if normalized == "" {
		return nil
	}
	return []string{normalized}
}

// countHits counts distinct keywords contained in the haystack.
func countHits(haystack string, keywords []string) int {
	seen := make(map[string]struct{}, len(keywords))
	hits := 0
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		if strings.Contains(haystack, kw) {
			hits++
		}
	}
	return hits
}

// titleEndings pairs a job-title ending with the sector word endings that name the
// same activity, as in analyst/analysis or consultant/consulting. An empty sector
// ending matches the bare stem, so "designer" matches "design".
var titleEndings = []struct {
	title  string
	sector []string
}{
	{"yst", []string{"ysis", "ytics"}},
	{"ist", []string{"y", "ics", "ism"}},
	{"ant", []string{"ancy", "ing"}},
	{"er", []string{"", "ing", "ment"}},
	{"or", []string{"ion", "ing"}},
}

// titleInSector reports whether the sector text contains the job title. A title with a
// listed ending also matches the sector word built from its stem and a paired ending,
// as a whole word: "analyst" matches "analysis" but "driver" does not match "drives".
func titleInSector(title, sector string) bool {
	title = normalizeText(title)
	sector = normalizeText(sector)
	if title == "" || sector == "" {
		return false
	}
	if strings.Contains(sector, title) {
		return true
	}
	for _, e := range titleEndings {
		stem, ok := strings.CutSuffix(title, e.title)
		if !ok || utf8.RuneCountInString(stem) < 3 {
			continue
		}
		for _, ending := range e.sector {
			if containsWordPrefix(sector, stem+ending) {
				return true
			}
		}
		return false
	}
	return false
}

// containsWordPrefix reports whether word occurs in s and is not followed by a letter.
func containsWordPrefix(s, word string) bool {
	for offset := 0; offset <= len(s); {
		idx := strings.Index(s[offset:], word)
		if idx < 0 {
			return false
		}
		end := offset + idx + len(word)
		if end == len(s) {
			return true
		}
		if r, _ := utf8.DecodeRuneInString(s[end:]); !isLetter(r) {
			return true
		}
		offset += idx + 1
	}
	return false
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || r > utf8.RuneSelf
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}
