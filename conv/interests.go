package conv

import (
	"regexp"
	"strings"
)

// InterestGeneral is returned when no interest group matches.
const InterestGeneral = "Genel"

// InterestGroup is one independent keyword group of the multi-label
// interest classifier. Unlike themes, interests are not mutually
// exclusive.
type InterestGroup struct {
	Label   string
	Pattern *regexp.Regexp
}

// InterestRegistry lists the interest groups in output order.
var InterestRegistry = []InterestGroup{
	{"Yazılım Geliştirme", regexp.MustCompile(`(?i)\b(kod|program|yazılım|geliştir)\b`)},
	{"Web Geliştirme", regexp.MustCompile(`(?i)\b(web|site|html|css|javascript)\b`)},
	{"Yapay Zeka", regexp.MustCompile(`(?i)\b(yapay zeka|ai|machine learning|ml)\b`)},
	{"Veri Analizi", regexp.MustCompile(`(?i)\b(veri|analiz|istatistik|data)\b`)},
	{"Mobil Geliştirme", regexp.MustCompile(`(?i)\b(mobil|uygulama|app|android|ios)\b`)},
}

// Interests scans every user message (not windowed) and returns the
// matched group labels in registry order. An empty context yields the
// undetermined sentinel; a non-empty context with no matches yields
// [InterestGeneral].
func Interests(messages []Message) []string {
	if len(messages) == 0 {
		return []string{ThemeUndetermined}
	}

	var parts []string
	for _, msg := range messages {
		if msg.Role == RoleUser {
			parts = append(parts, msg.Content)
		}
	}
	text := strings.Join(parts, " ")

	var matched []string
	for _, group := range InterestRegistry {
		if group.Pattern.MatchString(text) {
			matched = append(matched, group.Label)
		}
	}
	if len(matched) == 0 {
		return []string{InterestGeneral}
	}
	return matched
}
