package conv

import (
	"regexp"
	"strings"
)

// Theme sentinels. ThemeUndetermined means the window held no user
// messages at all; ThemeGeneral means user messages existed but no
// category matched. Callers must treat these as distinct values.
const (
	ThemeUndetermined = "Henüz belirlenmedi"
	ThemeGeneral      = "Genel Konuşma"
)

// themeWindow is how many trailing messages the classifier considers.
const themeWindow = 8

// recencyBonus is added to a category whose pattern also matches the
// most recent user message.
const recencyBonus = 2

// ThemePattern is one entry of the theme registry: a label plus the
// keyword pattern that scores it.
type ThemePattern struct {
	Label   string
	Pattern *regexp.Regexp
}

// ThemeRegistry is the fixed, ordered set of theme categories. The
// order is an observable tie-break: when two categories score equally,
// the one listed first wins. Patterns are bilingual (Turkish/English).
// Go's \b is ASCII-only, so keywords that begin or end with a
// non-ASCII letter (öğren, ödev, iş, şirket, öneri, çözüm) can never
// match and are left out; inner non-ASCII letters are fine.
var ThemeRegistry = []ThemePattern{
	{"programlama", regexp.MustCompile(`(?i)\b(kod|program|javascript|python|html|css|api|fonksiyon|değişken|class|interface|framework|library|debug|hata|test|git|database|sql|react|vue|angular)\b`)},
	{"teknoloji", regexp.MustCompile(`(?i)\b(bilgisayar|yazılım|donanım|internet|web|uygulama|sistem|network|veri|cloud|güvenlik|yapay zeka|ai|blockchain|iot|mobil|android|ios)\b`)},
	{"eğitim", regexp.MustCompile(`(?i)\b(ders|eğitim|okul|sınav|kurs|akademik|araştırma|proje|sunum|rapor|analiz)\b`)},
	{"iş ve kariyer", regexp.MustCompile(`(?i)\b(kariyer|mülakat|cv|pozisyon|deneyim|remote|uzaktan|ofis|takım|proje|yönetim|liderlik)\b`)},
	{"genel", regexp.MustCompile(`(?i)\b(yardım|nasıl|nedir|neden|ne zaman|kimdir|tavsiye|fikir|düşünce|problem)\b`)},
}

// DominantTheme returns the single highest-weighted theme label for the
// given message window, ThemeGeneral when every category scores zero,
// or ThemeUndetermined when the window holds no user messages.
//
// Weights: one point per pattern match across the concatenated content
// of the last themeWindow user messages, plus recencyBonus when the
// final message of the sequence is a user message matching the pattern.
// Deterministic for identical input.
func DominantTheme(messages []Message) string {
	if len(messages) == 0 {
		return ThemeUndetermined
	}

	window := messages
	if len(window) > themeWindow {
		window = window[len(window)-themeWindow:]
	}

	var parts []string
	for _, msg := range window {
		if msg.Role == RoleUser {
			parts = append(parts, msg.Content)
		}
	}
	if len(parts) == 0 {
		return ThemeUndetermined
	}
	text := strings.Join(parts, " ")

	var lastUser string
	if last := messages[len(messages)-1]; last.Role == RoleUser {
		lastUser = last.Content
	}

	bestIdx := -1
	bestWeight := 0
	for i, theme := range ThemeRegistry {
		weight := len(theme.Pattern.FindAllString(text, -1))
		if lastUser != "" && theme.Pattern.MatchString(lastUser) {
			weight += recencyBonus
		}
		// Strictly-greater keeps the first registry entry on ties.
		if weight > bestWeight {
			bestWeight = weight
			bestIdx = i
		}
	}

	if bestIdx < 0 {
		return ThemeGeneral
	}
	return ThemeRegistry[bestIdx].Label
}
