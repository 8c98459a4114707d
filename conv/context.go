package conv

import (
	"fmt"
	"sort"
	"strings"
)

// Context limits. Both apply together: at most MaxContextMessages
// recent messages are considered, and the packed selection never
// exceeds MaxContextWords words in total.
const (
	MaxContextMessages = 15
	MaxContextWords    = 1000
)

// ContextMessage is one entry of the upstream context payload. Only
// role and content go over the wire.
type ContextMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// relevance weights
const (
	recencyWeight  = 10.0
	themeWeight    = 5.0
	lengthWeight   = 3.0
	codeWeight     = 4.0
	lengthMinWords = 10
	lengthMaxWords = 100
)

// BuildContext assembles the context payload for an upstream call from
// the full conversation history:
//
//  1. Take the most recent MaxContextMessages messages.
//  2. Drop messages still carrying <think> markup, scrub the rest and
//     drop any left empty.
//  3. Score each survivor (recency, theme match, useful length, code)
//     and greedily pack highest-score-first under MaxContextWords.
//  4. Restore chronological order.
//  5. Prepend the system preamble unless one already leads the payload.
//
// Pure with respect to its inputs: the history is never mutated and
// identical input produces identical output.
func BuildContext(history []Message, assistantName string) []ContextMessage {
	window := history
	if len(window) > MaxContextMessages {
		window = window[len(window)-MaxContextMessages:]
	}

	var cleaned []Message
	for _, msg := range window {
		if HasThinkSpan(msg.Content) {
			continue
		}
		content := strings.TrimSpace(Scrub(msg.Content))
		if content == "" {
			continue
		}
		msg.Content = content
		cleaned = append(cleaned, msg)
	}

	selected := packByRelevance(cleaned)

	out := make([]ContextMessage, 0, len(selected)+1)
	for _, msg := range selected {
		out = append(out, ContextMessage{Role: msg.Role, Content: msg.Content})
	}

	if len(out) == 0 || out[0].Role != RoleSystem {
		preamble := ContextMessage{
			Role:    RoleSystem,
			Content: systemPreamble(selected, assistantName),
		}
		out = append([]ContextMessage{preamble}, out...)
	}
	return out
}

// packByRelevance scores the candidates, admits them highest score
// first while the running word total stays within MaxContextWords, and
// returns the admitted messages back in chronological order.
func packByRelevance(candidates []Message) []Message {
	if len(candidates) == 0 {
		return nil
	}

	theme := DominantTheme(candidates)

	order := make([]int, len(candidates))
	scores := make([]float64, len(candidates))
	for i, msg := range candidates {
		order[i] = i
		score := float64(i) / float64(len(candidates)) * recencyWeight
		if msg.Theme == theme {
			score += themeWeight
		}
		if wc := msg.WordCount(); wc >= lengthMinWords && wc <= lengthMaxWords {
			score += lengthWeight
		}
		if msg.HasCodeBlock() {
			score += codeWeight
		}
		scores[i] = score
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	words := 0
	var picked []int
	for _, idx := range order {
		wc := candidates[idx].WordCount()
		if words+wc > MaxContextWords {
			continue
		}
		words += wc
		picked = append(picked, idx)
	}
	sort.Ints(picked)

	out := make([]Message, 0, len(picked))
	for _, idx := range picked {
		out = append(out, candidates[idx])
	}
	return out
}

// systemPreamble renders the instruction block the model receives ahead
// of the packed messages. Everything in it is derived from the selected
// context, so it stays consistent with what the model actually sees.
func systemPreamble(selected []Message, assistantName string) string {
	var recent []string
	for _, msg := range selected {
		if msg.Role != RoleUser {
			continue
		}
		recent = append(recent, excerpt(msg.Content, 50)+"...")
	}
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}

	return fmt.Sprintf(`Sen %s adında yardımcı bir yapay zeka asistanısın. Kullanıcının sorularına nazik, bilgilendirici ve bağlamsal yanıtlar ver. Her yanıtında şunlara dikkat et:

1. Önceki mesajları ve bağlamı MUTLAKA hatırla ve aktif olarak kullan
2. Konuşmanın akışını takip et ve önceki konularla bağlantı kur
3. Kullanıcının önceki sorularına ve konulara açıkça referans ver
4. Tutarlı, bağlantılı ve derinlemesine yanıtlar üret
5. Konudan sapma, önceki bağlamı koru ve geliştir
6. Kullanıcının ilgi alanlarını ve tercihlerini hatırla ve bunlara göre yanıt ver
7. Konuşmayı ilerletmek için proaktif öneriler sun
8. Önceki konuşmalardan öğrendiklerini yeni yanıtlarına entegre et
9. Konuşulan konuya özel uzmanlık göster ve derinlemesine bilgi ver
10. Her yanıtında konuyla ilgili ek kaynaklar ve örnekler sun
11. Konuşmanın ana temasını belirle ve buna sadık kal
12. Kullanıcının ilgi alanlarına göre konuyu genişlet

Mevcut konuşma bağlamı:
- Ana Tema: %s
- Geçmiş mesaj sayısı: %d
- Son konular: %s
- İlgi Alanları: %s`,
		assistantName,
		DominantTheme(selected),
		len(selected),
		strings.Join(recent, "\n- "),
		strings.Join(Interests(selected), ", "))
}

// excerpt truncates content to at most n runes.
func excerpt(content string, n int) string {
	runes := []rune(content)
	if len(runes) <= n {
		return content
	}
	return string(runes[:n])
}
