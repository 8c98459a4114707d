package conv

import (
	"fmt"
	"strings"
	"testing"
)

func TestBuildContextSystemPreamble(t *testing.T) {
	history := []Message{
		{Role: RoleUser, Content: "Go dilinde kod yazarken hata yönetimi nasıl yapılır?"},
		{Role: RoleAssistant, Content: "Hata yönetimi açık dönüş değerleriyle yapılır."},
	}

	ctx := BuildContext(history, "CepyX")
	if len(ctx) == 0 {
		t.Fatal("BuildContext() returned empty context")
	}
	if ctx[0].Role != RoleSystem {
		t.Fatalf("first entry role = %q, want %q", ctx[0].Role, RoleSystem)
	}

	preamble := ctx[0].Content
	for _, want := range []string{
		"CepyX",
		"Ana Tema:",
		fmt.Sprintf("Geçmiş mesaj sayısı: %d", len(ctx)-1),
		"İlgi Alanları:",
	} {
		if !strings.Contains(preamble, want) {
			t.Errorf("preamble missing %q", want)
		}
	}
	if !strings.Contains(preamble, "programlama") {
		t.Errorf("preamble theme = %q section, want programlama mentioned", preamble)
	}
}

func TestBuildContextPreambleNotDuplicated(t *testing.T) {
	history := []Message{
		{Role: RoleSystem, Content: "Özel sistem yönergesi."},
		{Role: RoleUser, Content: "Merhaba"},
	}
	ctx := BuildContext(history, "CepyX")
	if ctx[0].Content != "Özel sistem yönergesi." {
		t.Fatalf("leading system message replaced: %q", ctx[0].Content)
	}
	for _, m := range ctx[1:] {
		if m.Role == RoleSystem {
			t.Errorf("unexpected extra system entry: %q", m.Content)
		}
	}
}

func TestBuildContextMessageLimit(t *testing.T) {
	var history []Message
	for i := 0; i < 40; i++ {
		history = append(history, Message{Role: RoleUser, Content: fmt.Sprintf("soru numarası %d hakkında detay", i)})
	}

	ctx := BuildContext(history, "CepyX")
	if got := len(ctx) - 1; got > MaxContextMessages {
		t.Errorf("context holds %d messages, want at most %d", got, MaxContextMessages)
	}
	// Only the most recent window is eligible.
	for _, m := range ctx[1:] {
		var n int
		fmt.Sscanf(m.Content, "soru numarası %d", &n)
		if n < 40-MaxContextMessages {
			t.Errorf("message %d outside the recent window was included", n)
		}
	}
}

func TestBuildContextWordBudget(t *testing.T) {
	huge := strings.Repeat("kelime ", 1200)
	history := []Message{
		{Role: RoleUser, Content: "kısa bir soru"},
		{Role: RoleAssistant, Content: huge},
		{Role: RoleUser, Content: "bir soru daha"},
	}

	ctx := BuildContext(history, "CepyX")
	words := 0
	for _, m := range ctx[1:] {
		if strings.Contains(m.Content, "kelime kelime") {
			t.Error("over-budget message was included")
		}
		words += len(strings.Fields(m.Content))
	}
	if words > MaxContextWords {
		t.Errorf("context packs %d words, want at most %d", words, MaxContextWords)
	}
}

func TestBuildContextChronologicalOrder(t *testing.T) {
	// Mixed scores: the code-bearing message outranks its neighbours
	// during packing, but the output must come back in history order.
	history := []Message{
		{Role: RoleUser, Content: "sıra 0 merhaba"},
		{Role: RoleAssistant, Content: "sıra 1 kısa yanıt"},
		{Role: RoleUser, Content: "sıra 2 ```go\nfmt.Println(42)\n``` bu kod neden çalışmıyor"},
		{Role: RoleAssistant, Content: "sıra 3 println büyük harfle başlar"},
	}

	ctx := BuildContext(history, "CepyX")
	prev := -1
	for _, m := range ctx[1:] {
		var n int
		fmt.Sscanf(m.Content, "sıra %d", &n)
		if n <= prev {
			t.Fatalf("context out of chronological order at %q", m.Content)
		}
		prev = n
	}
}

func TestBuildContextDropsThinkSpans(t *testing.T) {
	history := []Message{
		{Role: RoleUser, Content: "Merhaba! Nasılsın?"},
		{Role: RoleAssistant, Content: "<think>Kullanıcı selam veriyor.</think>\n\nMerhaba! Ben iyiyim."},
		{Role: RoleUser, Content: "Sevindim!"},
	}

	ctx := BuildContext(history, "CepyX")
	for _, m := range ctx {
		if strings.Contains(m.Content, "<think>") {
			t.Errorf("context leaked think markup: %q", m.Content)
		}
		if strings.Contains(m.Content, "Ben iyiyim") {
			t.Errorf("message with raw think markup should have been dropped entirely: %q", m.Content)
		}
	}
}

func TestBuildContextScrubsStoredReplies(t *testing.T) {
	history := []Message{
		{Role: RoleUser, Content: "Go kurulumunu anlatır mısın?"},
		{Role: RoleAssistant, Content: "Tamam, önce soruyu anlamam gerekiyor.\n\nResmi siteden indirip PATH ayarlayın."},
	}

	ctx := BuildContext(history, "CepyX")
	var reply string
	for _, m := range ctx {
		if m.Role == RoleAssistant {
			reply = m.Content
		}
	}
	if reply != "Resmi siteden indirip PATH ayarlayın." {
		t.Errorf("stored reply not scrubbed: %q", reply)
	}
}

func TestBuildContextThemeBonusUsesStoredTheme(t *testing.T) {
	// The theme bonus compares the message's stored theme label against
	// the dominant theme, not keyword occurrence in the content. The
	// long keyword-free message carries the dominant theme label and
	// must beat the later unthemed message for the word budget.
	themed := Message{Role: RoleUser, Content: strings.Repeat("dolgu ", 600), Theme: "programlama"}
	unthemed := Message{Role: RoleUser, Content: strings.Repeat("metin ", 600)}
	history := []Message{
		{Role: RoleUser, Content: "kod python fonksiyon yazalım", Theme: "programlama"},
		{Role: RoleUser, Content: "debug hata test lazım", Theme: "programlama"},
		themed,
		unthemed,
	}

	ctx := BuildContext(history, "CepyX")
	var hasThemed, hasUnthemed bool
	for _, m := range ctx {
		if strings.Contains(m.Content, "dolgu") {
			hasThemed = true
		}
		if strings.Contains(m.Content, "metin") {
			hasUnthemed = true
		}
	}
	if !hasThemed {
		t.Error("message with matching stored theme lost the word budget")
	}
	if hasUnthemed {
		t.Error("unthemed message was packed over the stored-theme match")
	}
}

func TestBuildContextDeterministic(t *testing.T) {
	var history []Message
	for i := 0; i < 20; i++ {
		history = append(history, Message{Role: RoleUser, Content: fmt.Sprintf("kod sorusu %d python ile ilgili", i)})
	}
	first := BuildContext(history, "CepyX")
	for i := 0; i < 5; i++ {
		again := BuildContext(history, "CepyX")
		if len(again) != len(first) {
			t.Fatalf("context length changed between runs: %d vs %d", len(first), len(again))
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("context entry %d changed between runs", j)
			}
		}
	}
}
