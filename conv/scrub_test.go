package conv

import (
	"strings"
	"testing"
)

func TestExtractThinking(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantText     string
		wantThinking string
	}{
		{
			name:         "no markup",
			content:      "Merhaba! Ben iyiyim, teşekkürler!",
			wantText:     "Merhaba! Ben iyiyim, teşekkürler!",
			wantThinking: "",
		},
		{
			name:         "leading think span",
			content:      "<think>Kullanıcı selam veriyor, kısa yanıt yeterli.</think>\n\nMerhaba! Ben iyiyim, teşekkürler!",
			wantText:     "Merhaba! Ben iyiyim, teşekkürler!",
			wantThinking: "Kullanıcı selam veriyor, kısa yanıt yeterli.",
		},
		{
			name:         "multiple spans all removed",
			content:      "<think>ilk</think>cevap<think>ikinci</think> burada",
			wantText:     "cevap burada",
			wantThinking: "ilk",
		},
		{
			name:         "multiline span",
			content:      "<think>satır bir\nsatır iki</think>\n\nSonuç hazır.",
			wantText:     "Sonuç hazır.",
			wantThinking: "satır bir\nsatır iki",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, thinking := ExtractThinking(tt.content)
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
			if thinking != tt.wantThinking {
				t.Errorf("thinking = %q, want %q", thinking, tt.wantThinking)
			}
		})
	}
}

func TestScrub(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "clean content untouched",
			content: "Go dilinde hata yönetimi açık dönüş değerleriyle yapılır.",
			want:    "Go dilinde hata yönetimi açık dönüş değerleriyle yapılır.",
		},
		{
			name:    "turkish starter paragraph dropped",
			content: "Tamam, önce soruyu anlamam gerekiyor.\n\nGo kurulumu için resmi siteden indirin.",
			want:    "Go kurulumu için resmi siteden indirin.",
		},
		{
			name:    "english starter paragraph dropped",
			content: "Okay, the user wants installation steps.\n\nDownload Go from the official site.",
			want:    "Download Go from the official site.",
		},
		{
			name:    "meta reasoning paragraph removed",
			content: "Here is my step by step reasoning for this.\n\nThe answer is 42.",
			want:    "The answer is 42.",
		},
		{
			name:    "stacked preambles all removed",
			content: "Hmm, let me look at this.\n\nŞimdi, sorunun özüne bakalım.\n\nCevap: kanal kullanın.",
			want:    "Cevap: kanal kullanın.",
		},
		{
			name:    "starter prefix needs word boundary",
			content: "Sorry, that endpoint is deprecated.\n\nUse /v2/messages instead.",
			want:    "Sorry, that endpoint is deprecated.\n\nUse /v2/messages instead.",
		},
		{
			name:    "fully scrubable content falls back to original",
			content: "Okay, let me think about this request.",
			want:    "Okay, let me think about this request.",
		},
		{
			name:    "empty stays empty",
			content: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Scrub(tt.content); got != tt.want {
				t.Errorf("Scrub() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScrubIdempotent(t *testing.T) {
	inputs := []string{
		"Tamam, önce soruyu anlamam gerekiyor.\n\nGo kurulumu için resmi siteden indirin.",
		"Okay, let me think.\n\nActually, wait.\n\nThe final answer is below.\n\nUse channels.",
		"Okay, let me think about this request.",
		"Temiz bir yanıt, dokunulmaması gerekir.",
		"Here is my step by step reasoning for this.\n\nThe answer is 42.",
		strings.Repeat("I see.\n\n", 20) + "Final answer.",
		strings.Repeat("Tamam, devam.\n\n", 30) + "Cevap burada.",
		"",
	}

	for _, input := range inputs {
		once := Scrub(input)
		twice := Scrub(once)
		if once != twice {
			t.Errorf("Scrub not idempotent for %q:\n once: %q\ntwice: %q", input, once, twice)
		}
	}
}

func TestScrubDeeplyStackedStarters(t *testing.T) {
	// Many stacked starter paragraphs must all come off in one call,
	// however deep the stack.
	input := strings.Repeat("I see.\n\n", 20) + "Final answer."
	if got := Scrub(input); got != "Final answer." {
		t.Errorf("Scrub() = %q, want %q", got, "Final answer.")
	}
}

func TestScrubNeverEmpty(t *testing.T) {
	inputs := []string{
		"Okay, let me think about this request.",
		"Tamam, bakalım neler yapabiliriz.",
		"The user wants something, and I should figure out what.",
	}
	for _, input := range inputs {
		if got := Scrub(input); strings.TrimSpace(got) == "" {
			t.Errorf("Scrub(%q) produced empty output", input)
		}
	}
}

func TestCleanContent(t *testing.T) {
	raw := "<think>Kullanıcı selam veriyor. Samimi bir karşılık uygun olur.</think>\n\nMerhaba! Ben iyiyim, teşekkürler!"
	if got := CleanContent(raw); got != "Merhaba! Ben iyiyim, teşekkürler!" {
		t.Errorf("CleanContent() = %q", got)
	}
	if HasThinkSpan(CleanContent(raw)) {
		t.Error("CleanContent() left <think> markup behind")
	}
}
