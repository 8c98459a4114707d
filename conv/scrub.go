package conv

import (
	"regexp"
	"strings"
)

// thinkSpanRe matches an explicit <think>…</think> reasoning span plus
// up to two trailing newlines.
var thinkSpanRe = regexp.MustCompile(`(?s)<think>(.*?)</think>\n?\n?`)

// thinkingStarters are discourse phrases that open a leaked reasoning
// preamble. A first paragraph beginning with one of these (boundary-aware,
// case-insensitive) is dropped before the regex passes run. Bilingual:
// the upstream models reply in both Turkish and English.
var thinkingStarters = []string{
	"okay", "ok", "let me", "i need to", "i should", "i'll", "i will", "i can",
	"i'm going to", "let's", "wait", "hmm", "let me think", "let's see",
	"i think", "maybe", "actually", "so", "alright", "right", "now", "first",
	"the user", "i understand", "i see",
	"tamam", "peki", "şimdi", "öncelikle", "ilk olarak", "bakalım", "düşüneyim",
	"belki", "aslında", "şöyle", "hımm", "şey", "evet", "hayır",
	"kullanıcı", "anladım", "görüyorum",
}

// preambleRes remove a reasoning-preamble paragraph the content still
// begins with. The trailing blank line is consumed along with the match;
// the final trim makes that equivalent to keeping it.
var preambleRes = []*regexp.Regexp{
	regexp.MustCompile(`(?is)^(okay|ok|let me|i need to|i should|i'll|i will|i can|i'm going to|let's|wait|hmm|i think|maybe|actually|so|alright|right|now|first|next|then|finally|in conclusion|to summarize|in summary)[,\s].*?(\n\n|\z)`),
	regexp.MustCompile(`(?is)^(the user is asking|the user wants|the user needs|i understand that|i see that)[,\s].*?(\n\n|\z)`),
	regexp.MustCompile(`(?is)^(tamam|peki|şimdi|öncelikle|ilk olarak|bakalım|düşüneyim|belki|aslında|şöyle|hımm|şey|evet|hayır|yani)[,\s].*?(\n\n|\z)`),
	regexp.MustCompile(`(?is)^(sonuç olarak|özetlemek gerekirse|özetle|kullanıcı istiyor|kullanıcı soruyor|kullanıcının isteği|anladığım kadarıyla|görüyorum ki)[,\s].*?(\n\n|\z)`),
}

// metaParagraphRes remove whole leading paragraphs that explicitly talk
// about the reasoning process itself.
var metaParagraphRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^.*?(düşünme sürecim|düşünce sürecim|düşünüyorum|analiz ediyorum).*?\n\n`),
	regexp.MustCompile(`(?i)^.*?(my thinking process|let me think|i'm thinking|analyzing).*?\n\n`),
	regexp.MustCompile(`(?i)^.*?(adım adım|step by step).*?\n\n`),
}

// HasThinkSpan reports whether content still carries explicit
// <think> markup.
func HasThinkSpan(content string) bool {
	return strings.Contains(content, "<think>")
}

// ExtractThinking splits explicit <think> markup out of content. The
// first span's inner text is returned as thinking (for the optional
// "show thinking" view); all spans are removed from the returned text.
// Content without markup is returned unchanged.
func ExtractThinking(content string) (text, thinking string) {
	m := thinkSpanRe.FindStringSubmatch(content)
	if m == nil {
		return content, ""
	}
	thinking = strings.TrimSpace(m[1])
	text = thinkSpanRe.ReplaceAllString(content, "")
	return text, thinking
}

// Scrub removes implicit chain-of-thought leakage: a starter-phrase
// first paragraph, reasoning-preamble sentences the content begins
// with, and leading meta-reasoning paragraphs. If scrubbing would
// produce an empty result the original content is returned instead —
// the only available content is never destroyed.
//
// The passes run to a fixpoint, which makes Scrub idempotent:
// Scrub(Scrub(x)) == Scrub(x) for all x. Each pass that changes the
// text strictly shortens it, so the loop terminates.
func Scrub(content string) string {
	if content == "" {
		return ""
	}

	cur := strings.TrimSpace(content)
	for {
		next := scrubOnce(cur)
		if next == cur {
			break
		}
		cur = next
	}

	if cur == "" {
		return content
	}
	return cur
}

// CleanContent applies the full scrubbing pipeline: explicit markup
// removal followed by Scrub. The extracted thinking text is discarded;
// use ExtractThinking when it is needed.
func CleanContent(content string) string {
	text, _ := ExtractThinking(content)
	return Scrub(text)
}

func scrubOnce(content string) string {
	c := content

	// A first paragraph opening with a discourse starter is dropped
	// entirely, but only when more content follows it.
	if head, rest, ok := strings.Cut(c, "\n\n"); ok {
		if startsWithStarter(strings.TrimSpace(head)) {
			c = rest
		}
	}

	for _, re := range preambleRes {
		c = re.ReplaceAllString(c, "")
	}
	for _, re := range metaParagraphRes {
		c = re.ReplaceAllString(c, "")
	}

	return strings.TrimSpace(c)
}

// startsWithStarter is a boundary-aware case-insensitive prefix check:
// the starter must not be followed directly by another letter, so
// "Sorry" does not trip over "so".
func startsWithStarter(paragraph string) bool {
	lower := strings.ToLower(paragraph)
	for _, starter := range thinkingStarters {
		if !strings.HasPrefix(lower, starter) {
			continue
		}
		rest := lower[len(starter):]
		if rest == "" {
			return true
		}
		r := []rune(rest)[0]
		if !isLetter(r) {
			return true
		}
	}
	return false
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 0x7f && isUnicodeLetter(r)
}

func isUnicodeLetter(r rune) bool {
	// Turkish letters are the only non-ASCII case that matters here.
	switch r {
	case 'ç', 'ğ', 'ı', 'i', 'ö', 'ş', 'ü', 'Ç', 'Ğ', 'İ', 'Ö', 'Ş', 'Ü':
		return true
	}
	return false
}
