package prompt

import (
	"strings"
	"testing"
)

func TestCompose_ContainsTemplateParts(t *testing.T) {
	p := Compose(
		"What is the capital of France?",
		"Capital, Paris\nFrance is a country in Western Europe.",
		[]string{"https://en.wikipedia.org/wiki/France"},
	)

	for _, want := range []string{
		"Act as if no information exists in the universe",
		"What is the capital of France?",
		"Capital, Paris",
		"https://en.wikipedia.org/wiki/France",
		"Treat each paragraph as a separate piece of information",
		NoAnswerSentence,
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestCompose_TruncatesExcerpt(t *testing.T) {
	excerpt := strings.Repeat("a", MaxExcerptChars+500)
	p := Compose("q", excerpt, nil)

	run := strings.Repeat("a", MaxExcerptChars)
	if !strings.Contains(p, run) {
		t.Fatal("truncated excerpt not embedded in prompt")
	}
	if strings.Contains(p, run+"a") {
		t.Errorf("excerpt not truncated to exactly %d chars", MaxExcerptChars)
	}
}

func TestCompose_ShortExcerptUntouched(t *testing.T) {
	p := Compose("q", "tiny excerpt", nil)
	if !strings.Contains(p, "`tiny excerpt`") {
		t.Errorf("short excerpt must be embedded verbatim")
	}
}
