package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"askwiki/internal/llm"
	"askwiki/internal/search"
	"askwiki/internal/wiki"
)

type stubSearcher struct {
	links []string
	err   error
}

func (s *stubSearcher) Search(ctx context.Context, query string) (*search.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	results := make([]search.Result, 0, len(s.links))
	for _, link := range s.links {
		results = append(results, search.Result{Link: link})
	}
	return &search.Response{Query: query, Results: results}, nil
}

type stubExtractor struct {
	excerpts map[string]*wiki.Excerpt
	calls    []string
}

func (e *stubExtractor) Extract(ctx context.Context, url string) (*wiki.Excerpt, error) {
	e.calls = append(e.calls, url)
	if excerpt, ok := e.excerpts[url]; ok {
		return excerpt, nil
	}
	return &wiki.Excerpt{URL: url}, nil
}

type stubCompleter struct {
	result *llm.Result
	prompt string
}

func (c *stubCompleter) Complete(ctx context.Context, prompt string) *llm.Result {
	c.prompt = prompt
	return c.result
}

func TestAnswer_EndToEnd(t *testing.T) {
	franceURL := "https://en.wikipedia.org/wiki/France"
	searcher := &stubSearcher{links: []string{franceURL}}
	extractor := &stubExtractor{excerpts: map[string]*wiki.Excerpt{
		franceURL: {
			URL:     franceURL,
			Infobox: "Capital, Paris",
			Paragraphs: []string{
				"France is a country in Western Europe.",
				"Its capital is Paris.",
				"Paris is the largest city of France.",
			},
		},
	}}
	completer := &stubCompleter{result: &llm.Result{
		Outcome: llm.OutcomeAnswered,
		Text:    "The capital of France is Paris.",
	}}

	p := New(searcher, extractor, completer)
	outcome, err := p.Answer(context.Background(), "What is the capital of France?")
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	if outcome.Answer != "The capital of France is Paris." {
		t.Errorf("stub answer not echoed unmodified: %q", outcome.Answer)
	}
	if outcome.SourceURL != franceURL {
		t.Errorf("expected first result used, got %s", outcome.SourceURL)
	}
	if !strings.Contains(completer.prompt, "Act as if no information exists in the universe") {
		t.Errorf("prompt missing instruction template")
	}
	if !strings.Contains(completer.prompt, "Capital, Paris") {
		t.Errorf("prompt missing infobox-derived text")
	}
}

func TestAnswer_SearchFailurePropagates(t *testing.T) {
	searcher := &stubSearcher{err: search.ErrNoResults}
	p := New(searcher, &stubExtractor{}, &stubCompleter{})

	_, err := p.Answer(context.Background(), "q")
	if !errors.Is(err, search.ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestAnswer_EmptyExcerptStillAnswers(t *testing.T) {
	// first result only, no retry: an empty excerpt flows downstream
	searcher := &stubSearcher{links: []string{"https://a", "https://b"}}
	extractor := &stubExtractor{}
	completer := &stubCompleter{result: &llm.Result{Outcome: llm.OutcomeProviderError}}

	p := New(searcher, extractor, completer)
	outcome, err := p.Answer(context.Background(), "q")
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if len(extractor.calls) != 1 || extractor.calls[0] != "https://a" {
		t.Errorf("expected only the first result extracted, got %v", extractor.calls)
	}
	if outcome.Answer != llm.CannotAnswerMessage {
		t.Errorf("expected fallback message, got %q", outcome.Answer)
	}
}

func TestAnswer_RetryNextResult(t *testing.T) {
	searcher := &stubSearcher{links: []string{"https://empty", "https://full"}}
	extractor := &stubExtractor{excerpts: map[string]*wiki.Excerpt{
		"https://full": {
			URL:        "https://full",
			Paragraphs: []string{"This page actually has some text on it."},
		},
	}}
	completer := &stubCompleter{result: &llm.Result{Outcome: llm.OutcomeAnswered, Text: "ok"}}

	p := New(searcher, extractor, completer)
	p.RetryNextResult = true

	outcome, err := p.Answer(context.Background(), "q")
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if outcome.SourceURL != "https://full" {
		t.Errorf("expected second result after empty first, got %s", outcome.SourceURL)
	}
	if len(extractor.calls) != 2 {
		t.Errorf("expected 2 extraction calls, got %v", extractor.calls)
	}
}

func TestAnswer_ObserverSeesStages(t *testing.T) {
	searcher := &stubSearcher{links: []string{"https://a"}}
	completer := &stubCompleter{result: &llm.Result{Outcome: llm.OutcomeAnswered, Text: "ok"}}

	p := New(searcher, &stubExtractor{}, completer)
	stages := []string{}
	p.Observer = func(stage string) { stages = append(stages, stage) }

	if _, err := p.Answer(context.Background(), "q"); err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	want := []string{StageSearching, StageExtracting, StageAnswering}
	if len(stages) != len(want) {
		t.Fatalf("expected %v, got %v", want, stages)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Errorf("stage %d: expected %s, got %s", i, want[i], stages[i])
		}
	}
}
