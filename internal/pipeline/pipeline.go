// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"log"

	"askwiki/internal/llm"
	"askwiki/internal/prompt"
	"askwiki/internal/search"
	"askwiki/internal/wiki"
)

// Searcher resolves a question into ordered candidate article URLs
type Searcher interface {
	Search(ctx context.Context, query string) (*search.Response, error)
}

// Extractor pulls a bounded excerpt from one article URL
type Extractor interface {
	Extract(ctx context.Context, url string) (*wiki.Excerpt, error)
}

// Completer answers a composed prompt
type Completer interface {
	Complete(ctx context.Context, prompt string) *llm.Result
}

// Outcome is the full trace of one answered question
type Outcome struct {
	Question  string
	SourceURL string
	Sources   []string
	Excerpt   string
	Prompt    string
	Answer    string
	LLM       llm.Outcome
}

// Pipeline runs the four stages in order: search, extract, compose, complete
type Pipeline struct {
	searcher  Searcher
	extractor Extractor
	completer Completer

	// RetryNextResult advances to the next search result while the
	// excerpt comes back empty, instead of trusting result 1 blindly
	RetryNextResult bool

	// Observer, if set, is called as each stage starts
	Observer func(stage string)
}

// Stage names reported to the observer
const (
	StageSearching  = "searching"
	StageExtracting = "extracting"
	StageAnswering  = "answering"
)

func (p *Pipeline) observe(stage string) {
	if p.Observer != nil {
		p.Observer(stage)
	}
}

// New wires the pipeline stages
func New(searcher Searcher, extractor Extractor, completer Completer) *Pipeline {
	return &Pipeline{
		searcher:  searcher,
		extractor: extractor,
		completer: completer,
	}
}

// Answer resolves a question end to end. Search and extraction failures
// propagate; completion failures are absorbed into the answer text.
func (p *Pipeline) Answer(ctx context.Context, question string) (*Outcome, error) {
	p.observe(StageSearching)
	resp, err := p.searcher.Search(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	links := resp.Links()

	p.observe(StageExtracting)
	excerpt, sourceURL, err := p.extract(ctx, links)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	composed := prompt.Compose(question, excerpt.Text(), []string{sourceURL})

	p.observe(StageAnswering)
	result := p.completer.Complete(ctx, composed)

	return &Outcome{
		Question:  question,
		SourceURL: sourceURL,
		Sources:   links,
		Excerpt:   excerpt.Text(),
		Prompt:    composed,
		Answer:    result.AnswerText(),
		LLM:       result.Outcome,
	}, nil
}

// extract takes the first result, optionally walking further down the list
// while pages yield empty excerpts
func (p *Pipeline) extract(ctx context.Context, links []string) (*wiki.Excerpt, string, error) {
	if len(links) == 0 {
		return nil, "", search.ErrNoResults
	}

	excerpt, err := p.extractor.Extract(ctx, links[0])
	if err != nil {
		return nil, "", err
	}
	if !excerpt.Empty() || !p.RetryNextResult {
		return excerpt, links[0], nil
	}

	for _, link := range links[1:] {
		log.Printf("[Pipeline] empty excerpt, trying next result: %s", link)
		next, err := p.extractor.Extract(ctx, link)
		if err != nil {
			return nil, "", err
		}
		if !next.Empty() {
			return next, link, nil
		}
	}

	// every candidate came up empty; fall through with the first one
	return excerpt, links[0], nil
}
