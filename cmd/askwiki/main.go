package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"askwiki/internal/config"
	"askwiki/internal/llm"
	"askwiki/internal/pipeline"
	"askwiki/internal/search"
	"askwiki/internal/wiki"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to config file")
	debug := flag.Bool("debug", false, "Run in debug mode")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: askwiki [--debug] [--config path] \"question\"")
		os.Exit(1)
	}
	question := flag.Arg(0)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	searchTimeout := time.Duration(cfg.Search.TimeoutSeconds) * time.Second
	searcher := search.NewClient(cfg.Search.Endpoint, cfg.Search.APIKey, cfg.Search.EngineID, cfg.Search.MaxResults, searchTimeout)
	extractor := wiki.NewExtractor(searchTimeout, wiki.Options{
		Paragraphs:          cfg.Pipeline.Paragraphs,
		StrictSelection:     cfg.Pipeline.StrictSelection,
		ReadabilityFallback: cfg.Pipeline.ReadabilityFallback,
		MaxPageSizeMB:       cfg.Pipeline.MaxPageSizeMB,
	})
	completer := llm.NewClient(cfg.OpenAI.Endpoint, cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.MaxTokens, cfg.OpenAI.BestOf)

	pl := pipeline.New(searcher, extractor, completer)
	pl.RetryNextResult = cfg.Pipeline.RetryNextResult

	outcome, err := pl.Answer(context.Background(), question)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *debug {
		fmt.Println("--------------------")
		fmt.Println("Question: " + "\n\n" + outcome.Question)
		fmt.Println("--------------------")
		fmt.Println("Corpus: " + "\n\n" + outcome.Excerpt)
		fmt.Println("--------------------")
		fmt.Println("Response: ")
	}

	fmt.Println(outcome.Answer)
}
