package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	edugo "github.com/EduGo2025Bot/telegram-bot-edugo"

	"github.com/joho/godotenv"
)

func main() {
	var (
		filePath     = flag.String("file", "", "Document to generate questions from (required)")
		numQuestions = flag.Int("questions", 6, "Number of questions to generate")
		outputFile   = flag.String("output", "", "Output file for the question set JSON (default: stdout)")
		apiKey       = flag.String("api-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
		verbose      = flag.Bool("verbose", false, "Enable verbose debugging output")
	)

	flag.Parse()

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env")
	}

	cfg := edugo.FromEnv()
	edugo.SetVerbose(*verbose || cfg.Verbose)

	if *filePath == "" {
		log.Fatal("A document is required. Use -file flag.")
	}
	if *apiKey == "" {
		*apiKey = cfg.OpenAIAPIKey
		if *apiKey == "" {
			log.Fatal("OpenAI API key is required. Use -api-key flag or set OPENAI_API_KEY environment variable.")
		}
	}

	cache, err := edugo.NewFileCache(cfg.CacheDir, cfg.CacheTTL)
	if err != nil {
		log.Fatalf("Failed to open cache: %v", err)
	}

	extractor := edugo.NewFileExtractor(cfg.MaxChars)
	generator := edugo.NewOpenAIGenerator(*apiKey, cfg.OpenAIModel, cfg.MaxChars, cfg.GenLogDir)
	store := edugo.NewQuestionStore(edugo.NewBank(cfg.BankPath), cache, generator, cfg.GenTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	text, err := extractor.ExtractText(ctx, *filePath)
	if err != nil {
		log.Fatalf("Failed to extract text: %v", err)
	}
	if text == "" {
		log.Fatal("No text could be extracted from the document.")
	}
	log.Printf("Extracted %d characters from %s", len(text), *filePath)

	set := store.GetOrGenerate(ctx, text, *numQuestions)
	log.Printf("Question set %s: %d questions", set.ID, len(set.Questions))

	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal question set: %v", err)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, data, 0o644); err != nil {
			log.Fatalf("Failed to write output file: %v", err)
		}
		log.Printf("Wrote %s", *outputFile)
		return
	}
	fmt.Println(string(data))
}
