package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/chzyer/readline"

	uianalyzer "github.com/menta2k/ui-analyzer"
	"github.com/menta2k/ui-analyzer/internal/config"
	"github.com/menta2k/ui-analyzer/pkg/client"
	"github.com/menta2k/ui-analyzer/pkg/ollama"
	"github.com/menta2k/ui-analyzer/pkg/openrouter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var in, outDir, model, backend, url string
	var maxTokens int

	flag.StringVar(&in, "in", "", "screenshot file or directory (jpg/jpeg/png/gif/webp); prompts if empty")
	flag.StringVar(&outDir, "out", cfg.OutputDir, "output directory for annotated images")
	flag.StringVar(&model, "model", cfg.Model, "model name")
	flag.StringVar(&backend, "backend", cfg.Backend, "backend to use: openrouter or ollama")
	flag.StringVar(&url, "url", cfg.URL, "server URL (defaults: openrouter=https://openrouter.ai/api/v1, ollama=http://localhost:11434)")
	flag.IntVar(&maxTokens, "maxtokens", cfg.MaxTokens, "output-token budget for the model response")
	flag.Parse()

	if in == "" {
		in, err = promptForPath()
		if err != nil {
			log.Fatal(err)
		}
	}
	if in == "" {
		log.Fatal("no input path given")
	}

	// Create appropriate client based on backend
	var visionClient client.VisionClient

	switch backend {
	case "openrouter":
		visionClient, err = openrouter.NewClient(url, cfg.APIKey)
		if err != nil {
			log.Fatalf("Failed to create OpenRouter client: %v", err)
		}
	case "ollama":
		if url == "" {
			url = "http://localhost:11434"
		}
		visionClient, err = ollama.NewClient(url)
		if err != nil {
			log.Fatalf("Failed to create Ollama client: %v", err)
		}
	default:
		log.Fatalf("Unknown backend: %s (use 'openrouter' or 'ollama')", backend)
	}

	ua := uianalyzer.NewWithOptions(visionClient, uianalyzer.Options{
		Model:     model,
		OutputDir: outDir,
		MaxTokens: maxTokens,
	})

	log.Printf("Analyzing images with %s...", model)
	written, err := ua.Run(context.Background(), in)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Done: %d annotated images in %s", len(written), outDir)
}

// promptForPath asks interactively for the screenshot path.
func promptForPath() (string, error) {
	fmt.Println("\n=== UI Analysis ===")
	fmt.Println("Enter the path to a UI screenshot or a directory containing screenshots.")

	rl, err := readline.New("Path: ")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = rl.Close()
	}()

	line, err := rl.Readline()
	if err != nil { // io.EOF
		return "", err
	}
	return strings.TrimSpace(line), nil
}
