// Package uianalyzer detects UI elements in screenshots with a vision
// language model and renders the results as annotated images.
//
// This package sends one or more screenshots to a multimodal model in a
// single request, parses the returned bounding boxes, and draws color
// coded rectangles with text labels onto copies of the originals.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		uianalyzer "github.com/menta2k/ui-analyzer"
//		"github.com/menta2k/ui-analyzer/pkg/openrouter"
//	)
//
//	func main() {
//		client, err := openrouter.NewClient("", "sk-or-...")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		ua := uianalyzer.New(client)
//		written, err := ua.Run(context.Background(), "screenshots/")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		for _, path := range written {
//			log.Printf("wrote %s", path)
//		}
//	}
//
// The package consists of three main components:
//
// 1. Detection (pkg/detection): builds the batch request and parses the model response
// 2. Render (pkg/render): draws boxes, labels and colors onto image copies
// 3. Processing (pkg/processing): image loading, base64 encoding, and saving
//
// Backends implementing client.VisionClient live in pkg/openrouter
// (hosted models) and pkg/ollama (local models).
package uianalyzer

import (
	"context"
	"fmt"
	"log"

	"github.com/menta2k/ui-analyzer/internal/utils"
	"github.com/menta2k/ui-analyzer/pkg/client"
	"github.com/menta2k/ui-analyzer/pkg/detection"
	"github.com/menta2k/ui-analyzer/pkg/processing"
	"github.com/menta2k/ui-analyzer/pkg/render"
	"github.com/menta2k/ui-analyzer/pkg/types"
)

// Version of the ui-analyzer library
const Version = "1.0.0"

// Options configures a UIAnalyzer.
type Options struct {
	Model     string // model name passed to the backend
	OutputDir string // directory for annotated images, created on demand
	MaxTokens int    // output-token budget per batch request
}

// DefaultOptions returns the options used by New.
func DefaultOptions() Options {
	return Options{
		Model:     "anthropic/claude-3.5-sonnet",
		OutputDir: "output",
		MaxTokens: detection.DefaultMaxTokens,
	}
}

// UIAnalyzer ties the batch builder, detector and renderer together.
type UIAnalyzer struct {
	processor *processing.Processor
	detector  *detection.Detector
	renderer  *render.Renderer
	opts      Options
}

// New creates a UIAnalyzer with default options.
func New(c client.VisionClient) *UIAnalyzer {
	return NewWithOptions(c, DefaultOptions())
}

// NewWithOptions creates a UIAnalyzer with custom options.
func NewWithOptions(c client.VisionClient, opts Options) *UIAnalyzer {
	def := DefaultOptions()
	if opts.Model == "" {
		opts.Model = def.Model
	}
	if opts.OutputDir == "" {
		opts.OutputDir = def.OutputDir
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = def.MaxTokens
	}
	return &UIAnalyzer{
		processor: processing.NewProcessor(),
		detector:  detection.NewDetectorWithBudget(c, opts.MaxTokens),
		renderer:  render.NewRenderer(),
		opts:      opts,
	}
}

// BuildBatch resolves the input path and encodes every readable image.
// Unreadable files are logged and skipped; a batch with no readable
// images is an error.
func (ua *UIAnalyzer) BuildBatch(inputPath string) (types.Batch, error) {
	paths, err := utils.CollectImages(inputPath)
	if err != nil {
		return types.Batch{}, err
	}

	log.Printf("Processing %d images...", len(paths))

	var batch types.Batch
	for i, path := range paths {
		log.Printf("Processing image %d: %s", i+1, path)
		encoded, err := ua.processor.EncodeImageFile(path)
		if err != nil {
			log.Printf("Error encoding image %s: %v", path, err)
			continue
		}
		batch.Paths = append(batch.Paths, path)
		batch.Images = append(batch.Images, encoded)
	}
	if batch.Len() == 0 {
		return types.Batch{}, fmt.Errorf("no readable images in %s", inputPath)
	}
	return batch, nil
}

// Detect submits the batch and returns detections keyed by 1-based
// image index.
func (ua *UIAnalyzer) Detect(ctx context.Context, batch types.Batch) (map[int][]types.Detection, error) {
	return ua.detector.DetectElements(ctx, ua.opts.Model, batch)
}

// AnnotateFile draws the detections for one source image and writes the
// result under the output directory as ui_analyzed_<basename>.
func (ua *UIAnalyzer) AnnotateFile(inputPath string, dets []types.Detection) (string, error) {
	img, err := ua.processor.LoadImage(inputPath)
	if err != nil {
		return "", fmt.Errorf("failed to load image: %w", err)
	}

	annotated, skipped := ua.renderer.Annotate(img, dets)
	for _, s := range skipped {
		log.Printf("Warning: skipping invalid bounding box %d in %s: %s", s.Index, inputPath, s.Reason)
	}

	if err := utils.EnsureDir(ua.opts.OutputDir); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := utils.OutputFilename(inputPath, ua.opts.OutputDir)
	if err := ua.processor.SaveImage(annotated, outputPath); err != nil {
		return "", fmt.Errorf("failed to save annotated image: %w", err)
	}
	return outputPath, nil
}

// Run is the full pipeline: build the batch, call the model once, and
// annotate every image. Per-image failures are logged and skipped;
// input and model errors abort the run. Returns the written file paths.
func (ua *UIAnalyzer) Run(ctx context.Context, inputPath string) ([]string, error) {
	batch, err := ua.BuildBatch(inputPath)
	if err != nil {
		return nil, err
	}

	results, err := ua.Detect(ctx, batch)
	if err != nil {
		return nil, err
	}

	var written []string
	for i, path := range batch.Paths {
		dets := results[i+1]
		outputPath, err := ua.AnnotateFile(path, dets)
		if err != nil {
			log.Printf("Error annotating %s: %v", path, err)
			continue
		}
		log.Printf("Saved annotated UI analysis to: %s", outputPath)
		written = append(written, outputPath)
	}
	return written, nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
