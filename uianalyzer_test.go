package uianalyzer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/menta2k/ui-analyzer/internal/utils"
	"github.com/menta2k/ui-analyzer/pkg/processing"
	"github.com/menta2k/ui-analyzer/pkg/types"
)

// fakeClient returns a canned model response and records the request.
type fakeClient struct {
	response  string
	err       error
	gotImages int
}

func (f *fakeClient) Detect(ctx context.Context, model, system string, images []types.EncodedImage, maxTokens int) (string, error) {
	f.gotImages = len(images)
	return f.response, f.err
}

// createTestImage creates a simple test image
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{64, 64, 64, 255})
		}
	}

	return img
}

// writeTestPNG saves a gray test image under the given name.
func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := processing.NewProcessor().SaveImage(createTestImage(w, h), path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	ua := New(&fakeClient{})
	if ua == nil {
		t.Fatal("New() returned nil")
	}
	if ua.opts.OutputDir != "output" {
		t.Errorf("default output dir = %q", ua.opts.OutputDir)
	}
	if ua.opts.MaxTokens != 8000 {
		t.Errorf("default max tokens = %d", ua.opts.MaxTokens)
	}
}

func TestRunScenario(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writeTestPNG(t, inDir, "login.png", 200, 200)
	writeTestPNG(t, inDir, "settings.png", 200, 200)

	fake := &fakeClient{
		response: `{"1": [{"element":"button-primary","label":"Submit","bbox":[0.1,0.1,0.3,0.2],"confidence":0.95}], "2": []}`,
	}
	ua := NewWithOptions(fake, Options{OutputDir: outDir})

	written, err := ua.Run(context.Background(), inDir)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if fake.gotImages != 2 {
		t.Errorf("expected 2 images in the request, got %d", fake.gotImages)
	}
	if len(written) != 2 {
		t.Fatalf("expected 2 output files, got %d: %v", len(written), written)
	}

	for _, name := range []string{"ui_analyzed_login.png", "ui_analyzed_settings.png"} {
		if !utils.FileExists(filepath.Join(outDir, name)) {
			t.Errorf("missing output file %s", name)
		}
	}

	// Image 1 carries one green-outlined box.
	p := processing.NewProcessor()
	annotated, err := p.LoadImage(filepath.Join(outDir, "ui_analyzed_login.png"))
	if err != nil {
		t.Fatal(err)
	}
	// bbox [0.1,0.1,0.3,0.2] on 200x200 maps to (20,20)-(60,40); the
	// bottom border sits at y=39, clear of the label footprint.
	r, g, b, _ := annotated.At(40, 39).RGBA()
	if r>>8 != 0x44 || g>>8 != 0xFF || b>>8 != 0x44 {
		t.Errorf("expected green outline pixel, got #%02x%02x%02x", r>>8, g>>8, b>>8)
	}

	// Image 2 must be unchanged apart from re-encoding.
	clean, err := p.LoadImage(filepath.Join(outDir, "ui_analyzed_settings.png"))
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, _ = clean.At(40, 39).RGBA()
	if r>>8 != 64 || g>>8 != 64 || b>>8 != 64 {
		t.Errorf("image 2 should have no boxes, got #%02x%02x%02x", r>>8, g>>8, b>>8)
	}
}

func TestRunModelError(t *testing.T) {
	inDir := t.TempDir()
	writeTestPNG(t, inDir, "shot.png", 100, 100)

	ua := NewWithOptions(&fakeClient{err: fmt.Errorf("auth failure")}, Options{
		OutputDir: filepath.Join(t.TempDir(), "out"),
	})
	if _, err := ua.Run(context.Background(), inDir); err == nil {
		t.Error("expected model error to abort the run")
	}
}

func TestRunNonJSONResponse(t *testing.T) {
	inDir := t.TempDir()
	writeTestPNG(t, inDir, "shot.png", 100, 100)

	ua := NewWithOptions(&fakeClient{response: "I see a login form with two fields."}, Options{
		OutputDir: filepath.Join(t.TempDir(), "out"),
	})
	if _, err := ua.Run(context.Background(), inDir); err == nil {
		t.Error("expected non-JSON response to abort the batch")
	}
}

func TestRunMissingInput(t *testing.T) {
	ua := New(&fakeClient{response: "{}"})
	if _, err := ua.Run(context.Background(), filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for nonexistent input path")
	}
}

func TestBuildBatchSkipsUnreadable(t *testing.T) {
	inDir := t.TempDir()
	writeTestPNG(t, inDir, "good.png", 50, 50)

	// A directory with an image extension matches the glob but cannot be
	// read as a file.
	if err := os.Mkdir(filepath.Join(inDir, "broken.png"), 0755); err != nil {
		t.Fatal(err)
	}

	ua := New(&fakeClient{})
	batch, err := ua.BuildBatch(inDir)
	if err != nil {
		t.Fatalf("BuildBatch failed: %v", err)
	}
	if batch.Len() != 1 {
		t.Fatalf("expected 1 readable image, got %d", batch.Len())
	}
	if filepath.Base(batch.Paths[0]) != "good.png" {
		t.Errorf("unexpected batch contents: %v", batch.Paths)
	}
	if batch.Images[0].MediaType != "image/png" {
		t.Errorf("media type = %q", batch.Images[0].MediaType)
	}
}

func TestGetVersion(t *testing.T) {
	if GetVersion() != Version {
		t.Errorf("GetVersion() = %q, expected %q", GetVersion(), Version)
	}
}
