package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// outputPrefix is prepended to every annotated file name.
const outputPrefix = "ui_analyzed_"

// supportedPatterns are the raster extensions collected from input
// directories. Matching is case-sensitive on the extension only.
var supportedPatterns = []string{"*.jpg", "*.jpeg", "*.png", "*.gif", "*.webp"}

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// CollectImages resolves an input path to an ordered list of image
// files. A directory is globbed for the supported extensions; a file is
// returned as-is. Nonexistent paths and directories without any
// supported images are errors.
func CollectImages(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("image path does not exist: %s", path)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	for _, pattern := range supportedPatterns {
		matches, err := filepath.Glob(filepath.Join(path, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to glob %s: %w", pattern, err)
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no supported images found in directory %s", path)
	}
	return files, nil
}

// OutputFilename derives the annotated file path for an input image,
// preserving the original base name and extension.
func OutputFilename(inputFile, outputDir string) string {
	return filepath.Join(outputDir, outputPrefix+filepath.Base(inputFile))
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
