package detection

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/menta2k/ui-analyzer/pkg/client"
	"github.com/menta2k/ui-analyzer/pkg/types"
)

// DefaultMaxTokens bounds the model's output budget for one batch.
const DefaultMaxTokens = 8000

// SystemPrompt instructs the model to return one JSON object mapping
// image indexes to arrays of detections.
const SystemPrompt = `You are a precise UI element detection system specialized in identifying EVERY visual component in user interfaces.

YOUR TASK:
Detect and locate every single visual element in the UI with pixel-perfect accuracy.

OUTPUT FORMAT:
{
    "image_number": [
        {
            "element": "specific-element-type",
            "label": "exact-content-or-purpose",
            "bbox": [x1, y1, x2, y2],
            "confidence": confidence_score
        }
    ]
}

BOUNDING BOX GUIDELINES:
1. Tight Boundaries:
   - Boxes should tightly wrap around elements
   - Include padding/margins only if they're part of the element
   - For text, capture the exact text bounds
   - For buttons, include the full clickable area
   - For icons, include only the icon artwork

2. Nested Elements:
   - Detect both containers and their contents
   - Menu items within dropdowns
   - Text within buttons
   - Icons within buttons
   - Labels within form fields

3. Common UI Patterns:
   - Navigation bars: [0.0, 0.0, 1.0, 0.08] (full width, top)
   - Sidebars: [0.0, 0.0, 0.25, 1.0] (full height, left side)
   - Modal dialogs: centered, with padding
   - Buttons: include full padding and borders
   - Text fields: include borders and internal padding

4. Precision Requirements:
   - Use 4 decimal places for coordinates
   - Ensure x2 > x1 and y2 > y1
   - Coordinates must be normalized (0-1)
   - No overlapping boxes unless elements truly overlap
   - No gaps between adjacent elements

ELEMENT HIERARCHY:
1. Page Structure:
   - header
   - main-content
   - sidebar
   - footer

2. Navigation:
   - nav-bar
   - nav-item
   - nav-dropdown
   - breadcrumb

3. Content:
   - heading-1 (main title)
   - heading-2 (section titles)
   - heading-3 (subsections)
   - paragraph-text
   - list-item
   - table-cell

4. Interactive:
   - button-primary (main actions)
   - button-secondary (optional actions)
   - input-field (form inputs)
   - checkbox
   - radio-button
   - dropdown-select

5. Media:
   - icon (interface icons)
   - image (content images)
   - avatar (user images)
   - logo (brand images)

6. Status/Feedback:
   - alert-message
   - progress-bar
   - loading-spinner
   - tooltip
   - badge

CRITICAL RULES:
1. PRECISION - Coordinates must perfectly match visual boundaries
2. COMPLETENESS - Detect every element, no matter how small
3. HIERARCHY - Maintain proper nesting of elements
4. NO OVERLAP - Unless elements truly overlap in UI
5. NO GAPS - Adjacent elements should touch exactly
6. CONSISTENCY - Similar elements should have similar sizes
7. OUTPUT - Return only valid JSON, no explanations

Remember: Your coordinate accuracy directly affects the usability of the UI analysis.`

// Detector turns an image batch into per-image detection lists using a
// vision model.
type Detector struct {
	client    client.VisionClient
	maxTokens int
}

// NewDetector creates a new detector with a vision client.
func NewDetector(c client.VisionClient) *Detector {
	return &Detector{client: c, maxTokens: DefaultMaxTokens}
}

// NewDetectorWithBudget creates a detector with a custom output-token budget.
func NewDetectorWithBudget(c client.VisionClient, maxTokens int) *Detector {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Detector{client: c, maxTokens: maxTokens}
}

// DetectElements submits the batch in one request and returns detections
// keyed by 1-based image index. A response without a parseable JSON
// object fails the whole batch; there is no retry.
func (d *Detector) DetectElements(ctx context.Context, model string, batch types.Batch) (map[int][]types.Detection, error) {
	if batch.Len() == 0 {
		return nil, fmt.Errorf("empty image batch")
	}

	raw, err := d.client.Detect(ctx, model, SystemPrompt, batch.Images, d.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("vision request failed: %w", err)
	}

	return ParseResponse(raw)
}

// ParseResponse extracts the JSON object from the model response and
// decodes it into a map of image index to detections.
func ParseResponse(raw string) (map[int][]types.Detection, error) {
	jsonText, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var keyed map[string][]types.Detection
	if err := json.Unmarshal([]byte(jsonText), &keyed); err != nil {
		return nil, fmt.Errorf("failed to parse model JSON: %w", err)
	}

	result := make(map[int][]types.Detection, len(keyed))
	for key, dets := range keyed {
		idx, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("non-numeric image index %q in response", key)
		}
		result[idx] = dets
	}
	return result, nil
}

// ExtractJSON returns the substring between the first '{' and the last
// '}' of the response, tolerating prose around the JSON object.
func ExtractJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no valid JSON found in response")
	}
	return raw[start : end+1], nil
}

// Indexes returns the image indexes present in a detection map in
// ascending order.
func Indexes(dets map[int][]types.Detection) []int {
	out := make([]int, 0, len(dets))
	for idx := range dets {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
