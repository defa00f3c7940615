package types

// Detection is a single UI element reported by the vision model.
// BBox holds normalized [x1, y1, x2, y2] corners in the [0,1] range.
// Confidence is a pointer so a missing field can be told apart from
// an explicit zero.
type Detection struct {
	Element    string    `json:"element"`
	Label      string    `json:"label"`
	BBox       []float64 `json:"bbox"`
	Confidence *float64  `json:"confidence,omitempty"`
}

// EncodedImage is an image payload ready to be sent to a vision model.
type EncodedImage struct {
	MediaType string // e.g. "image/png"
	Data      string // base64-encoded file bytes
}

// Batch is an ordered set of images submitted together in one model
// request. Indexes are 1-based: Paths[0] is "Image 1:" in the request
// and key "1" in the response mapping.
type Batch struct {
	Paths  []string
	Images []EncodedImage
}

// Len returns the number of images in the batch.
func (b Batch) Len() int {
	return len(b.Images)
}
