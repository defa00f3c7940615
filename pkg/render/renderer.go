package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/menta2k/ui-analyzer/pkg/types"
)

const (
	strokeWidth = 2
	// Mapped boxes thinner than this in either dimension are noise.
	minBoxSide = 2
	// Label font size as a fraction of image height.
	fontScale = 0.015
)

// colorRule assigns a color to element types containing a substring.
// Rules are evaluated in order; the first match wins.
type colorRule struct {
	substr string
	color  color.NRGBA
}

var colorRules = []colorRule{
	{"text", color.NRGBA{0xFF, 0x44, 0x44, 0xFF}},      // red
	{"button", color.NRGBA{0x44, 0xFF, 0x44, 0xFF}},    // green
	{"input", color.NRGBA{0x44, 0x44, 0xFF, 0xFF}},     // blue
	{"icon", color.NRGBA{0xFF, 0xFF, 0x44, 0xFF}},      // yellow
	{"container", color.NRGBA{0xFF, 0x44, 0xFF, 0xFF}}, // purple
	{"nav", color.NRGBA{0x44, 0xFF, 0xFF, 0xFF}},       // cyan
	{"image", color.NRGBA{0xFF, 0x88, 0x44, 0xFF}},     // orange
	{"status", color.NRGBA{0x88, 0xFF, 0x44, 0xFF}},    // lime
	{"modal", color.NRGBA{0xFF, 0x44, 0x88, 0xFF}},     // pink
	{"list", color.NRGBA{0x44, 0x88, 0xFF, 0xFF}},      // light blue
}

// Skip records one detection that could not be rendered.
type Skip struct {
	Index  int
	Reason string
}

// Renderer draws detection boxes and labels onto image copies.
type Renderer struct {
	palette *Palette
}

// NewRenderer creates a renderer with a time-seeded fallback palette.
func NewRenderer() *Renderer {
	return NewRendererWithPalette(NewPalette(time.Now().UnixNano()))
}

// NewRendererWithPalette creates a renderer using the given palette for
// element types not covered by the fixed color table.
func NewRendererWithPalette(p *Palette) *Renderer {
	return &Renderer{palette: p}
}

// ColorFor returns the color for an element type. Matching is
// case-insensitive and by substring against the ordered rule table;
// unmatched types get the next palette color.
func (r *Renderer) ColorFor(element string) color.NRGBA {
	lower := strings.ToLower(element)
	for _, rule := range colorRules {
		if strings.Contains(lower, rule.substr) {
			return rule.color
		}
	}
	return r.palette.Next()
}

// Annotate draws every valid detection onto a copy of img. Malformed
// detections are reported in the returned skip list and do not stop the
// remaining boxes from being drawn.
func (r *Renderer) Annotate(img image.Image, dets []types.Detection) (*image.NRGBA, []Skip) {
	canvas := imaging.Clone(img)
	w := canvas.Bounds().Dx()
	h := canvas.Bounds().Dy()

	fontSize := int(float64(h) * fontScale)
	face := loadFace(float64(fontSize))

	var skipped []Skip
	for i, det := range dets {
		rect, ok, err := mapRect(det.BBox, w, h)
		if err != nil {
			skipped = append(skipped, Skip{Index: i, Reason: err.Error()})
			continue
		}
		if !ok {
			// Sub-pixel noise, dropped without a diagnostic.
			continue
		}

		col := r.ColorFor(det.Element)
		drawBox(canvas, rect, col, strokeWidth)
		drawLabel(canvas, face, labelText(det), col, rect, fontSize, w, h)
	}

	return canvas, skipped
}

// labelText builds the annotation text from the optional detection
// fields, falling back to a placeholder when all are absent.
func labelText(det types.Detection) string {
	var b strings.Builder
	if det.Element != "" {
		b.WriteString(det.Element)
	}
	if det.Label != "" {
		b.WriteString(": " + det.Label)
	}
	if det.Confidence != nil {
		b.WriteString(fmt.Sprintf(" (%.2f)", *det.Confidence))
	}
	if b.Len() == 0 {
		return "Unknown Element"
	}
	return b.String()
}

// mapRect converts a normalized [x1,y1,x2,y2] box to a pixel rectangle.
// Corners are sorted so the input order does not matter, then clamped to
// the image. ok is false for rectangles under minBoxSide in either
// dimension; a structurally invalid bbox returns an error.
func mapRect(bbox []float64, w, h int) (image.Rectangle, bool, error) {
	if len(bbox) != 4 {
		return image.Rectangle{}, false, fmt.Errorf("bbox must have 4 coordinates, got %d", len(bbox))
	}
	for _, v := range bbox {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return image.Rectangle{}, false, fmt.Errorf("bbox contains non-finite coordinate")
		}
	}

	x1 := bbox[0] * float64(w)
	x2 := bbox[2] * float64(w)
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	y1 := bbox[1] * float64(h)
	y2 := bbox[3] * float64(h)
	if y2 < y1 {
		y1, y2 = y2, y1
	}

	x1 = clamp(x1, 0, float64(w))
	x2 = clamp(x2, 0, float64(w))
	y1 = clamp(y1, 0, float64(h))
	y2 = clamp(y2, 0, float64(h))

	if x2-x1 < minBoxSide || y2-y1 < minBoxSide {
		return image.Rectangle{}, false, nil
	}

	return image.Rect(int(x1), int(y1), int(x2), int(y2)), true, nil
}

// drawLabel paints the label background and text, keeping the footprint
// inside the image. The preferred anchor sits just above the box's top
// edge.
func drawLabel(canvas *image.NRGBA, face font.Face, label string, col color.NRGBA, box image.Rectangle, fontSize, w, h int) {
	drawer := &font.Drawer{Face: face}
	textW := drawer.MeasureString(label).Ceil()
	metrics := face.Metrics()
	textH := (metrics.Ascent + metrics.Descent).Ceil()

	labelY := box.Min.Y - fontSize
	if labelY < fontSize {
		labelY = fontSize
	}

	bgX1 := minInt(maxInt(0, box.Min.X), w-textW)
	bgX2 := minInt(bgX1+textW, w)
	bgY1 := minInt(maxInt(0, labelY), h-textH)
	bgY2 := minInt(bgY1+textH, h)

	bg := image.Rect(bgX1, bgY1, bgX2, bgY2)
	draw.Draw(canvas, bg, image.NewUniform(color.NRGBA{0, 0, 0, 180}), image.Point{}, draw.Over)

	drawer.Dst = canvas
	drawer.Src = image.NewUniform(col)
	drawer.Dot = fixed.P(bgX1, bgY1+metrics.Ascent.Ceil())
	drawer.DrawString(label)
}

// loadFace returns a scalable face at the requested size, or the fixed
// basicfont face when that is not possible. Readability only; rendering
// proceeds either way.
func loadFace(size float64) font.Face {
	if size < 1 {
		return basicfont.Face7x13
	}
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

func drawBox(img *image.NRGBA, rect image.Rectangle, c color.NRGBA, stroke int) {
	x0, y0, x1, y1 := rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y
	for s := 0; s < stroke; s++ {
		drawHLine(img, y0+s, x0, x1, c)
		drawHLine(img, y1-1-s, x0, x1, c)
		drawVLine(img, x0+s, y0, y1, c)
		drawVLine(img, x1-1-s, y0, y1, c)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= 0 || x0 >= img.Bounds().Dx() {
		return
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > img.Bounds().Dx() {
		x1 = img.Bounds().Dx()
	}
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= 0 || y0 >= img.Bounds().Dy() {
		return
	}
	if y0 < 0 {
		y0 = 0
	}
	if y1 > img.Bounds().Dy() {
		y1 = img.Bounds().Dy()
	}
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
