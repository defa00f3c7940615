package client

import (
	"context"

	"github.com/menta2k/ui-analyzer/pkg/types"
)

// VisionClient sends one batch of images plus a system instruction to a
// vision model and returns the raw response text. Implementations must
// interleave an "Image N:" text marker before the Nth image payload so
// the response keys line up with batch order.
type VisionClient interface {
	Detect(ctx context.Context, model, system string, images []types.EncodedImage, maxTokens int) (string, error)
}
