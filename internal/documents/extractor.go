package documents

import (
	"context"
	"fmt"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// Extractor pulls text out of an uploaded scan. Confidence is reported on a
// 0-100 scale.
type Extractor interface {
	ExtractText(ctx context.Context, content []byte, mimeType string) (text string, confidence float64, err error)
}

// VisionExtractor runs document text detection against the Cloud Vision API.
type VisionExtractor struct {
	client *vision.ImageAnnotatorClient
}

func NewVisionExtractor(ctx context.Context, opts ...option.ClientOption) (*VisionExtractor, error) {
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &VisionExtractor{client: client}, nil
}

func (e *VisionExtractor) Close() error {
	return e.client.Close()
}

func (e *VisionExtractor) ExtractText(ctx context.Context, content []byte, mimeType string) (string, float64, error) {
	if len(content) == 0 {
		return "", 0, nil
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image:    &visionpb.Image{Content: content},
				Features: []*visionpb.Feature{{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION}},
			},
		},
	}
	resp, err := e.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return "", 0, fmt.Errorf("vision annotate: %w", err)
	}
	if len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return "", 0, nil
	}
	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return "", 0, fmt.Errorf("vision annotate: %s", r0.Error.Message)
	}
	fta := r0.FullTextAnnotation
	if fta == nil || strings.TrimSpace(fta.Text) == "" {
		return "", 0, nil
	}

	return strings.TrimSpace(fta.Text), pageConfidence(fta.Pages) * 100, nil
}

// pageConfidence averages block confidences across pages, [0,1].
func pageConfidence(pages []*visionpb.Page) float64 {
	var sum float64
	n := 0
	for _, page := range pages {
		if page == nil {
			continue
		}
		for _, block := range page.Blocks {
			if block != nil && block.Confidence > 0 {
				sum += float64(block.Confidence)
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
