package label

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"labelscan/internal/domain"
	"labelscan/internal/providers/genai"
)

const instruction = `Read the laboratory supply box label in this image and extract:
- productName: the product or item name
- refNumber: the reference/catalog number (often marked REF)
- lotNumber: the lot or batch number (often marked LOT)
- expirationDate: the expiration date exactly as printed

Respond with a single JSON object containing exactly these four keys.
Use null for any field that is not present on the label. Return JSON only,
with no surrounding prose.`

// GeminiExtractor asks Gemini for the four label fields as structured JSON.
type GeminiExtractor struct {
	client *genai.Client
}

// NewGeminiExtractor wraps a configured Gemini client.
func NewGeminiExtractor(client *genai.Client) *GeminiExtractor {
	return &GeminiExtractor{client: client}
}

// Extract requests the structured fields for one label image. Null or absent
// fields mean "not found on the label" and are not an error; a response that
// is not well-formed JSON of the requested shape is.
func (g *GeminiExtractor) Extract(ctx context.Context, req Request) (*domain.ExtractedFields, error) {
	text, err := g.client.GenerateText(ctx, genai.VisionRequest{
		Instruction: instruction,
		MIMEType:    req.MIMEType,
		ImageData:   req.Data,
		RequestID:   req.FileName,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	return parseFields(text)
}

// parseFields validates the model's text output against the fixed schema.
// Some models wrap JSON in markdown fences despite the response mime type;
// those are stripped before decoding.
func parseFields(text string) (*domain.ExtractedFields, error) {
	cleaned := stripCodeFence(text)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", domain.ErrMalformedResponse)
	}

	decoder := json.NewDecoder(strings.NewReader(cleaned))
	decoder.DisallowUnknownFields()

	var fields domain.ExtractedFields
	if err := decoder.Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON object", domain.ErrMalformedResponse)
	}
	return &fields, nil
}

func stripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

var _ Extractor = (*GeminiExtractor)(nil)
