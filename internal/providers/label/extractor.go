package label

import (
	"context"

	"labelscan/internal/domain"
)

// Request describes a normalized extraction request passed to any provider.
type Request struct {
	FileName string
	MIMEType string
	Data     []byte
}

// Extractor is the contract implemented by all label extraction providers.
type Extractor interface {
	Extract(ctx context.Context, req Request) (*domain.ExtractedFields, error)
}
