package interpret

import (
	"context"

	"github.com/lighthouse-careers/agentsearch/internal/domain"
)

// StructuredCompleter returns a JSON object conforming to the requested schema.
type StructuredCompleter interface {
	CompleteStructured(ctx context.Context, req domain.StructuredRequest) (domain.Completion, error)
}
