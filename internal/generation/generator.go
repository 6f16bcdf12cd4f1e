package generation

import "context"

// DescriptionGenerator writes a short marketing description for a product.
type DescriptionGenerator interface {
	GenerateDescription(ctx context.Context, productName string) (string, error)
}

// Disabled is a DescriptionGenerator used when no LLM is configured. It
// always returns an empty description.
type Disabled struct{}

// GenerateDescription implements DescriptionGenerator.
func (Disabled) GenerateDescription(context.Context, string) (string, error) {
	return "", nil
}
