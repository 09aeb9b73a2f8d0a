package analysis

import "context"

// Generation is everything a provider needs for one call.
type Generation struct {
	Prompt     string
	Image      UploadedImage
	Credential string
	Model      string
}

// Provider turns a prompt plus a single image into free text.
type Provider interface {
	Generate(ctx context.Context, gen Generation) (string, error)
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func(ctx context.Context, gen Generation) (string, error)

func (f ProviderFunc) Generate(ctx context.Context, gen Generation) (string, error) {
	return f(ctx, gen)
}
