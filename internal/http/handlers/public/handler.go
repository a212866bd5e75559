package public

import "github.com/dollers-electro/internal/provider"

// Handler serves the storefront API: public catalog endpoints plus the
// customer-authenticated surface.
type Handler struct {
	*provider.Container
}

// New creates the storefront handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
