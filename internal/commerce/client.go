package commerce

import (
	"storefront/internal/transport"

	"github.com/rs/zerolog"
)

// Client talks to the commerce backend's store API.
type Client struct {
	http   *transport.Client
	logger zerolog.Logger
}

// NewClient creates a commerce backend client.
func NewClient(http *transport.Client, logger zerolog.Logger) *Client {
	return &Client{
		http:   http,
		logger: logger.With().Str("component", "commerce-client").Logger(),
	}
}

var (
	_ CartAPI    = (*Client)(nil)
	_ CatalogAPI = (*Client)(nil)
)
