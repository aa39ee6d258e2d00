package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly.
type HTTPClient struct {
	*resty.Client
}

// HTTPClientOption customises the client created by NewHTTPClient.
type HTTPClientOption func(*resty.Client)

// WithBaseURL sets the base URL every relative request path is resolved against.
func WithBaseURL(url string) HTTPClientOption {
	return func(c *resty.Client) {
		if url != "" {
			c.SetBaseURL(url)
		}
	}
}

// WithTimeout bounds every request issued by the client.
func WithTimeout(d time.Duration) HTTPClientOption {
	return func(c *resty.Client) {
		if d > 0 {
			c.SetTimeout(d)
		}
	}
}

// NewHTTPClient creates an independent HTTPClient. JSON is the default
// Accept type since every remote API the harness talks to speaks JSON.
func NewHTTPClient(opts ...HTTPClientOption) *HTTPClient {
	c := resty.New().SetHeader("Accept", "application/json")
	for _, opt := range opts {
		opt(c)
	}
	return &HTTPClient{Client: c}
}
