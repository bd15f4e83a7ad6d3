package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// userAgent identifies outbound requests of the engine and its client.
const userAgent = "go-sync-keeper"

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly.
// The client adapter and the audit webhook recorder build on it.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates an HTTPClient with its own connection pool. A
// positive timeout bounds every request; zero leaves requests unbounded
// unless the caller's context says otherwise.
//
// Example usage:
//
//	client := utils.NewHTTPClient(5 * time.Second)
//	resp, err := client.R().
//	    SetHeader("Accept", "application/json").
//	    Get("https://api.example.com/users")
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	client := resty.New().SetHeader("User-Agent", userAgent)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &HTTPClient{Client: client}
}
