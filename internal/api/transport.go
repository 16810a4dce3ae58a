package api

import (
	"fmt"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

// HTTPDoer is the part of tls_client.HttpClient the assistant code uses.
// Tests substitute a mock.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxBodySize bounds how much of a response body is read into memory
const maxBodySize = 4 << 20

// NewHTTPClient creates the shared HTTP transport with the given timeout
func NewHTTPClient(timeout time.Duration) (tls_client.HttpClient, error) {
	seconds := int(timeout / time.Second)
	if seconds <= 0 {
		seconds = 300
	}

	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(seconds),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithNotFollowRedirects(),
	}

	httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	return httpClient, nil
}
