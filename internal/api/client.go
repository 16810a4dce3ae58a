// Package api is the client side of the gateway boundary: it posts a
// question to the gateway and decodes the assistant envelope.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"go.uber.org/zap"

	apierrors "github.com/diogo/projassist/internal/errors"
	"github.com/diogo/projassist/internal/models"
)

// Client posts questions to the gateway
type Client struct {
	httpClient HTTPDoer
	gatewayURL string
	timeout    time.Duration
	logger     *zap.Logger
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the transport, mainly for tests
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithTimeout sets the transport timeout used when no HTTP client is supplied
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for the given gateway URL
func NewClient(gatewayURL string, opts ...ClientOption) (*Client, error) {
	if gatewayURL == "" {
		gatewayURL = models.DefaultGatewayURL
	}

	client := &Client{
		gatewayURL: gatewayURL,
		timeout:    300 * time.Second,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		httpClient, err := NewHTTPClient(client.timeout)
		if err != nil {
			return nil, err
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// GatewayURL returns the URL questions are posted to
func (c *Client) GatewayURL() string {
	return c.gatewayURL
}

// Ask posts the question and decodes the gateway answer. Any JSON body is
// decoded regardless of the HTTP status, since the gateway reports backend
// failures inside the envelope. Transport failures return a NetworkError
// and unreadable bodies a ParseError.
func (c *Client) Ask(ctx context.Context, question string) (*models.AssistantResponse, error) {
	if strings.TrimSpace(question) == "" {
		return nil, apierrors.ErrEmptyQuestion
	}

	payload, err := json.Marshal(models.AskRequest{Question: question})
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("gateway request failed", zap.String("url", c.gatewayURL), zap.Error(err))
		return nil, apierrors.NewNetworkErrorWithEndpoint("ask", c.gatewayURL, err)
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint("read response", c.gatewayURL, err)
	}

	c.logger.Debug("gateway answered",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)

	decoded, err := models.DecodeResponse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w",
			apierrors.NewParseError(err.Error(), c.gatewayURL),
			apierrors.NewAPIErrorWithBody(resp.StatusCode, c.gatewayURL, "unreadable gateway response", string(body)),
		)
	}
	return decoded, nil
}
