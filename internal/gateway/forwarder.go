// Package gateway forwards questions to the assistant backend and
// normalizes every failure into the internal-error envelope.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/diogo/projassist/internal/api"
	"github.com/diogo/projassist/internal/models"
)

// Result is what the gateway answers to its caller
type Result struct {
	Status int
	Body   []byte
}

// Forwarder relays questions to a fixed backend URL
type Forwarder struct {
	backendURL string
	httpClient api.HTTPDoer
	logger     *zap.Logger
	now        func() time.Time
}

// Option configures a Forwarder
type Option func(*Forwarder)

// WithHTTPClient replaces the backend transport
func WithHTTPClient(doer api.HTTPDoer) Option {
	return func(f *Forwarder) {
		f.httpClient = doer
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(f *Forwarder) {
		f.logger = logger
	}
}

// WithClock sets the time source used for synthesized timestamps
func WithClock(now func() time.Time) Option {
	return func(f *Forwarder) {
		f.now = now
	}
}

// NewForwarder creates a Forwarder. Without WithHTTPClient a tls-client
// transport with the given timeout is created.
func NewForwarder(backendURL string, timeout time.Duration, opts ...Option) (*Forwarder, error) {
	if backendURL == "" {
		backendURL = models.DefaultBackendURL
	}

	f := &Forwarder{
		backendURL: backendURL,
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.httpClient == nil {
		httpClient, err := api.NewHTTPClient(timeout)
		if err != nil {
			return nil, err
		}
		f.httpClient = httpClient
	}

	return f, nil
}

// BackendURL returns the address questions are forwarded to
func (f *Forwarder) BackendURL() string {
	return f.backendURL
}

// Forward posts the question to the backend. A JSON answer is returned
// verbatim with status 200 whatever the backend status was. Every other
// outcome yields the internal-error envelope with status 500.
func (f *Forwarder) Forward(ctx context.Context, question string) Result {
	log := f.logger.With(zap.String("backend", f.backendURL))

	payload, err := json.Marshal(models.AskRequest{Question: question})
	if err != nil {
		log.Error("failed to encode question", zap.Error(err))
		return f.InternalError()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.backendURL, bytes.NewReader(payload))
	if err != nil {
		log.Error("failed to create backend request", zap.Error(err))
		return f.InternalError()
	}
	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		log.Warn("backend unreachable", zap.Error(err))
		return f.InternalError()
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		log.Warn("failed to read backend response", zap.Error(err))
		return f.InternalError()
	}

	if !gjson.ValidBytes(body) {
		log.Warn("backend returned non-JSON body",
			zap.Int("status", resp.StatusCode),
			zap.Int("bytes", len(body)),
		)
		return f.InternalError()
	}

	log.Debug("backend answered",
		zap.Int("status", resp.StatusCode),
		zap.Bool("success", gjson.GetBytes(body, "success").Bool()),
		zap.Duration("elapsed", time.Since(start)),
	)

	return Result{Status: http.StatusOK, Body: body}
}

// Ask forwards the question and decodes the result, so the gateway can be
// used in-process where the chat engine expects an asker.
func (f *Forwarder) Ask(ctx context.Context, question string) (*models.AssistantResponse, error) {
	return models.DecodeResponse(f.Forward(ctx, question).Body)
}

// InternalError returns the synthesized 500 result stamped with the current time
func (f *Forwarder) InternalError() Result {
	body, _ := json.Marshal(models.NewInternalError(f.now().Unix()))
	return Result{Status: http.StatusInternalServerError, Body: body}
}
