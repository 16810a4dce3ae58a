package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/projassist/internal/models"
)

type mockDoer struct {
	status int
	body   []byte
	err    error

	requests []*http.Request
	payloads [][]byte
}

func (m *mockDoer) Do(req *http.Request) (*http.Response, error) {
	m.requests = append(m.requests, req)
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		m.payloads = append(m.payloads, b)
	}
	if m.err != nil {
		return nil, m.err
	}
	return &http.Response{
		StatusCode: m.status,
		Body:       io.NopCloser(bytes.NewReader(m.body)),
		Header:     make(http.Header),
	}, nil
}

var fixedNow = time.Unix(1700000000, 0)

func newTestForwarder(t *testing.T, doer *mockDoer) *Forwarder {
	t.Helper()
	f, err := NewForwarder("http://backend.test/ask", time.Second,
		WithHTTPClient(doer),
		WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)
	return f
}

const internalErrorBody = `{"success":false,"error":{"message":"Internal server error","code":"INTERNAL_ERROR"},"timestamp":1700000000}`

func TestForward_PassesJSONThrough(t *testing.T) {
	testCases := []struct {
		name          string
		backendStatus int
		body          string
	}{
		{"success", 200, `{"success":true,"data":{"answer":"All good","projects":[]}}`},
		{"upstream failure", 200, `{"success":false,"error":{"message":"Backend overloaded"}}`},
		{"backend error status with JSON", 503, `{"success":false,"error":{"message":"maintenance"}}`},
		{"extra fields kept verbatim", 200, `{"success":true,"data":{"answer":"x"},"trace":"abc"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doer := &mockDoer{status: tc.backendStatus, body: []byte(tc.body)}
			f := newTestForwarder(t, doer)

			res := f.Forward(context.Background(), "status?")

			assert.Equal(t, http.StatusOK, res.Status)
			assert.Equal(t, tc.body, string(res.Body))
		})
	}
}

func TestForward_SendsQuestionToBackend(t *testing.T) {
	doer := &mockDoer{status: 200, body: []byte(`{"success":true,"data":{"answer":"ok"}}`)}
	f := newTestForwarder(t, doer)

	f.Forward(context.Background(), "which projects are late?")

	require.Len(t, doer.requests, 1)
	req := doer.requests[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "http://backend.test/ask", req.URL.String())
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	var sent models.AskRequest
	require.NoError(t, json.Unmarshal(doer.payloads[0], &sent))
	assert.Equal(t, "which projects are late?", sent.Question)
}

func TestForward_Failures(t *testing.T) {
	testCases := []struct {
		name string
		doer *mockDoer
	}{
		{"backend unreachable", &mockDoer{err: errors.New("dial tcp: connection refused")}},
		{"html body", &mockDoer{status: 502, body: []byte("<html>Bad Gateway</html>")}},
		{"empty body", &mockDoer{status: 200, body: nil}},
		{"truncated json", &mockDoer{status: 200, body: []byte(`{"success":tr`)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newTestForwarder(t, tc.doer)

			res := f.Forward(context.Background(), "q")

			assert.Equal(t, http.StatusInternalServerError, res.Status)
			assert.JSONEq(t, internalErrorBody, string(res.Body))
		})
	}
}

func TestForward_CancelledContext(t *testing.T) {
	doer := &mockDoer{err: context.Canceled}
	f := newTestForwarder(t, doer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := f.Forward(ctx, "q")
	assert.Equal(t, http.StatusInternalServerError, res.Status)
}

func TestAsk_DecodesResult(t *testing.T) {
	doer := &mockDoer{status: 200, body: []byte(`{"success":true,"data":{"answer":"**Apollo** is on track"}}`)}
	f := newTestForwarder(t, doer)

	resp, err := f.Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "**Apollo** is on track", resp.Text())
}

func TestAsk_InternalErrorIsUpstreamFailure(t *testing.T) {
	f := newTestForwarder(t, &mockDoer{err: errors.New("boom")})

	resp, err := f.Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, models.InternalErrorMessage, resp.Text())
	assert.Equal(t, models.ErrorCodeInternal, resp.Error.Code)
	assert.Equal(t, fixedNow.Unix(), resp.Timestamp)
}

func TestNewForwarder_DefaultBackend(t *testing.T) {
	f, err := NewForwarder("", time.Second, WithHTTPClient(&mockDoer{}))
	require.NoError(t, err)
	assert.Equal(t, models.DefaultBackendURL, f.BackendURL())
}
