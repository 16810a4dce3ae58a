package api

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	http "github.com/bogdanfinn/fhttp"

	apierrors "github.com/diogo/projassist/internal/errors"
	"github.com/diogo/projassist/internal/models"
)

const testGatewayURL = "http://gateway.test/api/ask"

func newTestClient(t *testing.T, mock *MockHttpClient) *Client {
	t.Helper()
	client, err := NewClient(testGatewayURL, WithHTTPClient(mock))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClient_DefaultURL(t *testing.T) {
	client, err := NewClient("", WithHTTPClient(&MockHttpClient{}))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if client.GatewayURL() != models.DefaultGatewayURL {
		t.Errorf("GatewayURL() = %s, want %s", client.GatewayURL(), models.DefaultGatewayURL)
	}
}

func TestClientAsk_SendsQuestion(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"success":true,"data":{"answer":"ok"}}`), 200)
	client := newTestClient(t, mock)

	if _, err := client.Ask(context.Background(), "status of Apollo?"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if mock.Calls() != 1 {
		t.Fatalf("expected 1 request, got %d", mock.Calls())
	}
	req := mock.Requests[0]
	if req.Method != http.MethodPost {
		t.Errorf("method = %s, want POST", req.Method)
	}
	if req.URL.String() != testGatewayURL {
		t.Errorf("url = %s, want %s", req.URL, testGatewayURL)
	}
	if ct := req.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %s", ct)
	}

	var sent models.AskRequest
	if err := json.Unmarshal(mock.Bodies[0], &sent); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if sent.Question != "status of Apollo?" {
		t.Errorf("question = %q", sent.Question)
	}
}

func TestClientAsk_Responses(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		status   int
		wantText string
	}{
		{
			name:     "success",
			body:     `{"success":true,"data":{"answer":"Two projects are late."}}`,
			status:   200,
			wantText: "Two projects are late.",
		},
		{
			name:     "upstream failure passes through",
			body:     `{"success":false,"error":{"message":"Backend overloaded"}}`,
			status:   200,
			wantText: "Backend overloaded",
		},
		{
			name:     "internal error body with status 500",
			body:     `{"success":false,"error":{"message":"Internal server error","code":"INTERNAL_ERROR"},"timestamp":1700000000}`,
			status:   500,
			wantText: "Internal server error",
		},
		{
			name:     "empty answer",
			body:     `{"success":true,"data":{"answer":""}}`,
			status:   200,
			wantText: models.FallbackEmptyAnswer,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, NewMockHttpClient([]byte(tc.body), tc.status))

			resp, err := client.Ask(context.Background(), "q")
			if err != nil {
				t.Fatalf("Ask() error = %v", err)
			}
			if got := resp.Text(); got != tc.wantText {
				t.Errorf("Text() = %q, want %q", got, tc.wantText)
			}
		})
	}
}

func TestClientAsk_NetworkError(t *testing.T) {
	client := newTestClient(t, NewMockHttpClientWithError(errors.New("connection refused")))

	_, err := client.Ask(context.Background(), "q")
	if !apierrors.IsNetworkError(err) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if !errors.Is(err, apierrors.ErrGatewayUnavailable) {
		t.Error("NetworkError should match ErrGatewayUnavailable")
	}
	if apierrors.GetEndpoint(err) != testGatewayURL {
		t.Errorf("endpoint = %s", apierrors.GetEndpoint(err))
	}
}

func TestClientAsk_ReadError(t *testing.T) {
	mock := NewMockHttpClient(nil, 200)
	mock.Response.Body.(*MockResponseBody).err = errors.New("reset by peer")
	client := newTestClient(t, mock)

	_, err := client.Ask(context.Background(), "q")
	if !apierrors.IsNetworkError(err) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestClientAsk_NonJSONBody(t *testing.T) {
	mock := NewMockHttpClient([]byte("<html>Bad Gateway</html>"), 502)
	client := newTestClient(t, mock)

	_, err := client.Ask(context.Background(), "q")
	if !apierrors.IsParseError(err) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if got := apierrors.GetHTTPStatus(err); got != 502 {
		t.Errorf("GetHTTPStatus() = %d, want 502", got)
	}
	if !mock.Response.Body.(*MockResponseBody).closed {
		t.Error("response body should be closed")
	}
}

func TestClientAsk_EmptyQuestion(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{}`), 200)
	client := newTestClient(t, mock)

	_, err := client.Ask(context.Background(), "   ")
	if !errors.Is(err, apierrors.ErrEmptyQuestion) {
		t.Fatalf("expected ErrEmptyQuestion, got %v", err)
	}
	if mock.Calls() != 0 {
		t.Error("empty question must not reach the network")
	}
}
