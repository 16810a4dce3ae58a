package models

import (
	"encoding/json"
	"testing"
)

func TestAssistantResponse_Text(t *testing.T) {
	tests := []struct {
		name string
		resp *AssistantResponse
		want string
	}{
		{
			name: "nil response",
			resp: nil,
			want: FallbackConnectionMessage,
		},
		{
			name: "successful answer",
			resp: &AssistantResponse{Success: true, Data: &ResponseData{Answer: "All projects on track"}},
			want: "All projects on track",
		},
		{
			name: "success without data",
			resp: &AssistantResponse{Success: true},
			want: FallbackEmptyAnswer,
		},
		{
			name: "success with empty answer",
			resp: &AssistantResponse{Success: true, Data: &ResponseData{Answer: ""}},
			want: FallbackEmptyAnswer,
		},
		{
			name: "upstream failure",
			resp: &AssistantResponse{Success: false, Error: &ResponseError{Message: "Index unavailable", Code: "PINECONE_DOWN"}},
			want: "Index unavailable",
		},
		{
			name: "upstream failure without message",
			resp: &AssistantResponse{Success: false, Error: &ResponseError{Code: "X"}},
			want: FallbackUpstreamError,
		},
		{
			name: "failure without error object",
			resp: &AssistantResponse{Success: false},
			want: FallbackUpstreamError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssistantResponse_DecodeKeepsReservedFields(t *testing.T) {
	body := `{
		"success": true,
		"data": {
			"question": "status?",
			"answer": "Two projects are late.",
			"formatted": true,
			"timestamp": 1718000000,
			"projects": [
				{"id": "p1", "name": "Atlas", "status": "delayed", "start_date": "2024-01-01", "deadline": "2024-06-01", "progress": 40}
			]
		}
	}`

	var resp AssistantResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if !resp.Success || resp.Data == nil {
		t.Fatal("expected successful response with data")
	}
	if !resp.Data.Formatted {
		t.Error("Formatted should be decoded")
	}
	if resp.Data.Timestamp != 1718000000 {
		t.Errorf("Timestamp = %d, want 1718000000", resp.Data.Timestamp)
	}
	if len(resp.Data.Projects) != 1 {
		t.Fatalf("Projects len = %d, want 1", len(resp.Data.Projects))
	}
	p := resp.Data.Projects[0]
	if p.Name != "Atlas" || p.StartDate != "2024-01-01" || p.Progress != 40 {
		t.Errorf("unexpected project: %+v", p)
	}
}

func TestNewInternalError(t *testing.T) {
	resp := NewInternalError(1700000000)

	if resp.Success {
		t.Error("Success should be false")
	}
	if resp.Error == nil {
		t.Fatal("Error should be set")
	}
	if resp.Error.Message != "Internal server error" {
		t.Errorf("Error.Message = %q", resp.Error.Message)
	}
	if resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("Error.Code = %q", resp.Error.Code)
	}
	if resp.Timestamp != 1700000000 {
		t.Errorf("Timestamp = %d", resp.Timestamp)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"success":false,"error":{"message":"Internal server error","code":"INTERNAL_ERROR"},"timestamp":1700000000}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}
