package models

// ProjectSummary is the project shape the backend may attach to an answer.
// Reserved: carried in the contract, not rendered.
type ProjectSummary struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Status    string  `json:"status"`
	StartDate string  `json:"start_date"`
	Deadline  string  `json:"deadline"`
	Progress  float64 `json:"progress"`
}

// ResponseData is the payload of a successful answer
type ResponseData struct {
	Question  string           `json:"question,omitempty"`
	Answer    string           `json:"answer"`
	Formatted bool             `json:"formatted,omitempty"`
	Projects  []ProjectSummary `json:"projects,omitempty"`
	Timestamp int64            `json:"timestamp,omitempty"`
}

// ResponseError describes a failed answer
type ResponseError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// AssistantResponse is the envelope exchanged between client, gateway and backend.
// Exactly one of Data or Error is meaningful, selected by Success.
type AssistantResponse struct {
	Success   bool           `json:"success"`
	Data      *ResponseData  `json:"data,omitempty"`
	Error     *ResponseError `json:"error,omitempty"`
	Timestamp int64          `json:"timestamp,omitempty"`
}

// AskRequest is the body posted to the gateway and to the backend
type AskRequest struct {
	Question string `json:"question"`
}

// NewInternalError builds the response the gateway synthesizes on failure
func NewInternalError(unixSeconds int64) *AssistantResponse {
	return &AssistantResponse{
		Success: false,
		Error: &ResponseError{
			Message: InternalErrorMessage,
			Code:    ErrorCodeInternal,
		},
		Timestamp: unixSeconds,
	}
}

// Answer returns the answer text of a successful response, or "" otherwise
func (r *AssistantResponse) Answer() string {
	if r == nil || !r.Success || r.Data == nil {
		return ""
	}
	return r.Data.Answer
}

// ErrorMessage returns the upstream error message of a failed response, or "" otherwise
func (r *AssistantResponse) ErrorMessage() string {
	if r == nil || r.Success || r.Error == nil {
		return ""
	}
	return r.Error.Message
}

// Text returns what the transcript shows for this response.
// An empty answer or error message falls back to a fixed text.
func (r *AssistantResponse) Text() string {
	if r == nil {
		return FallbackConnectionMessage
	}
	if r.Success {
		if answer := r.Answer(); answer != "" {
			return answer
		}
		return FallbackEmptyAnswer
	}
	if msg := r.ErrorMessage(); msg != "" {
		return msg
	}
	return FallbackUpstreamError
}
