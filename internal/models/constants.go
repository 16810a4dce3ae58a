// Package models contains data types and constants shared by the assistant
// client, the gateway and the chat engine.
package models

// Gateway and backend addresses
const (
	// GatewayPath is the fixed relative path the gateway listens on.
	GatewayPath = "/api/ask"

	DefaultBackendURL = "http://localhost:8000/ask"
	DefaultGatewayURL = "http://localhost:3000" + GatewayPath
	DefaultListenAddr = ":3000"
)

// Error codes reported in AssistantResponse.Error.Code
const (
	ErrorCodeInternal = "INTERNAL_ERROR"
)

// Fixed texts used by the gateway and the chat engine
const (
	// Greeting is the assistant message every session starts with.
	Greeting = "Hello! I'm your project assistant. How can I help you today?"

	// InternalErrorMessage is the message the gateway synthesizes when the
	// backend cannot be reached or answers with something that is not JSON.
	InternalErrorMessage = "Internal server error"

	// FallbackConnectionMessage is shown when the gateway itself cannot be
	// reached or returns an unreadable body.
	FallbackConnectionMessage = "I'm having trouble connecting right now. Please try again."

	// FallbackEmptyAnswer is shown when the backend reports success without an answer.
	FallbackEmptyAnswer = "I couldn't process that request."

	// FallbackUpstreamError is shown when the backend reports failure without a message.
	FallbackUpstreamError = "Something went wrong."
)

// DefaultHeaders returns the headers sent on every JSON request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "projassist",
	}
}
