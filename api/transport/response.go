package transport

import (
	"encoding/json"
	"net/http"
)

// Response is the HTTP-shaped envelope every action returns.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

var internalErrorBody = []byte(`{"error":"Internal server error"}`)

// NewResponse serializes body and attaches the JSON content type and the
// permissive CORS headers. It is the only way actions build responses.
func NewResponse(status int, body interface{}) Response {
	payload, err := json.Marshal(body)
	if err != nil {
		status, payload = http.StatusInternalServerError, internalErrorBody
	}
	return Response{
		StatusCode: status,
		Headers:    defaultHeaders(),
		Body:       payload,
	}
}

// NewError returns an error response with the given client-facing message.
func NewError(status int, message string) Response {
	return NewResponse(status, ErrorResponse{Error: message})
}

func defaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type,Authorization",
		"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
	}
}

// String returns the body for logging purposes.
func (r Response) String() string {
	return string(r.Body)
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type UserPayload struct {
	Username string `json:"username"`
}

type LoginResponse struct {
	Success      bool        `json:"success"`
	SessionToken string      `json:"sessionToken"`
	ExpiresAt    int64       `json:"expiresAt"`
	User         UserPayload `json:"user"`
}

type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ValidateResponse struct {
	Valid     bool        `json:"valid"`
	User      UserPayload `json:"user"`
	ExpiresAt int64       `json:"expiresAt"`
}
