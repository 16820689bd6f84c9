package model

// ErrorResponse is the only error payload this service returns to clients.
// Remote panel bodies and internal detail stay in server logs.
type ErrorResponse struct {
	Error string `json:"error"`
}
