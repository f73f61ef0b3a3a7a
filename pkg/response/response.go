// Package response is the JSON envelope used by every API handler.
package response

// Response is the standard API response body.
type Response struct {
	Status     string `json:"status"` // "success" or "error"
	StatusCode int    `json:"status_code"`
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
	Details    any    `json:"details,omitempty"`
}

// Success wraps data in a success response.
func Success(statusCode int, data any) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error wraps a message in an error response.
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// ErrorWithDetails is Error plus a machine-readable payload, such as a list
// of field violations.
func ErrorWithDetails(statusCode int, err string, details any) Response {
	r := Error(statusCode, err)
	r.Details = details
	return r
}
