// Package types defines the JSON envelopes shared by every endpoint.
package types

// SuccessEnvelope wraps every 2xx payload under a "data" key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// ErrorObject is the wire form of a failed request.
type ErrorObject struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an ErrorObject under an "error" key.
type ErrorEnvelope struct {
	Error ErrorObject `json:"error"`
}
