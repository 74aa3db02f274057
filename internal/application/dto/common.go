package dto

import "encoding/json"

// ErrorResponse cuerpo de error HTTP. Count solo en errores *_IN_USE.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// DispatchRequest acción serializada.
type DispatchRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload" swaggertype:"object"`
}
