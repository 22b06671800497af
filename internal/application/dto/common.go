package dto

// ErrorResponse cuerpo de error HTTP. Error lleva el mensaje legible; Code un
// identificador estable para el cliente.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SuccessResponse respuesta mínima de éxito.
type SuccessResponse struct {
	Success bool `json:"success"`
}
