// Package response holds the JSON bodies shared by handlers and middleware.
package response

import (
	"encoding/json"
	"net/http"
)

// Messages returned to callers. Internal detail never reaches the body.
const (
	MsgInvalidMediaType = "El archivo debe ser de tipo audio o video"
	MsgInternalError    = "Error interno del servidor"
	MsgFileTooLarge     = "El archivo excede el tamaño máximo permitido"
	MsgInvalidForm      = "Formulario multipart inválido"
	MsgFileRequired     = "Se requiere un archivo"
	MsgUnauthorized     = "No autorizado"
	MsgTooManyRequests  = "Demasiadas solicitudes"
)

type TranscriptionResponse struct {
	Transcription string `json:"transcription"`
	Success       bool   `json:"success"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorResponse{Success: false, Error: msg})
}
