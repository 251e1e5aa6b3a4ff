package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// JSONResponse builds a JSON reply with a fluent API.
type JSONResponse struct {
	statusCode int
	headers    map[string]string
	body       any
}

func NewJSONResponse(body any) *JSONResponse {
	return &JSONResponse{statusCode: http.StatusOK, headers: map[string]string{}, body: body}
}

func (b *JSONResponse) Status(code int) *JSONResponse {
	b.statusCode = code
	return b
}

func (b *JSONResponse) Header(name, value string) *JSONResponse {
	b.headers[name] = value
	return b
}

// Write sends the response. A nil body writes only the status line.
func (b *JSONResponse) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.body == nil {
		w.WriteHeader(b.statusCode)
		return
	}
	buf, err := json.Marshal(b.body)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(append(buf, '\n'))
}

type errorBody struct {
	Error string `json:"error"`
}

func ErrorResponse(statusCode int, message string) *JSONResponse {
	return NewJSONResponse(errorBody{Error: message}).Status(statusCode)
}

func BadRequestError(message string) *JSONResponse {
	return ErrorResponse(http.StatusBadRequest, message)
}

func UnprocessableEntityError(message string) *JSONResponse {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

func NotFoundError(message string) *JSONResponse {
	return ErrorResponse(http.StatusNotFound, message)
}

func InternalServerError(message string) *JSONResponse {
	return ErrorResponse(http.StatusInternalServerError, message)
}

func BadGatewayError(message string) *JSONResponse {
	return ErrorResponse(http.StatusBadGateway, message)
}

func ServiceUnavailableError(message string) *JSONResponse {
	return ErrorResponse(http.StatusServiceUnavailable, message)
}
