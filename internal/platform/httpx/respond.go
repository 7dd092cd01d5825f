// Package httpx provides JSON response helpers for the API envelope.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire format shared by every API response.
type Envelope struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message,omitempty"`
	Data       any      `json:"data,omitempty"`
	Errors     []string `json:"errors,omitempty"`
	Error      string   `json:"error,omitempty"`
	Pagination any      `json:"pagination,omitempty"`
}

// JSON sends an arbitrary payload with the given status code.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// OK sends a success envelope with data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// OKMessage sends a success envelope with data and a message.
func OKMessage(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created sends a 201 envelope with data and a message.
func Created(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Page sends a success envelope with data and pagination metadata.
func Page(w http.ResponseWriter, data, pagination any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data, Pagination: pagination})
}

// Fail sends a failure envelope with the given status and message.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Success: false, Message: message})
}

// FailValidation sends a 400 envelope carrying the full list of field messages.
func FailValidation(w http.ResponseWriter, message string, errs []string) {
	JSON(w, http.StatusBadRequest, Envelope{Success: false, Message: message, Errors: errs})
}

// DecodeJSON decodes the request body into target.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
