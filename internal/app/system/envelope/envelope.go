// Package envelope writes the uniform JSON response body:
//
//	{"statusCode": n, "data": ..., "message": "...", "success": n < 400}
//
// statusCode also sets the transport status. Every endpoint, success or
// failure, goes through this package.
package envelope

import (
	"encoding/json"
	"net/http"

	"github.com/tanish435/Project-Management-Application-sub001/internal/app/system/apierr"
)

type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// Write serializes the envelope and sets the transport status.
func Write(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < 400,
	})
}

// OK writes a 200 success envelope.
func OK(w http.ResponseWriter, data any, message string) {
	Write(w, http.StatusOK, data, message)
}

// Created writes a 201 success envelope.
func Created(w http.ResponseWriter, data any, message string) {
	Write(w, http.StatusCreated, data, message)
}

// Accepted writes a 202 envelope, used for benign already-in-desired-state
// outcomes (e.g. adding a board that is already in a collection).
func Accepted(w http.ResponseWriter, data any, message string) {
	Write(w, http.StatusAccepted, data, message)
}

// Fail writes a failure envelope with a null data field.
func Fail(w http.ResponseWriter, status int, message string) {
	Write(w, status, nil, message)
}

// Error writes a failure envelope from a kinded error, using its
// caller-safe message and mapped status.
func Error(w http.ResponseWriter, err error) {
	Fail(w, apierr.KindOf(err).Status(), apierr.Message(err))
}
