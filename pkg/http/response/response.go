// Package response writes the JSON envelope shared by every HTTP endpoint.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/meatshop/internal/service/errs"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

func init() {
	// prices are numbers on the wire
	decimal.MarshalJSONWithoutQuotes = true
}

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Total   *int   `json:"total,omitempty"`
	Page    *int   `json:"page,omitempty"`
	Pages   *int   `json:"pages,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON writes env with the given status code.
func JSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}

// OK writes a successful response carrying data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response carrying data.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// List writes a collection with its size.
func List(w http.ResponseWriter, data any, count int) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

// Paged writes one page of a collection with the pagination totals.
func Paged(w http.ResponseWriter, data any, count, total, page, pages int) {
	JSON(w, http.StatusOK, Envelope{
		Success: true,
		Data:    data,
		Count:   &count,
		Total:   &total,
		Page:    &page,
		Pages:   &pages,
	})
}

// Message writes a successful response with only a message.
func Message(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, Envelope{Success: true, Message: message})
}

// StatusOf maps an error kind to its HTTP status code.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation), errors.Is(err, errs.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error writes the failure envelope for err. Unclassified errors are logged and
// only expose their text when env is development.
func Error(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	env := Envelope{
		Success: false,
		Message: errs.MessageOf(err),
		Code:    errs.CodeOf(err),
	}

	switch status {
	case http.StatusInternalServerError:
		slog.Error("Internal error", "error", err)
		env.Message = "Server error"
		env.Code = ""
		if viper.GetString("env") == "development" {
			env.Error = err.Error()
		}
	case http.StatusServiceUnavailable:
		slog.Warn("Store unavailable", "error", err)
		env.Message = "Service temporarily unavailable, please retry"
	}

	if env.Message == "" {
		env.Message = err.Error()
	}

	JSON(w, status, env)
}

// BadRequest writes a 400 with message, for malformed input caught before the service layer.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, Envelope{Success: false, Message: message, Code: "VALIDATION_ERROR"})
}
