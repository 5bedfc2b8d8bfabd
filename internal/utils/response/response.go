// Package response centralises how handlers write JSON back to the
// client.
//
// Every handler ends the same way: set the Content-Type, pick a status
// code, encode a value. Those three lines live here once, and — more
// importantly — so does the error envelope. A client integrating
// against this API sees one error shape everywhere, whether the problem
// was a missing field, an unknown id, or a failed patch operation.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the error envelope. Success bodies are whatever the
// handler has (a demo, a list of demos); failures are always:
//
//	{ "status": "error", "error": "field FirstName is required" }
//
// The json tags pin the wire names — without them the encoder would
// emit the exported Go names ("Status", "Error").
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status string `json:"status"` // "ok" or "error"
	Error  string `json:"error"`  // human-readable error detail
}

// Named constants for the status field, so a misspelling is a compile
// error instead of a quietly wrong response.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON encodes data as JSON onto w under the given status code.
//
//	w      — the handler's http.ResponseWriter
//	status — the HTTP status code to send (http.StatusOK, …)
//	data   — anything the JSON encoder accepts: struct, map, slice
//
// The call order inside is load-bearing: headers must be set before
// WriteHeader, and WriteHeader must run before the first body byte —
// net/http locks the headers at that point.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	// Declare the body's type before anything is committed.
	w.Header().Set("Content-Type", "application/json")

	// Emit the status line ("HTTP/1.1 201 Created", …).
	w.WriteHeader(status)

	// Stream the encoding straight into the response — no intermediate
	// buffer. Encode appends a trailing newline, which curl users
	// appreciate.
	return json.NewEncoder(w).Encode(data)
}

// ─────────────────────────────────────────────────────────────────────────────
// GeneralError lifts a plain Go error into the envelope. This is the
// path for everything that is not a validation failure: unknown ids,
// malformed bodies, failed patch operations, store faults.
//
//	response.WriteJSON(w, http.StatusNotFound,
//	    response.GeneralError(storage.ErrDemoNotFound))
//
// ─────────────────────────────────────────────────────────────────────────────
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError renders validator failures into one readable string.
//
// go-playground/validator reports a FieldError per failing field; each
// becomes a short sentence, and the sentences are joined with ", " so
// the client gets every problem in a single round trip:
//
//	{ "status": "error", "error": "field FirstName is required, field Age is required" }
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		// required — the field was absent or zero-valued
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		// gte — a numeric field under its floor (the age >= 18 rule)
		case "gte":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be at least %s", e.Field(), e.Param()))
		// anything else gets the generic wording
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
	}
}
