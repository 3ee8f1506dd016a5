package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Aleph-Alpha/cfvectorize/v1/vectorize"
)

// envelope mirrors the remote response wrapper so facade clients see the
// same shape they would get from the API directly.
type envelope struct {
	Success  bool                      `json:"success"`
	Errors   []vectorize.ResponseError `json:"errors"`
	Messages []any                     `json:"messages"`
	Result   any                       `json:"result"`
}

// ErrorResponse is the body of every failed facade request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details []any  `json:"details,omitempty"`
}

type fieldDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeResult(w http.ResponseWriter, result any) {
	writeJSON(w, http.StatusOK, envelope{
		Success:  true,
		Errors:   []vectorize.ResponseError{},
		Messages: []any{},
		Result:   result,
	})
}

// badRequest reports a malformed request that never reached the client.
func badRequest(w http.ResponseWriter, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Details = []any{err.Error()}
	}
	writeJSON(w, http.StatusBadRequest, resp)
}

// writeError maps client errors onto HTTP statuses: 400 for validation,
// the remote status for API errors, 502 when the remote was unreachable.
func writeError(w http.ResponseWriter, err error) {
	var (
		vErr *vectorize.ValidationError
		tErr *vectorize.TransportError
	)
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   vErr.Error(),
			Details: []any{fieldDetail{Field: vErr.Field, Reason: vErr.Reason}},
		})
	case isAPIError(err):
		apiErr, _ := vectorize.AsAPIError(err)
		status := apiErr.StatusCode
		if status < 400 {
			status = http.StatusBadGateway
		}
		details := make([]any, 0, len(apiErr.Errors))
		for _, e := range apiErr.Errors {
			details = append(details, e)
		}
		writeJSON(w, status, ErrorResponse{Error: apiErr.Message(), Details: details})
	case errors.As(err, &tErr):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "vectorize API unreachable", Details: []any{tErr.Err.Error()}})
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, ErrorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func isAPIError(err error) bool {
	_, ok := vectorize.AsAPIError(err)
	return ok
}
