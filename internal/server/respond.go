package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/opengestu/validele-sub000/internal/order"
)

type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Reason string `json:"reason,omitempty"`
}

var errorKinds = []struct {
	kind   error
	name   string
	status int
}{
	{order.ErrClaimConflict, "claim_conflict", http.StatusConflict},
	{order.ErrInvalidProof, "invalid_proof", http.StatusUnprocessableEntity},
	{order.ErrIllegalTransition, "illegal_transition", http.StatusConflict},
	{order.ErrCollaboratorUnavailable, "collaborator_unavailable", http.StatusBadGateway},
	{order.ErrDataInconsistency, "data_inconsistency", http.StatusInternalServerError},
	{order.ErrNotFound, "not_found", http.StatusNotFound},
	{order.ErrForbidden, "forbidden", http.StatusForbidden},
	{order.ErrTimeout, "timeout", http.StatusGatewayTimeout},
	{order.ErrInvalidArgument, "invalid_argument", http.StatusBadRequest},
}

// KindName is the stable machine-readable name of a lifecycle error kind.
func KindName(err error) string {
	kind := order.KindOf(err)
	for _, k := range errorKinds {
		if k.kind == kind {
			return k.name
		}
	}
	return "internal"
}

func statusFor(err error) int {
	kind := order.KindOf(err)
	for _, k := range errorKinds {
		if k.kind == kind {
			return k.status
		}
	}
	return http.StatusInternalServerError
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondLifecycleError writes the user-facing message for err. Errors that are
// not lifecycle errors never leak their text.
func respondLifecycleError(w http.ResponseWriter, err error) {
	resp := errorResponse{Kind: KindName(err)}
	var lifecycleErr *order.Error
	if errors.As(err, &lifecycleErr) {
		resp.Error = lifecycleErr.UserMessage()
		if lifecycleErr.Kind == order.ErrInvalidArgument {
			resp.Reason = lifecycleErr.Msg
		}
	} else {
		resp.Error = order.UserMessage(order.KindOf(err))
	}
	respondJSON(w, statusFor(err), resp)
}
