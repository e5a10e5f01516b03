package server

import (
	"time"
)

// AuditLogEntry describes one mutating call: who made it, on which order, and
// the order status before and after. Bodies that carry proof codes are omitted.
type AuditLogEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Handler    string    `json:"handler"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"status_code"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	Role       string    `json:"role,omitempty"`
	OrderID    string    `json:"order_id,omitempty"`
	OldStatus  string    `json:"old_status,omitempty"`
	NewStatus  string    `json:"new_status,omitempty"`
	Request    string    `json:"request,omitempty"`
	Response   string    `json:"response,omitempty"`
}

// Transitioned reports whether the call moved the order to another status.
func (e AuditLogEntry) Transitioned() bool {
	return e.NewStatus != "" && e.NewStatus != e.OldStatus
}
