// Package proof implements the proof-of-delivery handshake: the buyer shows a
// single-use code, the assigned courier scans it, and only an explicit
// confirmation after a valid scan finalizes the delivery.
package proof

import (
	"crypto/subtle"
	"sync"

	"github.com/opengestu/validele-sub000/internal/order"
)

type State string

const (
	StateIdle     State = "idle"
	StateChecking State = "checking"
	StateValid    State = "valid"
	StateInvalid  State = "invalid"
)

type Reason string

const (
	ReasonNone        Reason = ""
	ReasonMismatch    Reason = "code_mismatch"
	ReasonNotOwner    Reason = "not_assigned_courier"
	ReasonNotInFlight Reason = "not_in_delivery"
	ReasonEmpty       Reason = "empty_code"
)

// Result is the outcome of one scan.
type Result struct {
	State   State        `json:"state"`
	Reason  Reason       `json:"reason,omitempty"`
	OrderID string       `json:"order_id"`
	Order   *order.Order `json:"order,omitempty"`
}

// Confirmation is what a valid scan hands over to the delivery confirmation step.
type Confirmation struct {
	OrderID   string
	CourierID string
	Code      string
}

// Session is one courier's scan session. It never writes order state.
type Session struct {
	mu        sync.Mutex
	courierID string
	state     State
	last      Result
	confirm   *Confirmation
}

func NewSession(courierID string) *Session {
	return &Session{courierID: courierID, state: StateIdle}
}

func (s *Session) CourierID() string {
	return s.courierID
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) LastResult() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Scan checks scanned against the order's stored code. A valid scan leaves the
// session in StateValid until Confirmation is consumed or Reset is called; an
// invalid scan reports StateInvalid and leaves the session idle for a re-scan.
func (s *Session) Scan(o *order.Order, scanned string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateChecking
	s.confirm = nil

	res := Result{OrderID: o.ID}
	switch reason := check(o, s.courierID, scanned); reason {
	case ReasonNone:
		res.State = StateValid
		res.Order = o
		s.state = StateValid
		s.confirm = &Confirmation{
			OrderID:   o.ID,
			CourierID: s.courierID,
			Code:      order.NormalizeCode(scanned),
		}
	default:
		res.State = StateInvalid
		res.Reason = reason
		s.state = StateIdle
	}
	s.last = res
	return res
}

// Confirmation returns the pending confirmation for orderID if the last scan was valid.
func (s *Session) Confirmation(orderID string) (Confirmation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateValid || s.confirm == nil || s.confirm.OrderID != orderID {
		return Confirmation{}, false
	}
	return *s.confirm, true
}

func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	s.confirm = nil
	s.last = Result{}
}

func check(o *order.Order, courierID, scanned string) Reason {
	if order.NormalizeCode(scanned) == "" {
		return ReasonEmpty
	}
	if !Verify(o.QRCode, scanned) {
		return ReasonMismatch
	}
	if !o.OwnedBy(courierID) {
		return ReasonNotOwner
	}
	if o.Status != order.StatusInDelivery {
		return ReasonNotInFlight
	}
	return ReasonNone
}

// Verify compares a stored code with a scanned one after normalizing both.
func Verify(stored, scanned string) bool {
	a := order.NormalizeCode(stored)
	b := order.NormalizeCode(scanned)
	if a == "" || b == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
