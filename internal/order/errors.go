package order

import (
	"errors"
	"fmt"
)

var (
	ErrClaimConflict           = errors.New("claim conflict")
	ErrInvalidProof            = errors.New("invalid proof of delivery")
	ErrIllegalTransition       = errors.New("illegal transition")
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	ErrDataInconsistency       = errors.New("data inconsistency")
	ErrNotFound                = errors.New("order not found")
	ErrForbidden               = errors.New("forbidden")
	ErrTimeout                 = errors.New("operation timed out")
	ErrInvalidArgument         = errors.New("invalid argument")

	// ErrConditionFailed is returned by stores when a conditional write matched no row.
	ErrConditionFailed = errors.New("conditional write matched no row")
)

// Error is a lifecycle failure. Kind is one of the sentinels above and is
// what errors.Is matches against.
type Error struct {
	Kind    error
	Op      string
	OrderID string
	Msg     string
	Err     error
}

func (e *Error) Error() string {
	s := e.Op + ": " + e.Kind.Error()
	if e.OrderID != "" {
		s += " (order " + e.OrderID + ")"
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage is safe to show to the acting user and tells them what to do next.
func (e *Error) UserMessage() string {
	return UserMessage(e.Kind)
}

func UserMessage(kind error) string {
	switch kind {
	case ErrClaimConflict:
		return "This order is no longer available. Refresh the list and pick another order."
	case ErrInvalidProof:
		return "The scanned code does not match this delivery. Ask the buyer to show their code and scan again."
	case ErrIllegalTransition:
		return "This action is not possible in the order's current state. Refresh the order."
	case ErrCollaboratorUnavailable:
		return "The payment service did not respond. The order was left unchanged; try again later."
	case ErrNotFound:
		return "Order not found."
	case ErrForbidden:
		return "You are not allowed to perform this action on this order."
	case ErrTimeout:
		return "The request timed out. Refresh the order before retrying."
	case ErrInvalidArgument:
		return "The request is invalid."
	default:
		return "Something went wrong. Contact support if it persists."
	}
}

// KindOf returns the sentinel kind of err, or nil when err is not a lifecycle error.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for _, k := range []error{
		ErrClaimConflict, ErrInvalidProof, ErrIllegalTransition, ErrCollaboratorUnavailable,
		ErrDataInconsistency, ErrNotFound, ErrForbidden, ErrTimeout, ErrInvalidArgument,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

func newError(kind error, op, orderID string, err error, format string, args ...any) *Error {
	e := &Error{Kind: kind, Op: op, OrderID: orderID, Err: err}
	if format != "" {
		e.Msg = fmt.Sprintf(format, args...)
	}
	return e
}

func ClaimConflict(op, orderID, format string, args ...any) *Error {
	return newError(ErrClaimConflict, op, orderID, nil, format, args...)
}

func InvalidProof(op, orderID, format string, args ...any) *Error {
	return newError(ErrInvalidProof, op, orderID, nil, format, args...)
}

func IllegalTransition(op, orderID string, from, to Status) *Error {
	return newError(ErrIllegalTransition, op, orderID, nil, "%s -> %s", from, to)
}

func CollaboratorUnavailable(op, orderID string, err error) *Error {
	return newError(ErrCollaboratorUnavailable, op, orderID, err, "")
}

func DataInconsistency(op, orderID, format string, args ...any) *Error {
	return newError(ErrDataInconsistency, op, orderID, nil, format, args...)
}

func NotFound(op, orderID string) *Error {
	return newError(ErrNotFound, op, orderID, nil, "")
}

func Forbidden(op, orderID, format string, args ...any) *Error {
	return newError(ErrForbidden, op, orderID, nil, format, args...)
}

func Timeout(op, orderID string, err error) *Error {
	return newError(ErrTimeout, op, orderID, err, "")
}

func InvalidArgument(op, format string, args ...any) *Error {
	return newError(ErrInvalidArgument, op, "", nil, format, args...)
}
