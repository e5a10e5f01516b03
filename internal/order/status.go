package order

import (
	"errors"
	"fmt"
)

var ErrUnknownStatus = errors.New("unknown status")

type Status string

const (
	StatusPending    Status = "pending"
	StatusPaid       Status = "paid"
	StatusAssigned   Status = "assigned"
	StatusInDelivery Status = "in_delivery"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	// StatusRefunded is kept parseable for rows written by older clients.
	// Refund progress is tracked on the refund Transaction; no transition produces it.
	StatusRefunded Status = "refunded"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusPaid, StatusAssigned, StatusInDelivery,
		StatusDelivered, StatusCancelled, StatusRefunded:
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: order status %q", ErrUnknownStatus, s)
	}
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

// CourierOwned reports whether a courier holds the order and it is not yet delivered.
func (s Status) CourierOwned() bool {
	return s == StatusAssigned || s == StatusInDelivery
}

// Cancellable statuses. pending is excluded: an unpaid order is simply abandoned.
func (s Status) Cancellable() bool {
	switch s {
	case StatusPaid, StatusAssigned, StatusInDelivery:
		return true
	default:
		return false
	}
}

// CanTransition is the authoritative edge list of the order lifecycle.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusPaid
	case StatusPaid:
		return to == StatusAssigned || to == StatusCancelled
	case StatusAssigned:
		return to == StatusInDelivery || to == StatusCancelled
	case StatusInDelivery:
		return to == StatusDelivered || to == StatusCancelled
	case StatusDelivered, StatusCancelled, StatusRefunded:
		return false
	default:
		return false
	}
}

// Sources lists every status with a legal edge into to.
func Sources(to Status) []Status {
	var out []Status
	for _, from := range []Status{StatusPending, StatusPaid, StatusAssigned, StatusInDelivery} {
		if CanTransition(from, to) {
			out = append(out, from)
		}
	}
	return out
}

type TxType string

const (
	TxPayment TxType = "payment"
	TxPayout  TxType = "payout"
	TxRefund  TxType = "refund"
)

func ParseTxType(s string) (TxType, error) {
	switch TxType(s) {
	case TxPayment, TxPayout, TxRefund:
		return TxType(s), nil
	default:
		return "", fmt.Errorf("%w: transaction type %q", ErrUnknownStatus, s)
	}
}

type TxStatus string

const (
	TxSuccessful TxStatus = "SUCCESSFUL"
	TxPending    TxStatus = "PENDING"
	TxFailed     TxStatus = "FAILED"
)

func ParseTxStatus(s string) (TxStatus, error) {
	switch TxStatus(s) {
	case TxSuccessful, TxPending, TxFailed:
		return TxStatus(s), nil
	default:
		return "", fmt.Errorf("%w: transaction status %q", ErrUnknownStatus, s)
	}
}

var providerStatuses = map[string]TxStatus{
	"SUCCESSFUL": TxSuccessful,
	"SUCCESS":    TxSuccessful,
	"SUCCEEDED":  TxSuccessful,
	"COMPLETED":  TxSuccessful,
	"PAID":       TxSuccessful,
	"PENDING":    TxPending,
	"PROCESSING": TxPending,
	"INITIATED":  TxPending,
	"QUEUED":     TxPending,
	"FAILED":     TxFailed,
	"FAILURE":    TxFailed,
	"REJECTED":   TxFailed,
	"CANCELLED":  TxFailed,
	"EXPIRED":    TxFailed,
	"DECLINED":   TxFailed,
}

// NormalizeProviderStatus folds a payment provider's vocabulary into TxStatus.
func NormalizeProviderStatus(raw string) (TxStatus, error) {
	if st, ok := providerStatuses[NormalizeCode(raw)]; ok {
		return st, nil
	}
	return "", fmt.Errorf("%w: provider status %q", ErrUnknownStatus, raw)
}
