package repository

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/opengestu/validele-sub000/internal/order"
)

const minorUnitExp = 2

func AmountToMinor(d decimal.Decimal) int64 {
	return d.Shift(minorUnitExp).Round(0).IntPart()
}

func AmountFromMinor(v int64) decimal.Decimal {
	return decimal.New(v, -minorUnitExp)
}

func FromOrder(o *order.Order) *Order {
	return &Order{
		ID:                 o.ID,
		OrderCode:          o.OrderCode,
		QRCode:             o.QRCode,
		BuyerID:            o.BuyerID,
		VendorID:           o.VendorID,
		DeliveryPersonID:   o.DeliveryPersonID,
		ProductID:          o.ProductID,
		TotalAmount:        AmountToMinor(o.TotalAmount),
		PaymentMethod:      o.PaymentMethod,
		Status:             string(o.Status),
		DeliveryAddress:    o.DeliveryAddress,
		BuyerPhone:         o.BuyerPhone,
		CancelReason:       o.CancelReason,
		CreatedAt:          o.CreatedAt,
		PaymentConfirmedAt: o.PaymentConfirmedAt,
		AssignedAt:         o.AssignedAt,
		DeliveredAt:        o.DeliveredAt,
		CancelledAt:        o.CancelledAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

// ToOrder rejects rows carrying a status the lifecycle does not know.
func (r *Order) ToOrder() (*order.Order, error) {
	status, err := order.ParseStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", r.ID, err)
	}
	return &order.Order{
		ID:                 r.ID,
		OrderCode:          r.OrderCode,
		QRCode:             r.QRCode,
		BuyerID:            r.BuyerID,
		VendorID:           r.VendorID,
		DeliveryPersonID:   r.DeliveryPersonID,
		ProductID:          r.ProductID,
		TotalAmount:        AmountFromMinor(r.TotalAmount),
		PaymentMethod:      r.PaymentMethod,
		Status:             status,
		DeliveryAddress:    r.DeliveryAddress,
		BuyerPhone:         r.BuyerPhone,
		CancelReason:       r.CancelReason,
		CreatedAt:          r.CreatedAt,
		PaymentConfirmedAt: r.PaymentConfirmedAt,
		AssignedAt:         r.AssignedAt,
		DeliveredAt:        r.DeliveredAt,
		CancelledAt:        r.CancelledAt,
		UpdatedAt:          r.UpdatedAt,
	}, nil
}

func FromTransaction(t *order.Transaction) *Transaction {
	return &Transaction{
		ID:              t.ID,
		OrderID:         t.OrderID,
		TransactionType: string(t.Type),
		Status:          string(t.Status),
		Amount:          AmountToMinor(t.Amount),
		ProviderRef:     t.ProviderRef,
		Message:         t.Message,
		ApprovedAt:      t.ApprovedAt,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func (r *Transaction) ToTransaction() (*order.Transaction, error) {
	typ, err := order.ParseTxType(r.TransactionType)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", r.ID, err)
	}
	status, err := order.ParseTxStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", r.ID, err)
	}
	return &order.Transaction{
		ID:          r.ID,
		OrderID:     r.OrderID,
		Type:        typ,
		Status:      status,
		Amount:      AmountFromMinor(r.Amount),
		ProviderRef: r.ProviderRef,
		Message:     r.Message,
		ApprovedAt:  r.ApprovedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}
