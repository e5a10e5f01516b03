package repository

import (
	"errors"
	"time"
)

var ErrObjectNotFound = errors.New("not found")

// Order mirrors the orders table. Amounts are stored in minor units.
type Order struct {
	ID                 string     `db:"id"`
	OrderCode          string     `db:"order_code"`
	QRCode             string     `db:"qr_code"`
	BuyerID            string     `db:"buyer_id"`
	VendorID           string     `db:"vendor_id"`
	DeliveryPersonID   *string    `db:"delivery_person_id"`
	ProductID          string     `db:"product_id"`
	TotalAmount        int64      `db:"total_amount"`
	PaymentMethod      string     `db:"payment_method"`
	Status             string     `db:"status"`
	DeliveryAddress    string     `db:"delivery_address"`
	BuyerPhone         string     `db:"buyer_phone"`
	CancelReason       string     `db:"cancel_reason"`
	CreatedAt          time.Time  `db:"created_at"`
	PaymentConfirmedAt *time.Time `db:"payment_confirmed_at"`
	AssignedAt         *time.Time `db:"assigned_at"`
	DeliveredAt        *time.Time `db:"delivered_at"`
	CancelledAt        *time.Time `db:"cancelled_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
}

type Transaction struct {
	ID              string     `db:"id"`
	OrderID         string     `db:"order_id"`
	TransactionType string     `db:"transaction_type"`
	Status          string     `db:"status"`
	Amount          int64      `db:"amount"`
	ProviderRef     string     `db:"provider_ref"`
	Message         string     `db:"message"`
	ApprovedAt      *time.Time `db:"approved_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

type User struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Password string `db:"password"`
}
