package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID                 string          `json:"id"`
	OrderCode          string          `json:"order_code"`
	QRCode             string          `json:"qr_code,omitempty"`
	BuyerID            string          `json:"buyer_id"`
	VendorID           string          `json:"vendor_id"`
	DeliveryPersonID   *string         `json:"delivery_person_id,omitempty"`
	ProductID          string          `json:"product_id"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	PaymentMethod      string          `json:"payment_method"`
	Status             Status          `json:"status"`
	DeliveryAddress    string          `json:"delivery_address"`
	BuyerPhone         string          `json:"buyer_phone"`
	CancelReason       string          `json:"cancel_reason,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	PaymentConfirmedAt *time.Time      `json:"payment_confirmed_at,omitempty"`
	AssignedAt         *time.Time      `json:"assigned_at,omitempty"`
	DeliveredAt        *time.Time      `json:"delivered_at,omitempty"`
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (o *Order) Courier() string {
	if o.DeliveryPersonID == nil {
		return ""
	}
	return *o.DeliveryPersonID
}

func (o *Order) OwnedBy(courierID string) bool {
	return courierID != "" && o.DeliveryPersonID != nil && *o.DeliveryPersonID == courierID
}

// Redacted returns a copy without the proof-of-delivery secret.
func (o *Order) Redacted() *Order {
	cp := *o
	cp.QRCode = ""
	return &cp
}

type Transaction struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	Type        TxType          `json:"transaction_type"`
	Status      TxStatus        `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	ProviderRef string          `json:"provider_ref,omitempty"`
	Message     string          `json:"message,omitempty"`
	ApprovedAt  *time.Time      `json:"approved_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Role string

const (
	RoleBuyer    Role = "buyer"
	RoleVendor   Role = "vendor"
	RoleCourier  Role = "courier"
	RoleOperator Role = "operator"
	// RoleSystem is used by trusted callbacks such as the payment webhook.
	RoleSystem Role = "system"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleBuyer, RoleVendor, RoleCourier, RoleOperator, RoleSystem:
		return Role(s), true
	default:
		return "", false
	}
}

// Session identifies the actor behind a call. It is always passed explicitly.
type Session struct {
	ActorID string
	Role    Role
	Token   string
}

func SystemSession(actor string) Session {
	return Session{ActorID: actor, Role: RoleSystem}
}

// CourierGuard constrains delivery_person_id in a conditional write.
type CourierGuard struct {
	kind courierGuardKind
	id   string
}

type courierGuardKind int

const (
	courierAny courierGuardKind = iota
	courierUnassigned
	courierIs
)

func AnyCourier() CourierGuard { return CourierGuard{kind: courierAny} }

func Unassigned() CourierGuard { return CourierGuard{kind: courierUnassigned} }

func CourierIs(id string) CourierGuard { return CourierGuard{kind: courierIs, id: id} }

func (g CourierGuard) IsAny() bool { return g.kind == courierAny }

func (g CourierGuard) IsUnassigned() bool { return g.kind == courierUnassigned }

// ID returns the required courier and true when the guard pins one.
func (g CourierGuard) ID() (string, bool) {
	return g.id, g.kind == courierIs
}

func (g CourierGuard) Matches(deliveryPersonID *string) bool {
	switch g.kind {
	case courierUnassigned:
		return deliveryPersonID == nil
	case courierIs:
		return deliveryPersonID != nil && *deliveryPersonID == g.id
	default:
		return true
	}
}

// Guard is the precondition of a conditional write.
type Guard struct {
	ID      string
	From    []Status
	Courier CourierGuard
}

func (g Guard) Matches(o *Order) bool {
	if o == nil || o.ID != g.ID {
		return false
	}
	matched := false
	for _, s := range g.From {
		if o.Status == s {
			matched = true
			break
		}
	}
	return matched && g.Courier.Matches(o.DeliveryPersonID)
}

// Patch is the mutation applied when a Guard holds. Timestamps are set-once:
// a store keeps the existing value when the column is already populated.
type Patch struct {
	To                 Status
	DeliveryPersonID   *string
	PaymentConfirmedAt *time.Time
	AssignedAt         *time.Time
	DeliveredAt        *time.Time
	CancelledAt        *time.Time
	CancelReason       *string
	UpdatedAt          time.Time
}

// Apply mutates o in place following the set-once rules.
func (p Patch) Apply(o *Order) {
	o.Status = p.To
	if p.DeliveryPersonID != nil && o.DeliveryPersonID == nil {
		id := *p.DeliveryPersonID
		o.DeliveryPersonID = &id
	}
	o.PaymentConfirmedAt = setOnce(o.PaymentConfirmedAt, p.PaymentConfirmedAt)
	o.AssignedAt = setOnce(o.AssignedAt, p.AssignedAt)
	o.DeliveredAt = setOnce(o.DeliveredAt, p.DeliveredAt)
	o.CancelledAt = setOnce(o.CancelledAt, p.CancelledAt)
	if p.CancelReason != nil {
		o.CancelReason = *p.CancelReason
	}
	o.UpdatedAt = p.UpdatedAt
}

func setOnce(cur, next *time.Time) *time.Time {
	if cur != nil || next == nil {
		return cur
	}
	t := *next
	return &t
}
