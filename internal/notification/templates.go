package notification

import (
	"fmt"
	"time"

	"github.com/opengestu/validele-sub000/internal/order"
)

type Event string

const (
	EventOrderCreated     Event = "order_created"
	EventPaymentConfirmed Event = "payment_confirmed"
	EventPaymentFailed    Event = "payment_failed"
	EventDeliveryStarted  Event = "delivery_started"
	EventDelivered        Event = "delivered"
	EventCancelled        Event = "cancelled"
	EventRefundFailed     Event = "refund_failed"
	EventPayoutApproved   Event = "payout_approved"
)

// Message is one notification for one recipient.
type Message struct {
	Event     Event      `json:"event"`
	OrderID   string     `json:"order_id"`
	OrderCode string     `json:"order_code"`
	Recipient string     `json:"recipient"`
	Role      order.Role `json:"role"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	At        time.Time  `json:"at"`
}

// Context carries the per-event extras a template may use.
type Context struct {
	Reason string
	Admins []string
	At     time.Time
}

type recipient struct {
	id   string
	role order.Role
}

// Render builds the messages for an event. It is pure: the same input always
// yields the same messages, one per distinct recipient.
func Render(ev Event, o *order.Order, data Context) []Message {
	title, body := texts(ev, o, data.Reason)
	if title == "" {
		return nil
	}

	at := data.At
	if at.IsZero() {
		at = o.UpdatedAt
	}

	seen := make(map[string]bool)
	var out []Message
	for _, r := range recipients(ev, o, data.Admins) {
		if r.id == "" || seen[r.id] {
			continue
		}
		seen[r.id] = true
		out = append(out, Message{
			Event:     ev,
			OrderID:   o.ID,
			OrderCode: o.OrderCode,
			Recipient: r.id,
			Role:      r.role,
			Title:     title,
			Body:      body,
			At:        at,
		})
	}
	return out
}

func recipients(ev Event, o *order.Order, admins []string) []recipient {
	buyer := recipient{o.BuyerID, order.RoleBuyer}
	vendor := recipient{o.VendorID, order.RoleVendor}

	var rs []recipient
	switch ev {
	case EventOrderCreated, EventPayoutApproved:
		rs = []recipient{vendor}
	case EventPaymentConfirmed, EventDeliveryStarted:
		rs = []recipient{buyer, vendor}
	case EventPaymentFailed:
		rs = []recipient{buyer}
	case EventDelivered:
		rs = []recipient{buyer, vendor}
	case EventCancelled:
		rs = []recipient{buyer, vendor}
		if c := o.Courier(); c != "" {
			rs = append(rs, recipient{c, order.RoleCourier})
		}
	case EventRefundFailed:
		rs = []recipient{buyer}
	}

	switch ev {
	case EventDelivered, EventCancelled, EventRefundFailed:
		for _, a := range admins {
			rs = append(rs, recipient{a, order.RoleOperator})
		}
	}
	return rs
}

func texts(ev Event, o *order.Order, reason string) (string, string) {
	code := o.OrderCode
	switch ev {
	case EventOrderCreated:
		return "New order", fmt.Sprintf("Order %s was placed for %s.", code, o.TotalAmount.StringFixed(2))
	case EventPaymentConfirmed:
		return "Payment received", fmt.Sprintf("Payment for order %s is confirmed. A courier will pick it up soon.", code)
	case EventPaymentFailed:
		return "Payment failed", fmt.Sprintf("Payment for order %s did not go through. You can try again.", code)
	case EventDeliveryStarted:
		return "On the way", fmt.Sprintf("Order %s is out for delivery.", code)
	case EventDelivered:
		return "Delivered", fmt.Sprintf("Order %s was delivered.", code)
	case EventCancelled:
		body := fmt.Sprintf("Order %s was cancelled.", code)
		if reason != "" {
			body += " Reason: " + reason
		}
		return "Order cancelled", body
	case EventRefundFailed:
		return "Refund pending", fmt.Sprintf("The refund for order %s could not be completed automatically. Support will follow up.", code)
	case EventPayoutApproved:
		return "Payout approved", fmt.Sprintf("The payout for order %s was approved.", code)
	default:
		return "", ""
	}
}
