package postgresql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/opengestu/validele-sub000/internal/db"
	"github.com/opengestu/validele-sub000/internal/order"
	"github.com/opengestu/validele-sub000/internal/repository"
	"github.com/opengestu/validele-sub000/internal/storage"
)

const orderColumns = `id, order_code, qr_code, buyer_id, vendor_id, delivery_person_id, product_id,
    total_amount, payment_method, status, delivery_address, buyer_phone, cancel_reason,
    created_at, payment_confirmed_at, assigned_at, delivered_at, cancelled_at, updated_at`

type OrderRepo struct {
	db db.DB
}

func NewOrderRepo(db db.DB) storage.OrderRepository {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) Create(ctx context.Context, o *order.Order) error {
	row := repository.FromOrder(o)
	_, err := r.db.Exec(ctx, `
        INSERT INTO orders (`+orderColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
    `, row.ID, row.OrderCode, row.QRCode, row.BuyerID, row.VendorID, row.DeliveryPersonID, row.ProductID,
		row.TotalAmount, row.PaymentMethod, row.Status, row.DeliveryAddress, row.BuyerPhone, row.CancelReason,
		row.CreatedAt, row.PaymentConfirmedAt, row.AssignedAt, row.DeliveredAt, row.CancelledAt, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order %s: %w", o.ID, err)
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*order.Order, error) {
	var row repository.Order
	err := r.db.Get(ctx, &row, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return row.ToOrder()
}

// GetByCode expects an already normalized order code.
func (r *OrderRepo) GetByCode(ctx context.Context, code string, statuses []order.Status) (*order.Order, error) {
	var row repository.Order
	err := r.db.Get(ctx, &row,
		"SELECT "+orderColumns+" FROM orders WHERE order_code = $1 AND status = ANY($2)",
		code, statusStrings(statuses))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get order by code: %w", err)
	}
	return row.ToOrder()
}

func (r *OrderRepo) ListClaimable(ctx context.Context, limit int) ([]*order.Order, error) {
	var rows []*repository.Order
	err := r.db.Select(ctx, &rows, `
        SELECT `+orderColumns+` FROM orders
        WHERE status = $1 AND delivery_person_id IS NULL
        ORDER BY created_at ASC
        LIMIT $2
    `, string(order.StatusPaid), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list claimable orders: %w", err)
	}
	return toOrders(rows)
}

func (r *OrderRepo) ListByParty(ctx context.Context, role order.Role, actorID string, limit int) ([]*order.Order, error) {
	var column string
	switch role {
	case order.RoleBuyer:
		column = "buyer_id"
	case order.RoleVendor:
		column = "vendor_id"
	case order.RoleCourier:
		column = "delivery_person_id"
	default:
		return nil, fmt.Errorf("list by party: unsupported role %q", role)
	}

	var rows []*repository.Order
	err := r.db.Select(ctx, &rows,
		"SELECT "+orderColumns+" FROM orders WHERE "+column+" = $1 ORDER BY created_at DESC LIMIT $2",
		actorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for %s %s: %w", role, actorID, err)
	}
	return toOrders(rows)
}

// Apply runs the guard and the patch as one UPDATE. Timestamps and the
// courier id keep their stored value when already set.
func (r *OrderRepo) Apply(ctx context.Context, g order.Guard, p order.Patch) (*order.Order, error) {
	query, args := buildApply(g, p)

	var row repository.Order
	err := r.db.Get(ctx, &row, query, args...)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, order.ErrConditionFailed
		}
		return nil, fmt.Errorf("failed to apply patch to order %s: %w", g.ID, err)
	}
	return row.ToOrder()
}

func buildApply(g order.Guard, p order.Patch) (string, []interface{}) {
	args := []interface{}{
		g.ID,
		statusStrings(g.From),
		string(p.To),
		p.DeliveryPersonID,
		p.PaymentConfirmedAt,
		p.AssignedAt,
		p.DeliveredAt,
		p.CancelledAt,
		p.CancelReason,
		p.UpdatedAt,
	}

	var sb strings.Builder
	sb.WriteString(`
        UPDATE orders
        SET
            status = $3,
            delivery_person_id = COALESCE(delivery_person_id, $4),
            payment_confirmed_at = COALESCE(payment_confirmed_at, $5),
            assigned_at = COALESCE(assigned_at, $6),
            delivered_at = COALESCE(delivered_at, $7),
            cancelled_at = COALESCE(cancelled_at, $8),
            cancel_reason = COALESCE($9, cancel_reason),
            updated_at = $10
        WHERE id = $1 AND status = ANY($2)`)

	if g.Courier.IsUnassigned() {
		sb.WriteString(" AND delivery_person_id IS NULL")
	} else if id, ok := g.Courier.ID(); ok {
		args = append(args, id)
		sb.WriteString(" AND delivery_person_id = $" + strconv.Itoa(len(args)))
	}

	sb.WriteString("\n        RETURNING " + orderColumns)
	return sb.String(), args
}

func statusStrings(statuses []order.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func toOrders(rows []*repository.Order) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(rows))
	for _, row := range rows {
		o, err := row.ToOrder()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
