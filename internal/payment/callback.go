package payment

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/opengestu/validele-sub000/internal/order"
)

var validate = validator.New()

// Callback is the provider webhook body for payment, refund and payout updates.
type Callback struct {
	Kind        string `json:"kind" validate:"required,oneof=payment refund payout"`
	OrderID     string `json:"order_id" validate:"required,max=64"`
	Status      string `json:"status" validate:"required,max=32"`
	ProviderRef string `json:"provider_ref" validate:"max=128"`
	Message     string `json:"message" validate:"max=512"`
}

func (c *Callback) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid callback: %w", err)
	}
	return nil
}

func (c *Callback) TxType() order.TxType {
	return order.TxType(c.Kind)
}

// TxStatus maps the provider vocabulary onto the closed transaction status set.
func (c *Callback) TxStatus() (order.TxStatus, error) {
	return order.NormalizeProviderStatus(c.Status)
}
