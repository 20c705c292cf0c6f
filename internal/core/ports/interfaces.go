// Package ports defines the interfaces (ports) for the donation service.
// These are contracts that adapters must implement.
package ports

import (
	"context"

	"github.com/donatepay/donation-payments/internal/core/domain"
)

// PaymentGateway defines the interface for interacting with Mercado Pago.
type PaymentGateway interface {
	// CreatePreference creates a Checkout Pro preference.
	// Returns the preference ID and init_point URLs.
	CreatePreference(ctx context.Context, req domain.PreferenceRequest) (*domain.Preference, error)

	// GetPayment retrieves payment details by ID.
	GetPayment(ctx context.Context, paymentID int64) (*domain.GatewayPayment, error)
}
