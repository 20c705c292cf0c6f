package service

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/donatepay/donation-payments/internal/core/domain"
)

// Test errors
var (
	ErrMockCreate = errors.New("create error")
	ErrMockGet    = errors.New("payment not found")
)

func TestMain(m *testing.M) {
	logrus.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// MockGateway implements ports.PaymentGateway for testing
type MockGateway struct {
	CreatePreferenceFunc func(ctx context.Context, req domain.PreferenceRequest) (*domain.Preference, error)
	GetPaymentFunc       func(ctx context.Context, paymentID int64) (*domain.GatewayPayment, error)

	PreferenceRequests []domain.PreferenceRequest
	PaymentIDs         []int64
}

func (m *MockGateway) CreatePreference(ctx context.Context, req domain.PreferenceRequest) (*domain.Preference, error) {
	m.PreferenceRequests = append(m.PreferenceRequests, req)
	if m.CreatePreferenceFunc != nil {
		return m.CreatePreferenceFunc(ctx, req)
	}
	return &domain.Preference{
		ID:               "pref-123",
		InitPoint:        "https://www.mercadopago.com.ar/checkout/v1/redirect?pref_id=pref-123",
		SandboxInitPoint: "https://sandbox.mercadopago.com.ar/checkout/v1/redirect?pref_id=pref-123",
	}, nil
}

func (m *MockGateway) GetPayment(ctx context.Context, paymentID int64) (*domain.GatewayPayment, error) {
	m.PaymentIDs = append(m.PaymentIDs, paymentID)
	if m.GetPaymentFunc != nil {
		return m.GetPaymentFunc(ctx, paymentID)
	}
	return nil, ErrMockGet
}
