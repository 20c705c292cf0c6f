package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/donatepay/donation-payments/internal/core/domain"
	"github.com/donatepay/donation-payments/internal/core/ports"
)

// PaymentService normalizes payment information coming from callbacks,
// webhooks and direct status queries.
type PaymentService struct {
	gateway ports.PaymentGateway
	now     func() time.Time
}

// NewPaymentService creates a new payment service.
func NewPaymentService(gateway ports.PaymentGateway) *PaymentService {
	return &PaymentService{
		gateway: gateway,
		now:     time.Now,
	}
}

// GetPaymentStatus fetches the payment from Mercado Pago and returns its normalized status.
func (s *PaymentService) GetPaymentStatus(ctx context.Context, paymentID string) (*domain.PaymentStatus, error) {
	log := logrus.WithField("payment_id", paymentID)
	log.Info("[PaymentService-GetPaymentStatus] getting payment status")

	payment, err := s.fetchPayment(ctx, paymentID)
	if err != nil {
		logGatewayError(log, "[PaymentService-GetPaymentStatus] error getting payment status", err)
		return nil, domain.AsPaymentError(err, "failed to get payment status", "PAYMENT_STATUS_ERROR")
	}

	return BuildPaymentStatus(payment), nil
}

// ProcessPaymentCallback builds a status from the callback parameters.
// When a payment_id is present the gateway is queried and, if the lookup
// succeeds, its data replaces the parameters entirely. Otherwise the
// parameters are returned as-is, copied into AdditionalInfo.
func (s *PaymentService) ProcessPaymentCallback(ctx context.Context, params map[string]string) (*domain.PaymentStatus, error) {
	paymentID := params[domain.ParamPaymentID]

	log := logrus.WithFields(logrus.Fields{
		"payment_id":    paymentID,
		"status":        params[domain.ParamStatus],
		"preference_id": params[domain.ParamPreferenceID],
	})
	log.Info("[PaymentService-ProcessPaymentCallback] processing payment callback")

	now := s.now()
	status := &domain.PaymentStatus{
		PaymentID:         paymentID,
		PreferenceID:      params[domain.ParamPreferenceID],
		Status:            params[domain.ParamStatus],
		ExternalReference: params[domain.ParamExternalReference],
		DateCreated:       &now,
	}

	if paymentID != "" {
		payment, err := s.fetchPayment(ctx, paymentID)
		if err == nil {
			return BuildPaymentStatus(payment), nil
		}
		log.WithError(err).Warn("[PaymentService-ProcessPaymentCallback] could not get detailed payment info, using callback params")
	}

	additional := make(map[string]any, len(params))
	for k, v := range params {
		additional[k] = v
	}
	status.AdditionalInfo = additional

	return status, nil
}

func (s *PaymentService) fetchPayment(ctx context.Context, paymentID string) (*domain.GatewayPayment, error) {
	if s.gateway == nil {
		return nil, domain.NewPaymentError(domain.ErrGatewayNotInitialized,
			"Mercado Pago client not initialized", "GATEWAY_NOT_INITIALIZED")
	}

	id, err := strconv.ParseInt(strings.TrimSpace(paymentID), 10, 64)
	if err != nil {
		return nil, domain.NewPaymentError(domain.ErrInvalidPaymentID,
			"payment id must be numeric: "+paymentID, "INVALID_PAYMENT_ID")
	}

	return s.gateway.GetPayment(ctx, id)
}

// BuildPaymentStatus flattens a gateway payment into a PaymentStatus.
// Timestamps keep the offset reported by the gateway.
func BuildPaymentStatus(p *domain.GatewayPayment) *domain.PaymentStatus {
	status := &domain.PaymentStatus{
		PaymentID:         strconv.FormatInt(p.ID, 10),
		Status:            p.Status,
		StatusDetail:      p.StatusDetail,
		TransactionAmount: p.TransactionAmount,
		PaymentMethodID:   p.PaymentMethodID,
		PaymentMethodType: p.PaymentTypeID,
		ExternalReference: p.ExternalReference,
		MerchantOrderID:   p.MerchantOrderID,
	}

	if !p.DateCreated.IsZero() {
		created := p.DateCreated
		status.DateCreated = &created
	}
	if !p.DateApproved.IsZero() {
		approved := p.DateApproved
		status.DateApproved = &approved
	}

	if p.HasPayer {
		status.PayerEmail = p.PayerEmail
		status.PayerIdentification = p.PayerIdentification
	}

	info := map[string]any{
		"description":  p.Description,
		"installments": p.Installments,
		"issuer_id":    p.IssuerID,
		"currency_id":  p.CurrencyID,
	}
	if len(p.FeeDetails) > 0 {
		info["fees"] = p.FeeDetails
	}
	status.AdditionalInfo = info

	return status
}
