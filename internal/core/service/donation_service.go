// Package service implements the core business logic.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/donatepay/donation-payments/internal/core/domain"
	"github.com/donatepay/donation-payments/internal/core/ports"
)

const (
	// ExternalReferencePrefix prefixes every generated external reference.
	ExternalReferencePrefix = "DONATION-"

	donationCurrency = "ARS"
	autoReturnPolicy = "approved"
	webhookPath      = "/api/donation/webhook"
)

// DonationService builds Checkout Pro preferences for donations.
type DonationService struct {
	gateway     ports.PaymentGateway
	frontendURL string
	appBaseURL  string
	now         func() time.Time
}

// NewDonationService creates a new donation service.
// frontendURL is where the checkout returns the donor; appBaseURL, when set,
// is used to build the webhook notification URL.
func NewDonationService(gateway ports.PaymentGateway, frontendURL, appBaseURL string) *DonationService {
	return &DonationService{
		gateway:     gateway,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		appBaseURL:  strings.TrimRight(appBaseURL, "/"),
		now:         time.Now,
	}
}

// CreateDonation creates a preference in Mercado Pago for the donation and
// returns the checkout URL the donor must be redirected to.
// The request is expected to be validated by the caller.
func (s *DonationService) CreateDonation(ctx context.Context, req domain.DonationRequest) (*domain.DonationResponse, error) {
	log := logrus.WithFields(logrus.Fields{
		"amount":      req.Amount,
		"payer_email": req.PayerEmail,
	})
	log.Info("[DonationService-CreateDonation] creating donation preference")

	if s.gateway == nil {
		log.Error("[DonationService-CreateDonation] gateway client not initialized")
		return nil, domain.NewPaymentError(domain.ErrGatewayNotInitialized,
			"Mercado Pago client not initialized", "GATEWAY_NOT_INITIALIZED")
	}

	if req.HasCustomURLs() {
		log.Warn("[DonationService-CreateDonation] custom redirect URLs are not supported yet, using defaults")
	}

	externalRef := NewExternalReference()
	backURLs := s.backURLs()

	prefReq := domain.PreferenceRequest{
		Title:             req.Description,
		Quantity:          1,
		CurrencyID:        donationCurrency,
		UnitPrice:         req.Amount,
		PayerEmail:        req.PayerEmail,
		PayerName:         req.PayerName,
		ExternalReference: externalRef,
		BackURLs:          backURLs,
		AutoReturn:        autoReturnPolicy,
	}
	if s.appBaseURL != "" {
		prefReq.NotificationURL = s.appBaseURL + webhookPath
	}

	log = log.WithField("external_reference", externalRef)
	log.Info("[DonationService-CreateDonation] submitting preference")

	pref, err := s.gateway.CreatePreference(ctx, prefReq)
	if err != nil {
		logGatewayError(log, "[DonationService-CreateDonation] failed to create preference", err)
		return nil, domain.AsPaymentError(err, "failed to create payment preference", "PREFERENCE_ERROR")
	}

	log.WithField("preference_id", pref.ID).Info("[DonationService-CreateDonation] donation preference created")

	return &domain.DonationResponse{
		PreferenceID:       pref.ID,
		CheckoutURL:        pref.InitPoint,
		SandboxCheckoutURL: pref.SandboxInitPoint,
		Status:             domain.DonationStatusCreated,
		Amount:             req.Amount,
		Description:        req.Description,
		PayerEmail:         req.PayerEmail,
		PayerName:          req.PayerName,
		ExternalReference:  externalRef,
		CreatedAt:          s.now(),
		SuccessURL:         backURLs.Success,
		FailureURL:         backURLs.Failure,
		PendingURL:         backURLs.Pending,
	}, nil
}

func (s *DonationService) backURLs() domain.BackURLs {
	return domain.BackURLs{
		Success: s.frontendURL + "/donation/success",
		Failure: s.frontendURL + "/donation/failure",
		Pending: s.frontendURL + "/donation/pending",
	}
}

// NewExternalReference returns DONATION- followed by the first 8 hex
// characters of a random UUID. Uniqueness is not enforced.
func NewExternalReference() string {
	return ExternalReferencePrefix + uuid.New().String()[:8]
}

// logGatewayError logs err, adding the gateway status and body when known.
func logGatewayError(log *logrus.Entry, msg string, err error) {
	var paymentErr *domain.PaymentError
	if errors.As(err, &paymentErr) && paymentErr.StatusCode != 0 {
		log = log.WithFields(logrus.Fields{
			"status_code":   paymentErr.StatusCode,
			"response_body": paymentErr.ResponseBody,
		})
	}
	log.WithError(err).Error(msg)
}
