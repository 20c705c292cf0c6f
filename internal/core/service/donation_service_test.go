package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/donatepay/donation-payments/internal/core/domain"
)

var externalRefPattern = regexp.MustCompile(`^DONATION-[0-9a-f]{8}$`)

func validDonation() domain.DonationRequest {
	return domain.DonationRequest{
		Amount:      1000.00,
		Description: "Test donation",
		PayerEmail:  "a@b.com",
		PayerName:   "Jane Doe",
	}
}

func TestCreateDonation_Success(t *testing.T) {
	t.Parallel()

	gw := &MockGateway{}
	svc := NewDonationService(gw, "https://front.example.com/", "https://api.example.com")

	resp, err := svc.CreateDonation(context.Background(), validDonation())
	if err != nil {
		t.Fatalf("CreateDonation failed: %v", err)
	}

	if resp.Status != "created" {
		t.Errorf("Expected status 'created', got '%s'", resp.Status)
	}
	if resp.Amount != 1000.00 {
		t.Errorf("Expected amount 1000.00, got %v", resp.Amount)
	}
	if resp.Description != "Test donation" {
		t.Errorf("Expected description 'Test donation', got '%s'", resp.Description)
	}
	if resp.PayerEmail != "a@b.com" {
		t.Errorf("Expected payer email 'a@b.com', got '%s'", resp.PayerEmail)
	}
	if resp.PayerName != "Jane Doe" {
		t.Errorf("Expected payer name 'Jane Doe', got '%s'", resp.PayerName)
	}
	if !externalRefPattern.MatchString(resp.ExternalReference) {
		t.Errorf("External reference %q does not match %s", resp.ExternalReference, externalRefPattern)
	}
	if resp.PreferenceID != "pref-123" {
		t.Errorf("Expected preference ID 'pref-123', got '%s'", resp.PreferenceID)
	}
	if resp.CheckoutURL == "" {
		t.Error("Expected a checkout URL")
	}
	if resp.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
	if resp.SuccessURL != "https://front.example.com/donation/success" {
		t.Errorf("Unexpected success URL: %s", resp.SuccessURL)
	}

	if len(gw.PreferenceRequests) != 1 {
		t.Fatalf("Expected 1 preference request, got %d", len(gw.PreferenceRequests))
	}
	pr := gw.PreferenceRequests[0]

	if pr.Title != "Test donation" || pr.Quantity != 1 || pr.CurrencyID != "ARS" || pr.UnitPrice != 1000.00 {
		t.Errorf("Unexpected item: %+v", pr)
	}
	if pr.AutoReturn != "approved" {
		t.Errorf("Expected auto return 'approved', got '%s'", pr.AutoReturn)
	}
	if pr.ExternalReference != resp.ExternalReference {
		t.Errorf("Preference reference %q differs from response %q", pr.ExternalReference, resp.ExternalReference)
	}

	wantBack := domain.BackURLs{
		Success: "https://front.example.com/donation/success",
		Failure: "https://front.example.com/donation/failure",
		Pending: "https://front.example.com/donation/pending",
	}
	if pr.BackURLs != wantBack {
		t.Errorf("Expected back URLs %+v, got %+v", wantBack, pr.BackURLs)
	}
	if pr.NotificationURL != "https://api.example.com/api/donation/webhook" {
		t.Errorf("Unexpected notification URL: %s", pr.NotificationURL)
	}
}

func TestCreateDonation_IgnoresCustomURLs(t *testing.T) {
	t.Parallel()

	gw := &MockGateway{}
	svc := NewDonationService(gw, "https://front.example.com", "")

	req := validDonation()
	req.CustomSuccessURL = "https://elsewhere.example.com/ok"
	req.ExternalReference = "MY-REF"

	resp, err := svc.CreateDonation(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateDonation failed: %v", err)
	}

	pr := gw.PreferenceRequests[0]
	if pr.BackURLs.Success != "https://front.example.com/donation/success" {
		t.Errorf("Custom success URL should not be used, got %s", pr.BackURLs.Success)
	}
	if pr.NotificationURL != "" {
		t.Errorf("Expected no notification URL without base URL, got %s", pr.NotificationURL)
	}
	if resp.ExternalReference == "MY-REF" || !externalRefPattern.MatchString(resp.ExternalReference) {
		t.Errorf("Expected a generated reference, got %q", resp.ExternalReference)
	}
}

func TestCreateDonation_GatewayNotInitialized(t *testing.T) {
	t.Parallel()

	svc := NewDonationService(nil, "https://front.example.com", "")

	_, err := svc.CreateDonation(context.Background(), validDonation())
	if err == nil {
		t.Fatal("Expected error when gateway is missing")
	}
	if !errors.Is(err, domain.ErrGatewayNotInitialized) {
		t.Errorf("Expected ErrGatewayNotInitialized, got %v", err)
	}
	if !errors.Is(err, domain.ErrPaymentProcessing) {
		t.Errorf("Expected processing error kind, got %v", err)
	}
}

func TestCreateDonation_GatewayAPIError(t *testing.T) {
	t.Parallel()

	gw := &MockGateway{
		CreatePreferenceFunc: func(ctx context.Context, req domain.PreferenceRequest) (*domain.Preference, error) {
			return nil, domain.NewGatewayAPIError(400, `{"message":"invalid unit_price"}`)
		},
	}
	svc := NewDonationService(gw, "https://front.example.com", "")

	_, err := svc.CreateDonation(context.Background(), validDonation())

	var paymentErr *domain.PaymentError
	if !errors.As(err, &paymentErr) {
		t.Fatalf("Expected *PaymentError, got %T: %v", err, err)
	}
	if paymentErr.StatusCode != 400 {
		t.Errorf("Expected status code 400, got %d", paymentErr.StatusCode)
	}
	if paymentErr.ResponseBody != `{"message":"invalid unit_price"}` {
		t.Errorf("Unexpected response body: %s", paymentErr.ResponseBody)
	}
	if !errors.Is(err, domain.ErrPaymentProcessing) {
		t.Errorf("Expected processing error kind, got %v", err)
	}
}

func TestCreateDonation_UnexpectedError(t *testing.T) {
	t.Parallel()

	gw := &MockGateway{
		CreatePreferenceFunc: func(ctx context.Context, req domain.PreferenceRequest) (*domain.Preference, error) {
			return nil, ErrMockCreate
		},
	}
	svc := NewDonationService(gw, "https://front.example.com", "")

	_, err := svc.CreateDonation(context.Background(), validDonation())

	var paymentErr *domain.PaymentError
	if !errors.As(err, &paymentErr) {
		t.Fatalf("Expected *PaymentError, got %T: %v", err, err)
	}
	if paymentErr.Code != "PREFERENCE_ERROR" {
		t.Errorf("Expected code PREFERENCE_ERROR, got %s", paymentErr.Code)
	}
	if !errors.Is(err, domain.ErrPaymentProcessing) || !errors.Is(err, ErrMockCreate) {
		t.Errorf("Expected error to wrap both the processing kind and the cause, got %v", err)
	}
}

func TestNewExternalReference(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		ref := NewExternalReference()
		if !externalRefPattern.MatchString(ref) {
			t.Fatalf("Reference %q does not match %s", ref, externalRefPattern)
		}
	}
}
