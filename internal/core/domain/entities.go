// Package domain contains the core business entities for the donation service.
// This is the innermost layer - no external dependencies.
package domain

import "time"

// Callback parameter keys sent by Mercado Pago on the back URLs.
const (
	ParamPaymentID         = "payment_id"
	ParamStatus            = "status"
	ParamPreferenceID      = "preference_id"
	ParamExternalReference = "external_reference"
)

// DonationStatusCreated is the status reported for a freshly created donation.
const DonationStatusCreated = "created"

// DonationRequest represents an incoming donation from the front-end.
// Amounts are expressed in ARS.
type DonationRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description" binding:"required,notblank,max=200"`
	PayerEmail  string  `json:"payerEmail" binding:"required,email"`
	PayerName   string  `json:"payerName" binding:"required,notblank,max=100"`
	// Optional: Redirect URLs. Accepted but not used to build the preference yet.
	CustomSuccessURL string `json:"customSuccessUrl,omitempty"`
	CustomFailureURL string `json:"customFailureUrl,omitempty"`
	CustomPendingURL string `json:"customPendingUrl,omitempty"`
	// Optional caller reference. The service always generates its own.
	ExternalReference string `json:"externalReference,omitempty"`
}

// HasCustomURLs reports whether the donor supplied any redirect override.
func (r DonationRequest) HasCustomURLs() bool {
	return r.CustomSuccessURL != "" || r.CustomFailureURL != "" || r.CustomPendingURL != ""
}

// DonationResponse is returned once the preference has been created.
type DonationResponse struct {
	PreferenceID       string    `json:"preferenceId"`
	CheckoutURL        string    `json:"checkoutUrl"`
	SandboxCheckoutURL string    `json:"sandboxCheckoutUrl,omitempty"`
	Status             string    `json:"status"`
	Amount             float64   `json:"amount"`
	Description        string    `json:"description"`
	PayerEmail         string    `json:"payerEmail"`
	PayerName          string    `json:"payerName"`
	ExternalReference  string    `json:"externalReference"`
	CreatedAt          time.Time `json:"createdAt"`
	SuccessURL         string    `json:"successUrl"`
	FailureURL         string    `json:"failureUrl"`
	PendingURL         string    `json:"pendingUrl"`
}

// BackURLs are the front-end pages the checkout returns to.
type BackURLs struct {
	Success string
	Failure string
	Pending string
}

// PreferenceRequest is the gateway-neutral description of a Checkout Pro preference.
type PreferenceRequest struct {
	Title             string
	Quantity          int
	CurrencyID        string
	UnitPrice         float64
	PayerEmail        string
	PayerName         string
	ExternalReference string
	BackURLs          BackURLs
	AutoReturn        string // "approved"
	NotificationURL   string
}

// Preference represents a created Mercado Pago preference.
type Preference struct {
	ID               string
	InitPoint        string // URL to redirect the donor for payment
	SandboxInitPoint string
}

// FeeDetail is a single fee charged on a payment.
type FeeDetail struct {
	Type     string  `json:"type"`
	FeePayer string  `json:"fee_payer"`
	Amount   float64 `json:"amount"`
}

// GatewayPayment is the payment as reported by the gateway.
// Zero times mean the gateway did not report the date.
type GatewayPayment struct {
	ID                  int64
	Status              string // "approved", "pending", "rejected", etc.
	StatusDetail        string
	TransactionAmount   float64
	PaymentMethodID     string
	PaymentTypeID       string
	ExternalReference   string
	MerchantOrderID     string // empty when the payment has no order
	DateCreated         time.Time
	DateApproved        time.Time
	HasPayer            bool
	PayerEmail          string
	PayerIdentification string
	Description         string
	Installments        int
	IssuerID            string
	CurrencyID          string
	FeeDetails          []FeeDetail
}

// PaymentStatus is the normalized view of a payment returned to callers.
// It is built fresh on every query and never stored.
type PaymentStatus struct {
	PaymentID           string         `json:"paymentId,omitempty"`
	PreferenceID        string         `json:"preferenceId,omitempty"`
	Status              string         `json:"status,omitempty"`
	StatusDetail        string         `json:"statusDetail,omitempty"`
	TransactionAmount   float64        `json:"transactionAmount,omitempty"`
	PaymentMethodID     string         `json:"paymentMethodId,omitempty"`
	PaymentMethodType   string         `json:"paymentMethodType,omitempty"`
	ExternalReference   string         `json:"externalReference,omitempty"`
	MerchantOrderID     string         `json:"merchantOrderId,omitempty"`
	DateCreated         *time.Time     `json:"dateCreated,omitempty"`
	DateApproved        *time.Time     `json:"dateApproved,omitempty"`
	AdditionalInfo      map[string]any `json:"additionalInfo,omitempty"`
	PayerEmail          string         `json:"payerEmail,omitempty"`
	PayerIdentification string         `json:"payerIdentification,omitempty"`
	ErrorMessage        string         `json:"errorMessage,omitempty"`
	ErrorCode           string         `json:"errorCode,omitempty"`
}
