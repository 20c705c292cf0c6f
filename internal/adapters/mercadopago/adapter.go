// Package mercadopago implements the PaymentGateway interface using the official SDK.
package mercadopago

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/mperror"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/donatepay/donation-payments/internal/core/domain"
)

// Default timeouts for calls to Mercado Pago.
const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultSocketTimeout  = 10 * time.Second
)

// Options configures the adapter's HTTP client.
type Options struct {
	ConnectTimeout time.Duration
	SocketTimeout  time.Duration
	// HTTPClient overrides the client built from the timeouts.
	HTTPClient *http.Client
}

// Adapter implements ports.PaymentGateway using Mercado Pago SDK.
// The SDK clients are built once and are safe for concurrent use.
type Adapter struct {
	preferences preference.Client
	payments    payment.Client
}

// NewAdapter creates a new Mercado Pago adapter for the given access token.
func NewAdapter(accessToken string, opts Options) (*Adapter, error) {
	if accessToken == "" {
		return nil, domain.NewPaymentError(domain.ErrGatewayNotInitialized,
			"access token is required", "MP_CONFIG_ERROR")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(opts.ConnectTimeout, opts.SocketTimeout)
	}

	cfg, err := config.New(accessToken, config.WithHTTPClient(httpClient))
	if err != nil {
		return nil, domain.NewPaymentError(domain.ErrGatewayNotInitialized,
			"failed to create MP config: "+err.Error(), "MP_CONFIG_ERROR")
	}

	return &Adapter{
		preferences: preference.NewClient(cfg),
		payments:    payment.NewClient(cfg),
	}, nil
}

// newHTTPClient bounds connection setup by connect and waiting for the
// response headers by socket.
func newHTTPClient(connect, socket time.Duration) *http.Client {
	if connect <= 0 {
		connect = DefaultConnectTimeout
	}
	if socket <= 0 {
		socket = DefaultSocketTimeout
	}

	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: connect}).DialContext,
			TLSHandshakeTimeout:   connect,
			ResponseHeaderTimeout: socket,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

// CreatePreference creates a Checkout Pro preference.
func (a *Adapter) CreatePreference(ctx context.Context, req domain.PreferenceRequest) (*domain.Preference, error) {
	request := preference.Request{
		Items: []preference.ItemRequest{
			{
				Title:      req.Title,
				Quantity:   req.Quantity,
				UnitPrice:  req.UnitPrice,
				CurrencyID: req.CurrencyID,
			},
		},
		Payer: &preference.PayerRequest{
			Name:  req.PayerName,
			Email: req.PayerEmail,
		},
		ExternalReference: req.ExternalReference,
		AutoReturn:        req.AutoReturn,
		BackURLs: &preference.BackURLsRequest{
			Success: req.BackURLs.Success,
			Failure: req.BackURLs.Failure,
			Pending: req.BackURLs.Pending,
		},
		NotificationURL: req.NotificationURL,
	}

	result, err := a.preferences.Create(ctx, request)
	if err != nil {
		return nil, wrapSDKError(err, "failed to create preference", "MP_PREFERENCE_ERROR")
	}

	return &domain.Preference{
		ID:               result.ID,
		InitPoint:        result.InitPoint,
		SandboxInitPoint: result.SandboxInitPoint,
	}, nil
}

// GetPayment retrieves payment details from Mercado Pago.
func (a *Adapter) GetPayment(ctx context.Context, paymentID int64) (*domain.GatewayPayment, error) {
	result, err := a.payments.Get(ctx, int(paymentID))
	if err != nil {
		return nil, wrapSDKError(err, "failed to get payment info", "MP_PAYMENT_ERROR")
	}

	return toGatewayPayment(result), nil
}

func toGatewayPayment(r *payment.Response) *domain.GatewayPayment {
	p := &domain.GatewayPayment{
		ID:                  int64(r.ID),
		Status:              r.Status,
		StatusDetail:        r.StatusDetail,
		TransactionAmount:   r.TransactionAmount,
		PaymentMethodID:     r.PaymentMethodID,
		PaymentTypeID:       r.PaymentTypeID,
		ExternalReference:   r.ExternalReference,
		MerchantOrderID:     orderID(r.Order.ID),
		DateCreated:         r.DateCreated,
		DateApproved:        r.DateApproved,
		PayerEmail:          r.Payer.Email,
		PayerIdentification: r.Payer.Identification.Number,
		Description:         r.Description,
		Installments:        r.Installments,
		IssuerID:            fmt.Sprint(r.IssuerID),
		CurrencyID:          r.CurrencyID,
	}
	p.HasPayer = p.PayerEmail != "" || p.PayerIdentification != ""

	for _, fee := range r.FeeDetails {
		p.FeeDetails = append(p.FeeDetails, domain.FeeDetail{
			Type:     fee.Type,
			FeePayer: fee.FeePayer,
			Amount:   fee.Amount,
		})
	}

	return p
}

// orderID renders the merchant order id, empty when the payment has no order.
func orderID(id any) string {
	s := fmt.Sprint(id)
	if s == "0" {
		return ""
	}
	return s
}

// wrapSDKError keeps the status code and body of API errors.
func wrapSDKError(err error, message, code string) error {
	var respErr *mperror.ResponseError
	if errors.As(err, &respErr) {
		apiErr := domain.NewGatewayAPIError(respErr.StatusCode, respErr.Message)
		apiErr.Message = fmt.Sprintf("%s: gateway returned status %d", message, respErr.StatusCode)
		apiErr.Code = code
		return apiErr
	}
	return domain.AsPaymentError(err, message, code)
}
