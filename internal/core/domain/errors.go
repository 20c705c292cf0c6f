// Package domain contains the core business entities for the donation service.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors. Every failure surfaced by the services wraps ErrPaymentProcessing.
var (
	// ErrPaymentProcessing is the single error kind returned by the services.
	ErrPaymentProcessing = errors.New("payment processing failed")

	// ErrGatewayNotInitialized is returned when no gateway client is wired.
	ErrGatewayNotInitialized = fmt.Errorf("%w: gateway client not initialized", ErrPaymentProcessing)

	// ErrInvalidPaymentID is returned for payment ids that are not 64-bit integers.
	ErrInvalidPaymentID = fmt.Errorf("%w: invalid payment id", ErrPaymentProcessing)

	// ErrGatewayAPI is returned when Mercado Pago answers with an error.
	ErrGatewayAPI = fmt.Errorf("%w: payment gateway error", ErrPaymentProcessing)
)

// PaymentError wraps errors with additional context.
// StatusCode and ResponseBody are only set for gateway API errors.
type PaymentError struct {
	Err          error
	Message      string
	Code         string
	StatusCode   int
	ResponseBody string
}

func (e *PaymentError) Error() string {
	if e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// NewPaymentError creates a new PaymentError.
func NewPaymentError(err error, message, code string) *PaymentError {
	return &PaymentError{Err: err, Message: message, Code: code}
}

// NewGatewayAPIError records the status and body Mercado Pago answered with.
func NewGatewayAPIError(statusCode int, body string) *PaymentError {
	return &PaymentError{
		Err:          ErrGatewayAPI,
		Message:      fmt.Sprintf("gateway returned status %d", statusCode),
		Code:         "GATEWAY_API_ERROR",
		StatusCode:   statusCode,
		ResponseBody: body,
	}
}

// AsPaymentError returns err as a *PaymentError, wrapping it under the
// processing error kind with the given message and code when it is not one.
func AsPaymentError(err error, message, code string) *PaymentError {
	var paymentErr *PaymentError
	if errors.As(err, &paymentErr) {
		return paymentErr
	}
	return &PaymentError{
		Err:     fmt.Errorf("%w: %w", ErrPaymentProcessing, err),
		Message: message,
		Code:    code,
	}
}
