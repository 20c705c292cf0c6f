// Package handlers contains the HTTP handlers for the donation service.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/donatepay/donation-payments/internal/core/domain"
	"github.com/donatepay/donation-payments/internal/core/service"
)

// Callback outcomes, used both as route suffix and front-end path.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePending = "pending"
	outcomeError   = "error"
)

// DonationHandler handles HTTP requests for donations.
type DonationHandler struct {
	donations   *service.DonationService
	payments    *service.PaymentService
	frontendURL string
	serviceName string
}

// NewDonationHandler creates a new donation handler.
func NewDonationHandler(donations *service.DonationService, payments *service.PaymentService, frontendURL, serviceName string) *DonationHandler {
	return &DonationHandler{
		donations:   donations,
		payments:    payments,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		serviceName: serviceName,
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   string       `json:"error"`
	Code    string       `json:"code,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// CreateDonation handles POST /api/donation
// Creates a Mercado Pago preference and returns the checkout URL.
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	var req domain.DonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrs validator.ValidationErrors
		resp := ErrorResponse{
			Success: false,
			Error:   "Invalid request body",
			Code:    "VALIDATION_ERROR",
		}
		if errors.As(err, &validationErrs) {
			resp.Fields = fieldErrors(validationErrs)
		} else {
			resp.Error = "Invalid request body: " + err.Error()
		}
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	requestLogger(c).WithFields(logrus.Fields{
		"amount":      req.Amount,
		"payer_email": req.PayerEmail,
	}).Info("[DonationHandler-CreateDonation] received donation request")

	resp, err := h.donations.CreateDonation(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// PaymentCallback returns the handler for the back URL of the given outcome.
// GET /api/donation/success|failure|pending
// The donor is always redirected to the front-end.
func (h *DonationHandler) PaymentCallback(outcome string) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := queryParams(c.Request.URL.Query())
		log := requestLogger(c).WithFields(logrus.Fields{
			"outcome":    outcome,
			"payment_id": params[domain.ParamPaymentID],
			"status":     params[domain.ParamStatus],
		})
		log.Info("[DonationHandler-PaymentCallback] payment callback received")

		status, err := h.payments.ProcessPaymentCallback(c.Request.Context(), params)
		if err != nil {
			log.WithError(err).Error("[DonationHandler-PaymentCallback] error processing callback")
			c.Redirect(http.StatusFound, h.frontendURL+"/payment/"+outcomeError)
			return
		}

		log.WithFields(logrus.Fields{
			"resolved_status":    status.Status,
			"external_reference": status.ExternalReference,
		}).Info("[DonationHandler-PaymentCallback] payment callback processed")

		c.Redirect(http.StatusFound, h.redirectURL(outcome, params))
	}
}

// redirectURL echoes the well-known callback parameters to the front-end.
func (h *DonationHandler) redirectURL(outcome string, params map[string]string) string {
	values := url.Values{}
	for _, key := range []string{
		domain.ParamPaymentID,
		domain.ParamStatus,
		domain.ParamPreferenceID,
		domain.ParamExternalReference,
	} {
		if v := params[key]; v != "" {
			values.Set(key, v)
		}
	}

	target := h.frontendURL + "/payment/" + outcome
	if len(values) > 0 {
		target += "?" + values.Encode()
	}
	return target
}

// HandleWebhook handles POST /api/donation/webhook
// Receives Mercado Pago notifications. Payment notifications trigger a
// status lookup that is only logged.
func (h *DonationHandler) HandleWebhook(c *gin.Context) {
	log := requestLogger(c)

	payload, err := webhookPayload(c)
	if err != nil {
		log.WithError(err).Error("[DonationHandler-HandleWebhook] error reading webhook payload")
		c.String(http.StatusInternalServerError, "ERROR")
		return
	}

	topic := firstNonEmpty(c.Query("type"), c.Query("topic"), stringValue(payload["type"]))
	id := firstNonEmpty(c.Query("id"), c.Query("data.id"), dataID(payload))

	log = log.WithFields(logrus.Fields{"type": topic, "id": id})
	log.Info("[DonationHandler-HandleWebhook] received webhook notification")

	if topic == "payment" && id != "" {
		status, err := h.payments.GetPaymentStatus(c.Request.Context(), id)
		if err != nil {
			// Answer 200 anyway so Mercado Pago does not keep retrying.
			log.WithError(err).Warn("[DonationHandler-HandleWebhook] payment lookup failed")
		} else {
			log.WithFields(logrus.Fields{
				"status":             status.Status,
				"status_detail":      status.StatusDetail,
				"external_reference": status.ExternalReference,
				"amount":             status.TransactionAmount,
			}).Info("[DonationHandler-HandleWebhook] webhook payment status")
		}
	}

	c.String(http.StatusOK, "OK")
}

// GetPaymentStatus handles GET /api/donation/status/:paymentId
func (h *DonationHandler) GetPaymentStatus(c *gin.Context) {
	paymentID := c.Param("paymentId")
	requestLogger(c).WithField("payment_id", paymentID).Info("[DonationHandler-GetPaymentStatus] getting payment status")

	status, err := h.payments.GetPaymentStatus(c.Request.Context(), paymentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// Health handles GET /api/donation/health
func (h *DonationHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "UP",
		"service":   h.serviceName,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleServiceError maps domain errors to HTTP responses.
// Every payment processing failure is reported as a 500.
func handleServiceError(c *gin.Context, err error) {
	var paymentErr *domain.PaymentError
	if errors.As(err, &paymentErr) {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Success: false,
			Error:   paymentErr.Message,
			Code:    paymentErr.Code,
		})
		return
	}

	requestLogger(c).WithError(err).Error("[DonationHandler] unexpected error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Success: false,
		Error:   "Internal server error",
		Code:    "INTERNAL_ERROR",
	})
}

// queryParams flattens the query string keeping the first value of each key.
func queryParams(query url.Values) map[string]string {
	params := make(map[string]string, len(query))
	for k, v := range query {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params
}

// webhookPayload decodes the notification body. An empty body is accepted.
func webhookPayload(c *gin.Context) (map[string]any, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, err
	}

	payload := map[string]any{}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func dataID(payload map[string]any) string {
	data, ok := payload["data"].(map[string]any)
	if !ok {
		return ""
	}
	return stringValue(data["id"])
}

// stringValue renders JSON strings and numbers, anything else is empty.
func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
