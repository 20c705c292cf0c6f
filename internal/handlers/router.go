// Package handlers contains the HTTP handlers and routing.
package handlers

import (
	"github.com/gin-gonic/gin"
)

// SetupRouter configures the Gin router with all routes.
func SetupRouter(handler *DonationHandler, ginMode string) *gin.Engine {
	gin.SetMode(ginMode)
	RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware())

	// Liveness probe
	router.GET("/health", handler.Health)

	// Donation API. The callbacks and the webhook are called by Mercado Pago
	// and the donor's browser, so none of these routes are authenticated.
	donation := router.Group("/api/donation")
	{
		donation.POST("", handler.CreateDonation)
		donation.GET("/"+OutcomeSuccess, handler.PaymentCallback(OutcomeSuccess))
		donation.GET("/"+OutcomeFailure, handler.PaymentCallback(OutcomeFailure))
		donation.GET("/"+OutcomePending, handler.PaymentCallback(OutcomePending))
		donation.POST("/webhook", handler.HandleWebhook)
		donation.GET("/status/:paymentId", handler.GetPaymentStatus)
		donation.GET("/health", handler.Health)
	}

	return router
}
