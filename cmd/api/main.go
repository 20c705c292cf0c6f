// Donation Payments Service
//
// This is the main entry point for the donation service.
// It wires up all dependencies and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/donatepay/donation-payments/config"
	"github.com/donatepay/donation-payments/internal/adapters/mercadopago"
	"github.com/donatepay/donation-payments/internal/core/service"
	"github.com/donatepay/donation-payments/internal/handlers"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "donation-payments",
	Short: "Mercado Pago donation service",
	RunE:  runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file to load before reading the environment")
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return fmt.Errorf("loading %s: %w", envFile, err)
	}

	// Load configuration
	cfg := config.Load()
	config.ConfigureLogger(cfg.Log)
	logrus.Infof("Starting %s...", cfg.App.ServiceName)
	logrus.WithFields(logrus.Fields{
		"port":         cfg.Server.Port,
		"frontend_url": cfg.App.FrontendURL,
		"base_url":     cfg.App.BaseURL,
	}).Info("configuration loaded")

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Wire up dependencies (manual dependency injection)
	//
	// Infrastructure Layer
	mpAdapter, err := mercadopago.NewAdapter(cfg.MercadoPago.AccessToken, mercadopago.Options{
		ConnectTimeout: cfg.MercadoPago.ConnectTimeout,
		SocketTimeout:  cfg.MercadoPago.SocketTimeout,
	})
	if err != nil {
		return fmt.Errorf("initializing Mercado Pago: %w", err)
	}
	logrus.Info("Mercado Pago client initialized")

	// Service Layer
	donationService := service.NewDonationService(mpAdapter, cfg.App.FrontendURL, cfg.App.BaseURL)
	paymentService := service.NewPaymentService(mpAdapter)

	// API Layer
	handler := handlers.NewDonationHandler(donationService, paymentService, cfg.App.FrontendURL, cfg.App.ServiceName)
	router := handlers.SetupRouter(handler, cfg.Server.GinMode)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	logrus.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(ctx)
}
