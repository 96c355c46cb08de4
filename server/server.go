package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/techagentng/oceanwatch/config"
	"github.com/techagentng/oceanwatch/geo"
	"github.com/techagentng/oceanwatch/services"
	"github.com/techagentng/oceanwatch/session"
)

// Server is the JSON API in front of the report store and analytics.
type Server struct {
	Config        *config.Config
	ReportService services.ReportService
	Refresher     *services.Refresher
	Sessions      session.Store
	// Locations is consulted for proximity filtering when a request carries
	// no user_lat/user_lng.
	Locations geo.LocationProvider
}

// Start serves until SIGINT/SIGTERM and then shuts down gracefully.
func (s *Server) Start() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := s.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// Run serves until ctx is done. The refresher, when set, runs alongside.
func (s *Server) Run(ctx context.Context) error {
	port := s.Config.Port
	if port == 0 {
		port = 8080
	}
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.setupRouter(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if s.Refresher != nil {
		go s.Refresher.Run(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server started on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Println("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
