package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/flightdesk/api"
	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/app"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
)

const swaggerSpec = "flightdesk.swagger.json"

// Run serves the HTTP API and blocks until ctx is cancelled or the server
// fails. On cancellation the server drains for up to five seconds.
func Run(ctx context.Context, cfg *config.Config, state *app.State) error {
	srv := NewServer(cfg, state)

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("address", cfg.HTTP.Address).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func NewServer(cfg *config.Config, state *app.State) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           NewHandler(cfg, state),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewHandler is the API router plus the swagger UI when a spec directory is
// configured.
func NewHandler(cfg *config.Config, state *app.State) http.Handler {
	if cfg.HTTP.Mode != "" {
		gin.SetMode(cfg.HTTP.Mode)
	}
	router := api.NewRouter(state)

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/"+swaggerSpec),
		)))
	}
	return router
}
