package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	authDelivery "receipt-backend/internal/auth/delivery"
	authUsecase "receipt-backend/internal/auth/usecase"
	receiptDelivery "receipt-backend/internal/receipt/delivery"
	receiptUsecase "receipt-backend/internal/receipt/usecase"
	"receipt-backend/pkg/config"
	"receipt-backend/pkg/logger"
	"receipt-backend/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authHandler    *authDelivery.AuthHandler
	receiptHandler *receiptDelivery.ReceiptHandler
	sessions       *authDelivery.SessionManager
	uploadLimiter  *ratelimit.Limiter
	config         *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, uploadUc receiptUsecase.UploadUsecase, sessions *authDelivery.SessionManager, cfg *config.Config) *Handler {
	return &Handler{
		authHandler:    authDelivery.NewAuthHandler(authUc),
		receiptHandler: receiptDelivery.NewReceiptHandler(uploadUc, cfg.MaxUploadBytes),
		sessions:       sessions,
		uploadLimiter:  ratelimit.New(cfg.UploadRatePerMinute),
		config:         cfg,
	}
}

// Router builds the gin engine with middleware and routes.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(logger.GinLogger())
	r.Use(gin.Recovery())
	if cors := corsMiddleware(h.config.AllowedOrigins); cors != nil {
		r.Use(cors)
	}
	r.Use(h.sessions.Middleware())

	SetupRoutes(r, h)
	return r
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (h *Handler) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Sugar.Infow("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Sugar.Infow("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
