package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "receipt-backend/cmd/api"
	authDelivery "receipt-backend/internal/auth/delivery"
	authdomain "receipt-backend/internal/auth/domain"
	authRepo "receipt-backend/internal/auth/repository"
	authUsecase "receipt-backend/internal/auth/usecase"
	receiptRepo "receipt-backend/internal/receipt/repository"
	receiptUsecase "receipt-backend/internal/receipt/usecase"
	"receipt-backend/pkg/config"
	"receipt-backend/pkg/database"
	"receipt-backend/pkg/googleauth"
	"receipt-backend/pkg/logger"
	"receipt-backend/pkg/redisclient"
)

const sessionPruneInterval = time.Hour

func main() {
	// Load configuration
	cfg := config.Load()

	if err := logger.Init(logger.Options{
		Level:      cfg.LogLevel,
		Path:       cfg.LogPath,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	}); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		logger.Sugar.Warnw(w)
	}
	if err != nil {
		logger.Sugar.Fatalw("invalid configuration", "error", err)
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = randomSecret()
		logger.Sugar.Warnw("generated a temporary SESSION_SECRET; sessions will not survive a restart")
	}
	loc, _ := cfg.Location()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userRepo, sessionRepo := openStores(ctx, cfg)

	// Initialize use cases (dependency injection)
	provider := googleauth.NewProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)
	authUc := authUsecase.NewAuthUsecase(provider, userRepo, sessionRepo, cfg.RemoteCallTimeout)
	guard := authUsecase.NewTokenGuard(provider, sessionRepo, cfg.RemoteCallTimeout)

	workspaces := receiptRepo.NewGoogleWorkspaceFactory(cfg.SpreadsheetID, cfg.SheetName, cfg.OCREnabled)
	uploadUc := receiptUsecase.NewUploadUsecase(guard, workspaces, receiptUsecase.NewFolderResolver(cfg.RemoteCallTimeout), receiptUsecase.UploadConfig{
		AppFolderName:  cfg.AppFolderName,
		PaymentMethods: cfg.PaymentMethods,
		Location:       loc,
		CallTimeout:    cfg.RemoteCallTimeout,
	})

	sessions := authDelivery.NewSessionManager(sessionRepo, cfg.SessionSecret, cfg.SessionMaxAge, cfg.IsProduction())
	handler := api.NewHandler(authUc, uploadUc, sessions, cfg)

	logger.Sugar.Infow("server starting",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"session_store", cfg.SessionStore,
		"app_folder", cfg.AppFolderName,
		"time_zone", cfg.TimeZone,
		"payment_methods", cfg.PaymentMethods,
		"ocr_enabled", cfg.OCREnabled,
		"sheet_configured", cfg.LedgerConfigured(),
	)
	if err := handler.Start(ctx, ":"+cfg.Port); err != nil {
		logger.Sugar.Fatalw("failed to start server", "error", err)
	}
}

// openStores picks the session and user stores for cfg.SessionStore.
// Identities are kept in postgres whenever DATABASE_URL is set.
func openStores(ctx context.Context, cfg *config.Config) (authRepo.UserRepository, authRepo.SessionRepository) {
	var userRepo authRepo.UserRepository = authRepo.NewMemoryUserRepository()
	var gormSessions *authRepo.GormSessionRepository

	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			logger.Sugar.Fatalw("failed to connect to database", "error", err)
		}
		// Auto-migrate database schemas
		if err := db.AutoMigrate(&authdomain.User{}, &authRepo.SessionRecord{}); err != nil {
			logger.Sugar.Fatalw("failed to migrate database", "error", err)
		}
		userRepo = authRepo.NewUserRepository(db)
		gormSessions = authRepo.NewGormSessionRepository(db, cfg.SessionMaxAge)
	}

	switch cfg.SessionStore {
	case config.SessionStorePostgres:
		go pruneSessions(ctx, gormSessions)
		return userRepo, gormSessions
	case config.SessionStoreRedis:
		client, err := redisclient.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Sugar.Fatalw("failed to connect to redis", "error", err)
		}
		return userRepo, authRepo.NewRedisSessionRepository(client, cfg.SessionMaxAge)
	default:
		return userRepo, authRepo.NewMemorySessionRepository(cfg.SessionMaxAge)
	}
}

func pruneSessions(ctx context.Context, repo *authRepo.GormSessionRepository) {
	ticker := time.NewTicker(sessionPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.PruneExpired(ctx)
			if err != nil {
				logger.Sugar.Errorw("failed to prune expired sessions", "error", err)
				continue
			}
			if n > 0 {
				logger.Sugar.Infow("pruned expired sessions", "count", n)
			}
		}
	}
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		logger.Sugar.Fatalw("failed to generate session secret", "error", err)
	}
	return hex.EncodeToString(b)
}
