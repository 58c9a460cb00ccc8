package api

import (
	"net/http"
	"os"
	"time"

	authDelivery "receipt-backend/internal/auth/delivery"
	"receipt-backend/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	// OAuth flow, browser redirects
	r.GET("/auth/google", h.authHandler.GoogleLogin)
	r.GET("/oauth2callback", h.authHandler.OAuthCallback)

	r.POST("/upload", h.uploadLimiter.Middleware(sessionKey), h.receiptHandler.Upload)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.GET("/check-auth", h.authHandler.CheckAuth)
		api.POST("/logout", h.authHandler.Logout)
		api.GET("/payment-methods", h.receiptHandler.PaymentMethods)
	}

	setupStatic(r, h.config.StaticDir)
}

// sessionKey buckets logged-in users by session; anonymous callers fall back to their IP.
func sessionKey(c *gin.Context) string {
	if sess := authDelivery.CurrentSession(c); sess.IsLoggedIn {
		return sess.ID
	}
	return ""
}

// setupStatic serves the front end from dir, with / mapped to index.html.
func setupStatic(r *gin.Engine, dir string) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found."})
	}

	info, err := os.Stat(dir)
	if dir == "" || err != nil || !info.IsDir() {
		logger.Sugar.Warnw("static directory not found, front end will not be served", "dir", dir)
		r.NoRoute(notFound)
		return
	}

	files := http.FileServer(http.Dir(dir))
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			notFound(c)
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	})
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return nil
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		// Credentialed requests need a concrete origin, so echo it back.
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsCfg.AllowOrigins = origins
	}
	return cors.New(corsCfg)
}
