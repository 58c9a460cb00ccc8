package delivery

import (
	"errors"
	"net/http"

	authdomain "receipt-backend/internal/auth/domain"
	authdto "receipt-backend/internal/auth/dto"
	"receipt-backend/internal/auth/usecase"
	"receipt-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
	}
}

// GoogleLogin redirects the browser to the Google consent screen.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	sess := CurrentSession(c)
	url, err := h.authUsecase.BeginLogin(c.Request.Context(), sess)
	if err != nil {
		logger.Sugar.Errorw("failed to start login", "error", err)
		c.String(http.StatusInternalServerError, authdomain.ErrExchangeFailed.Error())
		return
	}

	CommitSession(c)
	c.Redirect(http.StatusFound, url)
}

func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		logger.Sugar.Warnw("google returned an oauth error", "error", reason)
		c.String(http.StatusInternalServerError, authdomain.ErrExchangeFailed.Error())
		return
	}

	sess := CurrentSession(c)
	err := h.authUsecase.CompleteLogin(c.Request.Context(), sess, c.Query("state"), c.Query("code"))
	switch {
	case err == nil:
		CommitSession(c)
		c.Redirect(http.StatusFound, "/")
	case errors.Is(err, authdomain.ErrMissingCode), errors.Is(err, authdomain.ErrInvalidState):
		c.String(http.StatusBadRequest, err.Error())
	default:
		logger.Sugar.Errorw("oauth callback failed", "error", err)
		c.String(http.StatusInternalServerError, authdomain.ErrExchangeFailed.Error())
	}
}

func (h *AuthHandler) CheckAuth(c *gin.Context) {
	c.JSON(http.StatusOK, h.authUsecase.Status(CurrentSession(c)))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authUsecase.Logout(c.Request.Context(), CurrentSession(c)); err != nil {
		c.JSON(http.StatusInternalServerError, authdto.MessageResponse{Message: "Could not log out, please try again."})
		return
	}

	CommitSession(c)
	c.JSON(http.StatusOK, authdto.MessageResponse{Message: "Logged out successfully."})
}
