package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/merchpay/internal/domain/errors"
	"github.com/polkiloo/merchpay/internal/server/http/dto"
	"github.com/polkiloo/merchpay/internal/server/http/middleware"
)

// AuthHandler processes wallet registration and login.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /api/wallets/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.AuthRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.facade.Register(c.Request.Context(), req.Wallet, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCredentials), errors.Is(err, domainErrors.ErrInvalidWallet):
			abortWithError(c, http.StatusBadRequest, err)
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			abortWithError(c, http.StatusConflict, err)
		default:
			abortWithError(c, http.StatusInternalServerError, err)
		}
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// Login handles POST /api/wallets/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.AuthRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.facade.Authenticate(c.Request.Context(), req.Wallet, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			abortWithError(c, http.StatusUnauthorized, err)
		default:
			abortWithError(c, http.StatusInternalServerError, err)
		}
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}
