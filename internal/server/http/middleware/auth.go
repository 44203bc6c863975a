package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/merchpay/internal/pkg/auth"
	"github.com/polkiloo/merchpay/internal/server/http/dto"
)

const (
	// WalletContextKey is a gin context key for the authenticated wallet.
	WalletContextKey = "wallet"
	authCookieName   = "merchpay_session"
)

// TokenParser resolves the wallet behind a session token.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// AuthRequired rejects requests without a valid session and stores the
// session wallet in the request context for the use case authorizer.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "missing session"})
			return
		}

		wallet, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid session"})
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: http.StatusText(http.StatusInternalServerError)})
			return
		}

		c.Set(WalletContextKey, wallet)
		c.Request = c.Request.WithContext(pkgAuth.WithWallet(c.Request.Context(), wallet))
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes session token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
