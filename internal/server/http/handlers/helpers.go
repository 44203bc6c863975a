package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/merchpay/internal/domain/errors"
	"github.com/polkiloo/merchpay/internal/server/http/dto"
)

var errBadRequest = errors.New("malformed request body")

// statusFor maps ledger errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrAlreadyRegistered), errors.Is(err, domainErrors.ErrTransferRejected):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrNotRegistered):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domainErrors.ErrInvalidRate), errors.Is(err, domainErrors.ErrInvalidWallet):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrInsufficientPoints), errors.Is(err, domainErrors.ErrNoPointsFound):
		return http.StatusPaymentRequired
	case errors.Is(err, domainErrors.ErrZeroReward), errors.Is(err, domainErrors.ErrArithmeticOverflow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes the error body. Internal failures are not echoed to the client.
func abortWithError(c *gin.Context, status int, err error) {
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: msg})
}

func writeError(c *gin.Context, err error) {
	abortWithError(c, statusFor(err), err)
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, http.StatusBadRequest, errBadRequest)
		return false
	}
	return true
}
