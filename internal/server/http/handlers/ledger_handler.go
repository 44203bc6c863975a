package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/merchpay/internal/server/http/dto"
)

// LedgerHandler serves payments, balances and redemptions.
type LedgerHandler struct {
	payments    PaymentFacade
	points      PointsFacade
	redemptions RedemptionFacade
}

// NewLedgerHandler constructs LedgerHandler.
func NewLedgerHandler(payments PaymentFacade, points PointsFacade, redemptions RedemptionFacade) *LedgerHandler {
	return &LedgerHandler{payments: payments, points: points, redemptions: redemptions}
}

// Pay handles POST /api/payments.
func (h *LedgerHandler) Pay(c *gin.Context) {
	var req dto.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	receipt, err := h.payments.ProcessPayment(c.Request.Context(), req.Merchant, req.Customer, req.Token, req.Amount)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PaymentResponse{
		PointsIssued:      receipt.PointsIssued,
		Balance:           receipt.Balance,
		TotalPointsIssued: receipt.TotalPointsIssued,
	})
}

// Points handles GET /api/points/:wallet.
func (h *LedgerHandler) Points(c *gin.Context) {
	wallet := c.Param("wallet")
	balance, err := h.points.Points(c.Request.Context(), wallet)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PointsResponse{Wallet: wallet, Balance: balance})
}

// Redeem handles POST /api/redemptions.
func (h *LedgerHandler) Redeem(c *gin.Context) {
	var req dto.RedemptionRequest
	if !bindJSON(c, &req) {
		return
	}

	receipt, err := h.redemptions.Redeem(c.Request.Context(), req.Merchant, req.Customer, req.Points, req.RewardToken)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RedemptionResponse{Reward: receipt.Reward, Balance: receipt.Balance})
}
