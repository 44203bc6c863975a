package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/merchpay/internal/domain/model"
	"github.com/polkiloo/merchpay/internal/server/http/dto"
)

// MerchantHandler manages the merchant registry endpoints.
type MerchantHandler struct {
	facade MerchantFacade
}

// NewMerchantHandler constructs MerchantHandler.
func NewMerchantHandler(facade MerchantFacade) *MerchantHandler {
	return &MerchantHandler{facade: facade}
}

// Register handles POST /api/merchants.
func (h *MerchantHandler) Register(c *gin.Context) {
	var req dto.RegisterMerchantRequest
	if !bindJSON(c, &req) {
		return
	}

	merchant, err := h.facade.RegisterMerchant(c.Request.Context(), req.Wallet, req.Name, req.PointsRatio, req.RedemptionRate)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, merchantResponse(merchant))
}

// Get handles GET /api/merchants/:wallet.
func (h *MerchantHandler) Get(c *gin.Context) {
	merchant, err := h.facade.Merchant(c.Request.Context(), c.Param("wallet"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, merchantResponse(merchant))
}

// UpdateRates handles PUT /api/merchants/:wallet/rates.
func (h *MerchantHandler) UpdateRates(c *gin.Context) {
	var req dto.RatesRequest
	if !bindJSON(c, &req) {
		return
	}

	merchant, err := h.facade.UpdateRates(c.Request.Context(), c.Param("wallet"), req.PointsRatio, req.RedemptionRate)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, merchantResponse(merchant))
}

func merchantResponse(m *model.Merchant) dto.MerchantResponse {
	return dto.MerchantResponse{
		Wallet:            m.Wallet,
		Name:              m.Name,
		PointsRatio:       m.PointsRatio,
		RedemptionRate:    m.RedemptionRate,
		TotalPointsIssued: m.TotalPointsIssued,
		RegisteredAt:      m.RegisteredAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
