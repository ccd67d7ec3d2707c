package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/epeers/holdings/internal/models"
	"github.com/epeers/holdings/internal/services"
)

const classDistributionSize = 10

// MarketHandler serves dataset-wide aggregates
type MarketHandler struct {
	engine *services.SearchEngine
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(engine *services.SearchEngine) *MarketHandler {
	return &MarketHandler{engine: engine}
}

// Overview handles GET /market/overview
// @Summary Market overview
// @Description Filer, position and value totals plus the most common security classes
// @Tags market
// @Produce json
// @Success 200 {object} models.MarketOverviewResponse
// @Router /market/overview [get]
func (h *MarketHandler) Overview(c *gin.Context) {
	ctx, wc := services.NewWarningContext(c.Request.Context())
	c.JSON(http.StatusOK, models.MarketOverviewResponse{
		Overview: h.engine.MarketOverview(ctx),
		Classes:  h.engine.ClassDistribution(ctx, classDistributionSize),
		Warnings: wc.GetWarnings(),
	})
}

// Popular handles GET /market/popular
// @Summary Most held securities
// @Tags market
// @Produce json
// @Param top query int false "Number of rows (default 50)"
// @Success 200 {object} models.PopularSecuritiesResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /market/popular [get]
func (h *MarketHandler) Popular(c *gin.Context) {
	req, ok := bindTop(c)
	if !ok {
		return
	}
	securities := h.engine.PopularSecurities(c.Request.Context(), req.Top)
	c.JSON(http.StatusOK, models.PopularSecuritiesResponse{
		Count:      len(securities),
		Securities: securities,
	})
}

// TopFunds handles GET /market/funds
// @Summary Largest filers by declared value
// @Description Filings without a declared total sort last
// @Tags market
// @Produce json
// @Param top query int false "Number of rows (default 50)"
// @Success 200 {object} models.TopFundsResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /market/funds [get]
func (h *MarketHandler) TopFunds(c *gin.Context) {
	req, ok := bindTop(c)
	if !ok {
		return
	}
	funds := h.engine.TopFunds(c.Request.Context(), req.Top)
	c.JSON(http.StatusOK, models.TopFundsResponse{
		Count: len(funds),
		Funds: funds,
	})
}
