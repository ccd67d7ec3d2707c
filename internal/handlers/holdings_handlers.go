package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/epeers/holdings/internal/middleware"
	"github.com/epeers/holdings/internal/models"
	"github.com/epeers/holdings/internal/services"
)

// HoldingsHandler serves the fund and security search endpoints
type HoldingsHandler struct {
	engine *services.SearchEngine
}

// NewHoldingsHandler creates a new HoldingsHandler
func NewHoldingsHandler(engine *services.SearchEngine) *HoldingsHandler {
	return &HoldingsHandler{engine: engine}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "invalid_request",
		Message: msg,
	})
}

func bindSearch(c *gin.Context) (models.SearchRequest, bool) {
	var req models.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err.Error())
		return req, false
	}
	if req.Limit < 0 {
		badRequest(c, "limit must not be negative")
		return req, false
	}
	return req, true
}

func bindTop(c *gin.Context) (models.TopRequest, bool) {
	var req models.TopRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err.Error())
		return req, false
	}
	if req.Top < 0 {
		badRequest(c, "top must not be negative")
		return req, false
	}
	if req.Top == 0 {
		req.Top = services.DefaultTopN
	}
	return req, true
}

// Dataset handles GET /dataset
// @Summary Describe the loaded dataset
// @Description Row counts, fingerprint, metadata sidecar and security index coverage
// @Tags dataset
// @Produce json
// @Success 200 {object} models.DatasetResponse
// @Router /dataset [get]
func (h *HoldingsHandler) Dataset(c *gin.Context) {
	t := h.engine.Tables()
	etag, _ := middleware.GetETag(c)
	c.JSON(http.StatusOK, models.DatasetResponse{
		Fingerprint:    t.Fingerprint,
		ETag:           etag,
		Positions:      len(t.Positions),
		Coverpages:     len(t.Coverpages),
		Submissions:    len(t.Submissions),
		Summaries:      len(t.Summaries),
		MalformedCells: t.MalformedCells,
		FromChunks:     t.FromChunks,
		Metadata:       t.Metadata,
		Coverage:       h.engine.SecurityCoverage(),
	})
}

// SearchFunds handles GET /funds/search
// @Summary Search filers by name
// @Description Exact index key matches first, then keys containing the query
// @Tags funds
// @Produce json
// @Param q query string false "Fund name query"
// @Param limit query int false "Maximum results (default 20)"
// @Success 200 {object} models.FundSearchResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /funds/search [get]
func (h *HoldingsHandler) SearchFunds(c *gin.Context) {
	req, ok := bindSearch(c)
	if !ok {
		return
	}
	results := h.engine.SearchFunds(c.Request.Context(), req.Query, req.Limit)
	c.JSON(http.StatusOK, models.FundSearchResponse{
		Query:   req.Query,
		Count:   len(results),
		Results: results,
	})
}

// SearchSecurities handles GET /securities/search
// @Summary Search securities by issuer name or ticker-like token
// @Description Searches the security index, which may be built from a prefix sample of positions
// @Tags securities
// @Produce json
// @Param q query string false "Security name query"
// @Param limit query int false "Maximum results (default 20)"
// @Success 200 {object} models.SecuritySearchResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /securities/search [get]
func (h *HoldingsHandler) SearchSecurities(c *gin.Context) {
	req, ok := bindSearch(c)
	if !ok {
		return
	}
	ctx, wc := services.NewWarningContext(c.Request.Context())
	results := h.engine.SearchSecurities(ctx, req.Query, req.Limit)
	cov := h.engine.SecurityCoverage()
	c.JSON(http.StatusOK, models.SecuritySearchResponse{
		Query:         req.Query,
		Count:         len(results),
		Results:       results,
		SampleLimited: cov.Truncated,
		Coverage:      cov,
		Warnings:      wc.GetWarnings(),
	})
}

// FundHoldings handles GET /funds/holdings
// @Summary Aggregated holdings of a fund
// @Description Groups the positions of up to five matching filings by issuer and class
// @Tags funds
// @Produce json
// @Param q query string true "Fund name query"
// @Param top query int false "Number of rows (default 50)"
// @Success 200 {object} models.FundHoldingsResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /funds/holdings [get]
func (h *HoldingsHandler) FundHoldings(c *gin.Context) {
	req, ok := bindTop(c)
	if !ok {
		return
	}
	holdings := h.engine.GetFundHoldings(c.Request.Context(), req.Query, req.Top)
	c.JSON(http.StatusOK, models.FundHoldingsResponse{
		Query:    req.Query,
		Count:    len(holdings),
		Holdings: holdings,
	})
}

// FundStats handles GET /funds/stats
// @Summary Statistics for a fund
// @Tags funds
// @Produce json
// @Param q query string true "Fund name query"
// @Success 200 {object} models.FundStatsResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /funds/stats [get]
func (h *HoldingsHandler) FundStats(c *gin.Context) {
	query := c.Query("q")
	ctx, wc := services.NewWarningContext(c.Request.Context())

	stats, err := h.engine.GetFundStatistics(ctx, query)
	if err != nil {
		var nf *models.FundNotFoundError
		if errors.As(err, &nf) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: nf.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.FundStatsResponse{
		FundStats: *stats,
		Warnings:  wc.GetWarnings(),
	})
}

// SecurityHolders handles GET /securities/holders
// @Summary Filers holding a security
// @Description Sums every position of up to ten matching securities per filer name
// @Tags securities
// @Produce json
// @Param q query string true "Security name query"
// @Param top query int false "Number of rows (default 50)"
// @Success 200 {object} models.SecurityHoldersResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /securities/holders [get]
func (h *HoldingsHandler) SecurityHolders(c *gin.Context) {
	req, ok := bindTop(c)
	if !ok {
		return
	}
	ctx, wc := services.NewWarningContext(c.Request.Context())
	holders := h.engine.GetSecurityHolders(ctx, req.Query, req.Top)
	c.JSON(http.StatusOK, models.SecurityHoldersResponse{
		Query:         req.Query,
		Count:         len(holders),
		Holders:       holders,
		SampleLimited: h.engine.SecurityCoverage().Truncated,
		Warnings:      wc.GetWarnings(),
	})
}
