package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/epeers/holdings/internal/cache"
	"github.com/epeers/holdings/internal/models"
	"github.com/epeers/holdings/internal/services"
)

// EnrichmentHandler serves ticker and sector resolution plus cache inspection
type EnrichmentHandler struct {
	enrichSvc *services.EnrichmentService
}

// NewEnrichmentHandler creates a new EnrichmentHandler
func NewEnrichmentHandler(enrichSvc *services.EnrichmentService) *EnrichmentHandler {
	return &EnrichmentHandler{enrichSvc: enrichSvc}
}

// Ticker handles GET /enrich/ticker
// @Summary Resolve a company name to a ticker
// @Description Cache, then the built-in name table, then the language model. ticker is null when unresolved.
// @Tags enrichment
// @Produce json
// @Param name query string true "Company name"
// @Success 200 {object} models.TickerResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /enrich/ticker [get]
func (h *EnrichmentHandler) Ticker(c *gin.Context) {
	var req models.EnrichRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx, wc := services.NewWarningContext(c.Request.Context())

	resp := models.TickerResponse{CompanyName: req.CompanyName}
	if ticker, ok := h.enrichSvc.ResolveTicker(ctx, req.CompanyName); ok {
		resp.Ticker = &ticker
	}
	resp.Warnings = wc.GetWarnings()
	c.JSON(http.StatusOK, resp)
}

// Sector handles GET /enrich/sector
// @Summary Resolve a company's sector
// @Description Never fails: returns "Unknown" when every lookup step fails
// @Tags enrichment
// @Produce json
// @Param name query string true "Company name"
// @Param ticker query string false "Ticker, if known"
// @Success 200 {object} models.SectorResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /enrich/sector [get]
func (h *EnrichmentHandler) Sector(c *gin.Context) {
	var req models.EnrichRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx, wc := services.NewWarningContext(c.Request.Context())

	sector := h.enrichSvc.ResolveSector(ctx, req.Ticker, req.CompanyName)
	c.JSON(http.StatusOK, models.SectorResponse{
		CompanyName: req.CompanyName,
		Ticker:      strings.ToUpper(strings.TrimSpace(req.Ticker)),
		Sector:      sector,
		Warnings:    wc.GetWarnings(),
	})
}

// Batch handles POST /enrich/batch
// @Summary Price change and sector for several tickers
// @Description Tickers are processed sequentially with pacing; a failing ticker yields a null price change and "Unknown" sector
// @Tags enrichment
// @Accept json
// @Produce json
// @Param request body models.BatchEnrichRequest true "Tickers to enrich"
// @Success 200 {object} models.BatchEnrichResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /enrich/batch [post]
func (h *EnrichmentHandler) Batch(c *gin.Context) {
	var req models.BatchEnrichRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx, wc := services.NewWarningContext(c.Request.Context())

	results := h.enrichSvc.GetStockInfoBatch(ctx, req.Tickers, req.CompanyNames, req.Period)
	c.JSON(http.StatusOK, models.BatchEnrichResponse{
		Results:  results,
		Warnings: wc.GetWarnings(),
	})
}

// CacheStats handles GET /cache/stats
// @Summary Ticker cache statistics
// @Tags cache
// @Produce json
// @Success 200 {object} models.CacheStats
// @Router /cache/stats [get]
func (h *EnrichmentHandler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.enrichSvc.Cache().Stats())
}

// Similar handles GET /cache/similar
// @Summary Cached companies with a similar name
// @Tags cache
// @Produce json
// @Param name query string true "Company name"
// @Success 200 {object} models.SimilarCompaniesResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /cache/similar [get]
func (h *EnrichmentHandler) Similar(c *gin.Context) {
	name := c.Query("name")
	if strings.TrimSpace(name) == "" {
		badRequest(c, "name is required")
		return
	}
	c.JSON(http.StatusOK, models.SimilarCompaniesResponse{
		CompanyName: name,
		Matches:     h.enrichSvc.Cache().SearchSimilar(name, cache.DefaultSimilarityThreshold),
	})
}

// PutMapping handles PUT /cache/mapping
// @Summary Store a manual ticker mapping
// @Description Subject to the cache overwrite policy; stored is false when an existing entry was kept
// @Tags cache
// @Accept json
// @Produce json
// @Param request body models.ManualMappingRequest true "Mapping"
// @Success 200 {object} models.MappingResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /cache/mapping [put]
func (h *EnrichmentHandler) PutMapping(c *gin.Context) {
	var req models.ManualMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	tc := h.enrichSvc.Cache()
	stored, err := tc.Upsert(c.Request.Context(), req.CompanyName, strings.ToUpper(req.Ticker), req.Sector, models.SourceManual)
	if err != nil {
		log.Errorf("failed to store manual mapping: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}
	entry, _ := tc.Get(req.CompanyName)
	c.JSON(http.StatusOK, models.MappingResponse{
		Stored: stored,
		Entry:  entry,
	})
}
