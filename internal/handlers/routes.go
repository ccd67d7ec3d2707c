package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/epeers/holdings/internal/middleware"
)

// RegisterRoutes mounts every API route on router
func RegisterRoutes(router *gin.Engine, holdings *HoldingsHandler, market *MarketHandler, enrich *EnrichmentHandler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	etag := middleware.DatasetETag(holdings.engine.Tables().Fingerprint)

	router.GET("/dataset", etag, holdings.Dataset)

	funds := router.Group("/funds", etag)
	funds.GET("/search", holdings.SearchFunds)
	funds.GET("/holdings", holdings.FundHoldings)
	funds.GET("/stats", holdings.FundStats)

	securities := router.Group("/securities", etag)
	securities.GET("/search", holdings.SearchSecurities)
	securities.GET("/holders", holdings.SecurityHolders)

	mkt := router.Group("/market", etag)
	mkt.GET("/overview", market.Overview)
	mkt.GET("/popular", market.Popular)
	mkt.GET("/funds", market.TopFunds)

	en := router.Group("/enrich")
	en.GET("/ticker", enrich.Ticker)
	en.GET("/sector", enrich.Sector)
	en.POST("/batch", enrich.Batch)

	c := router.Group("/cache")
	c.GET("/stats", enrich.CacheStats)
	c.GET("/similar", enrich.Similar)
	c.PUT("/mapping", enrich.PutMapping)
}
