package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cake_store/internal/services"
)

// DashboardHandler serves the staff-facing sales dashboard.
type DashboardHandler struct {
	catalogService services.CatalogService
	reportService  services.ReportService
}

func NewDashboardHandler(catalogService services.CatalogService, reportService services.ReportService) *DashboardHandler {
	return &DashboardHandler{
		catalogService: catalogService,
		reportService:  reportService,
	}
}

// GetSummary aggregates every order into per-cake, per-size, per-day tables.
// The catalog is fetched before the orders: aggregation needs it for the
// zero-filled backfill and the display ordering.
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	catalog, err := h.catalogService.GetCatalog(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	orders, err := h.catalogService.GetOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.reportService.Aggregate(orders, catalog))
}
