package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"cake_store/internal/models"
	"cake_store/internal/services"
	"cake_store/pkg/dateutil"
	"cake_store/pkg/money"
)

// StoreHandler serves the customer-facing order form: catalog data, selector
// option projections, pickup schedule and draft sessions.
type StoreHandler struct {
	catalogService  services.CatalogService
	stockService    services.StockService
	scheduleService services.ScheduleService
	orderService    services.OrderService
}

func NewStoreHandler(
	catalogService services.CatalogService,
	stockService services.StockService,
	scheduleService services.ScheduleService,
	orderService services.OrderService,
) *StoreHandler {
	return &StoreHandler{
		catalogService:  catalogService,
		stockService:    stockService,
		scheduleService: scheduleService,
		orderService:    orderService,
	}
}

func (h *StoreHandler) GetCatalog(c *gin.Context) {
	catalog, err := h.catalogService.GetCatalog(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cakes": catalog.Sorted()})
}

// GetCake serves the size/price table for one cake, looked up by name.
func (h *StoreHandler) GetCake(c *gin.Context) {
	cake, ok, err := h.catalogService.GetCakeByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cake not found"})
		return
	}

	sizes := make([]gin.H, 0, len(cake.Sizes))
	for _, size := range cake.SortedSizes() {
		sizes = append(sizes, gin.H{
			"size":        size.Size,
			"price":       size.Price,
			"price_label": money.FormatYen(size.Price) + " 税込",
			"sold_out":    size.Stock == 0,
		})
	}
	c.JSON(http.StatusOK, gin.H{"cake": cake, "sizes": sizes})
}

// GetDates serves the pickup calendar: the allow-list, the excluded dates and
// the picker bounds.
func (h *StoreHandler) GetDates(c *gin.Context) {
	response := gin.H{
		"allowed_dates":  formatDates(h.scheduleService.AllowedDates()),
		"excluded_dates": formatDates(h.scheduleService.ExcludedDates()),
	}
	if min, max, ok := h.scheduleService.AllowedRange(); ok {
		response["min_date"] = dateutil.Format(min)
		response["max_date"] = dateutil.Format(max)
	}
	c.JSON(http.StatusOK, response)
}

func (h *StoreHandler) GetTimes(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	slots, err := h.catalogService.GetTimeslots(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"times": h.stockService.TimeOptions(slots, date)})
}

func (h *StoreHandler) CreateSession(c *gin.Context) {
	sessionID, draft, err := h.orderService.CreateDraft(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondDraft(c, sessionID, draft)
}

func (h *StoreHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("session_id")
	draft, err := h.orderService.GetDraft(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondDraft(c, sessionID, draft)
}

func (h *StoreHandler) AddLine(c *gin.Context) {
	sessionID := c.Param("session_id")
	draft, err := h.orderService.AddLine(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondDraft(c, sessionID, draft)
}

func (h *StoreHandler) UpdateLine(c *gin.Context) {
	sessionID := c.Param("session_id")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid line index"})
		return
	}

	var line models.DraftLine
	if err := c.ShouldBindJSON(&line); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	draft, err := h.orderService.UpdateLine(c.Request.Context(), sessionID, index, line)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondDraft(c, sessionID, draft)
}

func (h *StoreHandler) RemoveLine(c *gin.Context) {
	sessionID := c.Param("session_id")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid line index"})
		return
	}

	draft, err := h.orderService.RemoveLine(c.Request.Context(), sessionID, index)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondDraft(c, sessionID, draft)
}

func (h *StoreHandler) SetPickup(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req struct {
		Date       string `json:"date"`
		PickupHour string `json:"pickup_hour"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	draft, err := h.orderService.SetPickup(c.Request.Context(), sessionID, req.Date, req.PickupHour)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondDraft(c, sessionID, draft)
}

func (h *StoreHandler) Submit(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req services.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := h.orderService.Submit(c.Request.Context(), sessionID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// respondDraft returns the draft together with the selector projections the
// form needs: cake options, and per-line size and quantity options with the
// line itself excluded from the used-stock sum.
func (h *StoreHandler) respondDraft(c *gin.Context, sessionID string, draft *models.DraftOrder) {
	catalog, err := h.catalogService.GetCatalog(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	lines := make([]gin.H, 0, len(draft.Lines))
	for i, line := range draft.Lines {
		lines = append(lines, gin.H{
			"line":             line,
			"size_options":     h.stockService.SizeOptions(catalog, line.CakeID, draft.Lines, i),
			"quantity_options": h.stockService.QuantityOptions(catalog, line.CakeID, line.Size, draft.Lines, i),
		})
	}

	response := gin.H{
		"session_id":   sessionID,
		"draft":        draft,
		"cake_options": h.stockService.CakeOptions(catalog, draft.Lines),
		"lines":        lines,
	}
	if draft.Date != "" {
		slots, err := h.catalogService.GetTimeslots(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		response["time_options"] = h.stockService.TimeOptions(slots, draft.Date)
		response["date_label"] = dateutil.FormatJP(draft.Date)
	}
	c.JSON(http.StatusOK, response)
}

func formatDates(dates []time.Time) []string {
	formatted := make([]string, len(dates))
	for i, d := range dates {
		formatted[i] = dateutil.Format(d)
	}
	return formatted
}

// respondError maps service errors onto HTTP statuses. Upstream rejections
// keep the draft intact and surface the server's reason.
func respondError(c *gin.Context, err error) {
	var validation *services.ValidationError
	var rejection *services.RejectionError

	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, services.ErrDateNotAllowed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "選択された受け取り日はご利用いただけません。"})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error(), "missing": validation.Missing})
	case errors.As(err, &rejection):
		c.JSON(http.StatusConflict, gin.H{"error": rejection.Reason})
	default:
		log.Printf("bakery API error: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "送信に失敗しました。もう一度お試しください。"})
	}
}
