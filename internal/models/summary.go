package models

// SizeSummary is one row of a cake's dashboard table: ordered amounts per
// pickup date for a single size, plus the stock snapshot for that size.
type SizeSummary struct {
	Size  string         `json:"size"`
	Stock int            `json:"stock"`
	Days  map[string]int `json:"days"`
	Total int            `json:"total"`
}

// CakeSummary is the dashboard table for one cake, sizes ordered by their
// catalog ID.
type CakeSummary struct {
	CakeID    int            `json:"cake_id"`
	Name      string         `json:"name"`
	Sizes     []SizeSummary  `json:"sizes"`
	DayTotals map[string]int `json:"day_totals"`
	Total     int            `json:"total"`
}

// StatusRow is one row of the payment-status table: per-date order counts and
// revenue for a single status.
type StatusRow struct {
	Status       string         `json:"status"`
	Label        string         `json:"label"`
	Counts       map[string]int `json:"counts"`
	TotalCount   int            `json:"total_count"`
	Revenue      map[string]int `json:"revenue"`
	TotalRevenue int            `json:"total_revenue"`
}

// StatusTotals aggregates the non-cancelled status rows.
type StatusTotals struct {
	Counts       map[string]int `json:"counts"`
	TotalCount   int            `json:"total_count"`
	TotalRevenue int            `json:"total_revenue"`
}

// SalesSummary is the full dashboard payload. Dates are sorted ascending and
// every cake/size of the catalog appears even with zero orders; every date
// appears in every Days map.
type SalesSummary struct {
	Dates           []string                  `json:"dates"`
	DateLabels      []string                  `json:"date_labels"`
	Cakes           []CakeSummary             `json:"cakes"`
	DayTotals       map[string]int            `json:"day_totals"`
	GrandTotal      int                       `json:"grand_total"`
	StatusRows      []StatusRow               `json:"status_rows"`
	StatusTotals    StatusTotals              `json:"status_totals"`
	StatusDayCounts map[string]map[string]int `json:"status_day_counts"`
}
