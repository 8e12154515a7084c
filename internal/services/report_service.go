package services

import (
	"sort"
	"strings"

	"cake_store/internal/models"
	"cake_store/pkg/dateutil"
)

// unknownSizeID sorts order sizes that no longer exist in the catalog last.
const unknownSizeID = 9999

// ReportService turns the full order set and the catalog into the sales
// dashboard payload. Pure: aggregating the same input twice yields the same
// output.
type ReportService interface {
	Aggregate(orders []models.Order, catalog models.Catalog) *models.SalesSummary
}

type reportService struct{}

func NewReportService() ReportService {
	return &reportService{}
}

type sizeCell struct {
	stock int
	days  map[string]int
}

func (r *reportService) Aggregate(orders []models.Order, catalog models.Catalog) *models.SalesSummary {
	grouped := make(map[string]map[string]*sizeCell)
	dateSet := make(map[string]bool)
	statusDayCounts := make(map[string]map[string]int)

	// Pass 1: per-status counts for every order, per-cake/size/day amounts for
	// orders that still count against stock (everything but cancelled).
	for _, order := range orders {
		status := strings.ToLower(strings.TrimSpace(order.Status))
		date := dateutil.DateOnly(order.Date)
		dateSet[date] = true

		if statusDayCounts[date] == nil {
			statusDayCounts[date] = make(map[string]int)
		}
		statusDayCounts[date][status]++

		if status == models.StatusCancelled {
			continue
		}
		for _, line := range order.Cakes {
			name := strings.TrimSpace(line.Name)
			size := strings.TrimSpace(line.Size)

			if grouped[name] == nil {
				grouped[name] = make(map[string]*sizeCell)
			}
			cell := grouped[name][size]
			if cell == nil {
				cell = &sizeCell{stock: line.Stock, days: make(map[string]int)}
				grouped[name][size] = cell
			}
			// First non-zero stock snapshot wins.
			if cell.stock == 0 && line.Stock > 0 {
				cell.stock = line.Stock
			}
			cell.days[date] += line.Amount
		}
	}

	dates := make([]string, 0, len(dateSet))
	for date := range dateSet {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	// Pass 2: backfill so every catalog cake and size appears, and every date
	// appears in every cell, zero-filled where nothing was ordered.
	for _, cake := range catalog {
		name := strings.TrimSpace(cake.Name)
		if grouped[name] == nil {
			grouped[name] = make(map[string]*sizeCell)
		}
		for _, sizeInfo := range cake.SortedSizes() {
			size := strings.TrimSpace(sizeInfo.Size)
			cell := grouped[name][size]
			if cell == nil {
				cell = &sizeCell{stock: sizeInfo.Stock, days: make(map[string]int)}
				grouped[name][size] = cell
			}
			for _, date := range dates {
				if _, ok := cell.days[date]; !ok {
					cell.days[date] = 0
				}
			}
		}
	}

	summary := &models.SalesSummary{
		Dates:           dates,
		DateLabels:      dateLabels(dates),
		Cakes:           r.cakeSummaries(grouped, catalog, dates),
		StatusDayCounts: statusDayCounts,
	}

	summary.DayTotals = make(map[string]int, len(dates))
	for _, cake := range summary.Cakes {
		for _, date := range dates {
			summary.DayTotals[date] += cake.DayTotals[date]
		}
		summary.GrandTotal += cake.Total
	}

	summary.StatusRows = r.statusRows(orders, dates, statusDayCounts)
	summary.StatusTotals = r.statusTotals(summary.StatusRows, dates)
	return summary
}

func dateLabels(dates []string) []string {
	labels := make([]string, len(dates))
	for i, date := range dates {
		labels[i] = dateutil.FormatMonthDayJP(date)
	}
	return labels
}

// cakeSummaries flattens the grouped cells into deterministic display order:
// catalog cakes by ID ascending, then order-only names (no longer in the
// catalog) by name; sizes by catalog size ID, unknown sizes last.
func (r *reportService) cakeSummaries(grouped map[string]map[string]*sizeCell, catalog models.Catalog, dates []string) []models.CakeSummary {
	summaries := make([]models.CakeSummary, 0, len(grouped))
	seen := make(map[string]bool)

	for _, cake := range catalog.Sorted() {
		name := strings.TrimSpace(cake.Name)
		if seen[name] {
			continue
		}
		seen[name] = true
		summaries = append(summaries, r.cakeSummary(cake.ID, name, grouped[name], cake, dates))
	}

	var orphans []string
	for name := range grouped {
		if !seen[name] {
			orphans = append(orphans, name)
		}
	}
	sort.Strings(orphans)
	for _, name := range orphans {
		summaries = append(summaries, r.cakeSummary(0, name, grouped[name], models.Cake{}, dates))
	}
	return summaries
}

func (r *reportService) cakeSummary(cakeID int, name string, cells map[string]*sizeCell, cake models.Cake, dates []string) models.CakeSummary {
	sizeID := make(map[string]int, len(cake.Sizes))
	for _, sizeInfo := range cake.Sizes {
		sizeID[strings.TrimSpace(sizeInfo.Size)] = sizeInfo.ID
	}
	idOf := func(size string) int {
		if id, ok := sizeID[size]; ok {
			return id
		}
		return unknownSizeID
	}

	sizes := make([]string, 0, len(cells))
	for size := range cells {
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool {
		a, b := idOf(sizes[i]), idOf(sizes[j])
		if a != b {
			return a < b
		}
		return sizes[i] < sizes[j]
	})

	cs := models.CakeSummary{
		CakeID:    cakeID,
		Name:      name,
		Sizes:     make([]models.SizeSummary, 0, len(sizes)),
		DayTotals: make(map[string]int, len(dates)),
	}
	for _, size := range sizes {
		cell := cells[size]
		row := models.SizeSummary{
			Size:  size,
			Stock: cell.stock,
			Days:  cell.days,
		}
		for _, date := range dates {
			row.Total += cell.days[date]
			cs.DayTotals[date] += cell.days[date]
		}
		cs.Total += row.Total
		cs.Sizes = append(cs.Sizes, row)
	}
	return cs
}

// statusRows computes per-status counts and revenue per date. Revenue is a
// separate pass over the orders because it must come from each order's price
// and amount snapshots, not the catalog. Cancelled orders get a row too; they
// are only excluded from the stock summary.
func (r *reportService) statusRows(orders []models.Order, dates []string, statusDayCounts map[string]map[string]int) []models.StatusRow {
	rows := make([]models.StatusRow, 0, len(models.StatusOptions))
	for _, option := range models.StatusOptions {
		row := models.StatusRow{
			Status:  option.Value,
			Label:   option.Label,
			Counts:  make(map[string]int, len(dates)),
			Revenue: make(map[string]int, len(dates)),
		}
		for _, date := range dates {
			count := statusDayCounts[date][option.Value]
			row.Counts[date] = count
			row.TotalCount += count

			revenue := 0
			for _, order := range orders {
				if dateutil.DateOnly(order.Date) != date {
					continue
				}
				if strings.ToLower(strings.TrimSpace(order.Status)) != option.Value {
					continue
				}
				for _, line := range order.Cakes {
					revenue += line.Price * line.Amount
				}
			}
			row.Revenue[date] = revenue
			row.TotalRevenue += revenue
		}
		rows = append(rows, row)
	}
	return rows
}

func (r *reportService) statusTotals(rows []models.StatusRow, dates []string) models.StatusTotals {
	totals := models.StatusTotals{Counts: make(map[string]int, len(dates))}
	for _, row := range rows {
		if row.Status == models.StatusCancelled {
			continue
		}
		for _, date := range dates {
			totals.Counts[date] += row.Counts[date]
		}
		totals.TotalCount += row.TotalCount
		totals.TotalRevenue += row.TotalRevenue
	}
	return totals
}
