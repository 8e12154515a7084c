package services

import (
	"strconv"
	"strings"

	"cake_store/internal/models"
	"cake_store/pkg/dateutil"
	"cake_store/pkg/money"
)

// maxPerLine caps how many of one cake a single draft line may order.
const maxPerLine = 10

const soldOutSuffix = "（完売）"

// StockService computes remaining availability for a draft order and projects
// it into selectable options. All methods are pure over the passed state;
// callers re-invoke on every edit rather than caching.
type StockService interface {
	RemainingStock(catalog models.Catalog, cakeID int, size string, lines []models.DraftLine, excludeIndex int) int
	CakeOptions(catalog models.Catalog, lines []models.DraftLine) []models.Option
	SizeOptions(catalog models.Catalog, cakeID int, lines []models.DraftLine, excludeIndex int) []models.SizeOption
	QuantityOptions(catalog models.Catalog, cakeID int, size string, lines []models.DraftLine, excludeIndex int) []models.Option
	TimeOptions(slots []models.TimeSlot, date string) []models.Option
}

type stockService struct{}

func NewStockService() StockService {
	return &stockService{}
}

// usedAmount sums the quantities the draft's other lines have already
// committed to a (cake, size) pair. The line at excludeIndex is skipped so a
// line's own selection does not count against itself.
func usedAmount(lines []models.DraftLine, cakeID int, size string, excludeIndex int) int {
	want := strings.TrimSpace(size)
	used := 0
	for i, line := range lines {
		if i == excludeIndex {
			continue
		}
		if line.CakeID == cakeID && strings.TrimSpace(line.Size) == want {
			used += line.Amount
		}
	}
	return used
}

func (s *stockService) RemainingStock(catalog models.Catalog, cakeID int, size string, lines []models.DraftLine, excludeIndex int) int {
	remaining := catalog.SizeStock(cakeID, size) - usedAmount(lines, cakeID, size, excludeIndex)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CakeOptions lists every catalog cake, marking a cake sold out when it has no
// stock at all or the draft has already committed its full stock.
func (s *stockService) CakeOptions(catalog models.Catalog, lines []models.DraftLine) []models.Option {
	options := make([]models.Option, 0, len(catalog))
	for _, cake := range catalog.Sorted() {
		total := cake.TotalStock()
		ordered := 0
		for _, line := range lines {
			if line.CakeID == cake.ID {
				ordered += line.Amount
			}
		}
		soldOut := total <= 0 || (ordered > 0 && ordered >= total)

		label := cake.Name
		if soldOut {
			label += soldOutSuffix
		}
		options = append(options, models.Option{
			Value:    strconv.Itoa(cake.ID),
			Label:    label,
			Disabled: soldOut,
		})
	}
	return options
}

// SizeOptions projects a cake's sizes with the stock remaining after the
// draft's other lines. Sold-out sizes stay visible but disabled, with the
// state surfaced in the label. Ordered by size ID ascending.
func (s *stockService) SizeOptions(catalog models.Catalog, cakeID int, lines []models.DraftLine, excludeIndex int) []models.SizeOption {
	cake, ok := catalog.ByID(cakeID)
	if !ok {
		return []models.SizeOption{}
	}

	sizes := cake.SortedSizes()
	options := make([]models.SizeOption, 0, len(sizes))
	for _, size := range sizes {
		remaining := size.Stock - usedAmount(lines, cakeID, size.Size, excludeIndex)
		if remaining < 0 {
			remaining = 0
		}

		label := size.Size + " " + money.FormatYen(size.Price)
		if remaining <= 0 {
			label += soldOutSuffix
		}
		options = append(options, models.SizeOption{
			ID:        size.ID,
			Size:      size.Size,
			Price:     size.Price,
			Stock:     size.Stock,
			Remaining: remaining,
			Label:     label,
			Disabled:  remaining <= 0,
		})
	}
	return options
}

// QuantityOptions lists 1..min(10, remaining). Empty when the size is not
// selected yet or nothing remains.
func (s *stockService) QuantityOptions(catalog models.Catalog, cakeID int, size string, lines []models.DraftLine, excludeIndex int) []models.Option {
	if strings.TrimSpace(size) == "" {
		return []models.Option{}
	}
	if _, ok := catalog.ByID(cakeID); !ok {
		return []models.Option{}
	}

	limit := s.RemainingStock(catalog, cakeID, size, lines, excludeIndex)
	if limit > maxPerLine {
		limit = maxPerLine
	}

	options := make([]models.Option, 0, limit)
	for q := 1; q <= limit; q++ {
		options = append(options, models.Option{
			Value: strconv.Itoa(q),
			Label: strconv.Itoa(q),
		})
	}
	return options
}

// TimeOptions lists the pickup times for one date, disabled when the slot's
// capacity is exhausted.
func (s *stockService) TimeOptions(slots []models.TimeSlot, date string) []models.Option {
	want := dateutil.DateOnly(date)
	var options []models.Option
	for _, slot := range slots {
		if slot.DateOnly() != want {
			continue
		}

		full := slot.LimitSlots <= 0
		label := slot.Time
		if full {
			label += " （定員に達した為、選択できません。）"
		}
		options = append(options, models.Option{
			Value:    slot.Time,
			Label:    label,
			Disabled: full,
		})
	}
	if options == nil {
		return []models.Option{}
	}
	return options
}
