package services

import (
	"reflect"
	"strconv"
	"testing"

	"cake_store/internal/models"
)

func testCatalog() models.Catalog {
	return models.Catalog{
		{
			ID:   2,
			Name: "チョコレートケーキ",
			Sizes: []models.CakeSize{
				{ID: 3, Size: "S", Price: 2500, Stock: 0},
			},
		},
		{
			ID:   1,
			Name: "いちごのショートケーキ",
			Sizes: []models.CakeSize{
				{ID: 2, Size: "L", Price: 4800, Stock: 12},
				{ID: 1, Size: "M", Price: 3200, Stock: 5},
			},
		},
	}
}

func TestRemainingStock(t *testing.T) {
	catalog := testCatalog()
	svc := NewStockService()

	lines := []models.DraftLine{
		{CakeID: 1, Size: "M", Amount: 3},
		{CakeID: 1, Size: "M", Amount: 1},
	}

	tests := []struct {
		name         string
		cakeID       int
		size         string
		excludeIndex int
		want         int
	}{
		{"second line sees first line's usage", 1, "M", 1, 2},
		{"own selection is not double counted", 1, "M", 0, 4},
		{"new line sees all usage", 1, "M", 2, 1},
		{"other size unaffected", 1, "L", 1, 12},
		{"unknown cake treated as zero stock", 99, "M", 1, 0},
		{"unknown size treated as zero stock", 1, "XXL", 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.RemainingStock(catalog, tt.cakeID, tt.size, lines, tt.excludeIndex)
			if got != tt.want {
				t.Errorf("RemainingStock() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRemainingStockNeverNegative(t *testing.T) {
	catalog := testCatalog()
	svc := NewStockService()

	lines := []models.DraftLine{
		{CakeID: 1, Size: "M", Amount: 10},
	}
	if got := svc.RemainingStock(catalog, 1, "M", lines, 1); got != 0 {
		t.Errorf("RemainingStock() = %d, want 0 when usage exceeds stock", got)
	}
}

func TestSizeOptions(t *testing.T) {
	catalog := testCatalog()
	svc := NewStockService()

	options := svc.SizeOptions(catalog, 1, []models.DraftLine{
		{CakeID: 1, Size: "M", Amount: 5},
	}, 1)

	if len(options) != 2 {
		t.Fatalf("expected 2 size options, got %d", len(options))
	}
	// Ordered by catalog ID, not insertion order.
	if options[0].Size != "M" || options[1].Size != "L" {
		t.Errorf("sizes out of order: %q, %q", options[0].Size, options[1].Size)
	}
	if !options[0].Disabled {
		t.Error("fully used size should be disabled")
	}
	if options[0].Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", options[0].Remaining)
	}
	if want := "M ￥3,200（完売）"; options[0].Label != want {
		t.Errorf("sold-out label = %q, want %q", options[0].Label, want)
	}
	if want := "L ￥4,800"; options[1].Label != want {
		t.Errorf("label = %q, want %q", options[1].Label, want)
	}
	if options[1].Disabled {
		t.Error("in-stock size should not be disabled")
	}
}

func TestSizeOptionsUnknownCake(t *testing.T) {
	svc := NewStockService()
	if got := svc.SizeOptions(testCatalog(), 99, nil, 0); len(got) != 0 {
		t.Errorf("expected no options for unknown cake, got %d", len(got))
	}
}

func TestQuantityOptions(t *testing.T) {
	catalog := testCatalog()
	svc := NewStockService()

	tests := []struct {
		name  string
		size  string
		lines []models.DraftLine
		want  int
	}{
		{"capped at ten", "L", nil, 10},
		{"bounded by remaining", "M", nil, 5},
		{"reduced by other lines", "M", []models.DraftLine{{CakeID: 1, Size: "M", Amount: 3}}, 2},
		{"empty when sold out", "M", []models.DraftLine{{CakeID: 1, Size: "M", Amount: 5}}, 0},
		{"empty without a size", "", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options := svc.QuantityOptions(catalog, 1, tt.size, tt.lines, len(tt.lines))
			if len(options) != tt.want {
				t.Errorf("got %d options, want %d", len(options), tt.want)
			}
			if tt.want > 0 {
				if options[0].Value != "1" {
					t.Errorf("first option = %q, want 1", options[0].Value)
				}
				if last := options[len(options)-1].Value; last != strconv.Itoa(tt.want) {
					t.Errorf("last option = %q, want %d", last, tt.want)
				}
			}
		})
	}
}

func TestCakeOptions(t *testing.T) {
	catalog := testCatalog()
	svc := NewStockService()

	options := svc.CakeOptions(catalog, []models.DraftLine{
		{CakeID: 1, Size: "M", Amount: 5},
		{CakeID: 1, Size: "L", Amount: 12},
	})

	if len(options) != 2 {
		t.Fatalf("expected 2 cake options, got %d", len(options))
	}
	if options[0].Value != "1" || options[1].Value != "2" {
		t.Errorf("cakes out of ID order: %q, %q", options[0].Value, options[1].Value)
	}
	if !options[0].Disabled {
		t.Error("cake with its full stock committed should be disabled")
	}
	if !options[1].Disabled {
		t.Error("cake with zero total stock should be disabled")
	}
}

func TestTimeOptions(t *testing.T) {
	svc := NewStockService()
	slots := []models.TimeSlot{
		{Date: "2025-12-24T00:00:00.000Z", Time: "10:00", LimitSlots: 3},
		{Date: "2025-12-24", Time: "14:00", LimitSlots: 0},
		{Date: "2025-12-25", Time: "10:00", LimitSlots: 5},
	}

	options := svc.TimeOptions(slots, "2025-12-24")
	want := []models.Option{
		{Value: "10:00", Label: "10:00"},
		{Value: "14:00", Label: "14:00 （定員に達した為、選択できません。）", Disabled: true},
	}
	if !reflect.DeepEqual(options, want) {
		t.Errorf("TimeOptions() = %+v, want %+v", options, want)
	}

	if got := svc.TimeOptions(slots, "2025-12-26"); len(got) != 0 {
		t.Errorf("expected no options for a date without slots, got %d", len(got))
	}
}
