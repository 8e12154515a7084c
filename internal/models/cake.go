package models

import (
	"sort"
	"strings"
)

// CakeSize is one purchasable variant of a cake. The ID defines display order,
// Price is in yen, Stock is the remaining count reported by the bakery API.
type CakeSize struct {
	ID    int    `json:"id"`
	Size  string `json:"size"`
	Price int    `json:"price"`
	Stock int    `json:"stock"`
}

type Cake struct {
	ID    int        `json:"id"`
	Name  string     `json:"name"`
	Image string     `json:"image"`
	Sizes []CakeSize `json:"sizes"`
}

// TotalStock sums the remaining stock across all sizes of the cake.
func (c Cake) TotalStock() int {
	total := 0
	for _, s := range c.Sizes {
		total += s.Stock
	}
	return total
}

// FindSize looks up a size by its label, ignoring surrounding whitespace.
func (c Cake) FindSize(size string) (CakeSize, bool) {
	want := strings.TrimSpace(size)
	for _, s := range c.Sizes {
		if strings.TrimSpace(s.Size) == want {
			return s, true
		}
	}
	return CakeSize{}, false
}

// SortedSizes returns the sizes ordered by their catalog ID ascending.
func (c Cake) SortedSizes() []CakeSize {
	sizes := make([]CakeSize, len(c.Sizes))
	copy(sizes, c.Sizes)
	sort.Slice(sizes, func(i, j int) bool { return sizes[i].ID < sizes[j].ID })
	return sizes
}

// Catalog is the read-only cake list fetched from the bakery API.
type Catalog []Cake

// Sorted returns the cakes ordered by ID ascending.
func (cat Catalog) Sorted() Catalog {
	cakes := make(Catalog, len(cat))
	copy(cakes, cat)
	sort.Slice(cakes, func(i, j int) bool { return cakes[i].ID < cakes[j].ID })
	return cakes
}

func (cat Catalog) ByID(id int) (Cake, bool) {
	for _, c := range cat {
		if c.ID == id {
			return c, true
		}
	}
	return Cake{}, false
}

// ByName matches a cake by display name, trimmed and case-insensitive.
func (cat Catalog) ByName(name string) (Cake, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, c := range cat {
		if strings.ToLower(strings.TrimSpace(c.Name)) == want {
			return c, true
		}
	}
	return Cake{}, false
}

// SizeStock returns the catalog stock for a (cake, size) pair. Unknown cakes or
// sizes count as zero stock.
func (cat Catalog) SizeStock(cakeID int, size string) int {
	cake, ok := cat.ByID(cakeID)
	if !ok {
		return 0
	}
	s, ok := cake.FindSize(size)
	if !ok {
		return 0
	}
	return s.Stock
}
