package models

// Option is a selectable choice in the order form. Sold-out choices stay
// visible but disabled, with the state reflected in the label.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled,omitempty"`
}

// SizeOption is a size choice enriched with its remaining stock after the
// current draft's other lines are accounted for.
type SizeOption struct {
	ID        int    `json:"id"`
	Size      string `json:"size"`
	Price     int    `json:"price"`
	Stock     int    `json:"stock"`
	Remaining int    `json:"remaining"`
	Label     string `json:"label"`
	Disabled  bool   `json:"disabled,omitempty"`
}
