package models

// OrderLine is one cake entry inside a submitted order. Name, size, price and
// stock are snapshots frozen at submission time and are never re-derived from
// the live catalog.
type OrderLine struct {
	CakeID      int    `json:"cake_id"`
	Name        string `json:"name"`
	Amount      int    `json:"amount"`
	Price       int    `json:"price"`
	Size        string `json:"size"`
	Stock       int    `json:"stock,omitempty"`
	MessageCake string `json:"message_cake"`
}

// Order is a reservation as stored by the bakery API. This service only reads
// them for the dashboard and creates new ones via POST /api/reservar.
type Order struct {
	IDClient   string      `json:"id_client"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Email      string      `json:"email"`
	Tel        string      `json:"tel"`
	Date       string      `json:"date"`
	DateOrder  string      `json:"date_order"`
	PickupHour string      `json:"pickupHour"`
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	Cakes      []OrderLine `json:"cakes"`
}

// Order status codes used by the bakery API.
const (
	StatusReserved  = "c"
	StatusPaid      = "p"
	StatusCancelled = "e"
)

type StatusOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// StatusOptions drives the dashboard's payment-status table. Cancelled orders
// are excluded from stock and revenue summaries but still counted per status.
var StatusOptions = []StatusOption{
	{Value: StatusReserved, Label: "予約済み"},
	{Value: StatusPaid, Label: "支払い済み"},
	{Value: StatusCancelled, Label: "キャンセル"},
}
