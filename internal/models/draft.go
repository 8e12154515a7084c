package models

import "time"

// DraftLine is one editable cake selection in an order being composed.
type DraftLine struct {
	CakeID      int    `json:"cake_id"`
	Name        string `json:"name"`
	Amount      int    `json:"amount"`
	Size        string `json:"size"`
	Price       int    `json:"price"`
	MessageCake string `json:"message_cake"`
}

// DraftOrder is the in-progress reservation owned by one storefront session.
// Contact details and the order message are supplied at submission and never
// stored in the draft.
type DraftOrder struct {
	Lines      []DraftLine `json:"lines"`
	Date       string      `json:"date"`
	PickupHour string      `json:"pickup_hour"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
