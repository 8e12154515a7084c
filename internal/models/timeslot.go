package models

import "strings"

// TimeSlot is pickup capacity for one date and time as reported by the bakery
// API. LimitSlots is the remaining number of reservations for the slot.
type TimeSlot struct {
	Date       string `json:"date"`
	Time       string `json:"time"`
	LimitSlots int    `json:"limit_slots"`
}

// DateOnly strips a time component from the slot date. The API may return
// either "2025-12-25" or "2025-12-25T00:00:00.000Z".
func (t TimeSlot) DateOnly() string {
	if i := strings.Index(t.Date, "T"); i >= 0 {
		return t.Date[:i]
	}
	return t.Date
}
