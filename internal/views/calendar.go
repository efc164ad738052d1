package views

import (
	"sort"

	"tailorbook/pkg/domain"
)

// DueOrder is an order joined with its owning client.
type DueOrder struct {
	Order      domain.Order `json:"order"`
	ClientID   string       `json:"clientId"`
	ClientName string       `json:"clientName"`
}

// Calendar indexes orders by delivery date.
type Calendar struct {
	byDate map[string][]DueOrder
}

// BuildCalendar walks clients and their orders in order. Orders without a
// delivery date are skipped instead of being grouped under an empty date, so
// neither Markers nor Dates ever reports a blank key.
func BuildCalendar(clients []domain.Client) Calendar {
	cal := Calendar{byDate: make(map[string][]DueOrder)}
	for _, c := range clients {
		for _, o := range c.Orders {
			if o.DateDelivery == "" {
				continue
			}
			cal.byDate[o.DateDelivery] = append(cal.byDate[o.DateDelivery], DueOrder{
				Order:      o,
				ClientID:   c.ID,
				ClientName: c.FullName,
			})
		}
	}
	return cal
}

// Markers maps each date to its marker count, one per order due.
func (c Calendar) Markers() map[string]int {
	out := make(map[string]int, len(c.byDate))
	for date, entries := range c.byDate {
		out[date] = len(entries)
	}
	return out
}

// DueOn returns the entries due on date, or an empty slice.
func (c Calendar) DueOn(date string) []DueOrder {
	entries := c.byDate[date]
	out := make([]DueOrder, len(entries))
	copy(out, entries)
	return out
}

// Dates lists the dates with at least one order, ascending.
func (c Calendar) Dates() []string {
	out := make([]string, 0, len(c.byDate))
	for date := range c.byDate {
		out = append(out, date)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of indexed orders.
func (c Calendar) Len() int {
	n := 0
	for _, entries := range c.byDate {
		n += len(entries)
	}
	return n
}
