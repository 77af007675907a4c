// Package split apportions a receipt's total across the people who funded
// its items. The gap between the receipt's authoritative total and the sum
// of item prices (taxes, service fees, bill-level discounts) is shared
// equally among all participants.
package split

import (
	"errors"
	"math"
)

// ErrEmptyParticipants is returned when a split is requested with no persons.
// This is a client input error, not a server fault, and callers report it as
// such.
var ErrEmptyParticipants = errors.New("no persons provided for split")

// Item is one receipt line with the amount each person put toward its price.
type Item struct {
	Name         string             `json:"item_name"`
	Price        float64            `json:"price"`
	Contributors map[string]float64 `json:"contributors"`
}

// PersonAmount is one participant's share of the bill.
type PersonAmount struct {
	Person string  `json:"person"`
	Amount float64 `json:"amount"`
}

// Result is the settlement for one receipt. Breakdown preserves participant
// order. ExtraAmount is receiptTotal minus the sum of item prices; it is
// negative when receipt-level discounts outweigh fees.
type Result struct {
	Breakdown      []PersonAmount `json:"breakdown"`
	ExtraAmount    float64        `json:"extra_amount"`
	ExtraPerPerson float64        `json:"extra_per_person"`
}

// Calculate computes how much each person owes. Each person pays the sum of
// their item contributions plus an equal share of the extra amount.
// Contributions from names outside persons are ignored; they are stale or
// speculative entries from the client, not errors. The sum of all returned
// amounts equals receiptTotal up to accumulated rounding error.
func Calculate(items []Item, persons []string, receiptTotal float64) (*Result, error) {
	if len(persons) == 0 {
		return nil, ErrEmptyParticipants
	}

	// Deduplicate while preserving order; persons is a set by contract but
	// the transport layer cannot enforce that.
	totals := make(map[string]float64, len(persons))
	order := make([]string, 0, len(persons))
	for _, person := range persons {
		if _, seen := totals[person]; seen {
			continue
		}
		totals[person] = 0
		order = append(order, person)
	}

	var itemsTotal float64
	for _, item := range items {
		itemsTotal += item.Price
	}
	extraAmount := receiptTotal - itemsTotal
	extraPerPerson := extraAmount / float64(len(order))

	for _, item := range items {
		for person, amount := range item.Contributors {
			if _, known := totals[person]; known {
				totals[person] += amount
			}
		}
	}

	breakdown := make([]PersonAmount, 0, len(order))
	for _, person := range order {
		breakdown = append(breakdown, PersonAmount{
			Person: person,
			Amount: round2(totals[person] + extraPerPerson),
		})
	}

	return &Result{
		Breakdown:      breakdown,
		ExtraAmount:    round2(extraAmount),
		ExtraPerPerson: round2(extraPerPerson),
	}, nil
}

// round2 rounds a currency value to two decimal places, half up (away from
// zero on ties).
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
