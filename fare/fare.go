// Package fare computes ticket totals. It is pure: no I/O, no stored
// state, the same inputs always produce the same total.
package fare

import "railbook/models"

// ComputeTotal derives the total fare for a roster in the given class.
// The total is the sum of the per-passenger class price; an empty roster
// costs nothing. An unrecognized class returns models.ErrUnknownFareClass.
func ComputeTotal(roster []models.Passenger, class models.FareClass, table models.FareTable) (int, error) {
	price, err := table.PriceFor(class)
	if err != nil {
		return 0, err
	}

	total := 0
	for range roster {
		total += price
	}
	return total, nil
}
