package split

import "math"

// contributionTolerance absorbs the rounding error of splitting a price
// across several people, 0.01 currency units.
const contributionTolerance = 0.01

// ValidateContributions reports whether an item's declared contributions add
// up to its price within tolerance. It is advisory: Calculate does not call
// it, callers surface violations as warnings.
func ValidateContributions(item Item) bool {
	var total float64
	for _, amount := range item.Contributors {
		total += amount
	}
	return math.Abs(total-item.Price) <= contributionTolerance
}
