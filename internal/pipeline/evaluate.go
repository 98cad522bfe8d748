package pipeline

import (
	"fmt"

	"github.com/listenlabs/swapindexer-engine/internal/chainmodel"
)

// EvaluateConditions is a pure, synchronous function: given a list of
// conditions (implicit AND across the list) and a price snapshot, it
// recursively evaluates and returns true/false, or an error if a
// referenced asset has no cached price or a condition is malformed
// (unknown kind, zero from_price).
func EvaluateConditions(conditions []Condition, prices map[string]float64) (bool, error) {
	for _, c := range conditions {
		ok, err := evaluateOne(c, prices)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evaluateOne(c Condition, prices map[string]float64) (bool, error) {
	switch c.Kind {
	case ConditionPriceAbove:
		price, ok := prices[c.Asset]
		if !ok {
			return false, noPriceErr(c.Asset)
		}
		return price > c.Value, nil

	case ConditionPriceBelow:
		price, ok := prices[c.Asset]
		if !ok {
			return false, noPriceErr(c.Asset)
		}
		return price < c.Value, nil

	case ConditionPercentageChange:
		price, ok := prices[c.Asset]
		if !ok {
			return false, noPriceErr(c.Asset)
		}
		if c.FromPrice == 0 {
			return false, fmt.Errorf("percentage_change condition for asset %q has zero from_price", c.Asset)
		}
		change := (price - c.FromPrice) / c.FromPrice * 100
		if c.Percentage >= 0 {
			return change >= c.Percentage, nil
		}
		return change <= c.Percentage, nil

	case ConditionAnd:
		for _, sub := range c.Sub {
			ok, err := evaluateOne(sub, prices)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil

	case ConditionOr:
		for _, sub := range c.Sub {
			ok, err := evaluateOne(sub, prices)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	default:
		return false, fmt.Errorf("unknown condition kind %q", c.Kind)
	}
}

func noPriceErr(asset string) error {
	return chainmodel.NewKindError(chainmodel.ErrKindNoPriceForAsset, fmt.Sprintf("no cached price for asset %q", asset), nil)
}
