package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/listenlabs/swapindexer-engine/internal/chainmodel"
)

func TestEvaluateConditions_PriceAboveTrue(t *testing.T) {
	conditions := []Condition{{Kind: ConditionPriceAbove, Asset: "SOL", Value: 100}}
	ok, err := EvaluateConditions(conditions, map[string]float64{"SOL": 150})
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateConditions_PriceBelowFalse(t *testing.T) {
	conditions := []Condition{{Kind: ConditionPriceBelow, Asset: "SOL", Value: 100}}
	ok, err := EvaluateConditions(conditions, map[string]float64{"SOL": 150})
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestEvaluateConditions_MissingPriceErrors(t *testing.T) {
	conditions := []Condition{{Kind: ConditionPriceAbove, Asset: "UNKNOWN", Value: 1}}
	_, err := EvaluateConditions(conditions, map[string]float64{})
	assert.Error(t, err)
	assert.True(t, errorsIsNoPriceKind(err))
}

func TestEvaluateConditions_AndShortCircuits(t *testing.T) {
	conditions := []Condition{
		{Kind: ConditionAnd, Sub: []Condition{
			{Kind: ConditionPriceAbove, Asset: "SOL", Value: 1000},
			{Kind: ConditionPriceAbove, Asset: "MISSING", Value: 1},
		}},
	}
	ok, err := EvaluateConditions(conditions, map[string]float64{"SOL": 150})
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestEvaluateConditions_OrShortCircuits(t *testing.T) {
	conditions := []Condition{
		{Kind: ConditionOr, Sub: []Condition{
			{Kind: ConditionPriceAbove, Asset: "SOL", Value: 100},
			{Kind: ConditionPriceAbove, Asset: "MISSING", Value: 1},
		}},
	}
	ok, err := EvaluateConditions(conditions, map[string]float64{"SOL": 150})
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateConditions_PercentageChange(t *testing.T) {
	up := []Condition{{Kind: ConditionPercentageChange, Asset: "SOL", FromPrice: 100, Percentage: 10}}
	ok, err := EvaluateConditions(up, map[string]float64{"SOL": 111})
	assert.NoError(t, err)
	assert.True(t, ok)

	down := []Condition{{Kind: ConditionPercentageChange, Asset: "SOL", FromPrice: 100, Percentage: -10}}
	ok, err = EvaluateConditions(down, map[string]float64{"SOL": 89})
	assert.NoError(t, err)
	assert.True(t, ok)
}

func errorsIsNoPriceKind(err error) bool {
	ke, ok := err.(*chainmodel.KindError)
	return ok && ke.Kind == chainmodel.ErrKindNoPriceForAsset
}
