package pipeline

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestExtractAssets_NestedConditions(t *testing.T) {
	p := &Pipeline{
		Steps: map[uuid.UUID]*Step{
			uuid.New(): {
				Conditions: []Condition{
					{Kind: ConditionAnd, Sub: []Condition{
						{Kind: ConditionPriceAbove, Asset: "SOL"},
						{Kind: ConditionOr, Sub: []Condition{
							{Kind: ConditionPriceBelow, Asset: "BONK"},
						}},
					}},
				},
			},
		},
	}
	assets := ExtractAssets(p)
	assert.Contains(t, assets, "SOL")
	assert.Contains(t, assets, "BONK")
	assert.Len(t, assets, 2)
}

func TestEntrySteps_OnlyUnreferencedRoots(t *testing.T) {
	root := uuid.New()
	child := uuid.New()
	orphanChild := uuid.New()

	p := &Pipeline{
		Steps: map[uuid.UUID]*Step{
			root:        {ID: root, NextSteps: []uuid.UUID{child}},
			child:       {ID: child},
			orphanChild: {ID: orphanChild},
		},
	}
	entries := EntrySteps(p)
	assert.ElementsMatch(t, []uuid.UUID{root, orphanChild}, entries)
}
