package pipeline

import "github.com/google/uuid"

// ExtractAssets returns the set of unique assets mentioned anywhere in
// the pipeline's step conditions, used to rebuild the engine's
// asset-subscription reverse index on AddPipeline.
func ExtractAssets(p *Pipeline) map[string]struct{} {
	assets := make(map[string]struct{})
	for _, step := range p.Steps {
		collectAssets(step.Conditions, assets)
	}
	return assets
}

func collectAssets(conditions []Condition, assets map[string]struct{}) {
	stack := make([]Condition, len(conditions))
	copy(stack, conditions)
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch c.Kind {
		case ConditionPriceAbove, ConditionPriceBelow, ConditionPercentageChange:
			if c.Asset != "" {
				assets[c.Asset] = struct{}{}
			}
		case ConditionAnd, ConditionOr:
			stack = append(stack, c.Sub...)
		}
	}
}

// EntrySteps returns the IDs of steps never referenced by any other
// step's NextSteps — the DAG's roots.
func EntrySteps(p *Pipeline) []uuid.UUID {
	referenced := make(map[uuid.UUID]struct{})
	for _, step := range p.Steps {
		for _, next := range step.NextSteps {
			referenced[next] = struct{}{}
		}
	}
	var entries []uuid.UUID
	for id := range p.Steps {
		if _, ok := referenced[id]; !ok {
			entries = append(entries, id)
		}
	}
	return entries
}
