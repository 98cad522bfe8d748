package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/listenlabs/swapindexer-engine/internal/chainmodel"
	"github.com/listenlabs/swapindexer-engine/internal/pipeline"
)

// evaluatePipeline ports listen-engine's evaluate_pipeline step by
// step: if current_steps is empty, seed it with the DAG's entry steps
// plus any steps that become reachable from an already-completed
// parent; then drain the queue head-first, branching on each step's
// status, until the queue empties or a step blocks on an unmet
// condition. Returns whether the pipeline's persisted state changed.
func (e *Engine) evaluatePipeline(ctx context.Context, p *pipeline.Pipeline) (bool, error) {
	start := time.Now()
	if e.metrics != nil {
		e.metrics.PipelineEvaluations.Inc()
		defer func() {
			e.metrics.PipelineEvaluationDuration.Observe(time.Since(start).Seconds())
		}()
	}

	mutated := false

	if len(p.CurrentSteps) == 0 {
		p.CurrentSteps = discoverRunnableSteps(p)
		if len(p.CurrentSteps) > 0 {
			mutated = true
		}
	}

	prices := e.snapshotPrices()

runLoop:
	for len(p.CurrentSteps) > 0 {
		id := p.CurrentSteps[0]
		step, ok := p.Steps[id]
		if !ok {
			p.CurrentSteps = p.CurrentSteps[1:]
			continue
		}

		switch step.Status {
		case pipeline.StatusCompleted:
			p.CurrentSteps = p.CurrentSteps[1:]
			p.CurrentSteps = append(p.CurrentSteps, step.NextSteps...)
			mutated = true

		case pipeline.StatusPending:
			satisfied, err := pipeline.EvaluateConditions(step.Conditions, prices)
			if err != nil {
				if err := e.store.Save(ctx, p); err != nil {
					return mutated, chainmodel.NewKindError(chainmodel.ErrKindSavePipeline, "failed to persist pipeline after evaluation error", err)
				}
				return mutated, err
			}
			if !satisfied {
				// Blocked on this step; stop processing until the next
				// price update re-triggers evaluation.
				break runLoop
			}

			switch step.Action.Kind {
			case pipeline.ActionOrder:
				hash, err := e.executor.ExecuteOrder(ctx, *step.Action.Order, p.UserID, p.WalletAddress, p.Pubkey)
				if err != nil {
					msg := err.Error()
					step.Error = &msg
					step.Status = pipeline.StatusFailed
				} else {
					step.TransactionHash = &hash
					step.Status = pipeline.StatusCompleted
				}
			case pipeline.ActionNotification:
				step.Status = pipeline.StatusCompleted
			default:
				step.Status = pipeline.StatusCompleted
			}
			mutated = true

		case pipeline.StatusFailed:
			p.Status = pipeline.StatusFailed
			cancelDescendants(p, step.NextSteps)
			p.CurrentSteps = nil
			mutated = true
			break runLoop

		case pipeline.StatusCancelled:
			p.Status = pipeline.StatusCancelled
			p.CurrentSteps = nil
			mutated = true
			break runLoop
		}
	}

	if anyStepInStatus(p, pipeline.StatusFailed) || anyStepInStatus(p, pipeline.StatusCancelled) {
		if p.Status != pipeline.StatusFailed && p.Status != pipeline.StatusCancelled {
			p.Status = pipeline.StatusFailed
			mutated = true
		}
	} else if allStepsCompleted(p) {
		if p.Status != pipeline.StatusCompleted {
			p.Status = pipeline.StatusCompleted
			mutated = true
		}
	}

	if mutated {
		if err := e.store.Save(ctx, p); err != nil {
			return mutated, chainmodel.NewKindError(chainmodel.ErrKindSavePipeline, "failed to persist pipeline", err)
		}
	}
	return mutated, nil
}

// discoverRunnableSteps returns the DAG's Pending entry steps (never
// referenced by any next_steps) plus the Pending next_steps of any step
// already completed — the continuation set a freshly-loaded pipeline
// resumes from. Only Pending steps are ever queued, so re-evaluating a
// terminal (Completed/Failed/Cancelled) pipeline is a no-op.
func discoverRunnableSteps(p *pipeline.Pipeline) []uuid.UUID {
	var runnable []uuid.UUID
	seen := make(map[uuid.UUID]struct{})
	for _, id := range pipeline.EntrySteps(p) {
		step, ok := p.Steps[id]
		if !ok || step.Status != pipeline.StatusPending {
			continue
		}
		seen[id] = struct{}{}
		runnable = append(runnable, id)
	}

	for _, step := range p.Steps {
		if step.Status != pipeline.StatusCompleted {
			continue
		}
		for _, next := range step.NextSteps {
			if _, ok := seen[next]; ok {
				continue
			}
			nextStep, ok := p.Steps[next]
			if !ok || nextStep.Status != pipeline.StatusPending {
				continue
			}
			seen[next] = struct{}{}
			runnable = append(runnable, next)
		}
	}
	return runnable
}

// cancelDescendants walks every reachable descendant of a failed step
// and marks it Cancelled, via an explicit stack (the DAG may be deep
// enough that recursion would be uncomfortable).
func cancelDescendants(p *pipeline.Pipeline, roots []uuid.UUID) {
	toCancel := make([]uuid.UUID, len(roots))
	copy(toCancel, roots)
	for len(toCancel) > 0 {
		id := toCancel[len(toCancel)-1]
		toCancel = toCancel[:len(toCancel)-1]
		step, ok := p.Steps[id]
		if !ok || step.Status == pipeline.StatusCancelled {
			continue
		}
		step.Status = pipeline.StatusCancelled
		toCancel = append(toCancel, step.NextSteps...)
	}
}

func anyStepInStatus(p *pipeline.Pipeline, status pipeline.Status) bool {
	for _, step := range p.Steps {
		if step.Status == status {
			return true
		}
	}
	return false
}

func allStepsCompleted(p *pipeline.Pipeline) bool {
	for _, step := range p.Steps {
		if step.Status != pipeline.StatusCompleted {
			return false
		}
	}
	return true
}
