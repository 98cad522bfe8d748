package engine

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/listenlabs/swapindexer-engine/internal/pipeline"
)

type fakeStore struct {
	saved []*pipeline.Pipeline
}

func (f *fakeStore) Save(ctx context.Context, p *pipeline.Pipeline) error {
	f.saved = append(f.saved, p)
	return nil
}
func (f *fakeStore) Delete(ctx context.Context, userID string, id uuid.UUID) error { return nil }
func (f *fakeStore) GetAll(ctx context.Context) ([]*pipeline.Pipeline, error)       { return nil, nil }

type fakeExecutor struct {
	hash string
	err  error
}

func (f *fakeExecutor) ExecuteOrder(ctx context.Context, order pipeline.SwapOrder, userID string, wallet, pubkey *string) (string, error) {
	return f.hash, f.err
}

func newTestEngine() (*Engine, *fakeStore) {
	fs := &fakeStore{}
	e := New(fs, &fakeExecutor{hash: "tx123"}, nil)
	return e, fs
}

func TestEvaluatePipeline_NotificationCompletesImmediately(t *testing.T) {
	e, fs := newTestEngine()
	stepID := uuid.New()
	p := &pipeline.Pipeline{
		ID:     uuid.New(),
		UserID: "u1",
		Status: pipeline.StatusPending,
		Steps: map[uuid.UUID]*pipeline.Step{
			stepID: {ID: stepID, Status: pipeline.StatusPending, Action: pipeline.Action{Kind: pipeline.ActionNotification}},
		},
	}

	mutated, err := e.evaluatePipeline(context.Background(), p)
	assert.NoError(t, err)
	assert.True(t, mutated)
	assert.Equal(t, pipeline.StatusCompleted, p.Status)
	assert.Equal(t, pipeline.StatusCompleted, p.Steps[stepID].Status)
	assert.Len(t, fs.saved, 1)
}

func TestEvaluatePipeline_BlocksOnUnmetCondition(t *testing.T) {
	e, _ := newTestEngine()
	stepID := uuid.New()
	p := &pipeline.Pipeline{
		ID:     uuid.New(),
		UserID: "u1",
		Status: pipeline.StatusPending,
		Steps: map[uuid.UUID]*pipeline.Step{
			stepID: {
				ID:         stepID,
				Status:     pipeline.StatusPending,
				Conditions: []pipeline.Condition{{Kind: pipeline.ConditionPriceAbove, Asset: "SOL", Value: 1000}},
				Action:     pipeline.Action{Kind: pipeline.ActionNotification},
			},
		},
	}
	e.priceCache["SOL"] = 150

	_, err := e.evaluatePipeline(context.Background(), p)
	assert.NoError(t, err)
	assert.Equal(t, pipeline.StatusPending, p.Status)
	assert.Equal(t, pipeline.StatusPending, p.Steps[stepID].Status)
}

func TestEvaluatePipeline_OrderActionExecutesAndCompletes(t *testing.T) {
	e, _ := newTestEngine()
	wallet := "wallet1"
	stepID := uuid.New()
	p := &pipeline.Pipeline{
		ID:            uuid.New(),
		UserID:        "u1",
		WalletAddress: &wallet,
		Status:        pipeline.StatusPending,
		Steps: map[uuid.UUID]*pipeline.Step{
			stepID: {
				ID:     stepID,
				Status: pipeline.StatusPending,
				Action: pipeline.Action{Kind: pipeline.ActionOrder, Order: &pipeline.SwapOrder{
					InputToken: "A", OutputToken: "B", Amount: "1", FromChainCAIP2: "eip155:1", ToChainCAIP2: "eip155:1",
				}},
			},
		},
	}

	_, err := e.evaluatePipeline(context.Background(), p)
	assert.NoError(t, err)
	assert.Equal(t, pipeline.StatusCompleted, p.Status)
	assert.Equal(t, "tx123", *p.Steps[stepID].TransactionHash)
}

func TestEvaluatePipeline_FailedStepCancelsDescendants(t *testing.T) {
	e, _ := newTestEngine()
	e.executor = &fakeExecutor{err: assertErr{}}

	wallet := "wallet1"
	failStep := uuid.New()
	childStep := uuid.New()
	p := &pipeline.Pipeline{
		ID:            uuid.New(),
		UserID:        "u1",
		WalletAddress: &wallet,
		Status:        pipeline.StatusPending,
		Steps: map[uuid.UUID]*pipeline.Step{
			failStep: {
				ID:        failStep,
				Status:    pipeline.StatusPending,
				NextSteps: []uuid.UUID{childStep},
				Action: pipeline.Action{Kind: pipeline.ActionOrder, Order: &pipeline.SwapOrder{
					FromChainCAIP2: "eip155:1", ToChainCAIP2: "eip155:1",
				}},
			},
			childStep: {ID: childStep, Status: pipeline.StatusPending, Action: pipeline.Action{Kind: pipeline.ActionNotification}},
		},
	}

	_, err := e.evaluatePipeline(context.Background(), p)
	assert.NoError(t, err)
	assert.Equal(t, pipeline.StatusFailed, p.Status)
	assert.Equal(t, pipeline.StatusFailed, p.Steps[failStep].Status)
	assert.Equal(t, pipeline.StatusCancelled, p.Steps[childStep].Status)
}

func TestEvaluatePipeline_IdempotentOnCompletedPipeline(t *testing.T) {
	e, fs := newTestEngine()
	stepID := uuid.New()
	p := &pipeline.Pipeline{
		ID:     uuid.New(),
		UserID: "u1",
		Status: pipeline.StatusCompleted,
		Steps: map[uuid.UUID]*pipeline.Step{
			stepID: {ID: stepID, Status: pipeline.StatusCompleted, Action: pipeline.Action{Kind: pipeline.ActionNotification}},
		},
	}

	mutated, err := e.evaluatePipeline(context.Background(), p)
	assert.NoError(t, err)
	assert.False(t, mutated)
	assert.Empty(t, p.CurrentSteps)
	assert.Equal(t, pipeline.StatusCompleted, p.Status)
	assert.Empty(t, fs.saved)
}

func TestEvaluatePipeline_IdempotentOnFailedPipeline(t *testing.T) {
	e, fs := newTestEngine()
	failStep := uuid.New()
	childStep := uuid.New()
	p := &pipeline.Pipeline{
		ID:     uuid.New(),
		UserID: "u1",
		Status: pipeline.StatusFailed,
		Steps: map[uuid.UUID]*pipeline.Step{
			failStep:  {ID: failStep, Status: pipeline.StatusFailed, NextSteps: []uuid.UUID{childStep}},
			childStep: {ID: childStep, Status: pipeline.StatusCancelled},
		},
	}

	mutated, err := e.evaluatePipeline(context.Background(), p)
	assert.NoError(t, err)
	assert.False(t, mutated)
	assert.Empty(t, p.CurrentSteps)
	assert.Equal(t, pipeline.StatusFailed, p.Status)
	assert.Empty(t, fs.saved)
}

func TestDeletePipeline_PrunesAssetSubscriptions(t *testing.T) {
	e, _ := newTestEngine()
	stepID := uuid.New()
	pID := uuid.New()
	p := &pipeline.Pipeline{
		ID:     pID,
		UserID: "u1",
		Status: pipeline.StatusPending,
		Steps: map[uuid.UUID]*pipeline.Step{
			stepID: {
				ID:         stepID,
				Status:     pipeline.StatusPending,
				Conditions: []pipeline.Condition{{Kind: pipeline.ConditionPriceAbove, Asset: "SOL", Value: 1000}},
				Action:     pipeline.Action{Kind: pipeline.ActionNotification},
			},
		},
	}

	assert.NoError(t, e.AddPipeline(context.Background(), p))
	assert.Contains(t, e.assetSubscriptions["SOL"], pID)

	assert.NoError(t, e.DeletePipeline(context.Background(), "u1", pID))
	assert.NotContains(t, e.assetSubscriptions["SOL"], pID)
	_, stillTracked := e.assetSubscriptions["SOL"]
	assert.False(t, stillTracked)
}

type assertErr struct{}

func (assertErr) Error() string { return "execution failed" }
