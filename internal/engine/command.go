// Package engine implements the engine core (component J) and the
// control channel (component N): the sole way external code mutates
// engine state is by sending a Command and waiting on its Reply.
//
// Grounded on listen-engine/src/engine/mod.rs's EngineMessage enum
// (read via original_source), expressed here as a small tagged-union
// interface with an embedded reply channel instead of Rust's
// oneshot::Sender, and on the teacher's websocket.Hub for the
// "background loop drains a channel" shape.
package engine

import (
	"github.com/google/uuid"

	"github.com/listenlabs/swapindexer-engine/internal/pipeline"
)

// Command is implemented by every engine mutation request.
type Command interface {
	isCommand()
}

type Result struct {
	Pipeline *pipeline.Pipeline
	Err      error
}

type AddPipeline struct {
	Pipeline *pipeline.Pipeline
	Reply    chan Result
}

func (AddPipeline) isCommand() {}

type DeletePipeline struct {
	UserID     string
	PipelineID uuid.UUID
	Reply      chan Result
}

func (DeletePipeline) isCommand() {}

type GetPipeline struct {
	UserID     string
	PipelineID uuid.UUID
	Reply      chan Result
}

func (GetPipeline) isCommand() {}
