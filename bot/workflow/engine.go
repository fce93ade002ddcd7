package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// WorkflowEngine is the default implementation of the Engine interface.
type WorkflowEngine struct {
	workflows map[WorkflowID]Workflow
	storage   StateStorage
	log       *slog.Logger
}

// NewWorkflowEngine creates a new workflow engine.
func NewWorkflowEngine(storage StateStorage, log *slog.Logger) *WorkflowEngine {
	return &WorkflowEngine{
		workflows: make(map[WorkflowID]Workflow),
		storage:   storage,
		log:       log,
	}
}

// RegisterWorkflow adds a workflow to the engine.
func (e *WorkflowEngine) RegisterWorkflow(w Workflow) {
	e.workflows[w.ID()] = w
	e.log.Info("registered workflow", slog.String("workflow_id", string(w.ID())))
}

// StartWorkflow begins a new workflow for a user.
func (e *WorkflowEngine) StartWorkflow(ctx context.Context, b *tgbotapi.Bot, userID, chatID int64, workflowID WorkflowID, deepLink *DeepLinkData) error {
	w, ok := e.workflows[workflowID]
	if !ok {
		return fmt.Errorf("workflow not found: %s", workflowID)
	}

	state := NewUserState(userID, chatID, workflowID, w.InitialStep())
	state.SetDeepLink(deepLink)

	if err := e.storage.Save(ctx, state); err != nil {
		return fmt.Errorf("saving initial state: %w", err)
	}

	step, ok := w.GetStep(w.InitialStep())
	if !ok {
		return fmt.Errorf("initial step not found: %s", w.InitialStep())
	}

	e.log.Info("starting workflow",
		slog.Int64("user_id", userID),
		slog.String("workflow_id", string(workflowID)),
		slog.String("step_id", string(w.InitialStep())),
	)

	result := step.Enter(ctx, b, state)
	return e.processResult(ctx, b, state, w, result)
}

// HandleMessage routes a message to the current workflow step.
func (e *WorkflowEngine) HandleMessage(ctx context.Context, b *tgbotapi.Bot, c *ext.Context) error {
	return e.dispatch(ctx, b, c, func(step Step, state *UserState) StepResult {
		return step.HandleMessage(ctx, b, c, state)
	})
}

// HandleCallback routes a callback to the current workflow step.
func (e *WorkflowEngine) HandleCallback(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, data string) error {
	return e.dispatch(ctx, b, c, func(step Step, state *UserState) StepResult {
		return step.HandleCallback(ctx, b, c, state, data)
	})
}

// HandleContact routes a contact to the current workflow step.
func (e *WorkflowEngine) HandleContact(ctx context.Context, b *tgbotapi.Bot, c *ext.Context) error {
	return e.dispatch(ctx, b, c, func(step Step, state *UserState) StepResult {
		return step.HandleContact(ctx, b, c, state)
	})
}

// HandleLocation routes a location to the current workflow step.
func (e *WorkflowEngine) HandleLocation(ctx context.Context, b *tgbotapi.Bot, c *ext.Context) error {
	return e.dispatch(ctx, b, c, func(step Step, state *UserState) StepResult {
		return step.HandleLocation(ctx, b, c, state)
	})
}

// HandlePhoto routes a photo to the current workflow step.
func (e *WorkflowEngine) HandlePhoto(ctx context.Context, b *tgbotapi.Bot, c *ext.Context) error {
	return e.dispatch(ctx, b, c, func(step Step, state *UserState) StepResult {
		return step.HandlePhoto(ctx, b, c, state)
	})
}

// dispatch loads the user's state, resolves the current step and runs the
// event handler against it.
func (e *WorkflowEngine) dispatch(ctx context.Context, b *tgbotapi.Bot, c *ext.Context, handle func(Step, *UserState) StepResult) error {
	userID := c.EffectiveUser.Id

	state, err := e.storage.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	if state == nil {
		return nil // No active workflow
	}

	w, ok := e.workflows[state.WorkflowID]
	if !ok {
		return fmt.Errorf("workflow not found: %s", state.WorkflowID)
	}

	step, ok := w.GetStep(state.CurrentStep)
	if !ok {
		return fmt.Errorf("step not found: %s", state.CurrentStep)
	}

	result := handle(step, state)
	return e.processResult(ctx, b, state, w, result)
}

// GetState retrieves the current state for a user.
func (e *WorkflowEngine) GetState(ctx context.Context, userID int64) (*UserState, error) {
	return e.storage.Load(ctx, userID)
}

// HasActiveWorkflow checks if a user has an active workflow.
func (e *WorkflowEngine) HasActiveWorkflow(ctx context.Context, userID int64) (bool, error) {
	return e.storage.Exists(ctx, userID)
}

// ClearState removes the workflow state for a user.
func (e *WorkflowEngine) ClearState(ctx context.Context, userID int64) error {
	return e.storage.Delete(ctx, userID)
}

// processResult handles the result of a step handler. Steps may
// auto-transition from Enter, so transitions loop until a step waits for
// input or the workflow completes.
func (e *WorkflowEngine) processResult(ctx context.Context, b *tgbotapi.Bot, state *UserState, w Workflow, result StepResult) error {
	for {
		if result.Error != nil {
			e.log.Error("step error",
				slog.Int64("user_id", state.UserID),
				slog.String("step_id", string(state.CurrentStep)),
				slog.String("error", result.Error.Error()),
			)
			// A failed terminal step still ends the conversation.
			if result.Complete {
				if err := e.storage.Delete(ctx, state.UserID); err != nil {
					e.log.Error("clearing state after failed completion",
						slog.Int64("user_id", state.UserID),
						slog.String("error", err.Error()),
					)
				}
			}
			return result.Error
		}

		if result.UpdateState != nil {
			state.MergeData(result.UpdateState)
		}
		state.UpdatedAt = time.Now()

		if result.Complete {
			e.log.Info("workflow completed",
				slog.Int64("user_id", state.UserID),
				slog.String("workflow_id", string(state.WorkflowID)),
			)
			return e.storage.Delete(ctx, state.UserID)
		}

		if result.NextStep == "" || result.NextStep == state.CurrentStep {
			return e.storage.Save(ctx, state)
		}

		state.CurrentStep = result.NextStep

		if err := e.storage.Save(ctx, state); err != nil {
			return fmt.Errorf("saving state after transition: %w", err)
		}

		step, ok := w.GetStep(result.NextStep)
		if !ok {
			return fmt.Errorf("next step not found: %s", result.NextStep)
		}

		e.log.Debug("transitioning to step",
			slog.Int64("user_id", state.UserID),
			slog.String("step_id", string(result.NextStep)),
		)

		result = step.Enter(ctx, b, state)
	}
}
