package assistant

import (
	"context"

	"github.com/rmcastle/fieldops/pkg/logger"
)

// CommandResult is what an executor reports back for one command
type CommandResult struct {
	Success bool
	Message string
	Data    map[string]interface{}

	// NeedsInput asks the conversation layer to park the command and put a
	// question to the user before anything is written
	NeedsInput    bool
	Prompt        string
	Options       []string
	PendingAction PendingAction
	Context       CommandContext

	// ResumeAction re-runs another command once the question is resolved
	ResumeAction string
	ResumeParams map[string]interface{}
}

// CommandExecutor runs one interpreted command against the data layer
type CommandExecutor interface {
	Execute(ctx context.Context, userID string, action string, params map[string]interface{}) (*CommandResult, error)
}

// Dispatcher routes interpreted commands to the executor and converts
// NeedsInput results into pending command state
type Dispatcher struct {
	executor CommandExecutor
	logger   logger.Logger
}

// NewDispatcher creates a dispatcher over the given executor
func NewDispatcher(executor CommandExecutor, log logger.Logger) *Dispatcher {
	return &Dispatcher{executor: executor, logger: log}
}

// Dispatch executes the command. When the executor needs more input the
// outcome carries a new pending command instead of a completed result.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, action string, params map[string]interface{}) (*Outcome, error) {
	d.logger.Info("dispatching %s for user %s", action, userID)

	result, err := d.executor.Execute(ctx, userID, action, params)
	if err != nil {
		return nil, err
	}

	if result.NeedsInput {
		pending := &PendingCommand{
			Action:        action,
			Parameters:    copyParams(params),
			Prompt:        result.Prompt,
			PendingAction: result.PendingAction,
			Context:       result.Context,
			Options:       result.Options,
			ResumeAction:  result.ResumeAction,
			ResumeParams:  copyParams(result.ResumeParams),
		}
		return &Outcome{Message: result.Prompt, Options: result.Options, Pending: pending}, nil
	}

	return &Outcome{Message: result.Message, Done: result.Success, Data: result.Data}, nil
}

// DispatchWithResume executes the command and, when it succeeds and a
// deferred action was recorded, immediately executes that action too. The
// resumed result is surfaced as a second, labeled outcome appended to the
// first.
func (d *Dispatcher) DispatchWithResume(ctx context.Context, userID string, action string, params map[string]interface{}, resumeAction string, resumeParams map[string]interface{}) (*Outcome, error) {
	out, err := d.Dispatch(ctx, userID, action, params)
	if err != nil {
		return nil, err
	}

	if resumeAction == "" {
		return out, nil
	}

	if out.Pending != nil {
		// the command itself parked on a question; keep the deferred
		// action attached so it still runs once the question resolves
		if out.Pending.ResumeAction == "" {
			out.Pending.ResumeAction = resumeAction
			out.Pending.ResumeParams = copyParams(resumeParams)
		}
		return out, nil
	}

	if !out.Done {
		return out, nil
	}

	d.logger.Info("resuming deferred %s for user %s", resumeAction, userID)
	resumed, err := d.Dispatch(ctx, userID, resumeAction, resumeParams)
	if err != nil {
		return nil, err
	}

	resumed.Message = out.Message + "\n\nPicking up where we left off: " + resumed.Message
	return resumed, nil
}
