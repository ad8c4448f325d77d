package assistant

import (
	"context"
	"fmt"
)

// PushSubFlow suspends the outer flow at its current step and starts the
// nested flow. The supplier name the user already gave is carried into the
// nested flow so its name step is skipped.
func (e *Engine) PushSubFlow(ctx context.Context, pending *PendingCommand, name PendingAction) (*FlowResult, error) {
	flow, ok := e.flows.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown sub-flow: %s", name)
	}

	pending.InSubFlow = true
	pending.SubFlowType = name
	pending.ParentStep = pending.CurrentStep
	pending.SubFlowData = make(map[string]interface{})

	if supplier := stringParam(pending.CollectedData, "supplier"); supplier != "" {
		pending.SubFlowData["name"] = supplier
	}

	step, index := firstUnfilled(flow, 1, pending.SubFlowData)
	if step == nil {
		return e.popSubFlow(ctx, pending)
	}

	pending.CurrentStep = index
	pending.TotalSteps = len(flow.Steps)
	pending.PendingAction = name
	pending.Options = stepOptions(step)
	pending.Prompt = step.Prompt(flow.Hint(pending))
	return &FlowResult{Pending: pending, Message: pending.Prompt, Options: pending.Options}, nil
}

// popSubFlow finishes the nested flow, persists what it collected, and
// resumes the outer flow just past the step that triggered it
func (e *Engine) popSubFlow(ctx context.Context, pending *PendingCommand) (*FlowResult, error) {
	name := stringParam(pending.SubFlowData, "name")
	if e.catalog != nil {
		if err := e.catalog.CreateSupplier(ctx, pending.SubFlowData); err != nil {
			return nil, fmt.Errorf("error saving supplier %q: %w", name, err)
		}
	}

	outer, ok := e.flows.Lookup(pending.Flow)
	if !ok {
		return nil, fmt.Errorf("unknown flow: %s", pending.Flow)
	}

	pending.InSubFlow = false
	pending.SubFlowType = ""
	pending.SubFlowData = nil
	pending.CurrentStep = pending.ParentStep
	pending.ParentStep = 0
	pending.TotalSteps = len(outer.Steps)
	pending.PendingAction = outer.Name

	ack := fmt.Sprintf("Added %s to your suppliers.", name)
	return e.next(ctx, outer, pending, pending.CollectedData, ack)
}
