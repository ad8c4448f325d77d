package assistant

import (
	"context"
	"fmt"

	"github.com/rmcastle/fieldops/pkg/logger"
)

// FlowResult is the outcome of one flow engine turn
type FlowResult struct {
	// Pending is the updated command state; nil when the flow ended
	Pending *PendingCommand

	Message string
	Options []string

	// Done reports that the outer flow collected everything; Action and
	// Params carry the dispatch that should follow
	Done   bool
	Action string
	Params map[string]interface{}

	Cancelled bool
}

// Engine advances field-collection flows. It is deterministic: no model
// call happens inside a running flow.
type Engine struct {
	flows   *FlowTable
	catalog Catalog
	logger  logger.Logger
}

// NewEngine creates the flow engine
func NewEngine(flows *FlowTable, catalog Catalog, log logger.Logger) *Engine {
	return &Engine{flows: flows, catalog: catalog, logger: log}
}

// completionAction maps a finished outer flow to the command it feeds
var completionAction = map[PendingAction]string{
	PendingAddProductDetails: ActionAddProduct,
	PendingCustomerDetails:   ActionCreateCustomer,
}

// Begin starts the named flow on the given pending command. CollectedData
// may be pre-seeded; the cursor lands on the first step whose field is
// still empty. When every field is already present the flow completes
// immediately.
func (e *Engine) Begin(ctx context.Context, name PendingAction, pending *PendingCommand) (*FlowResult, error) {
	flow, ok := e.flows.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown flow: %s", name)
	}

	pending.Flow = name
	pending.PendingAction = name
	pending.TotalSteps = len(flow.Steps)
	if pending.CollectedData == nil {
		pending.CollectedData = make(map[string]interface{})
	}

	step, index := firstUnfilled(flow, 1, pending.CollectedData)
	if step == nil {
		return e.complete(ctx, flow, pending)
	}

	pending.CurrentStep = index
	pending.Prompt = step.Prompt(flow.Hint(pending))
	pending.Options = stepOptions(step)
	return &FlowResult{Pending: pending, Message: pending.Prompt, Options: pending.Options}, nil
}

// Advance feeds one user reply into the running flow
func (e *Engine) Advance(ctx context.Context, pending *PendingCommand, input string) (*FlowResult, error) {
	flow, data, err := e.activeFlow(pending)
	if err != nil {
		return nil, err
	}

	if isCancelToken(input) {
		e.logger.Info("flow cancelled: %s", flow.Name)
		return &FlowResult{Cancelled: true, Message: "Okay, cancelled."}, nil
	}

	step := flow.Step(pending.CurrentStep)
	if step == nil {
		return nil, fmt.Errorf("flow %s has no step %d", flow.Name, pending.CurrentStep)
	}

	if isSkipToken(input) {
		if !step.Optional {
			pending.Prompt = fmt.Sprintf("I need this one. %s", step.Prompt(flow.Hint(pending)))
			return &FlowResult{Pending: pending, Message: pending.Prompt}, nil
		}
		return e.next(ctx, flow, pending, data, step.SkipAck)
	}

	value, parseErr := step.Parse(input)
	if parseErr != nil {
		// cursor unchanged, re-ask the same step
		pending.Prompt = parseErr.Error()
		return &FlowResult{Pending: pending, Message: pending.Prompt}, nil
	}

	data[step.Field] = value

	if step.Check != nil {
		issue, err := step.Check(ctx, e.catalog, value)
		if err != nil {
			return nil, err
		}
		if issue != nil {
			// the cursor stays on this step so a "no" can resume past it
			pending.PendingAction = issue.PendingAction
			pending.Prompt = issue.Prompt
			pending.Options = issue.Options
			return &FlowResult{Pending: pending, Message: issue.Prompt, Options: issue.Options}, nil
		}
	}

	return e.next(ctx, flow, pending, data, "")
}

// Resume moves past the current step without consuming input, used when a
// dependency confirmation is declined or a sub-flow hands control back
func (e *Engine) Resume(ctx context.Context, pending *PendingCommand) (*FlowResult, error) {
	flow, data, err := e.activeFlow(pending)
	if err != nil {
		return nil, err
	}
	pending.PendingAction = flow.Name
	pending.Options = nil
	return e.next(ctx, flow, pending, data, "")
}

func (e *Engine) activeFlow(pending *PendingCommand) (*Flow, map[string]interface{}, error) {
	name := pending.Flow
	data := pending.CollectedData
	if pending.InSubFlow {
		name = pending.SubFlowType
		data = pending.SubFlowData
	}
	flow, ok := e.flows.Lookup(name)
	if !ok {
		return nil, nil, fmt.Errorf("unknown flow: %s", name)
	}
	if data == nil {
		return nil, nil, fmt.Errorf("flow %s has no collected data map", name)
	}
	return flow, data, nil
}

// next advances the cursor past every already-filled step and prompts for
// the next empty one, completing the flow when none remain
func (e *Engine) next(ctx context.Context, flow *Flow, pending *PendingCommand, data map[string]interface{}, ack string) (*FlowResult, error) {
	step, index := firstUnfilled(flow, pending.CurrentStep+1, data)
	if step == nil {
		return e.complete(ctx, flow, pending)
	}

	pending.CurrentStep = index
	pending.PendingAction = flow.Name
	prompt := step.Prompt(flow.Hint(pending))
	if ack != "" {
		prompt = ack + " " + prompt
	}
	pending.Prompt = prompt
	pending.Options = stepOptions(step)
	return &FlowResult{Pending: pending, Message: prompt, Options: pending.Options}, nil
}

func stepOptions(step *FlowStep) []string {
	if step.Optional {
		return []string{"Skip"}
	}
	return nil
}

func (e *Engine) complete(ctx context.Context, flow *Flow, pending *PendingCommand) (*FlowResult, error) {
	if pending.InSubFlow && flow.Name == pending.SubFlowType {
		return e.popSubFlow(ctx, pending)
	}

	action, ok := completionAction[flow.Name]
	if !ok {
		return nil, fmt.Errorf("flow %s has no completion action", flow.Name)
	}

	// explicit answers win over values carried in from the first command
	params := pending.Context.ToParams()
	mergeParams(params, pending.CollectedData)

	e.logger.Info("flow complete: %s -> %s", flow.Name, action)
	return &FlowResult{Done: true, Action: action, Params: params}, nil
}

// firstUnfilled scans forward from the 1-based position `from` and returns
// the first step whose field has no collected value yet
func firstUnfilled(flow *Flow, from int, data map[string]interface{}) (*FlowStep, int) {
	if from < 1 {
		from = 1
	}
	for i := from; i <= len(flow.Steps); i++ {
		step := flow.Step(i)
		if _, filled := data[step.Field]; !filled {
			return step, i
		}
	}
	return nil, 0
}
