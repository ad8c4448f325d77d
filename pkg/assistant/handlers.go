package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/rmcastle/fieldops/pkg/logger"
)

// The confirm/cancel matchers are deliberately narrow enumerated lists.
// Free-form yes/no detection would make the dialogue non-deterministic.
var (
	affirmativeTokens = []string{
		"yes", "y", "yeah", "yep", "sure", "ok", "okay", "go ahead", "please do",
	}
	negativeTokens = []string{
		"no", "n", "nope", "no thanks", "not now", "no/skip",
	}
	cancelTokens = []string{
		"cancel", "stop", "quit", "abort", "never mind", "nevermind", "forget it",
	}
	skipTokens = []string{
		"skip", "skip it", "skip this", "pass",
	}
)

func normalizeReply(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	return strings.TrimRight(s, ".!?")
}

func matchesToken(input string, tokens []string) bool {
	s := normalizeReply(input)
	for _, t := range tokens {
		if s == t {
			return true
		}
	}
	return false
}

func isAffirmative(input string) bool { return matchesToken(input, affirmativeTokens) }
func isNegative(input string) bool    { return matchesToken(input, negativeTokens) }
func isCancelToken(input string) bool { return matchesToken(input, cancelTokens) }
func isSkipToken(input string) bool   { return matchesToken(input, skipTokens) }

// HandlerEnv bundles the collaborators every pending-state handler may
// need. Handlers hold no state of their own.
type HandlerEnv struct {
	Registry   *Registry
	Classifier *Classifier
	Extractor  *Extractor
	Engine     *Engine
	Dispatcher *Dispatcher
	Logger     logger.Logger
}

// PendingHandler advances one pending command state by one user reply
type PendingHandler interface {
	Advance(ctx context.Context, env *HandlerEnv, userID string, pending *PendingCommand, reply string) (*Outcome, error)
}

// NewHandlerTable maps every pending action to its handler. Dispatch is a
// single table lookup.
func NewHandlerTable() map[PendingAction]PendingHandler {
	flow := flowStepHandler{}
	return map[PendingAction]PendingHandler{
		PendingMissingFields:         missingFieldsHandler{},
		PendingConfirmAddProduct:     confirmAddProductHandler{},
		PendingAddProductDetails:     flow,
		PendingConfirmAddSupplier:    confirmAddSupplierHandler{},
		PendingAddSupplierDetails:    flow,
		PendingConfirmCreateCustomer: confirmCreateCustomerHandler{},
		PendingCustomerDetails:       flow,
	}
}

// missingFieldsHandler re-runs extraction on the reply, merged over what
// the first turn already collected
type missingFieldsHandler struct{}

func (missingFieldsHandler) Advance(ctx context.Context, env *HandlerEnv, userID string, pending *PendingCommand, reply string) (*Outcome, error) {
	if isCancelToken(reply) {
		return &Outcome{Cancelled: true, Message: "Okay, cancelled."}, nil
	}

	// the classifier sees the pending state so a bare "rack 1" stays an
	// answer instead of becoming a new command
	cls, err := env.Classifier.Classify(ctx, reply, &ClassifyContext{
		PendingAction: pending.Action,
		MissingFields: pending.MissingFields,
	})
	if err != nil {
		return nil, err
	}
	env.Logger.Info("missing-fields reply classified as %s (%.2f)", cls.Action, cls.Confidence)

	ext, err := env.Extractor.Extract(ctx, reply, pending.Action, "")
	if err != nil {
		return nil, err
	}

	params := copyParams(pending.Parameters)
	mergeParams(params, ext.Parameters)

	// bare location answers sometimes come back empty from extraction
	if wantsField(pending.MissingFields, "location") && !hasValue(params, "location") {
		if locationPattern.MatchString(strings.ToLower(strings.TrimSpace(reply))) {
			params["location"] = strings.TrimSpace(reply)
		}
	}

	missing := missingRequired(env.Registry, pending.Action, params)
	if len(missing) > 0 {
		pending.Parameters = params
		pending.MissingFields = missing
		pending.Prompt = missingFieldsPrompt(pending.Action, missing)
		return &Outcome{Message: pending.Prompt, Pending: pending}, nil
	}

	return env.Dispatcher.DispatchWithResume(ctx, userID, pending.Action, params, pending.ResumeAction, pending.ResumeParams)
}

// confirmAddProductHandler handles "X isn't in the catalogue, add it now?"
type confirmAddProductHandler struct{}

func (confirmAddProductHandler) Advance(ctx context.Context, env *HandlerEnv, userID string, pending *PendingCommand, reply string) (*Outcome, error) {
	switch {
	case isCancelToken(reply) || isNegative(reply):
		return &Outcome{Cancelled: true, Message: "Okay, I won't add it."}, nil

	case isAffirmative(reply):
		pending.Action = ActionAddProduct
		if pending.CollectedData == nil {
			pending.CollectedData = make(map[string]interface{})
		}
		if pending.Context.Item != "" {
			pending.CollectedData["name"] = pending.Context.Item
		}
		if pending.Context.PartNumber != "" {
			pending.CollectedData["partNumber"] = pending.Context.PartNumber
		}
		res, err := env.Engine.Begin(ctx, PendingAddProductDetails, pending)
		if err != nil {
			return nil, err
		}
		return flowResultOutcome(ctx, env, userID, pending, res)

	default:
		return reofferConfirmation(pending), nil
	}
}

// confirmAddSupplierHandler handles the dependency question raised inside
// the product flow. Yes pushes the supplier sub-flow; no resumes the outer
// flow just past the supplier step.
type confirmAddSupplierHandler struct{}

func (confirmAddSupplierHandler) Advance(ctx context.Context, env *HandlerEnv, userID string, pending *PendingCommand, reply string) (*Outcome, error) {
	switch {
	case isCancelToken(reply):
		return &Outcome{Cancelled: true, Message: "Okay, cancelled."}, nil

	case isAffirmative(reply):
		res, err := env.Engine.PushSubFlow(ctx, pending, PendingAddSupplierDetails)
		if err != nil {
			return nil, err
		}
		return flowResultOutcome(ctx, env, userID, pending, res)

	case isNegative(reply) || isSkipToken(reply):
		res, err := env.Engine.Resume(ctx, pending)
		if err != nil {
			return nil, err
		}
		return flowResultOutcome(ctx, env, userID, pending, res)

	default:
		return reofferConfirmation(pending), nil
	}
}

// confirmCreateCustomerHandler handles "customer X isn't on file, create
// them first?" raised by CREATE_JOB. Yes collects the customer's details
// and afterwards resumes the job via resumeAction.
type confirmCreateCustomerHandler struct{}

func (confirmCreateCustomerHandler) Advance(ctx context.Context, env *HandlerEnv, userID string, pending *PendingCommand, reply string) (*Outcome, error) {
	switch {
	case isCancelToken(reply) || isNegative(reply):
		return &Outcome{Cancelled: true, Message: "Okay, I'll leave the customer and the job alone."}, nil

	case isAffirmative(reply):
		pending.Action = ActionCreateCustomer
		if pending.CollectedData == nil {
			pending.CollectedData = make(map[string]interface{})
		}
		if pending.Context.Customer != "" {
			pending.CollectedData["name"] = pending.Context.Customer
		}
		res, err := env.Engine.Begin(ctx, PendingCustomerDetails, pending)
		if err != nil {
			return nil, err
		}
		return flowResultOutcome(ctx, env, userID, pending, res)

	default:
		return reofferConfirmation(pending), nil
	}
}

// flowStepHandler feeds one reply into the running flow
type flowStepHandler struct{}

func (flowStepHandler) Advance(ctx context.Context, env *HandlerEnv, userID string, pending *PendingCommand, reply string) (*Outcome, error) {
	res, err := env.Engine.Advance(ctx, pending, reply)
	if err != nil {
		return nil, err
	}
	return flowResultOutcome(ctx, env, userID, pending, res)
}

// flowResultOutcome converts an engine result into a dialogue outcome,
// dispatching the completed command when the flow finished
func flowResultOutcome(ctx context.Context, env *HandlerEnv, userID string, pending *PendingCommand, res *FlowResult) (*Outcome, error) {
	if res.Cancelled {
		return &Outcome{Cancelled: true, Message: res.Message}, nil
	}
	if res.Done {
		return env.Dispatcher.DispatchWithResume(ctx, userID, res.Action, res.Params, pending.ResumeAction, pending.ResumeParams)
	}
	return &Outcome{Message: res.Message, Options: res.Options, Pending: res.Pending}, nil
}

func reofferConfirmation(pending *PendingCommand) *Outcome {
	msg := fmt.Sprintf("Sorry, I need a Yes or No here. %s", pending.Prompt)
	return &Outcome{Message: msg, Options: pending.Options, Pending: pending}
}

func wantsField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}

func missingRequired(registry *Registry, action string, params map[string]interface{}) []string {
	descriptor, ok := registry.Lookup(action)
	if !ok {
		return nil
	}
	var missing []string
	for _, field := range descriptor.Required {
		if !hasValue(params, field) {
			missing = append(missing, field)
		}
	}
	return missing
}

func missingFieldsPrompt(action string, missing []string) string {
	if len(missing) == 1 {
		return fmt.Sprintf("I still need the %s for %s. What is it?", missing[0], actionLabel(action))
	}
	return fmt.Sprintf("I still need %s for %s. Let's start with the %s.",
		strings.Join(missing, ", "), actionLabel(action), missing[0])
}

func actionLabel(action string) string {
	return strings.ToLower(strings.ReplaceAll(action, "_", " "))
}
