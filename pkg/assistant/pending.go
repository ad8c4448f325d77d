package assistant

import "strconv"

// PendingAction names the state a pending command is in: plain missing-field
// collection, a named confirmation, or an active flow.
type PendingAction string

const (
	// PendingMissingFields marks a command waiting for required parameters
	PendingMissingFields PendingAction = "MISSING_FIELDS"

	// PendingConfirmAddProduct asks whether to add an unknown part to the catalogue
	PendingConfirmAddProduct PendingAction = "CONFIRM_ADD_PRODUCT"

	// PendingAddProductDetails is the step-by-step catalogue entry flow
	PendingAddProductDetails PendingAction = "ADD_PRODUCT_DETAILS"

	// PendingConfirmAddSupplier asks whether to add an unknown supplier mid-flow
	PendingConfirmAddSupplier PendingAction = "CONFIRM_ADD_SUPPLIER"

	// PendingAddSupplierDetails is the nested supplier entry flow
	PendingAddSupplierDetails PendingAction = "ADD_SUPPLIER_DETAILS"

	// PendingConfirmCreateCustomer asks whether to create an unknown customer
	PendingConfirmCreateCustomer PendingAction = "CONFIRM_CREATE_CUSTOMER"

	// PendingCustomerDetails is the step-by-step customer entry flow
	PendingCustomerDetails PendingAction = "CREATE_CUSTOMER_DETAILS"
)

// CommandContext is the closed set of values carried across turns of one
// dialogue. Fields collected by the flow engine always win over these; they
// act as defaults merged into the final parameter set.
type CommandContext struct {
	Item        string `json:"item,omitempty"`
	PartNumber  string `json:"partNumber,omitempty"`
	Quantity    string `json:"quantity,omitempty"`
	Location    string `json:"location,omitempty"`
	Customer    string `json:"customer,omitempty"`
	Supplier    string `json:"supplier,omitempty"`
	Description string `json:"description,omitempty"`
	Job         string `json:"job,omitempty"`
}

// ToParams returns the non-empty context fields as a parameter map
func (c CommandContext) ToParams() map[string]interface{} {
	params := make(map[string]interface{})
	if c.Item != "" {
		params["item"] = c.Item
	}
	if c.PartNumber != "" {
		params["partNumber"] = c.PartNumber
	}
	if c.Quantity != "" {
		params["quantity"] = c.Quantity
	}
	if c.Location != "" {
		params["location"] = c.Location
	}
	if c.Customer != "" {
		params["customer"] = c.Customer
	}
	if c.Supplier != "" {
		params["supplier"] = c.Supplier
	}
	if c.Description != "" {
		params["description"] = c.Description
	}
	if c.Job != "" {
		params["job"] = c.Job
	}
	return params
}

// ContextFromParams picks the declared context fields out of a parameter map
func ContextFromParams(params map[string]interface{}) CommandContext {
	var c CommandContext
	c.Item = stringParam(params, "item")
	c.PartNumber = stringParam(params, "partNumber")
	c.Quantity = stringParam(params, "quantity")
	c.Location = stringParam(params, "location")
	c.Customer = stringParam(params, "customer")
	c.Supplier = stringParam(params, "supplier")
	c.Description = stringParam(params, "description")
	c.Job = stringParam(params, "job")
	return c
}

// PendingCommand is the persisted state of an in-progress multi-turn
// dialogue. At most one exists per session; it is created when an action
// cannot be completed in one turn and destroyed on completion or cancel.
type PendingCommand struct {
	// Action under interpretation and the parameters collected so far
	Action     string                 `json:"action"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`

	// Required fields the extractor could not fill
	MissingFields []string `json:"missing_fields,omitempty"`

	// Exact text to show or speak next
	Prompt string `json:"prompt"`

	// Governing state: missing-field collection, confirmation, or flow
	PendingAction PendingAction `json:"pending_action"`

	// Values carried across turns, merged as defaults at completion
	Context CommandContext `json:"context"`

	// Fixed short replies offered instead of free text
	Options []string `json:"options,omitempty"`

	// Name of the outer flow being collected; empty when no flow runs.
	// Remains set while a confirmation interrupts the flow.
	Flow PendingAction `json:"flow,omitempty"`

	// 1-based cursor into the active flow; zero when no flow runs
	CurrentStep int `json:"current_step,omitempty"`
	TotalSteps  int `json:"total_steps,omitempty"`

	// Field values accumulated by the flow engine, pre-seeded with any
	// values already known so those steps are skipped
	CollectedData map[string]interface{} `json:"collected_data,omitempty"`

	// Sub-flow state; ParentStep records where the outer flow resumes
	InSubFlow   bool                   `json:"in_sub_flow,omitempty"`
	SubFlowType PendingAction          `json:"sub_flow_type,omitempty"`
	SubFlowData map[string]interface{} `json:"sub_flow_data,omitempty"`
	ParentStep  int                    `json:"parent_step,omitempty"`

	// Outer action to run automatically once this dialogue's action
	// completes (dependency chaining)
	ResumeAction string                 `json:"resume_action,omitempty"`
	ResumeParams map[string]interface{} `json:"resume_params,omitempty"`
}

// Clone returns a deep copy of the pending command
func (p *PendingCommand) Clone() *PendingCommand {
	if p == nil {
		return nil
	}
	out := *p
	out.Parameters = copyParams(p.Parameters)
	out.MissingFields = append([]string(nil), p.MissingFields...)
	out.Options = append([]string(nil), p.Options...)
	out.CollectedData = copyParams(p.CollectedData)
	out.SubFlowData = copyParams(p.SubFlowData)
	out.ResumeParams = copyParams(p.ResumeParams)
	return &out
}

// Outcome is the result of processing one user turn: a reply to render,
// optional fixed options, and the surviving pending command (nil when the
// dialogue resolved or was cancelled).
type Outcome struct {
	Message   string                 `json:"message"`
	Options   []string               `json:"options,omitempty"`
	Pending   *PendingCommand        `json:"pending,omitempty"`
	Done      bool                   `json:"done"`
	Cancelled bool                   `json:"cancelled,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

func copyParams(in map[string]interface{}) map[string]interface{} {
	if in == nil {
		return nil
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func stringParam(params map[string]interface{}, key string) string {
	switch v := params[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

// mergeParams copies src entries over dst, returning dst. A nil dst is
// allocated first so callers can merge into fresh maps.
func mergeParams(dst, src map[string]interface{}) map[string]interface{} {
	if dst == nil {
		dst = make(map[string]interface{})
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
