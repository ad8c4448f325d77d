package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Catalog is the slice of the data layer the flow engine needs for
// dependency checks and sub-flow side effects. The full data store lives
// behind the command executor; the engine only ever asks these questions.
type Catalog interface {
	// SupplierExists reports whether a supplier with this name is on file
	SupplierExists(ctx context.Context, name string) (bool, error)

	// CreateSupplier creates a supplier from collected sub-flow fields
	CreateSupplier(ctx context.Context, fields map[string]interface{}) error

	// CustomerExists reports whether a customer with this name is on file
	CustomerExists(ctx context.Context, name string) (bool, error)
}

// ParseFunc validates one free-text reply and returns the typed value to
// store, or an error whose message is shown to the user verbatim.
type ParseFunc func(input string) (interface{}, error)

// DependencyIssue is raised when a collected value must be confirmed
// against external state before the flow can continue
type DependencyIssue struct {
	PendingAction PendingAction
	Prompt        string
	Options       []string
	SubFlow       PendingAction
}

// DependencyCheck validates a just-collected value against external state.
// A nil issue means the flow may continue.
type DependencyCheck func(ctx context.Context, catalog Catalog, value interface{}) (*DependencyIssue, error)

// FlowStep is one field-collection unit within a flow
type FlowStep struct {
	Field    string
	Prompt   func(hint string) string
	Optional bool
	Parse    ParseFunc
	SkipAck  string
	Check    DependencyCheck
}

// Flow is a named, ordered sequence of steps. Steps are addressed by
// 1-based position.
type Flow struct {
	Name  PendingAction
	Steps []FlowStep

	// Hint derives the contextual string fed to step prompts
	Hint func(p *PendingCommand) string
}

// Step returns the 1-based step, or nil when out of range
func (f *Flow) Step(i int) *FlowStep {
	if i < 1 || i > len(f.Steps) {
		return nil
	}
	return &f.Steps[i-1]
}

// FlowTable holds the registered flows keyed by name
type FlowTable struct {
	flows map[PendingAction]*Flow
}

// Lookup returns the named flow
func (t *FlowTable) Lookup(name PendingAction) (*Flow, bool) {
	f, ok := t.flows[name]
	return f, ok
}

// NewFlowTable builds the static flow definitions
func NewFlowTable() *FlowTable {
	t := &FlowTable{flows: make(map[PendingAction]*Flow)}
	t.register(addProductFlow())
	t.register(addSupplierFlow())
	t.register(customerDetailsFlow())
	return t
}

func (t *FlowTable) register(f *Flow) {
	t.flows[f.Name] = f
}

func addProductFlow() *Flow {
	return &Flow{
		Name: PendingAddProductDetails,
		Hint: func(p *PendingCommand) string {
			if name := stringParam(p.CollectedData, "name"); name != "" {
				return name
			}
			if p.Context.Item != "" {
				return p.Context.Item
			}
			return "the new item"
		},
		Steps: []FlowStep{
			{
				Field:    "cost",
				Optional: true,
				Parse:    parseMoney,
				SkipAck:  "Skipping cost price.",
				Prompt: func(hint string) string {
					return fmt.Sprintf("What does %s cost you? (amount, or Skip)", hint)
				},
			},
			{
				Field:    "price",
				Optional: true,
				Parse:    parseMoney,
				SkipAck:  "Skipping sale price.",
				Prompt: func(hint string) string {
					return fmt.Sprintf("What do you charge for %s? (amount, or Skip)", hint)
				},
			},
			{
				Field:    "supplier",
				Optional: true,
				Parse:    parseText("supplier name"),
				SkipAck:  "Skipping preferred supplier.",
				Check:    checkSupplierOnFile,
				Prompt: func(hint string) string {
					return fmt.Sprintf("Who do you buy %s from? (supplier name, or Skip)", hint)
				},
			},
			{
				Field:    "manufacturer",
				Optional: true,
				Parse:    parseText("manufacturer"),
				SkipAck:  "Skipping manufacturer.",
				Prompt: func(hint string) string {
					return fmt.Sprintf("Who makes %s? (manufacturer, or Skip)", hint)
				},
			},
			{
				Field:    "category",
				Optional: true,
				Parse:    parseText("category"),
				SkipAck:  "Skipping category.",
				Prompt: func(hint string) string {
					return fmt.Sprintf("What category does %s belong to? (or Skip)", hint)
				},
			},
			{
				Field:    "minStock",
				Optional: true,
				Parse:    parsePositiveInt,
				SkipAck:  "Skipping minimum stock level.",
				Prompt: func(hint string) string {
					return fmt.Sprintf("Minimum stock level to keep for %s? (whole number, or Skip)", hint)
				},
			},
		},
	}
}

func addSupplierFlow() *Flow {
	return &Flow{
		Name: PendingAddSupplierDetails,
		Hint: func(p *PendingCommand) string {
			if p.InSubFlow {
				if name := stringParam(p.SubFlowData, "name"); name != "" {
					return name
				}
			}
			if name := stringParam(p.CollectedData, "name"); name != "" {
				return name
			}
			return "the supplier"
		},
		Steps: []FlowStep{
			{
				Field: "name",
				Parse: parseText("supplier name"),
				Prompt: func(hint string) string {
					return "What is the supplier called?"
				},
			},
			{
				Field:    "phone",
				Optional: true,
				Parse:    parsePhone,
				SkipAck:  "Skipping phone number.",
				Prompt: func(hint string) string {
					return fmt.Sprintf("Phone number for %s? (or Skip)", hint)
				},
			},
			{
				Field:    "email",
				Optional: true,
				Parse:    parseEmail,
				SkipAck:  "Skipping email.",
				Prompt: func(hint string) string {
					return fmt.Sprintf("Email address for %s? (or Skip)", hint)
				},
			},
			{
				Field:    "accountNumber",
				Optional: true,
				Parse:    parseText("account number"),
				SkipAck:  "Skipping account number.",
				Prompt: func(hint string) string {
					return fmt.Sprintf("Your account number with %s? (or Skip)", hint)
				},
			},
		},
	}
}

func customerDetailsFlow() *Flow {
	return &Flow{
		Name: PendingCustomerDetails,
		Hint: func(p *PendingCommand) string {
			if name := stringParam(p.CollectedData, "name"); name != "" {
				return name
			}
			if p.Context.Customer != "" {
				return p.Context.Customer
			}
			return "the customer"
		},
		Steps: []FlowStep{
			{
				Field: "name",
				Parse: parseText("customer name"),
				Prompt: func(hint string) string {
					return "What is the customer's name?"
				},
			},
			{
				Field:    "phone",
				Optional: true,
				Parse:    parsePhone,
				SkipAck:  "Skipping phone number.",
				Prompt: func(hint string) string {
					return fmt.Sprintf("Phone number for %s? (or Skip)", hint)
				},
			},
			{
				Field:    "email",
				Optional: true,
				Parse:    parseEmail,
				SkipAck:  "Skipping email.",
				Prompt: func(hint string) string {
					return fmt.Sprintf("Email address for %s? (or Skip)", hint)
				},
			},
			{
				Field:    "address",
				Optional: true,
				Parse:    parseText("address"),
				SkipAck:  "Skipping address.",
				Prompt: func(hint string) string {
					return fmt.Sprintf("Address for %s? (or Skip)", hint)
				},
			},
		},
	}
}

// checkSupplierOnFile raises a confirmation when the collected supplier
// name is not in the supplier list
func checkSupplierOnFile(ctx context.Context, catalog Catalog, value interface{}) (*DependencyIssue, error) {
	name, _ := value.(string)
	if name == "" || catalog == nil {
		return nil, nil
	}

	exists, err := catalog.SupplierExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("error checking supplier %q: %w", name, err)
	}
	if exists {
		return nil, nil
	}

	return &DependencyIssue{
		PendingAction: PendingConfirmAddSupplier,
		Prompt:        fmt.Sprintf("%s isn't in your supplier list. Want to add their details now?", name),
		Options:       []string{"Yes", "No/Skip"},
		SubFlow:       PendingAddSupplierDetails,
	}, nil
}

var (
	moneyPattern = regexp.MustCompile(`^£?\$?([0-9]+(?:\.[0-9]{1,2})?)$`)
	phonePattern = regexp.MustCompile(`^[0-9()+ -]{6,20}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// parseText accepts any non-empty reply; label names the field in the
// validation message
func parseText(label string) ParseFunc {
	return func(input string) (interface{}, error) {
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			return nil, fmt.Errorf("I need a %s, or Skip", label)
		}
		return trimmed, nil
	}
}

func parseMoney(input string) (interface{}, error) {
	trimmed := strings.TrimSpace(input)
	match := moneyPattern.FindStringSubmatch(trimmed)
	if match == nil {
		return nil, fmt.Errorf("%q doesn't look like an amount; try something like 25 or 25.50", trimmed)
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil, fmt.Errorf("%q doesn't look like an amount", trimmed)
	}
	return value, nil
}

func parsePositiveInt(input string) (interface{}, error) {
	trimmed := strings.TrimSpace(input)
	value, err := strconv.Atoi(trimmed)
	if err != nil || value < 0 {
		return nil, fmt.Errorf("%q doesn't look like a whole number", trimmed)
	}
	return value, nil
}

func parsePhone(input string) (interface{}, error) {
	trimmed := strings.TrimSpace(input)
	if !phonePattern.MatchString(trimmed) {
		return nil, fmt.Errorf("%q doesn't look like a phone number", trimmed)
	}
	return trimmed, nil
}

func parseEmail(input string) (interface{}, error) {
	trimmed := strings.TrimSpace(input)
	if !emailPattern.MatchString(trimmed) {
		return nil, fmt.Errorf("%q doesn't look like an email address", trimmed)
	}
	return trimmed, nil
}
