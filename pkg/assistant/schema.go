package assistant

// Action names supported by the command interpreter
const (
	ActionAddStock       = "ADD_STOCK"
	ActionUseStock       = "USE_STOCK"
	ActionCheckStock     = "CHECK_STOCK"
	ActionTransferStock  = "TRANSFER_STOCK"
	ActionAddProduct     = "ADD_PRODUCT"
	ActionUpdateProduct  = "UPDATE_PRODUCT"
	ActionCreateJob      = "CREATE_JOB"
	ActionUpdateJob      = "UPDATE_JOB"
	ActionCreateCustomer = "CREATE_CUSTOMER"
	ActionAddSupplier    = "ADD_SUPPLIER"
	ActionListJobs       = "LIST_JOBS"
	ActionUnclear        = "UNCLEAR_QUERY"
)

// ActionExample is one example phrasing used as model-prompt context
type ActionExample struct {
	Input  string
	Output string
}

// ActionDescriptor describes one supported action: its name, which
// parameters it takes, and example phrasings for the model prompt
type ActionDescriptor struct {
	Name        string
	Required    []string
	Optional    []string
	Description string
	Examples    []ActionExample
}

// Registry is the static table of supported actions. It is built once at
// process start and never mutated afterwards.
type Registry struct {
	actions map[string]ActionDescriptor
	order   []string
}

// NewRegistry builds the action schema registry
func NewRegistry() *Registry {
	r := &Registry{actions: make(map[string]ActionDescriptor)}

	r.add(ActionDescriptor{
		Name:        ActionAddStock,
		Required:    []string{"item", "quantity", "location"},
		Optional:    []string{"notes"},
		Description: "Add stock of an existing catalogue item to a storage location",
		Examples: []ActionExample{
			{Input: "add 5 M10 nuts to rack 1 bin 6", Output: `{"item":"M10 nuts","quantity":5,"location":"rack 1 bin 6"}`},
			{Input: "put 20 brake pads in van 2", Output: `{"item":"brake pads","quantity":20,"location":"van 2"}`},
		},
	})

	r.add(ActionDescriptor{
		Name:        ActionUseStock,
		Required:    []string{"item", "quantity"},
		Optional:    []string{"location", "job"},
		Description: "Record stock being used, optionally against a job",
		Examples: []ActionExample{
			{Input: "used 2 compressor valves on the Hartley job", Output: `{"item":"compressor valves","quantity":2,"job":"Hartley"}`},
		},
	})

	r.add(ActionDescriptor{
		Name:        ActionCheckStock,
		Required:    []string{"item"},
		Optional:    []string{"location"},
		Description: "Report how much of an item is in stock and where",
		Examples: []ActionExample{
			{Input: "how many M10 nuts do we have", Output: `{"item":"M10 nuts"}`},
		},
	})

	r.add(ActionDescriptor{
		Name:        ActionTransferStock,
		Required:    []string{"item", "quantity", "fromLocation", "toLocation"},
		Optional:    nil,
		Description: "Move stock of an item between two locations",
		Examples: []ActionExample{
			{Input: "move 10 cable ties from the warehouse to van 1", Output: `{"item":"cable ties","quantity":10,"fromLocation":"warehouse","toLocation":"van 1"}`},
		},
	})

	r.add(ActionDescriptor{
		Name:        ActionAddProduct,
		Required:    []string{"name", "partNumber"},
		Optional:    []string{"cost", "price", "supplier", "manufacturer", "category", "minStock"},
		Description: "Add a new item to the catalogue",
		Examples: []ActionExample{
			{Input: "add new item cable cost 25", Output: `{"name":"cable","cost":25}`},
			{Input: "new product 40mm elbow, part number EL-40, from PlumbCo", Output: `{"name":"40mm elbow","partNumber":"EL-40","supplier":"PlumbCo"}`},
		},
	})

	r.add(ActionDescriptor{
		Name:        ActionUpdateProduct,
		Required:    []string{"item"},
		Optional:    []string{"name", "cost", "price", "category", "minStock"},
		Description: "Change details of an existing catalogue item",
		Examples: []ActionExample{
			{Input: "change the price of CAB-001 to 30", Output: `{"item":"CAB-001","price":30}`},
		},
	})

	r.add(ActionDescriptor{
		Name:        ActionCreateJob,
		Required:    []string{"customer", "description"},
		Optional:    []string{"scheduledDate", "priority", "site"},
		Description: "Book a new job for a customer",
		Examples: []ActionExample{
			{Input: "book a boiler service for Mrs Patel next Tuesday", Output: `{"customer":"Mrs Patel","description":"boiler service","scheduledDate":"next Tuesday"}`},
		},
	})

	r.add(ActionDescriptor{
		Name:        ActionUpdateJob,
		Required:    []string{"job"},
		Optional:    []string{"status", "scheduledDate", "priority"},
		Description: "Update an existing job, for example marking it done",
		Examples: []ActionExample{
			{Input: "mark the Hartley job as done", Output: `{"job":"Hartley","status":"done"}`},
		},
	})

	r.add(ActionDescriptor{
		Name:        ActionCreateCustomer,
		Required:    []string{"name"},
		Optional:    []string{"phone", "email", "address"},
		Description: "Add a new customer",
		Examples: []ActionExample{
			{Input: "new customer John Hartley, phone 07700 900123", Output: `{"name":"John Hartley","phone":"07700 900123"}`},
		},
	})

	r.add(ActionDescriptor{
		Name:        ActionAddSupplier,
		Required:    []string{"name"},
		Optional:    []string{"phone", "email", "accountNumber"},
		Description: "Add a new parts supplier",
		Examples: []ActionExample{
			{Input: "add supplier PlumbCo", Output: `{"name":"PlumbCo"}`},
		},
	})

	r.add(ActionDescriptor{
		Name:        ActionListJobs,
		Required:    nil,
		Optional:    []string{"status", "customer"},
		Description: "List jobs, optionally filtered by status or customer",
		Examples: []ActionExample{
			{Input: "what jobs are open", Output: `{"status":"open"}`},
		},
	})

	r.add(ActionDescriptor{
		Name:        ActionUnclear,
		Description: "Fallback when the request does not match any supported action",
	})

	return r
}

func (r *Registry) add(d ActionDescriptor) {
	r.actions[d.Name] = d
	r.order = append(r.order, d.Name)
}

// Lookup returns the descriptor for an action name
func (r *Registry) Lookup(name string) (ActionDescriptor, bool) {
	d, ok := r.actions[name]
	return d, ok
}

// Has reports whether the action name is registered
func (r *Registry) Has(name string) bool {
	_, ok := r.actions[name]
	return ok
}

// Names returns the registered action names in registration order
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
