package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rmcastle/fieldops/pkg/assistant"
	"github.com/rmcastle/fieldops/pkg/domain"
	"github.com/rmcastle/fieldops/pkg/logger"
	"github.com/rmcastle/fieldops/pkg/repository"
)

// ErrUnknownAction is returned when the executor receives an action name
// it has no handler for
var ErrUnknownAction = errors.New("unknown action")

// Executor runs interpreted commands against the data layer. It implements
// both assistant.CommandExecutor and assistant.Catalog.
type Executor struct {
	products  repository.ProductRepository
	stock     repository.StockRepository
	customers repository.CustomerRepository
	jobs      repository.JobRepository
	suppliers repository.SupplierRepository
	logger    logger.Logger
}

// NewExecutor creates the executor over the given repositories
func NewExecutor(
	products repository.ProductRepository,
	stock repository.StockRepository,
	customers repository.CustomerRepository,
	jobs repository.JobRepository,
	suppliers repository.SupplierRepository,
	log logger.Logger,
) *Executor {
	return &Executor{
		products:  products,
		stock:     stock,
		customers: customers,
		jobs:      jobs,
		suppliers: suppliers,
		logger:    log,
	}
}

type actionFunc func(e *Executor, ctx context.Context, params map[string]interface{}) (*assistant.CommandResult, error)

var actionTable = map[string]actionFunc{
	assistant.ActionAddStock:       (*Executor).addStock,
	assistant.ActionUseStock:       (*Executor).useStock,
	assistant.ActionCheckStock:     (*Executor).checkStock,
	assistant.ActionTransferStock:  (*Executor).transferStock,
	assistant.ActionAddProduct:     (*Executor).addProduct,
	assistant.ActionUpdateProduct:  (*Executor).updateProduct,
	assistant.ActionCreateJob:      (*Executor).createJob,
	assistant.ActionUpdateJob:      (*Executor).updateJob,
	assistant.ActionCreateCustomer: (*Executor).createCustomer,
	assistant.ActionAddSupplier:    (*Executor).addSupplier,
	assistant.ActionListJobs:       (*Executor).listJobs,
	assistant.ActionUnclear:        (*Executor).unclearQuery,
}

// Execute runs one command and reports the outcome
func (e *Executor) Execute(ctx context.Context, userID string, action string, params map[string]interface{}) (*assistant.CommandResult, error) {
	fn, ok := actionTable[action]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	e.logger.Info("executing %s for user %s", action, userID)
	return fn(e, ctx, params)
}

func (e *Executor) addStock(ctx context.Context, params map[string]interface{}) (*assistant.CommandResult, error) {
	item := paramString(params, "item")
	quantity, err := paramInt(params, "quantity")
	if err != nil || quantity <= 0 {
		return failure(fmt.Sprintf("I couldn't read the quantity for %s.", item)), nil
	}
	location := paramString(params, "location")

	product, err := e.findProduct(ctx, item)
	if err != nil {
		return nil, err
	}
	if product == nil {
		// the part isn't in the catalogue, ask before creating it
		return &assistant.CommandResult{
			NeedsInput:    true,
			Prompt:        fmt.Sprintf("%s isn't in the catalogue yet. Want to add it as a new item?", item),
			Options:       []string{"Yes", "No"},
			PendingAction: assistant.PendingConfirmAddProduct,
			Context: assistant.CommandContext{
				Item:     item,
				Quantity: strconv.Itoa(quantity),
				Location: location,
			},
		}, nil
	}

	if err := e.stock.Adjust(ctx, product.ID, location, quantity); err != nil {
		return nil, fmt.Errorf("error adjusting stock: %w", err)
	}

	return success(fmt.Sprintf("Added %d x %s to %s.", quantity, product.Name, location), map[string]interface{}{
		"product_id": product.ID,
		"location":   location,
		"quantity":   quantity,
	}), nil
}

func (e *Executor) useStock(ctx context.Context, params map[string]interface{}) (*assistant.CommandResult, error) {
	item := paramString(params, "item")
	quantity, err := paramInt(params, "quantity")
	if err != nil || quantity <= 0 {
		return failure(fmt.Sprintf("I couldn't read the quantity for %s.", item)), nil
	}

	product, err := e.findProduct(ctx, item)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return failure(fmt.Sprintf("I don't have %s in the catalogue.", item)), nil
	}

	location := paramString(params, "location")
	if location == "" {
		// no location named: only allowed when the product is held in
		// exactly one place
		levels, err := e.stock.LevelsForProduct(ctx, product.ID)
		if err != nil {
			return nil, fmt.Errorf("error reading stock levels: %w", err)
		}
		if len(levels) != 1 {
			return failure(fmt.Sprintf("%s is held in more than one place. Which location did you take it from?", product.Name)), nil
		}
		location = levels[0].Location
	}

	level, err := e.stock.LevelAt(ctx, product.ID, location)
	if err != nil {
		return nil, fmt.Errorf("error reading stock level: %w", err)
	}
	if level == nil || level.Quantity < quantity {
		have := 0
		if level != nil {
			have = level.Quantity
		}
		return failure(fmt.Sprintf("Not enough %s at %s: you have %d, asked to use %d.", product.Name, location, have, quantity)), nil
	}

	if err := e.stock.Adjust(ctx, product.ID, location, -quantity); err != nil {
		return nil, fmt.Errorf("error adjusting stock: %w", err)
	}

	message := fmt.Sprintf("Recorded %d x %s used from %s.", quantity, product.Name, location)
	if job := paramString(params, "job"); job != "" {
		message = fmt.Sprintf("Recorded %d x %s used from %s on the %s job.", quantity, product.Name, location, job)
	}
	return success(message, nil), nil
}

func (e *Executor) checkStock(ctx context.Context, params map[string]interface{}) (*assistant.CommandResult, error) {
	item := paramString(params, "item")
	product, err := e.findProduct(ctx, item)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return failure(fmt.Sprintf("I don't have %s in the catalogue.", item)), nil
	}

	if location := paramString(params, "location"); location != "" {
		level, err := e.stock.LevelAt(ctx, product.ID, location)
		if err != nil {
			return nil, fmt.Errorf("error reading stock level: %w", err)
		}
		quantity := 0
		if level != nil {
			quantity = level.Quantity
		}
		return success(fmt.Sprintf("You have %d x %s at %s.", quantity, product.Name, location), map[string]interface{}{
			"quantity": quantity,
		}), nil
	}

	levels, err := e.stock.LevelsForProduct(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("error reading stock levels: %w", err)
	}
	if len(levels) == 0 {
		return success(fmt.Sprintf("You have no %s in stock.", product.Name), nil), nil
	}

	total := 0
	var b strings.Builder
	fmt.Fprintf(&b, "%s in stock:\n", product.Name)
	for _, level := range levels {
		fmt.Fprintf(&b, "- %s: %d\n", level.Location, level.Quantity)
		total += level.Quantity
	}
	fmt.Fprintf(&b, "Total: %d", total)
	return success(b.String(), map[string]interface{}{"total": total}), nil
}

func (e *Executor) transferStock(ctx context.Context, params map[string]interface{}) (*assistant.CommandResult, error) {
	item := paramString(params, "item")
	quantity, err := paramInt(params, "quantity")
	if err != nil || quantity <= 0 {
		return failure(fmt.Sprintf("I couldn't read the quantity for %s.", item)), nil
	}
	from := paramString(params, "fromLocation")
	to := paramString(params, "toLocation")

	product, err := e.findProduct(ctx, item)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return failure(fmt.Sprintf("I don't have %s in the catalogue.", item)), nil
	}

	level, err := e.stock.LevelAt(ctx, product.ID, from)
	if err != nil {
		return nil, fmt.Errorf("error reading stock level: %w", err)
	}
	if level == nil || level.Quantity < quantity {
		have := 0
		if level != nil {
			have = level.Quantity
		}
		return failure(fmt.Sprintf("Not enough %s at %s to move: you have %d, asked to move %d.", product.Name, from, have, quantity)), nil
	}

	if err := e.stock.Adjust(ctx, product.ID, from, -quantity); err != nil {
		return nil, fmt.Errorf("error adjusting stock: %w", err)
	}
	if err := e.stock.Adjust(ctx, product.ID, to, quantity); err != nil {
		return nil, fmt.Errorf("error adjusting stock: %w", err)
	}

	return success(fmt.Sprintf("Moved %d x %s from %s to %s.", quantity, product.Name, from, to), nil), nil
}

func (e *Executor) addProduct(ctx context.Context, params map[string]interface{}) (*assistant.CommandResult, error) {
	name := paramString(params, "name")
	partNumber := paramString(params, "partNumber")

	if partNumber != "" {
		existing, err := e.products.FindByPartNumber(ctx, partNumber)
		if err != nil {
			return nil, fmt.Errorf("error checking part number: %w", err)
		}
		if existing != nil {
			return failure(fmt.Sprintf("Part number %s is already used by %s.", partNumber, existing.Name)), nil
		}
	}

	product := &domain.Product{
		Name:         name,
		PartNumber:   partNumber,
		Category:     paramString(params, "category"),
		Manufacturer: paramString(params, "manufacturer"),
		SupplierName: paramString(params, "supplier"),
		Active:       true,
	}
	product.CostPrice, _ = paramFloat(params, "cost")
	product.SalePrice, _ = paramFloat(params, "price")
	product.MinStock, _ = paramInt(params, "minStock")

	if err := e.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("error creating product: %w", err)
	}

	message := fmt.Sprintf("Added %s to the catalogue.", product.Name)

	// when the product was created on the back of an add-stock command,
	// the carried quantity/location book the initial stock too
	quantity, qErr := paramInt(params, "quantity")
	location := paramString(params, "location")
	if qErr == nil && quantity > 0 && location != "" {
		if err := e.stock.Adjust(ctx, product.ID, location, quantity); err != nil {
			return nil, fmt.Errorf("error booking initial stock: %w", err)
		}
		message = fmt.Sprintf("Added %s to the catalogue and put %d in %s.", product.Name, quantity, location)
	}

	return success(message, map[string]interface{}{"product_id": product.ID}), nil
}

func (e *Executor) updateProduct(ctx context.Context, params map[string]interface{}) (*assistant.CommandResult, error) {
	item := paramString(params, "item")
	product, err := e.findProduct(ctx, item)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return failure(fmt.Sprintf("I don't have %s in the catalogue.", item)), nil
	}

	var changed []string
	if name := paramString(params, "name"); name != "" {
		product.Name = name
		changed = append(changed, "name")
	}
	if cost, err := paramFloat(params, "cost"); err == nil {
		product.CostPrice = cost
		changed = append(changed, "cost price")
	}
	if price, err := paramFloat(params, "price"); err == nil {
		product.SalePrice = price
		changed = append(changed, "sale price")
	}
	if category := paramString(params, "category"); category != "" {
		product.Category = category
		changed = append(changed, "category")
	}
	if minStock, err := paramInt(params, "minStock"); err == nil {
		product.MinStock = minStock
		changed = append(changed, "minimum stock")
	}

	if len(changed) == 0 {
		return failure(fmt.Sprintf("I couldn't tell what you want to change about %s.", product.Name)), nil
	}

	if err := e.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("error updating product: %w", err)
	}
	return success(fmt.Sprintf("Updated %s for %s.", strings.Join(changed, ", "), product.Name), nil), nil
}

func (e *Executor) createJob(ctx context.Context, params map[string]interface{}) (*assistant.CommandResult, error) {
	customerName := paramString(params, "customer")
	description := paramString(params, "description")

	matches, err := e.customers.FindByName(ctx, customerName)
	if err != nil {
		return nil, fmt.Errorf("error finding customer: %w", err)
	}
	if len(matches) == 0 {
		// create the customer first, then come back for the job
		return &assistant.CommandResult{
			NeedsInput:    true,
			Prompt:        fmt.Sprintf("%s isn't one of your customers yet. Want to add them first?", customerName),
			Options:       []string{"Yes", "No"},
			PendingAction: assistant.PendingConfirmCreateCustomer,
			Context:       assistant.CommandContext{Customer: customerName, Description: description},
			ResumeAction:  assistant.ActionCreateJob,
			ResumeParams:  params,
		}, nil
	}
	customer := matches[0]

	job := &domain.Job{
		CustomerID:  customer.ID,
		Description: description,
		Status:      domain.JobStatusOpen,
		Priority:    paramString(params, "priority"),
		Site:        paramString(params, "site"),
	}
	if raw := paramString(params, "scheduledDate"); raw != "" {
		if when, err := parseWhen(raw); err == nil {
			job.ScheduledAt = &when
			job.Status = domain.JobStatusScheduled
		}
	}

	if err := e.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("error creating job: %w", err)
	}

	message := fmt.Sprintf("Booked \"%s\" for %s.", job.Description, customer.Name)
	if job.ScheduledAt != nil {
		message = fmt.Sprintf("Booked \"%s\" for %s on %s.", job.Description, customer.Name, job.ScheduledAt.Format("Mon 2 Jan"))
	}
	return success(message, map[string]interface{}{"job_id": job.ID}), nil
}

func (e *Executor) updateJob(ctx context.Context, params map[string]interface{}) (*assistant.CommandResult, error) {
	reference := paramString(params, "job")
	job, err := e.findJob(ctx, reference)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return failure(fmt.Sprintf("I couldn't find a job matching %q.", reference)), nil
	}

	var changed []string
	if status := strings.ToLower(paramString(params, "status")); status != "" {
		switch status {
		case domain.JobStatusOpen, domain.JobStatusScheduled, domain.JobStatusDone, domain.JobStatusCancelled:
			job.Status = status
			changed = append(changed, "status to "+status)
		default:
			return failure(fmt.Sprintf("%q isn't a job status I know. Use open, scheduled, done or cancelled.", status)), nil
		}
	}
	if raw := paramString(params, "scheduledDate"); raw != "" {
		when, err := parseWhen(raw)
		if err != nil {
			return failure(fmt.Sprintf("I couldn't read %q as a date.", raw)), nil
		}
		job.ScheduledAt = &when
		if job.Status == domain.JobStatusOpen {
			job.Status = domain.JobStatusScheduled
		}
		changed = append(changed, "schedule")
	}
	if priority := paramString(params, "priority"); priority != "" {
		job.Priority = priority
		changed = append(changed, "priority")
	}

	if len(changed) == 0 {
		return failure("I couldn't tell what you want to change about the job."), nil
	}

	if err := e.jobs.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("error updating job: %w", err)
	}
	return success(fmt.Sprintf("Updated %s on \"%s\".", strings.Join(changed, ", "), job.Description), nil), nil
}

func (e *Executor) createCustomer(ctx context.Context, params map[string]interface{}) (*assistant.CommandResult, error) {
	name := paramString(params, "name")

	matches, err := e.customers.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("error checking customer: %w", err)
	}
	if len(matches) > 0 {
		return failure(fmt.Sprintf("%s is already one of your customers.", name)), nil
	}

	customer := &domain.Customer{
		Name:    name,
		Phone:   paramString(params, "phone"),
		Email:   paramString(params, "email"),
		Address: paramString(params, "address"),
		Notes:   paramString(params, "notes"),
		Active:  true,
	}
	if err := e.customers.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("error creating customer: %w", err)
	}
	return success(fmt.Sprintf("Added %s to your customers.", customer.Name), map[string]interface{}{"customer_id": customer.ID}), nil
}

func (e *Executor) addSupplier(ctx context.Context, params map[string]interface{}) (*assistant.CommandResult, error) {
	name := paramString(params, "name")

	matches, err := e.suppliers.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("error checking supplier: %w", err)
	}
	if len(matches) > 0 {
		return failure(fmt.Sprintf("%s is already in your supplier list.", name)), nil
	}

	supplier := &domain.Supplier{
		Name:          name,
		Phone:         paramString(params, "phone"),
		Email:         paramString(params, "email"),
		AccountNumber: paramString(params, "accountNumber"),
		Active:        true,
	}
	if err := e.suppliers.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("error creating supplier: %w", err)
	}
	return success(fmt.Sprintf("Added %s to your suppliers.", supplier.Name), map[string]interface{}{"supplier_id": supplier.ID}), nil
}

func (e *Executor) listJobs(ctx context.Context, params map[string]interface{}) (*assistant.CommandResult, error) {
	var jobs []*domain.Job
	var err error

	status := strings.ToLower(paramString(params, "status"))
	customerName := paramString(params, "customer")
	switch {
	case customerName != "":
		matches, findErr := e.customers.FindByName(ctx, customerName)
		if findErr != nil {
			return nil, fmt.Errorf("error finding customer: %w", findErr)
		}
		if len(matches) == 0 {
			return failure(fmt.Sprintf("I couldn't find a customer called %s.", customerName)), nil
		}
		jobs, err = e.jobs.FindByCustomer(ctx, matches[0].ID)
	case status != "":
		jobs, err = e.jobs.FindByStatus(ctx, status)
	default:
		jobs, err = e.jobs.FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("error listing jobs: %w", err)
	}

	if len(jobs) == 0 {
		return success("No jobs found.", nil), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d job(s):\n", len(jobs))
	for _, job := range jobs {
		who := job.CustomerID
		if job.Customer != nil {
			who = job.Customer.Name
		}
		fmt.Fprintf(&b, "- [%s] %s for %s", job.Status, job.Description, who)
		if job.ScheduledAt != nil {
			fmt.Fprintf(&b, " (%s)", job.ScheduledAt.Format("Mon 2 Jan"))
		}
		b.WriteString("\n")
	}
	return success(strings.TrimRight(b.String(), "\n"), map[string]interface{}{"count": len(jobs)}), nil
}

func (e *Executor) unclearQuery(ctx context.Context, params map[string]interface{}) (*assistant.CommandResult, error) {
	return success("I can add or move stock, check stock levels, add catalogue items, book and update jobs, and add customers or suppliers. What would you like to do?", nil), nil
}

// findProduct resolves a spoken item reference: exact part number first,
// then name match
func (e *Executor) findProduct(ctx context.Context, reference string) (*domain.Product, error) {
	if reference == "" {
		return nil, nil
	}
	product, err := e.products.FindByPartNumber(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("error finding product: %w", err)
	}
	if product != nil {
		return product, nil
	}
	matches, err := e.products.FindByName(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("error finding product: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

// findJob resolves a spoken job reference against customer names and job
// descriptions, preferring jobs that are still open
func (e *Executor) findJob(ctx context.Context, reference string) (*domain.Job, error) {
	if reference == "" {
		return nil, nil
	}
	jobs, err := e.jobs.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing jobs: %w", err)
	}

	needle := strings.ToLower(reference)
	var fallback *domain.Job
	for _, job := range jobs {
		haystack := strings.ToLower(job.Description)
		if job.Customer != nil {
			haystack += " " + strings.ToLower(job.Customer.Name)
		}
		if !strings.Contains(haystack, needle) {
			continue
		}
		if job.Status == domain.JobStatusOpen || job.Status == domain.JobStatusScheduled {
			return job, nil
		}
		if fallback == nil {
			fallback = job
		}
	}
	return fallback, nil
}

func success(message string, data map[string]interface{}) *assistant.CommandResult {
	return &assistant.CommandResult{Success: true, Message: message, Data: data}
}

func failure(message string) *assistant.CommandResult {
	return &assistant.CommandResult{Success: false, Message: message}
}

func paramString(params map[string]interface{}, key string) string {
	switch v := params[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

func paramInt(params map[string]interface{}, key string) (int, error) {
	switch v := params[key].(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	}
	return 0, fmt.Errorf("no value for %s", key)
}

func paramFloat(params map[string]interface{}, key string) (float64, error) {
	switch v := params[key].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	}
	return 0, fmt.Errorf("no value for %s", key)
}

// parseWhen reads the handful of date shapes the extractor produces
func parseWhen(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	layouts := []string{"2006-01-02", "02/01/2006", "2 January 2006", "2 Jan 2006"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}

	now := time.Now()
	switch strings.ToLower(raw) {
	case "today":
		return now, nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	}
	if day, ok := nextWeekday(strings.ToLower(raw)); ok {
		delta := (int(day) - int(now.Weekday()) + 6) % 7
		return now.AddDate(0, 0, delta+1), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %s", raw)
}

func nextWeekday(raw string) (time.Weekday, bool) {
	raw = strings.TrimPrefix(raw, "next ")
	days := map[string]time.Weekday{
		"monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
		"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
		"sunday": time.Sunday,
	}
	day, ok := days[raw]
	return day, ok
}
