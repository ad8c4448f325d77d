package command

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmcastle/fieldops/pkg/assistant"
	"github.com/rmcastle/fieldops/pkg/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

type memProducts struct {
	items []*domain.Product
	next  int
}

func (m *memProducts) Create(_ context.Context, p *domain.Product) error {
	m.next++
	p.ID = fmt.Sprintf("p%d", m.next)
	m.items = append(m.items, p)
	return nil
}

func (m *memProducts) Update(_ context.Context, p *domain.Product) error {
	for i, existing := range m.items {
		if existing.ID == p.ID {
			m.items[i] = p
			return nil
		}
	}
	return fmt.Errorf("no product %s", p.ID)
}

func (m *memProducts) FindByID(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range m.items {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memProducts) FindByPartNumber(_ context.Context, partNumber string) (*domain.Product, error) {
	for _, p := range m.items {
		if strings.EqualFold(p.PartNumber, partNumber) {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memProducts) FindByName(_ context.Context, name string) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range m.items {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) FindAll(_ context.Context) ([]*domain.Product, error) {
	return m.items, nil
}

type memStock struct {
	levels []*domain.StockLevel
}

func (m *memStock) LevelsForProduct(_ context.Context, productID string) ([]*domain.StockLevel, error) {
	var out []*domain.StockLevel
	for _, l := range m.levels {
		if l.ProductID == productID && l.Quantity > 0 {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memStock) LevelAt(_ context.Context, productID, location string) (*domain.StockLevel, error) {
	for _, l := range m.levels {
		if l.ProductID == productID && strings.EqualFold(l.Location, location) {
			return l, nil
		}
	}
	return nil, nil
}

func (m *memStock) Adjust(_ context.Context, productID, location string, delta int) error {
	for _, l := range m.levels {
		if l.ProductID == productID && strings.EqualFold(l.Location, location) {
			l.Quantity += delta
			return nil
		}
	}
	m.levels = append(m.levels, &domain.StockLevel{ProductID: productID, Location: location, Quantity: delta})
	return nil
}

type memCustomers struct {
	items []*domain.Customer
	next  int
}

func (m *memCustomers) Create(_ context.Context, c *domain.Customer) error {
	m.next++
	c.ID = fmt.Sprintf("c%d", m.next)
	m.items = append(m.items, c)
	return nil
}

func (m *memCustomers) Update(_ context.Context, c *domain.Customer) error { return nil }

func (m *memCustomers) FindByID(_ context.Context, id string) (*domain.Customer, error) {
	for _, c := range m.items {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (m *memCustomers) FindByName(_ context.Context, name string) ([]*domain.Customer, error) {
	var out []*domain.Customer
	for _, c := range m.items {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCustomers) FindAll(_ context.Context) ([]*domain.Customer, error) {
	return m.items, nil
}

type memJobs struct {
	items []*domain.Job
	next  int
}

func (m *memJobs) Create(_ context.Context, j *domain.Job) error {
	m.next++
	j.ID = fmt.Sprintf("j%d", m.next)
	m.items = append(m.items, j)
	return nil
}

func (m *memJobs) Update(_ context.Context, j *domain.Job) error {
	for i, existing := range m.items {
		if existing.ID == j.ID {
			m.items[i] = j
			return nil
		}
	}
	return fmt.Errorf("no job %s", j.ID)
}

func (m *memJobs) FindByID(_ context.Context, id string) (*domain.Job, error) {
	for _, j := range m.items {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, nil
}

func (m *memJobs) FindByStatus(_ context.Context, status string) ([]*domain.Job, error) {
	var out []*domain.Job
	for _, j := range m.items {
		if j.Status == status {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *memJobs) FindByCustomer(_ context.Context, customerID string) ([]*domain.Job, error) {
	var out []*domain.Job
	for _, j := range m.items {
		if j.CustomerID == customerID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *memJobs) FindAll(_ context.Context) ([]*domain.Job, error) {
	return m.items, nil
}

type memSuppliers struct {
	items []*domain.Supplier
	next  int
}

func (m *memSuppliers) Create(_ context.Context, s *domain.Supplier) error {
	m.next++
	s.ID = fmt.Sprintf("s%d", m.next)
	m.items = append(m.items, s)
	return nil
}

func (m *memSuppliers) FindByID(_ context.Context, id string) (*domain.Supplier, error) {
	for _, s := range m.items {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (m *memSuppliers) FindByName(_ context.Context, name string) ([]*domain.Supplier, error) {
	var out []*domain.Supplier
	for _, s := range m.items {
		if strings.EqualFold(s.Name, name) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSuppliers) FindAll(_ context.Context) ([]*domain.Supplier, error) {
	return m.items, nil
}

type fixture struct {
	executor  *Executor
	products  *memProducts
	stock     *memStock
	customers *memCustomers
	jobs      *memJobs
	suppliers *memSuppliers
}

func newFixture() *fixture {
	f := &fixture{
		products:  &memProducts{},
		stock:     &memStock{},
		customers: &memCustomers{},
		jobs:      &memJobs{},
		suppliers: &memSuppliers{},
	}
	f.executor = NewExecutor(f.products, f.stock, f.customers, f.jobs, f.suppliers, nopLogger{})
	return f
}

func (f *fixture) seedProduct(name, partNumber string) *domain.Product {
	p := &domain.Product{Name: name, PartNumber: partNumber, Active: true}
	_ = f.products.Create(context.Background(), p)
	return p
}

func TestExecuteUnknownAction(t *testing.T) {
	f := newFixture()
	_, err := f.executor.Execute(context.Background(), "u1", "REBOOT_SERVER", nil)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestAddStockKnownItem(t *testing.T) {
	f := newFixture()
	p := f.seedProduct("M10 nuts", "M10-N")

	res, err := f.executor.Execute(context.Background(), "u1", assistant.ActionAddStock, map[string]interface{}{
		"item": "M10 nuts", "quantity": float64(5), "location": "rack 1 bin 6",
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "Added 5 x M10 nuts to rack 1 bin 6.", res.Message)
	level, _ := f.stock.LevelAt(context.Background(), p.ID, "rack 1 bin 6")
	require.NotNil(t, level)
	assert.Equal(t, 5, level.Quantity)
}

func TestAddStockUnknownItemAsksBeforeCreating(t *testing.T) {
	f := newFixture()

	res, err := f.executor.Execute(context.Background(), "u1", assistant.ActionAddStock, map[string]interface{}{
		"item": "cable", "quantity": float64(5), "location": "rack 1",
	})
	require.NoError(t, err)

	assert.True(t, res.NeedsInput)
	assert.Equal(t, assistant.PendingConfirmAddProduct, res.PendingAction)
	assert.Equal(t, "cable", res.Context.Item)
	assert.Equal(t, "5", res.Context.Quantity)
	assert.Equal(t, "rack 1", res.Context.Location)
	// nothing written yet
	assert.Empty(t, f.products.items)
	assert.Empty(t, f.stock.levels)
}

func TestUseStockInfersSingleLocation(t *testing.T) {
	f := newFixture()
	p := f.seedProduct("brake pads", "BP-20")
	_ = f.stock.Adjust(context.Background(), p.ID, "van 2", 10)

	res, err := f.executor.Execute(context.Background(), "u1", assistant.ActionUseStock, map[string]interface{}{
		"item": "brake pads", "quantity": float64(2),
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Contains(t, res.Message, "from van 2")
	level, _ := f.stock.LevelAt(context.Background(), p.ID, "van 2")
	assert.Equal(t, 8, level.Quantity)
}

func TestUseStockAmbiguousLocation(t *testing.T) {
	f := newFixture()
	p := f.seedProduct("brake pads", "BP-20")
	_ = f.stock.Adjust(context.Background(), p.ID, "van 2", 10)
	_ = f.stock.Adjust(context.Background(), p.ID, "warehouse", 4)

	res, err := f.executor.Execute(context.Background(), "u1", assistant.ActionUseStock, map[string]interface{}{
		"item": "brake pads", "quantity": float64(2),
	})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "more than one place")
}

func TestUseStockInsufficient(t *testing.T) {
	f := newFixture()
	p := f.seedProduct("compressor valves", "CV-1")
	_ = f.stock.Adjust(context.Background(), p.ID, "rack 1", 3)

	res, err := f.executor.Execute(context.Background(), "u1", assistant.ActionUseStock, map[string]interface{}{
		"item": "compressor valves", "quantity": float64(5), "location": "rack 1",
	})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, "Not enough compressor valves at rack 1: you have 3, asked to use 5.", res.Message)
	// the shortfall must not be written
	level, _ := f.stock.LevelAt(context.Background(), p.ID, "rack 1")
	assert.Equal(t, 3, level.Quantity)
}

func TestCheckStockTotals(t *testing.T) {
	f := newFixture()
	p := f.seedProduct("M10 nuts", "M10-N")
	_ = f.stock.Adjust(context.Background(), p.ID, "rack 1", 40)
	_ = f.stock.Adjust(context.Background(), p.ID, "van 2", 10)

	res, err := f.executor.Execute(context.Background(), "u1", assistant.ActionCheckStock, map[string]interface{}{
		"item": "M10 nuts",
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Contains(t, res.Message, "- rack 1: 40")
	assert.Contains(t, res.Message, "- van 2: 10")
	assert.Contains(t, res.Message, "Total: 50")
	assert.Equal(t, 50, res.Data["total"])
}

func TestTransferStockMovesBetweenLocations(t *testing.T) {
	f := newFixture()
	p := f.seedProduct("cable ties", "CT-100")
	_ = f.stock.Adjust(context.Background(), p.ID, "warehouse", 30)

	res, err := f.executor.Execute(context.Background(), "u1", assistant.ActionTransferStock, map[string]interface{}{
		"item": "cable ties", "quantity": float64(10), "fromLocation": "warehouse", "toLocation": "van 1",
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	from, _ := f.stock.LevelAt(context.Background(), p.ID, "warehouse")
	to, _ := f.stock.LevelAt(context.Background(), p.ID, "van 1")
	assert.Equal(t, 20, from.Quantity)
	assert.Equal(t, 10, to.Quantity)
}

func TestAddProductBooksCarriedStock(t *testing.T) {
	f := newFixture()

	res, err := f.executor.Execute(context.Background(), "u1", assistant.ActionAddProduct, map[string]interface{}{
		"name": "cable", "partNumber": "CAB-001", "cost": float64(25),
		"quantity": "5", "location": "rack 1",
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "Added cable to the catalogue and put 5 in rack 1.", res.Message)
	require.Len(t, f.products.items, 1)
	assert.Equal(t, 25.0, f.products.items[0].CostPrice)
	level, _ := f.stock.LevelAt(context.Background(), f.products.items[0].ID, "rack 1")
	require.NotNil(t, level)
	assert.Equal(t, 5, level.Quantity)
}

func TestAddProductRejectsDuplicatePartNumber(t *testing.T) {
	f := newFixture()
	f.seedProduct("cable", "CAB-001")

	res, err := f.executor.Execute(context.Background(), "u1", assistant.ActionAddProduct, map[string]interface{}{
		"name": "other cable", "partNumber": "CAB-001",
	})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "already used by cable")
	assert.Len(t, f.products.items, 1)
}

func TestUpdateProductListsChangedFields(t *testing.T) {
	f := newFixture()
	f.seedProduct("cable", "CAB-001")

	res, err := f.executor.Execute(context.Background(), "u1", assistant.ActionUpdateProduct, map[string]interface{}{
		"item": "CAB-001", "price": float64(30), "minStock": float64(10),
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Contains(t, res.Message, "sale price")
	assert.Contains(t, res.Message, "minimum stock")
	assert.Equal(t, 30.0, f.products.items[0].SalePrice)
	assert.Equal(t, 10, f.products.items[0].MinStock)
}

func TestCreateJobUnknownCustomerDefersToConfirmation(t *testing.T) {
	f := newFixture()

	params := map[string]interface{}{"customer": "John Hartley", "description": "boiler service"}
	res, err := f.executor.Execute(context.Background(), "u1", assistant.ActionCreateJob, params)
	require.NoError(t, err)

	assert.True(t, res.NeedsInput)
	assert.Equal(t, assistant.PendingConfirmCreateCustomer, res.PendingAction)
	assert.Equal(t, "John Hartley", res.Context.Customer)
	assert.Equal(t, assistant.ActionCreateJob, res.ResumeAction)
	assert.Equal(t, params, res.ResumeParams)
	assert.Empty(t, f.jobs.items)
}

func TestCreateJobScheduledDate(t *testing.T) {
	f := newFixture()
	_ = f.customers.Create(context.Background(), &domain.Customer{Name: "Mrs Patel", Active: true})

	res, err := f.executor.Execute(context.Background(), "u1", assistant.ActionCreateJob, map[string]interface{}{
		"customer": "Mrs Patel", "description": "boiler service", "scheduledDate": "2026-09-08",
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	require.Len(t, f.jobs.items, 1)
	job := f.jobs.items[0]
	assert.Equal(t, domain.JobStatusScheduled, job.Status)
	require.NotNil(t, job.ScheduledAt)
	assert.Contains(t, res.Message, "Tue 8 Sep")
}

func TestUpdateJobStatusValidation(t *testing.T) {
	f := newFixture()
	_ = f.jobs.Create(context.Background(), &domain.Job{
		Description: "boiler service", Status: domain.JobStatusOpen,
		Customer: &domain.Customer{Name: "John Hartley"},
	})

	res, err := f.executor.Execute(context.Background(), "u1", assistant.ActionUpdateJob, map[string]interface{}{
		"job": "Hartley", "status": "finished",
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "isn't a job status I know")

	res, err = f.executor.Execute(context.Background(), "u1", assistant.ActionUpdateJob, map[string]interface{}{
		"job": "Hartley", "status": "Done",
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, domain.JobStatusDone, f.jobs.items[0].Status)
}

func TestCreateCustomerRejectsDuplicate(t *testing.T) {
	f := newFixture()
	_ = f.customers.Create(context.Background(), &domain.Customer{Name: "John Hartley"})

	res, err := f.executor.Execute(context.Background(), "u1", assistant.ActionCreateCustomer, map[string]interface{}{
		"name": "John Hartley",
	})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "already one of your customers")
	assert.Len(t, f.customers.items, 1)
}

func TestListJobsFiltersByCustomer(t *testing.T) {
	f := newFixture()
	customer := &domain.Customer{Name: "John Hartley"}
	_ = f.customers.Create(context.Background(), customer)
	_ = f.jobs.Create(context.Background(), &domain.Job{
		CustomerID: customer.ID, Customer: customer,
		Description: "boiler service", Status: domain.JobStatusOpen,
	})
	_ = f.jobs.Create(context.Background(), &domain.Job{
		CustomerID: "c999", Description: "rewire", Status: domain.JobStatusOpen,
	})

	res, err := f.executor.Execute(context.Background(), "u1", assistant.ActionListJobs, map[string]interface{}{
		"customer": "Hartley",
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Contains(t, res.Message, "1 job(s):")
	assert.Contains(t, res.Message, "boiler service for John Hartley")
	assert.NotContains(t, res.Message, "rewire")
}

func TestCatalogSupplierRoundTrip(t *testing.T) {
	f := newFixture()

	exists, err := f.executor.SupplierExists(context.Background(), "PlumbCo")
	require.NoError(t, err)
	assert.False(t, exists)

	err = f.executor.CreateSupplier(context.Background(), map[string]interface{}{
		"name": "PlumbCo", "phone": "0161 496 0000",
	})
	require.NoError(t, err)

	exists, err = f.executor.SupplierExists(context.Background(), "PlumbCo")
	require.NoError(t, err)
	assert.True(t, exists)
	require.Len(t, f.suppliers.items, 1)
	assert.Equal(t, "0161 496 0000", f.suppliers.items[0].Phone)
}

func TestCatalogCreateSupplierNeedsName(t *testing.T) {
	f := newFixture()
	err := f.executor.CreateSupplier(context.Background(), map[string]interface{}{"phone": "12345"})
	assert.Error(t, err)
	assert.Empty(t, f.suppliers.items)
}
