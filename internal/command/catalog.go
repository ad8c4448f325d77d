package command

import (
	"context"
	"fmt"

	"github.com/rmcastle/fieldops/pkg/domain"
)

// The flow engine's catalog view: existence checks for dependency
// confirmations and the supplier side effect at sub-flow completion.

// SupplierExists reports whether a supplier with this name is on file
func (e *Executor) SupplierExists(ctx context.Context, name string) (bool, error) {
	matches, err := e.suppliers.FindByName(ctx, name)
	if err != nil {
		return false, fmt.Errorf("error checking supplier: %w", err)
	}
	return len(matches) > 0, nil
}

// CreateSupplier creates a supplier from fields collected by the
// supplier-details flow
func (e *Executor) CreateSupplier(ctx context.Context, fields map[string]interface{}) error {
	supplier := &domain.Supplier{
		Name:          paramString(fields, "name"),
		Phone:         paramString(fields, "phone"),
		Email:         paramString(fields, "email"),
		AccountNumber: paramString(fields, "accountNumber"),
		Active:        true,
	}
	if supplier.Name == "" {
		return fmt.Errorf("supplier name is required")
	}
	if err := e.suppliers.Create(ctx, supplier); err != nil {
		return fmt.Errorf("error creating supplier: %w", err)
	}
	return nil
}

// CustomerExists reports whether a customer with this name is on file
func (e *Executor) CustomerExists(ctx context.Context, name string) (bool, error) {
	matches, err := e.customers.FindByName(ctx, name)
	if err != nil {
		return false, fmt.Errorf("error checking customer: %w", err)
	}
	return len(matches) > 0, nil
}
