package checkout

import "context"

// Repository defines data access for the invoice workflow.
type Repository interface {
	// CreateInvoice resolves the shipping address, inserts the header, and
	// fans out the lines, all inside one transaction. It returns the
	// store-assigned invoice ID. On any failure nothing is persisted.
	CreateInvoice(ctx context.Context, inv *Invoice) (int64, error)

	ListPaymentTypes(ctx context.Context) ([]PaymentType, error)
	ListStates(ctx context.Context) ([]State, error)
	ListCitiesByState(ctx context.Context, stateID int64) ([]City, error)
}
