package checkout

import (
	"context"
	"errors"
	"fmt"
)

// Service defines the checkout business logic.
type Service interface {
	// CreateInvoice validates the request and persists the invoice
	// atomically, returning the store-assigned invoice ID.
	CreateInvoice(ctx context.Context, req InvoiceRequest) (int64, error)

	ListPaymentTypes(ctx context.Context) ([]PaymentType, error)
	ListStates(ctx context.Context) ([]State, error)
	ListCitiesByState(ctx context.Context, stateID int64) ([]City, error)
}

type service struct {
	repo Repository
}

// NewService creates a new checkout service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateInvoice(ctx context.Context, req InvoiceRequest) (int64, error) {
	if len(req.Cart) == 0 {
		return 0, errors.New("cart must contain at least one item")
	}
	if req.UserID == 0 {
		return 0, errors.New("user id is required")
	}
	if req.CityID == 0 || req.Address == "" {
		return 0, errors.New("shipping address is required")
	}
	if req.PaymentTypeID == 0 {
		return 0, errors.New("payment type is required")
	}

	var lines []InvoiceLine
	for _, item := range req.Cart {
		line, err := buildLine(item, item.Price)
		if err != nil {
			return 0, err
		}
		lines = append(lines, line)

		// Constituents of a bundle entry are recorded at price zero; the
		// bundle's own line already carries the priced total.
		for _, sub := range item.SubItems {
			subLine, err := buildLine(sub, 0)
			if err != nil {
				return 0, err
			}
			lines = append(lines, subLine)
		}
	}

	inv := &Invoice{
		UserID:        req.UserID,
		CityID:        req.CityID,
		Address:       req.Address,
		Phone:         req.Phone,
		PaymentTypeID: req.PaymentTypeID,
		Discount:      0,
		Total:         req.Total,
		Tax:           req.Tax,
		TaxID:         invoiceTaxID,
		Observations:  req.Observations,
		Lines:         lines,
	}

	invoiceID, err := s.repo.CreateInvoice(ctx, inv)
	if err != nil {
		return 0, fmt.Errorf("create invoice: %w", err)
	}
	return invoiceID, nil
}

func buildLine(item CartItem, price float64) (InvoiceLine, error) {
	if item.Color == nil || item.Color.ColorID == 0 {
		return InvoiceLine{}, fmt.Errorf("cart item %d is missing a color", item.ItemID)
	}
	if item.Quantity <= 0 {
		return InvoiceLine{}, fmt.Errorf("quantity must be > 0 for item %d", item.ItemID)
	}

	line := InvoiceLine{
		ItemID:     item.ItemID,
		ItemTypeID: item.ItemTypeID,
		ColorID:    item.Color.ColorID,
		Quantity:   item.Quantity,
		Price:      price,
	}
	if item.Size != nil {
		sizeID := item.Size.SizeID
		line.SizeID = &sizeID
	}
	return line, nil
}

func (s *service) ListPaymentTypes(ctx context.Context) ([]PaymentType, error) {
	return s.repo.ListPaymentTypes(ctx)
}

func (s *service) ListStates(ctx context.Context) ([]State, error) {
	return s.repo.ListStates(ctx)
}

func (s *service) ListCitiesByState(ctx context.Context, stateID int64) ([]City, error) {
	return s.repo.ListCitiesByState(ctx, stateID)
}
