package checkout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrUnknownReference marks an integrity failure caused by the request
// pointing at a nonexistent item, color, size, city, or payment type.
var ErrUnknownReference = errors.New("invoice references unknown catalog or lookup data")

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// CreateInvoice runs the full workflow in a single transaction: address
// resolve-or-insert, header insert, line fan-out, commit.
func (r *postgresRepo) CreateInvoice(ctx context.Context, inv *Invoice) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	addressID, err := resolveAddress(ctx, tx, inv)
	if err != nil {
		return 0, classify(fmt.Errorf("resolve address: %w", err))
	}

	var invoiceID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO invoices
		  (user_id, status_id, payment_type_id, address_id, discount, total, tax, tax_id, observations)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING invoice_id`,
		inv.UserID, invoiceStatusCreated, inv.PaymentTypeID, addressID,
		inv.Discount, inv.Total, inv.Tax, inv.TaxID, inv.Observations,
	).Scan(&invoiceID)
	if err != nil {
		return 0, classify(fmt.Errorf("insert invoice: %w", err))
	}

	for _, line := range inv.Lines {
		var sizeID sql.NullInt64
		if line.SizeID != nil {
			sizeID = sql.NullInt64{Int64: *line.SizeID, Valid: true}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO invoice_items
			  (invoice_id, item_id, item_type_id, color_id, size_id, quantity, price)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			invoiceID, line.ItemID, line.ItemTypeID, line.ColorID, sizeID, line.Quantity, line.Price)
		if err != nil {
			return 0, classify(fmt.Errorf("insert invoice_item: %w", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return invoiceID, nil
}

// resolveAddress returns the ID of the address row matching the invoice's
// (user, city, address, phone) tuple, inserting one if absent. The
// addresses table carries a unique constraint over the tuple, so a
// concurrent checkout inserting the same address makes the INSERT a no-op
// and the final SELECT picks up the winner's row.
func resolveAddress(ctx context.Context, tx *sql.Tx, inv *Invoice) (int64, error) {
	const selectAddress = `
		SELECT address_id FROM addresses
		WHERE user_id = $1 AND city_id = $2 AND address = $3 AND phone = $4`

	var addressID int64
	err := tx.QueryRowContext(ctx, selectAddress,
		inv.UserID, inv.CityID, inv.Address, inv.Phone).Scan(&addressID)
	if err == nil {
		return addressID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO addresses (user_id, city_id, address, phone)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id, city_id, address, phone) DO NOTHING
		RETURNING address_id`,
		inv.UserID, inv.CityID, inv.Address, inv.Phone).Scan(&addressID)
	if err == nil {
		return addressID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	// Lost the insert race; the conflicting row is committed by now.
	err = tx.QueryRowContext(ctx, selectAddress,
		inv.UserID, inv.CityID, inv.Address, inv.Phone).Scan(&addressID)
	return addressID, err
}

// classify maps integrity violations onto ErrUnknownReference so handlers
// can distinguish bad references from store faults without leaking driver
// error text.
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
		return fmt.Errorf("%w: %s", ErrUnknownReference, pqErr.Constraint)
	}
	return err
}

// ── lookups ──────────────────────────────────────────────────────────────────

func (r *postgresRepo) ListPaymentTypes(ctx context.Context) ([]PaymentType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT payment_type_id, name FROM payment_types`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []PaymentType
	for rows.Next() {
		var t PaymentType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *postgresRepo) ListStates(ctx context.Context) ([]State, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT state_id, name FROM states`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var states []State
	for rows.Next() {
		var s State
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		states = append(states, s)
	}
	return states, rows.Err()
}

func (r *postgresRepo) ListCitiesByState(ctx context.Context, stateID int64) ([]City, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT city_id, name FROM cities WHERE state_id = $1`, stateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []City
	for rows.Next() {
		var c City
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}
