package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/medekit/clinic-core/internal/invoice/entity"
)

// InvoiceRepo provides data access for the invoices table.
type InvoiceRepo struct {
	db *sqlx.DB
}

func NewInvoiceRepo(db *sqlx.DB) *InvoiceRepo { return &InvoiceRepo{db: db} }

// EnsureTable creates the invoices table if not exists (idempotent).
func (r *InvoiceRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS invoices (
  id TEXT PRIMARY KEY,
  patient_id TEXT NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
  number TEXT NOT NULL DEFAULT '',
  date TIMESTAMPTZ NOT NULL,
  items JSONB NOT NULL DEFAULT '[]'::jsonb,
  subtotal NUMERIC(12,2) NOT NULL DEFAULT 0,
  discount NUMERIC(12,2) NOT NULL DEFAULT 0,
  tax NUMERIC(12,2) NOT NULL DEFAULT 0,
  total NUMERIC(12,2) NOT NULL DEFAULT 0,
  payment_status TEXT NOT NULL DEFAULT 'pending',
  payment_mode TEXT,
  transaction_id TEXT,
  amount_paid NUMERIC(12,2) NOT NULL DEFAULT 0,
  balance NUMERIC(12,2) NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_invoices_patient ON invoices(patient_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

const columns = `id, patient_id, number, date, items, subtotal, discount, tax, total,
	payment_status, payment_mode, transaction_id, amount_paid, balance`

func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	const q = `INSERT INTO invoices (id, patient_id, number, date, items, subtotal, discount, tax, total,
		payment_status, payment_mode, transaction_id, amount_paid, balance)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`
	_, err := r.db.ExecContext(ctx, q, inv.ID, inv.PatientID, inv.Number, inv.Date, inv.Items,
		inv.Subtotal, inv.Discount, inv.Tax, inv.Total, inv.PaymentStatus, inv.PaymentMode,
		inv.TransactionID, inv.AmountPaid, inv.Balance)
	return err
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	const q = `SELECT ` + columns + ` FROM invoices WHERE id=$1`
	var row entity.Invoice
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns invoices newest-first with offset/limit pagination.
func (r *InvoiceRepo) List(ctx context.Context, limit, offset int) ([]entity.Invoice, error) {
	const q = `SELECT ` + columns + ` FROM invoices ORDER BY date DESC LIMIT $1 OFFSET $2`
	rows := []entity.Invoice{}
	if err := r.db.SelectContext(ctx, &rows, q, limit, offset); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *InvoiceRepo) ListByPatient(ctx context.Context, patientID string) ([]entity.Invoice, error) {
	const q = `SELECT ` + columns + ` FROM invoices WHERE patient_id=$1 ORDER BY date DESC`
	rows := []entity.Invoice{}
	if err := r.db.SelectContext(ctx, &rows, q, patientID); err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdatePayment records a payment against an invoice.
func (r *InvoiceRepo) UpdatePayment(ctx context.Context, id, status string, mode, transactionID *string, amountPaid, balance float64) (int64, error) {
	const q = `UPDATE invoices SET payment_status=$2, payment_mode=$3, transaction_id=$4,
		amount_paid=$5, balance=$6 WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, id, status, mode, transactionID, amountPaid, balance)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
