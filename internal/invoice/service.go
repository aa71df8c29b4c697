package invoice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/medekit/clinic-core/internal/invoice/entity"
	invoicerepo "github.com/medekit/clinic-core/internal/invoice/repo"
	"github.com/medekit/clinic-core/pkg/utilities"
)

var (
	ErrNotFound      = errors.New("invoice not found")
	ErrInvalidStatus = errors.New("invalid payment status")
)

type Service struct {
	repo *invoicerepo.InvoiceRepo
}

func NewService(db *sqlx.DB) *Service {
	return &Service{repo: invoicerepo.NewInvoiceRepo(db)}
}

func validStatus(s string) bool {
	switch s {
	case entity.PaymentPending, entity.PaymentPartial, entity.PaymentPaid:
		return true
	}
	return false
}

// Create assigns a record ID and a snowflake invoice number. A zero balance
// with an unpaid total is recomputed from total minus amount paid.
func (s *Service) Create(ctx context.Context, inv *entity.Invoice) (*entity.Invoice, error) {
	inv.ID = utilities.NewRecordID("b")
	inv.Number = utilities.NewInvoiceNumber()
	if inv.Items == nil {
		inv.Items = json.RawMessage("[]")
	}
	if inv.PaymentStatus == "" {
		inv.PaymentStatus = entity.PaymentPending
	}
	if !validStatus(inv.PaymentStatus) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, inv.PaymentStatus)
	}
	if inv.Balance == 0 && inv.Total > inv.AmountPaid {
		inv.Balance = inv.Total - inv.AmountPaid
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) Get(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]entity.Invoice, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]entity.Invoice, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// RecordPayment applies a payment and recomputes the balance against the
// stored total.
func (s *Service) RecordPayment(ctx context.Context, id, status string, mode, transactionID *string, amountPaid float64) (*entity.Invoice, error) {
	if !validStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	inv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	balance := inv.Total - amountPaid
	if balance < 0 {
		balance = 0
	}
	rows, err := s.repo.UpdatePayment(ctx, id, status, mode, transactionID, amountPaid, balance)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}
