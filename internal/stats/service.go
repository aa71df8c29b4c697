// Package stats serves the dashboard aggregation: entity counts and revenue
// totals computed in SQL.
package stats

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Dashboard is the aggregate snapshot shown on the clinic dashboard.
type Dashboard struct {
	TotalPatients      int64   `db:"-" json:"total_patients"`
	TotalInvoices      int64   `db:"-" json:"total_invoices"`
	TotalTreatments    int64   `db:"-" json:"total_treatments"`
	TotalRevenue       float64 `db:"-" json:"total_revenue"`
	PaidRevenue        float64 `db:"-" json:"paid_revenue"`
	OutstandingRevenue float64 `db:"-" json:"outstanding_revenue"`
}

type Service struct {
	db *sqlx.DB
}

func NewService(db *sqlx.DB) *Service { return &Service{db: db} }

// Dashboard computes the counts and revenue sums. Aggregation happens in the
// database; no rows are pulled into the process.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	if err := s.db.GetContext(ctx, &d.TotalPatients, `SELECT COUNT(*) FROM patients`); err != nil {
		return nil, err
	}
	if err := s.db.GetContext(ctx, &d.TotalTreatments, `SELECT COUNT(*) FROM treatments`); err != nil {
		return nil, err
	}
	var rev struct {
		Count int64   `db:"count"`
		Total float64 `db:"total"`
		Paid  float64 `db:"paid"`
	}
	const q = `SELECT COUNT(*) AS count, COALESCE(SUM(total),0) AS total, COALESCE(SUM(amount_paid),0) AS paid FROM invoices`
	if err := s.db.GetContext(ctx, &rev, q); err != nil {
		return nil, err
	}
	d.TotalInvoices = rev.Count
	d.TotalRevenue = rev.Total
	d.PaidRevenue = rev.Paid
	d.OutstandingRevenue = rev.Total - rev.Paid
	return &d, nil
}
