package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/medekit/clinic-core/internal/investigation/entity"
)

// InvestigationRepo provides data access for the investigations table.
type InvestigationRepo struct {
	db *sqlx.DB
}

func NewInvestigationRepo(db *sqlx.DB) *InvestigationRepo {
	return &InvestigationRepo{db: db}
}

// EnsureTable creates the investigations table if not exists (idempotent).
func (r *InvestigationRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS investigations (
  id TEXT PRIMARY KEY,
  patient_id TEXT NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
  type TEXT NOT NULL DEFAULT '',
  details TEXT NOT NULL DEFAULT '',
  date TIMESTAMPTZ NOT NULL,
  file_url TEXT
);
CREATE INDEX IF NOT EXISTS idx_investigations_patient ON investigations(patient_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

const columns = `id, patient_id, type, details, date, file_url`

func (r *InvestigationRepo) Create(ctx context.Context, inv *entity.Investigation) error {
	const q = `INSERT INTO investigations (id, patient_id, type, details, date, file_url)
		VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.db.ExecContext(ctx, q, inv.ID, inv.PatientID, inv.Type, inv.Details, inv.Date, inv.FileURL)
	return err
}

func (r *InvestigationRepo) GetByID(ctx context.Context, id string) (*entity.Investigation, error) {
	const q = `SELECT ` + columns + ` FROM investigations WHERE id=$1`
	var row entity.Investigation
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *InvestigationRepo) ListByPatient(ctx context.Context, patientID string) ([]entity.Investigation, error) {
	const q = `SELECT ` + columns + ` FROM investigations WHERE patient_id=$1 ORDER BY date DESC`
	rows := []entity.Investigation{}
	if err := r.db.SelectContext(ctx, &rows, q, patientID); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *InvestigationRepo) Update(ctx context.Context, inv *entity.Investigation) (int64, error) {
	const q = `UPDATE investigations SET type=$2, details=$3, date=$4, file_url=$5 WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, inv.ID, inv.Type, inv.Details, inv.Date, inv.FileURL)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *InvestigationRepo) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM investigations WHERE id=$1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
