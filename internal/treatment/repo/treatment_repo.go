package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/medekit/clinic-core/internal/treatment/entity"
)

// TreatmentRepo provides data access for the treatments table.
type TreatmentRepo struct {
	db *sqlx.DB
}

func NewTreatmentRepo(db *sqlx.DB) *TreatmentRepo { return &TreatmentRepo{db: db} }

// EnsureTable creates the treatments table if not exists (idempotent).
func (r *TreatmentRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS treatments (
  id TEXT PRIMARY KEY,
  patient_id TEXT NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
  date TIMESTAMPTZ NOT NULL,
  doctor TEXT NOT NULL DEFAULT '',
  observations TEXT NOT NULL DEFAULT '',
  medications TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_treatments_patient ON treatments(patient_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

const columns = `id, patient_id, date, doctor, observations, medications`

func (r *TreatmentRepo) Create(ctx context.Context, t *entity.Treatment) error {
	const q = `INSERT INTO treatments (id, patient_id, date, doctor, observations, medications)
		VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.db.ExecContext(ctx, q, t.ID, t.PatientID, t.Date, t.Doctor, t.Observations, t.Medications)
	return err
}

func (r *TreatmentRepo) GetByID(ctx context.Context, id string) (*entity.Treatment, error) {
	const q = `SELECT ` + columns + ` FROM treatments WHERE id=$1`
	var row entity.Treatment
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *TreatmentRepo) ListByPatient(ctx context.Context, patientID string) ([]entity.Treatment, error) {
	const q = `SELECT ` + columns + ` FROM treatments WHERE patient_id=$1 ORDER BY date DESC`
	rows := []entity.Treatment{}
	if err := r.db.SelectContext(ctx, &rows, q, patientID); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *TreatmentRepo) Update(ctx context.Context, t *entity.Treatment) (int64, error) {
	const q = `UPDATE treatments SET date=$2, doctor=$3, observations=$4, medications=$5 WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, t.ID, t.Date, t.Doctor, t.Observations, t.Medications)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *TreatmentRepo) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM treatments WHERE id=$1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
