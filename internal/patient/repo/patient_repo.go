package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/medekit/clinic-core/internal/patient/entity"
)

// PatientRepo provides data access for the patients table using sqlx.
type PatientRepo struct {
	db *sqlx.DB
}

func NewPatientRepo(db *sqlx.DB) *PatientRepo { return &PatientRepo{db: db} }

// EnsureTable creates the patients table if not exists (idempotent).
func (r *PatientRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS patients (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  guardian_name TEXT,
  address TEXT NOT NULL DEFAULT '',
  age INT NOT NULL DEFAULT 0,
  sex TEXT NOT NULL DEFAULT '',
  occupation TEXT,
  mobile_number TEXT NOT NULL DEFAULT '',
  chief_complaints TEXT NOT NULL DEFAULT '',
  medical_history JSONB NOT NULL DEFAULT '{}'::jsonb,
  physical_generals JSONB NOT NULL DEFAULT '{}'::jsonb,
  menstrual_history JSONB,
  food_and_habit JSONB NOT NULL DEFAULT '{}'::jsonb,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_patients_name ON patients(name);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

const patientColumns = `id, name, guardian_name, address, age, sex, occupation, mobile_number,
	chief_complaints, medical_history, physical_generals, menstrual_history, food_and_habit, created_at`

func (r *PatientRepo) Create(ctx context.Context, p *entity.Patient) error {
	const q = `INSERT INTO patients (id, name, guardian_name, address, age, sex, occupation, mobile_number,
		chief_complaints, medical_history, physical_generals, menstrual_history, food_and_habit, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`
	_, err := r.db.ExecContext(ctx, q, p.ID, p.Name, p.GuardianName, p.Address, p.Age, p.Sex, p.Occupation,
		p.MobileNumber, p.ChiefComplaints, p.MedicalHistory, p.PhysicalGenerals, p.MenstrualHistory,
		p.FoodAndHabit, p.CreatedAt)
	return err
}

func (r *PatientRepo) GetByID(ctx context.Context, id string) (*entity.Patient, error) {
	const q = `SELECT ` + patientColumns + ` FROM patients WHERE id=$1`
	var row entity.Patient
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns patients newest-first with offset/limit pagination.
func (r *PatientRepo) List(ctx context.Context, limit, offset int) ([]entity.Patient, error) {
	const q = `SELECT ` + patientColumns + ` FROM patients ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows := []entity.Patient{}
	if err := r.db.SelectContext(ctx, &rows, q, limit, offset); err != nil {
		return nil, err
	}
	return rows, nil
}

// Search matches a case-insensitive substring against name or mobile number.
func (r *PatientRepo) Search(ctx context.Context, q string) ([]entity.Patient, error) {
	const query = `SELECT ` + patientColumns + ` FROM patients
		WHERE name ILIKE '%' || $1 || '%' OR mobile_number ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC`
	rows := []entity.Patient{}
	if err := r.db.SelectContext(ctx, &rows, query, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// Update replaces the mutable fields of a patient row. Returns affected rows
// so the service can report a missing patient.
func (r *PatientRepo) Update(ctx context.Context, p *entity.Patient) (int64, error) {
	const q = `UPDATE patients SET name=$2, guardian_name=$3, address=$4, age=$5, sex=$6, occupation=$7,
		mobile_number=$8, chief_complaints=$9, medical_history=$10, physical_generals=$11,
		menstrual_history=$12, food_and_habit=$13 WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, p.ID, p.Name, p.GuardianName, p.Address, p.Age, p.Sex, p.Occupation,
		p.MobileNumber, p.ChiefComplaints, p.MedicalHistory, p.PhysicalGenerals, p.MenstrualHistory, p.FoodAndHabit)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *PatientRepo) Delete(ctx context.Context, id string) (int64, error) {
	const q = `DELETE FROM patients WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
