package patient

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/medekit/clinic-core/internal/patient/entity"
	patientrepo "github.com/medekit/clinic-core/internal/patient/repo"
	"github.com/medekit/clinic-core/pkg/utilities"
)

var ErrNotFound = errors.New("patient not found")

// Service encapsulates patient record business logic.
type Service struct {
	repo *patientrepo.PatientRepo
}

func NewService(db *sqlx.DB) *Service {
	return &Service{repo: patientrepo.NewPatientRepo(db)}
}

// Create assigns a record ID and defaults empty history blobs before insert.
func (s *Service) Create(ctx context.Context, p *entity.Patient) (*entity.Patient, error) {
	p.ID = utilities.NewRecordID("p")
	p.CreatedAt = time.Now().UTC()
	defaultHistories(p)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*entity.Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]entity.Patient, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Search(ctx context.Context, q string) ([]entity.Patient, error) {
	return s.repo.Search(ctx, q)
}

func (s *Service) Update(ctx context.Context, p *entity.Patient) (*entity.Patient, error) {
	defaultHistories(p)
	rows, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, p.ID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// defaultHistories keeps the required JSONB columns non-null. Menstrual
// history stays nullable, matching the intake form.
func defaultHistories(p *entity.Patient) {
	if p.MedicalHistory == nil {
		p.MedicalHistory = json.RawMessage("{}")
	}
	if p.PhysicalGenerals == nil {
		p.PhysicalGenerals = json.RawMessage("{}")
	}
	if p.FoodAndHabit == nil {
		p.FoodAndHabit = json.RawMessage("{}")
	}
}
