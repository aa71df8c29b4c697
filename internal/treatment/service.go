package treatment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/medekit/clinic-core/internal/treatment/entity"
	treatmentrepo "github.com/medekit/clinic-core/internal/treatment/repo"
	"github.com/medekit/clinic-core/pkg/utilities"
)

var ErrNotFound = errors.New("treatment not found")

type Service struct {
	repo *treatmentrepo.TreatmentRepo
}

func NewService(db *sqlx.DB) *Service {
	return &Service{repo: treatmentrepo.NewTreatmentRepo(db)}
}

func (s *Service) Create(ctx context.Context, t *entity.Treatment) (*entity.Treatment, error) {
	t.ID = utilities.NewRecordID("t")
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, id string) (*entity.Treatment, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]entity.Treatment, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) Update(ctx context.Context, t *entity.Treatment) (*entity.Treatment, error) {
	rows, err := s.repo.Update(ctx, t)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, t.ID)
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
