package investigation

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/medekit/clinic-core/internal/investigation/entity"
	investigationrepo "github.com/medekit/clinic-core/internal/investigation/repo"
	"github.com/medekit/clinic-core/pkg/utilities"
)

var ErrNotFound = errors.New("investigation not found")

type Service struct {
	repo *investigationrepo.InvestigationRepo
}

func NewService(db *sqlx.DB) *Service {
	return &Service{repo: investigationrepo.NewInvestigationRepo(db)}
}

func (s *Service) Create(ctx context.Context, inv *entity.Investigation) (*entity.Investigation, error) {
	inv.ID = utilities.NewRecordID("inv")
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) Get(ctx context.Context, id string) (*entity.Investigation, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]entity.Investigation, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *Service) Update(ctx context.Context, inv *entity.Investigation) (*entity.Investigation, error) {
	rows, err := s.repo.Update(ctx, inv)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, inv.ID)
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
