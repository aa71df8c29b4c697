package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/medekit/clinic-core/internal/credential"
	"github.com/medekit/clinic-core/internal/user/entity"
	userrepo "github.com/medekit/clinic-core/internal/user/repo"
)

var (
	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike, so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
)

// Service orchestrates authentication and account lifecycle flows.
type Service struct {
	repo   *userrepo.UserRepo
	logger *zap.SugaredLogger
}

func NewService(db *sqlx.DB, logger *zap.SugaredLogger) *Service {
	return &Service{repo: userrepo.NewUserRepo(db), logger: logger}
}

// NormalizeEmail lowercases and trims an email for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Authenticate verifies an email/password pair. A successful match against
// the legacy digest triggers a rehash to the current scheme; that write is
// best-effort and never fails the login, since repeated logins converge on
// the same bcrypt target anyway.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, scheme := credential.Verify(password, u.PasswordHash)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if scheme == credential.SchemeLegacy {
		if hash, newScheme, hErr := credential.Hash(password); hErr != nil {
			s.logger.Warnw("credential rehash failed", "user_id", u.ID, "err", hErr)
		} else if uErr := s.repo.UpdatePassword(ctx, u.ID, hash, newScheme); uErr != nil {
			s.logger.Warnw("credential rehash not persisted", "user_id", u.ID, "err", uErr)
		} else {
			u.PasswordHash = hash
			u.PasswordScheme = newScheme
		}
	}

	return u, nil
}

// Register creates an account with a current-scheme credential.
func (s *Service) Register(ctx context.Context, email, fullName, password string, role entity.Role) (*entity.User, error) {
	email = NormalizeEmail(email)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hash, scheme, err := credential.Hash(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:          email,
		FullName:       fullName,
		Role:           role,
		Active:         true,
		PasswordHash:   hash,
		PasswordScheme: scheme,
	}
	if _, err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// GetByID fetches a user, mapping a missing row to ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// List returns a page of accounts.
func (s *Service) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// UpdateRole changes a user's role.
func (s *Service) UpdateRole(ctx context.Context, id int64, role entity.Role) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.UpdateRole(ctx, id, role)
}

// SetActive enables or disables an account.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, id, active)
}

// ChangePassword verifies the current password and stores a new
// current-scheme hash. Unlike the login-path rehash this write must succeed.
func (s *Service) ChangePassword(ctx context.Context, id int64, current, next string) error {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if ok, _ := credential.Verify(current, u.PasswordHash); !ok {
		return ErrInvalidCredentials
	}
	hash, scheme, err := credential.Hash(next)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, hash, scheme)
}
