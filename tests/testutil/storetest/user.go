package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

// UserRepositorySuite exercises a UserRepository and its TransactionManager against an empty store
type UserRepositorySuite struct {
	suite.Suite

	// NewRepository returns a repository over an empty users table
	NewRepository func(t *testing.T) (repository.UserRepository, repository.TransactionManager)

	ctx  context.Context
	repo repository.UserRepository
	tx   repository.TransactionManager
}

func (s *UserRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.repo, s.tx = s.NewRepository(s.T())
}

func (s *UserRepositorySuite) newUser(email string) *entity.User {
	e, err := valueobject.NewEmail(email)
	s.Require().NoError(err)
	return entity.NewUser("Jane", "Doe", e, valueobject.PasswordFromHash("$2a$04$hash"), valueobject.RoleUser)
}

func (s *UserRepositorySuite) TestCreateAndFind() {
	user := s.newUser("jane@example.com")

	s.Require().NoError(s.repo.Create(s.ctx, user))
	s.Positive(user.ID)

	found, err := s.repo.FindByEmail(s.ctx, user.Email)
	s.Require().NoError(err)
	s.Equal(user.ID, found.ID)
	s.Equal("Jane Doe", found.FullName())
	s.Equal(valueobject.RoleUser, found.Role)
	s.True(found.Enabled)

	exists, err := s.repo.Exists(s.ctx, user.Email)
	s.Require().NoError(err)
	s.True(exists)
}

func (s *UserRepositorySuite) TestDuplicateEmailIsConflict() {
	s.Require().NoError(s.repo.Create(s.ctx, s.newUser("dup@example.com")))
	err := s.repo.Create(s.ctx, s.newUser("dup@example.com"))

	var appErr *apperror.AppError
	s.Require().True(errors.As(err, &appErr))
	s.Equal(apperror.CodeConflict, appErr.Code)
}

func (s *UserRepositorySuite) TestUpdateRole() {
	user := s.newUser("promote@example.com")
	s.Require().NoError(s.repo.Create(s.ctx, user))

	user.Promote(valueobject.RoleAdmin)
	s.Require().NoError(s.repo.Update(s.ctx, user))

	found, err := s.repo.FindByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(valueobject.RoleAdmin, found.Role)
}

func (s *UserRepositorySuite) TestFindMissingIsNotFound() {
	_, err := s.repo.FindByID(s.ctx, 999999)
	s.True(apperror.IsNotFound(err))
}

func (s *UserRepositorySuite) TestTransactionRollbackOnError() {
	boom := errors.New("boom")

	err := s.tx.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, s.newUser("rollback@example.com")); err != nil {
			return err
		}
		return boom
	})
	s.Require().ErrorIs(err, boom)

	email, _ := valueobject.NewEmail("rollback@example.com")
	exists, err := s.repo.Exists(s.ctx, email)
	s.Require().NoError(err)
	s.False(exists)
}
