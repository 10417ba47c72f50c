package sqlite_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/sqlite"
	"github.com/Hiro-mackay/pdfops/tests/testutil/storetest"
)

func TestUserRepository(t *testing.T) {
	suite.Run(t, &storetest.UserRepositorySuite{
		NewRepository: func(t *testing.T) (repository.UserRepository, repository.TransactionManager) {
			tx := openMemory(t)
			return sqlite.NewUserRepository(tx), tx
		},
	})
}
