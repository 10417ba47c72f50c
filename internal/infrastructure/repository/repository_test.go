package repository_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	domainrepo "github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/database"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/repository"
	"github.com/Hiro-mackay/pdfops/tests/testutil"
	"github.com/Hiro-mackay/pdfops/tests/testutil/storetest"
)

func requirePostgres(t *testing.T) {
	t.Helper()
	if testutil.DefaultTestConfig().DatabaseURL == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}
}

func newTxManager(t *testing.T) *database.TxManager {
	t.Helper()
	pool := testutil.SetupTestPostgres(t)
	testutil.TruncatePostgresTables(t, pool, "pdf_operation_history", "users")
	return database.NewTxManager(pool)
}

func TestHistoryRepository_Postgres(t *testing.T) {
	requirePostgres(t)

	suite.Run(t, &storetest.HistoryRepositorySuite{
		NewRepository: func(t *testing.T) domainrepo.OperationHistoryRepository {
			return repository.NewOperationHistoryRepository(newTxManager(t))
		},
	})
}

func TestUserRepository_Postgres(t *testing.T) {
	requirePostgres(t)

	suite.Run(t, &storetest.UserRepositorySuite{
		NewRepository: func(t *testing.T) (domainrepo.UserRepository, domainrepo.TransactionManager) {
			tx := newTxManager(t)
			return repository.NewUserRepository(tx), tx
		},
	})
}
