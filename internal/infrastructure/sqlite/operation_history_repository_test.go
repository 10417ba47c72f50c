package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/internal/infrastructure/sqlite"
	"github.com/Hiro-mackay/pdfops/tests/testutil/storetest"
)

func openMemory(t *testing.T) *sqlite.TxManager {
	t.Helper()
	db, err := sqlite.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlite.NewTxManager(db)
}

func TestHistoryRepository(t *testing.T) {
	suite.Run(t, &storetest.HistoryRepositorySuite{
		NewRepository: func(t *testing.T) repository.OperationHistoryRepository {
			return sqlite.NewOperationHistoryRepository(openMemory(t))
		},
	})
}
