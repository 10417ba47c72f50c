package query_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/internal/usecase/history/query"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
	"github.com/Hiro-mackay/pdfops/tests/testutil/mocks"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newRecord(id int64, op string, ts time.Time) *entity.OperationRecord {
	return &entity.OperationRecord{
		ID:             id,
		UserID:         1,
		UserName:       "Jane Doe",
		UserEmail:      "jane@example.com",
		OperationType:  op,
		Timestamp:      ts,
		SourceType:     "API",
		IPAddress:      "203.0.113.5",
		Country:        "Japan",
		State:          "Tokyo",
		UserAgent:      "curl/8.0",
		RequestDetails: "details",
	}
}

func requireValidationError(t *testing.T, err error) {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeValidationError, appErr.Code)
}

func TestGetOperationHistoryQuery_Execute_ReturnsPage(t *testing.T) {
	ctx := context.Background()
	historyRepo := mocks.NewMockOperationHistoryRepository(t)
	records := []*entity.OperationRecord{
		newRecord(3, "ROTATE_PAGES", base.Add(2*time.Minute)),
		newRecord(2, "SPLIT_PDF", base.Add(time.Minute)),
	}
	historyRepo.On("FindPage", ctx, repository.HistoryFilter{}, repository.PageRequest{Page: 0, Size: 2}).
		Return(records, int64(3), nil)

	page, err := query.NewGetOperationHistoryQuery(historyRepo).Execute(ctx, query.GetOperationHistoryInput{Page: 0, Size: 2})

	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages())
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Items[0].ID)
	assert.Equal(t, "2024-05-01 12:02:00", page.Items[0].Timestamp)
}

func TestGetOperationHistoryQuery_Execute_InvalidPagination(t *testing.T) {
	tests := []struct {
		name string
		page int
		size int
	}{
		{"negative page", -1, 20},
		{"zero size", 0, 0},
		{"oversized", 0, query.MaxPageSize + 1},
		{"offset overflow", math.MaxInt/query.MaxPageSize + 1, query.MaxPageSize},
		{"max page", math.MaxInt, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			historyRepo := mocks.NewMockOperationHistoryRepository(t)

			page, err := query.NewGetOperationHistoryQuery(historyRepo).Execute(context.Background(), query.GetOperationHistoryInput{Page: tt.page, Size: tt.size})

			assert.Nil(t, page)
			requireValidationError(t, err)
		})
	}
}

func TestSearchOperationHistoryQuery_Execute_PassesFilter(t *testing.T) {
	ctx := context.Background()
	historyRepo := mocks.NewMockOperationHistoryRepository(t)
	start, end := base, base.Add(24*time.Hour)
	filter := repository.HistoryFilter{OperationType: "MERGE_PDF", StartDate: &start, EndDate: &end}

	historyRepo.On("FindPage", ctx, filter, repository.PageRequest{Page: 1, Size: 10}).
		Return([]*entity.OperationRecord{newRecord(1, "MERGE_PDF", base)}, int64(11), nil)

	page, err := query.NewSearchOperationHistoryQuery(historyRepo).Execute(ctx, query.SearchOperationHistoryInput{
		Filter: filter, Page: 1, Size: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), page.Total)
	assert.Equal(t, 1, page.Page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "MERGE_PDF", page.Items[0].OperationType)
}

func TestSearchOperationHistoryQuery_Execute_InvertedDates(t *testing.T) {
	historyRepo := mocks.NewMockOperationHistoryRepository(t)
	start, end := base.Add(time.Hour), base

	_, err := query.NewSearchOperationHistoryQuery(historyRepo).Execute(context.Background(), query.SearchOperationHistoryInput{
		Filter: repository.HistoryFilter{StartDate: &start, EndDate: &end}, Page: 0, Size: 20,
	})

	requireValidationError(t, err)
}

func TestGetUserHistoryQuery_Execute_ScopesToUser(t *testing.T) {
	ctx := context.Background()
	historyRepo := mocks.NewMockOperationHistoryRepository(t)
	historyRepo.On("FindPage", ctx, mock.MatchedBy(func(f repository.HistoryFilter) bool {
		return f.UserID != nil && *f.UserID == 9 && f.OperationType == ""
	}), repository.PageRequest{Page: 0, Size: 20}).Return(nil, int64(0), nil)

	page, err := query.NewGetUserHistoryQuery(historyRepo).Execute(ctx, query.GetUserHistoryInput{UserID: 9, Page: 0, Size: 20})

	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
}

func TestExportHistoryCSVQuery_Execute_RoundTrips(t *testing.T) {
	ctx := context.Background()
	historyRepo := mocks.NewMockOperationHistoryRepository(t)

	tricky := newRecord(2, "ADD_WATERMARK", base)
	tricky.UserName = "Doe, Jane"
	tricky.RequestDetails = `Added watermark "DRAFT" to a.pdf, output: watermarked.pdf`
	records := []*entity.OperationRecord{tricky, newRecord(1, "MERGE_PDF", base.Add(-time.Hour))}
	historyRepo.On("ScanAll", ctx, repository.HistoryFilter{}, mock.Anything).Return(records, nil)

	var buf bytes.Buffer
	output, err := query.NewExportHistoryCSVQuery(historyRepo).Execute(ctx, &buf, query.ExportHistoryCSVInput{})

	require.NoError(t, err)
	assert.Equal(t, 2, output.Rows)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Doe, Jane", rows[1][1])
	assert.Equal(t, `Added watermark "DRAFT" to a.pdf, output: watermarked.pdf`, rows[1][10])
	assert.Equal(t, "1", rows[2][0])
}

func TestExportHistoryCSVQuery_Execute_EmptyWritesHeaderOnly(t *testing.T) {
	ctx := context.Background()
	historyRepo := mocks.NewMockOperationHistoryRepository(t)
	historyRepo.On("ScanAll", ctx, repository.HistoryFilter{}, mock.Anything).Return(nil, nil)

	var buf bytes.Buffer
	_, err := query.NewExportHistoryCSVQuery(historyRepo).Execute(ctx, &buf, query.ExportHistoryCSVInput{})

	require.NoError(t, err)
	assert.Equal(t, "ID,User,Email,Operation,Timestamp,Source,IP Address,Country,State,User Agent,Request Details\n", buf.String())
}

func TestExportHistoryCSVQuery_Execute_StoreFailure(t *testing.T) {
	ctx := context.Background()
	historyRepo := mocks.NewMockOperationHistoryRepository(t)
	historyRepo.On("ScanAll", ctx, repository.HistoryFilter{}, mock.Anything).Return(nil, errors.New("db down"))

	_, err := query.NewExportHistoryCSVQuery(historyRepo).Execute(ctx, &bytes.Buffer{}, query.ExportHistoryCSVInput{})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInternalError, appErr.Code)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "pdf_operations_history_2024-05-01_120000.csv", query.ExportFilename(base))
}

func TestListFilterOptionsQuery_Execute(t *testing.T) {
	ctx := context.Background()
	historyRepo := mocks.NewMockOperationHistoryRepository(t)
	historyRepo.On("DistinctOperationTypes", ctx).Return([]string{"MERGE_PDF", "LEGACY_OP"}, nil)
	historyRepo.On("DistinctCountries", ctx).Return([]string{"Japan"}, nil)

	output, err := query.NewListFilterOptionsQuery(historyRepo).Execute(ctx)

	require.NoError(t, err)
	assert.Contains(t, output.OperationTypes, "LEGACY_OP")
	assert.Contains(t, output.OperationTypes, "ROTATE_PAGES")
	assert.Len(t, output.OperationTypes, 11)
	assert.IsIncreasing(t, output.OperationTypes)
	assert.Equal(t, []string{"Japan"}, output.Countries)
	assert.Equal(t, []string{"API", "Frontend"}, output.SourceTypes)
}
