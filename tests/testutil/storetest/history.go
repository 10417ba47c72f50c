// Package storetest holds behaviour suites shared by every storage backend
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/pkg/apperror"
)

// HistoryRepositorySuite exercises an OperationHistoryRepository against an empty store
type HistoryRepositorySuite struct {
	suite.Suite

	// NewRepository returns a repository over an empty history table
	NewRepository func(t *testing.T) repository.OperationHistoryRepository

	ctx  context.Context
	repo repository.OperationHistoryRepository
	base time.Time
}

func (s *HistoryRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = s.NewRepository(s.T())
	s.base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func (s *HistoryRepositorySuite) create(userID int64, op string, ts time.Time, country, source string) int64 {
	id, err := s.repo.Create(s.ctx, &entity.OperationRecord{
		UserID:         userID,
		UserName:       "Jane Doe",
		UserEmail:      "jane@example.com",
		OperationType:  op,
		Timestamp:      ts,
		SourceType:     source,
		IPAddress:      "203.0.113.5",
		Country:        country,
		State:          "Tokyo",
		UserAgent:      "curl/8.0",
		RequestDetails: "details",
	})
	s.Require().NoError(err)
	return id
}

func (s *HistoryRepositorySuite) TestCreate_AssignsIDAndRoundTrips() {
	ts := time.Date(2024, 5, 1, 12, 30, 15, 123456000, time.UTC)
	id := s.create(1, "MERGE_PDF", ts, "Japan", "API")
	s.Positive(id)

	got, err := s.repo.FindByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(id, got.ID)
	s.Equal("MERGE_PDF", got.OperationType)
	s.True(ts.Equal(got.Timestamp))
	s.Equal("Japan", got.Country)
	s.Equal("curl/8.0", got.UserAgent)
}

func (s *HistoryRepositorySuite) TestFindPage_OrderedNewestFirst() {
	t1 := s.create(1, "MERGE_PDF", s.base, "", "API")
	t2 := s.create(1, "SPLIT_PDF", s.base.Add(time.Minute), "", "API")
	t3 := s.create(1, "ROTATE_PAGES", s.base.Add(2*time.Minute), "", "API")

	page0, total, err := s.repo.FindPage(s.ctx, repository.HistoryFilter{}, repository.PageRequest{Page: 0, Size: 2})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Require().Len(page0, 2)
	s.Equal(t3, page0[0].ID)
	s.Equal(t2, page0[1].ID)

	page1, _, err := s.repo.FindPage(s.ctx, repository.HistoryFilter{}, repository.PageRequest{Page: 1, Size: 2})
	s.Require().NoError(err)
	s.Require().Len(page1, 1)
	s.Equal(t1, page1[0].ID)
}

func (s *HistoryRepositorySuite) TestFindPage_TieBrokenByIDDesc() {
	a := s.create(1, "MERGE_PDF", s.base, "", "API")
	b := s.create(1, "MERGE_PDF", s.base, "", "API")

	records, _, err := s.repo.FindPage(s.ctx, repository.HistoryFilter{}, repository.PageRequest{Page: 0, Size: 10})
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(b, records[0].ID)
	s.Equal(a, records[1].ID)
}

func (s *HistoryRepositorySuite) TestFindPage_ConjunctiveFilter() {
	uid := int64(2)
	s.create(1, "MERGE_PDF", s.base, "Japan", "API")
	want := s.create(2, "MERGE_PDF", s.base.Add(time.Hour), "Japan", "Frontend")
	s.create(2, "SPLIT_PDF", s.base.Add(time.Hour), "Japan", "Frontend")
	s.create(2, "MERGE_PDF", s.base.Add(72*time.Hour), "Japan", "Frontend")

	start := s.base
	end := s.base.Add(24 * time.Hour)
	records, total, err := s.repo.FindPage(s.ctx, repository.HistoryFilter{
		UserID:        &uid,
		OperationType: "MERGE_PDF",
		StartDate:     &start,
		EndDate:       &end,
		Country:       "Japan",
		SourceType:    "Frontend",
	}, repository.PageRequest{Page: 0, Size: 20})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(records, 1)
	s.Equal(want, records[0].ID)
}

func (s *HistoryRepositorySuite) TestFindPage_DateBoundsInclusive() {
	at := s.create(1, "MERGE_PDF", s.base, "", "API")

	start, end := s.base, s.base
	records, _, err := s.repo.FindPage(s.ctx, repository.HistoryFilter{StartDate: &start, EndDate: &end}, repository.PageRequest{Size: 5})
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(at, records[0].ID)
}

func (s *HistoryRepositorySuite) TestDeleteByID_OnceThenFalse() {
	id := s.create(1, "MERGE_PDF", s.base, "", "API")

	deleted, err := s.repo.DeleteByID(s.ctx, id)
	s.Require().NoError(err)
	s.True(deleted)

	deleted, err = s.repo.DeleteByID(s.ctx, id)
	s.Require().NoError(err)
	s.False(deleted)

	_, err = s.repo.FindByID(s.ctx, id)
	var appErr *apperror.AppError
	s.Require().True(errors.As(err, &appErr))
	s.Equal(apperror.CodeNotFound, appErr.Code)

	// 削除したIDは再利用されない
	next := s.create(1, "MERGE_PDF", s.base, "", "API")
	s.NotEqual(id, next)
}

func (s *HistoryRepositorySuite) TestDeleteAll_ThenEmpty() {
	s.create(1, "MERGE_PDF", s.base, "", "API")
	s.create(2, "SPLIT_PDF", s.base, "", "API")

	n, err := s.repo.DeleteAll(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	records, total, err := s.repo.FindPage(s.ctx, repository.HistoryFilter{}, repository.PageRequest{Page: 0, Size: 20})
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(records)
}

func (s *HistoryRepositorySuite) TestDeleteBefore() {
	s.create(1, "MERGE_PDF", s.base.Add(-48*time.Hour), "", "API")
	keep := s.create(1, "MERGE_PDF", s.base, "", "API")

	n, err := s.repo.DeleteBefore(s.ctx, s.base.Add(-time.Hour))
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	records, _, err := s.repo.FindPage(s.ctx, repository.HistoryFilter{}, repository.PageRequest{Size: 10})
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(keep, records[0].ID)
}

func (s *HistoryRepositorySuite) TestScanAll_StreamsInOrderAndStopsOnError() {
	s.create(1, "MERGE_PDF", s.base, "", "API")
	s.create(1, "SPLIT_PDF", s.base.Add(time.Minute), "", "API")

	var ops []string
	err := s.repo.ScanAll(s.ctx, repository.HistoryFilter{}, func(r *entity.OperationRecord) error {
		ops = append(ops, r.OperationType)
		return nil
	})
	s.Require().NoError(err)
	s.Equal([]string{"SPLIT_PDF", "MERGE_PDF"}, ops)

	stop := errors.New("stop")
	calls := 0
	err = s.repo.ScanAll(s.ctx, repository.HistoryFilter{}, func(*entity.OperationRecord) error {
		calls++
		return stop
	})
	s.ErrorIs(err, stop)
	s.Equal(1, calls)
}

func (s *HistoryRepositorySuite) TestDistinctValues() {
	s.create(1, "SPLIT_PDF", s.base, "Japan", "API")
	s.create(1, "MERGE_PDF", s.base, "", "API")
	s.create(1, "MERGE_PDF", s.base, "Germany", "API")

	types, err := s.repo.DistinctOperationTypes(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"MERGE_PDF", "SPLIT_PDF"}, types)

	countries, err := s.repo.DistinctCountries(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Germany", "Japan"}, countries)
}
