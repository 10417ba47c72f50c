package mocks

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/internal/domain/service"
)

// MockOperationHistoryRepository is a mock of repository.OperationHistoryRepository
type MockOperationHistoryRepository struct {
	mock.Mock
}

func NewMockOperationHistoryRepository(t *testing.T) *MockOperationHistoryRepository {
	m := &MockOperationHistoryRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOperationHistoryRepository) Create(ctx context.Context, record *entity.OperationRecord) (int64, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOperationHistoryRepository) FindByID(ctx context.Context, id int64) (*entity.OperationRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.OperationRecord), args.Error(1)
}

func (m *MockOperationHistoryRepository) FindPage(ctx context.Context, filter repository.HistoryFilter, page repository.PageRequest) ([]*entity.OperationRecord, int64, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*entity.OperationRecord), args.Get(1).(int64), args.Error(2)
}

// ScanAll passes each record given in the first return value to fn
func (m *MockOperationHistoryRepository) ScanAll(ctx context.Context, filter repository.HistoryFilter, fn func(*entity.OperationRecord) error) error {
	args := m.Called(ctx, filter, fn)
	if records, ok := args.Get(0).([]*entity.OperationRecord); ok {
		for _, r := range records {
			if err := fn(r); err != nil {
				return err
			}
		}
	}
	return args.Error(1)
}

func (m *MockOperationHistoryRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockOperationHistoryRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOperationHistoryRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOperationHistoryRepository) DistinctOperationTypes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockOperationHistoryRepository) DistinctCountries(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockGeoResolver is a mock of service.GeoResolver
type MockGeoResolver struct {
	mock.Mock
}

func NewMockGeoResolver(t *testing.T) *MockGeoResolver {
	m := &MockGeoResolver{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockGeoResolver) Resolve(ctx context.Context, ip string) service.Location {
	args := m.Called(ctx, ip)
	return args.Get(0).(service.Location)
}

// MockHistoryTracker is a mock of service.HistoryTracker
type MockHistoryTracker struct {
	mock.Mock
}

func NewMockHistoryTracker(t *testing.T) *MockHistoryTracker {
	m := &MockHistoryTracker{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockHistoryTracker) Track(ctx context.Context, entry service.TrackEntry) {
	m.Called(ctx, entry)
}

// MockArchiveStorage is a mock of service.ArchiveStorage
type MockArchiveStorage struct {
	mock.Mock
}

func NewMockArchiveStorage(t *testing.T) *MockArchiveStorage {
	m := &MockArchiveStorage{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockArchiveStorage) PutObject(ctx context.Context, objectKey string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, objectKey, r, size, contentType)
	return args.Error(0)
}

func (m *MockArchiveStorage) DeleteObject(ctx context.Context, objectKey string) error {
	args := m.Called(ctx, objectKey)
	return args.Error(0)
}
