package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/Hiro-mackay/pdfops/internal/domain/service"
)

// MockPDFProcessor is a mock of service.PDFProcessor
type MockPDFProcessor struct {
	mock.Mock
}

func NewMockPDFProcessor(t *testing.T) *MockPDFProcessor {
	m := &MockPDFProcessor{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func bytesOrNil(v any) []byte {
	if v == nil {
		return nil
	}
	return v.([]byte)
}

func (m *MockPDFProcessor) PageCount(ctx context.Context, doc []byte) (int, error) {
	args := m.Called(ctx, doc)
	return args.Int(0), args.Error(1)
}

func (m *MockPDFProcessor) Merge(ctx context.Context, docs ...[]byte) ([]byte, error) {
	args := m.Called(ctx, docs)
	return bytesOrNil(args.Get(0)), args.Error(1)
}

func (m *MockPDFProcessor) ExtractPages(ctx context.Context, doc []byte, start, end int) ([]byte, error) {
	args := m.Called(ctx, doc, start, end)
	return bytesOrNil(args.Get(0)), args.Error(1)
}

func (m *MockPDFProcessor) Split(ctx context.Context, doc []byte, at int) ([]byte, []byte, error) {
	args := m.Called(ctx, doc, at)
	return bytesOrNil(args.Get(0)), bytesOrNil(args.Get(1)), args.Error(2)
}

func (m *MockPDFProcessor) RemovePage(ctx context.Context, doc []byte, page int) ([]byte, error) {
	args := m.Called(ctx, doc, page)
	return bytesOrNil(args.Get(0)), args.Error(1)
}

func (m *MockPDFProcessor) Reorder(ctx context.Context, doc []byte, order []int) ([]byte, error) {
	args := m.Called(ctx, doc, order)
	return bytesOrNil(args.Get(0)), args.Error(1)
}

func (m *MockPDFProcessor) Encrypt(ctx context.Context, doc []byte, password string) ([]byte, error) {
	args := m.Called(ctx, doc, password)
	return bytesOrNil(args.Get(0)), args.Error(1)
}

func (m *MockPDFProcessor) Decrypt(ctx context.Context, doc []byte, password string) ([]byte, error) {
	args := m.Called(ctx, doc, password)
	return bytesOrNil(args.Get(0)), args.Error(1)
}

func (m *MockPDFProcessor) ExtractImages(ctx context.Context, doc []byte) ([]service.PageImage, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.PageImage), args.Error(1)
}

func (m *MockPDFProcessor) Rotate(ctx context.Context, doc []byte, rotations map[int]int) ([]byte, error) {
	args := m.Called(ctx, doc, rotations)
	return bytesOrNil(args.Get(0)), args.Error(1)
}

func (m *MockPDFProcessor) AddWatermark(ctx context.Context, doc []byte, opts service.WatermarkOptions) ([]byte, error) {
	args := m.Called(ctx, doc, opts)
	return bytesOrNil(args.Get(0)), args.Error(1)
}
