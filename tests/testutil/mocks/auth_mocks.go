package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockTokenRevoker is a mock of service.TokenRevoker
type MockTokenRevoker struct {
	mock.Mock
}

func NewMockTokenRevoker(t *testing.T) *MockTokenRevoker {
	m := &MockTokenRevoker{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTokenRevoker) Revoke(ctx context.Context, tokenID string, expiry time.Duration) error {
	args := m.Called(ctx, tokenID, expiry)
	return args.Error(0)
}

func (m *MockTokenRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}
