package server_test

import (
	"context"

	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type mockSwitcher struct {
	mock.Mock
}

func (m *mockSwitcher) SwitchServer(server domain.Server) error {
	args := m.Called(server)
	return args.Error(0)
}

type mockInvalidator struct {
	mock.Mock
}

func (m *mockInvalidator) InvalidateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
