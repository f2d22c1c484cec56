package mocks

import (
	"context"

	"loan-sync/core/registry"

	"github.com/stretchr/testify/mock"
)

// Registry is a mock implementation of registry.Registry
type Registry struct {
	mock.Mock
}

func (m *Registry) EntityIDForUniqueKey(ctx context.Context, uniqueKey string) (string, error) {
	args := m.Called(ctx, uniqueKey)
	return args.String(0), args.Error(1)
}

func (m *Registry) Get(ctx context.Context, entityID string) (*registry.Entry, error) {
	args := m.Called(ctx, entityID)
	if entry, ok := args.Get(0).(*registry.Entry); ok {
		return entry, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Registry) Rename(ctx context.Context, entityID, newEntityID string) error {
	args := m.Called(ctx, entityID, newEntityID)
	return args.Error(0)
}

func (m *Registry) Remove(ctx context.Context, entityID string) error {
	args := m.Called(ctx, entityID)
	return args.Error(0)
}

func (m *Registry) RemoveMany(ctx context.Context, entityIDs []string) error {
	args := m.Called(ctx, entityIDs)
	return args.Error(0)
}

func (m *Registry) EntriesForAccount(ctx context.Context, accountID string) ([]registry.Entry, error) {
	args := m.Called(ctx, accountID)
	if entries, ok := args.Get(0).([]registry.Entry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Registry) GetOrCreate(ctx context.Context, entry registry.Entry, suggestedEntityID string) (*registry.Entry, error) {
	args := m.Called(ctx, entry, suggestedEntityID)
	if created, ok := args.Get(0).(*registry.Entry); ok {
		return created, args.Error(1)
	}
	return nil, args.Error(1)
}
