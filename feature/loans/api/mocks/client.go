package mocks

import (
	"context"

	"loan-sync/feature/loans/api"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of the loan API client.
type Client struct {
	mock.Mock
}

func (m *Client) Login(ctx context.Context, username, password string) (api.Token, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(api.Token), args.Error(1)
}

func (m *Client) ListLoans(ctx context.Context, token api.Token) (map[string]any, error) {
	args := m.Called(ctx, token)
	if body, ok := args.Get(0).(map[string]any); ok {
		return body, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) RenewLoan(ctx context.Context, token api.Token, loanID string) (map[string]any, error) {
	args := m.Called(ctx, token, loanID)
	if body, ok := args.Get(0).(map[string]any); ok {
		return body, args.Error(1)
	}
	return nil, args.Error(1)
}
