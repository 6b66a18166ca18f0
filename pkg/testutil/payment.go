package testutil

import (
	"context"

	"github.com/rocketman2178/healthrocket-backend/internal/client"
)

// MockPaymentCaller authorizes everything unless a func is plugged in.
type MockPaymentCaller struct {
	AuthorizeFunc    func(ctx context.Context, userID string, amountCents int64) (*client.AuthorizeResult, error)
	CheckPendingFunc func(ctx context.Context, handle string) (*client.AuthorizeResult, error)
	RefundFunc       func(ctx context.Context, userID string, amountCents int64) error

	Refunded []string
}

func (m *MockPaymentCaller) Authorize(
	ctx context.Context, userID string, amountCents int64,
) (*client.AuthorizeResult, error) {
	if m.AuthorizeFunc != nil {
		return m.AuthorizeFunc(ctx, userID, amountCents)
	}

	return &client.AuthorizeResult{Authorized: true, Handle: "mock-authorization"}, nil
}

func (m *MockPaymentCaller) CheckPending(
	ctx context.Context, handle string,
) (*client.AuthorizeResult, error) {
	if m.CheckPendingFunc != nil {
		return m.CheckPendingFunc(ctx, handle)
	}

	return &client.AuthorizeResult{Authorized: true, Handle: handle}, nil
}

func (m *MockPaymentCaller) Refund(ctx context.Context, userID string, amountCents int64) error {
	if m.RefundFunc != nil {
		return m.RefundFunc(ctx, userID, amountCents)
	}

	m.Refunded = append(m.Refunded, userID)
	return nil
}

func (m *MockPaymentCaller) Close() {}
