package client

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
)

// AuthorizeResult is the collaborator's answer to a fee authorization. A
// pending result carries a handle the caller can resume with later.
type AuthorizeResult struct {
	Authorized bool   `json:"authorized"`
	Pending    bool   `json:"pending"`
	Handle     string `json:"handle"`
}

// PaymentCaller fronts the billing collaborator. Callers must bound every
// call with a deadline and treat any error as not-authorized.
type PaymentCaller interface {
	Authorize(ctx context.Context, userID string, amountCents int64) (*AuthorizeResult, error)
	CheckPending(ctx context.Context, handle string) (*AuthorizeResult, error)
	Refund(ctx context.Context, userID string, amountCents int64) error
	Close()
}

type paymentCaller struct {
	client *rpc.Client
}

func NewPaymentCaller(client *rpc.Client) *paymentCaller {
	return &paymentCaller{client: client}
}

func (c *paymentCaller) Authorize(
	ctx context.Context, userID string, amountCents int64,
) (*AuthorizeResult, error) {
	var result AuthorizeResult
	err := c.client.CallContext(ctx, &result, c.fname(ctx, "authorize"), userID, amountCents)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *paymentCaller) CheckPending(ctx context.Context, handle string) (*AuthorizeResult, error) {
	var result AuthorizeResult
	err := c.client.CallContext(ctx, &result, c.fname(ctx, "checkPending"), handle)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *paymentCaller) Refund(ctx context.Context, userID string, amountCents int64) error {
	return c.client.CallContext(ctx, nil, c.fname(ctx, "refund"), userID, amountCents)
}

func (c *paymentCaller) Close() {
	c.client.Close()
}

func (c *paymentCaller) fname(ctx context.Context, funcName string) string {
	return fmt.Sprintf("%s_%s", xcontext.Configs(ctx).Payment.RPCName, funcName)
}
