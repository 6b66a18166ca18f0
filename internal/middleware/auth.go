package middleware

import (
	"context"
	"strings"

	"github.com/rocketman2178/healthrocket-backend/pkg/errorx"
	"github.com/rocketman2178/healthrocket-backend/pkg/router"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
)

// WithAuthentication resolves the bearer token into a request user id. It
// never fails by itself; Authenticate below rejects anonymous requests on
// the routes that need one.
func WithAuthentication() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := ""
		authorization := xcontext.HTTPRequest(ctx).Header.Get("Authorization")
		if strings.HasPrefix(authorization, "Bearer ") {
			token = strings.TrimPrefix(authorization, "Bearer ")
		}

		if token == "" {
			return ctx, nil
		}

		claims, err := xcontext.TokenEngine(ctx).Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return ctx, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, claims.ID), nil
	}
}

func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestUserID(ctx) == "" {
			return ctx, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return ctx, nil
	}
}
