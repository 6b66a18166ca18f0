package testutil

import (
	"context"
	"time"

	"github.com/rocketman2178/healthrocket-backend/config"
	"github.com/rocketman2178/healthrocket-backend/internal/model"
	"github.com/rocketman2178/healthrocket-backend/migration"
	"github.com/rocketman2178/healthrocket-backend/pkg/authenticator"
	"github.com/rocketman2178/healthrocket-backend/pkg/logger"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		Env: "testing",
		Auth: config.AuthConfigs{
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Secret:     "secret",
				Expiration: time.Minute,
			},
		},
		Activity: config.ActivityConfigs{
			Challenge: config.CapConfigs{BaseCap: 2, IncreaseEvery: 3, MaxCap: 5},
			Quest:     config.CapConfigs{BaseCap: 1, IncreaseEvery: 2, MaxCap: 3},
		},
		PrizeDraw: config.PrizeDrawConfigs{
			EntriesPerHero:   1,
			EntriesPerLegend: 2,
			BaseWeight:       1000,
		},
		Payment: config.PaymentConfigs{
			RPCName: "payment",
			Timeout: time.Second,
		},
		Notification: config.NotificationConfigs{
			Topic: "notifications",
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewSilentLogger())
	ctx = xcontext.WithTokenEngine(ctx,
		authenticator.NewTokenEngine[model.AccessToken](cfg.Auth.AccessToken))
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}

// MockClock freezes domain time at Current.
type MockClock struct {
	Current time.Time
}

func (c *MockClock) Now() time.Time {
	return c.Current
}

// WithTime pins the context's clock to a fixed instant and returns the
// clock so tests can advance it.
func WithTime(ctx context.Context, at time.Time) (context.Context, *MockClock) {
	clock := &MockClock{Current: at}
	return xcontext.WithClock(ctx, clock), clock
}
