package xcontext

import (
	"context"
	"net/http"
	"time"

	"github.com/rocketman2178/healthrocket-backend/config"
	"github.com/rocketman2178/healthrocket-backend/internal/model"
	"github.com/rocketman2178/healthrocket-backend/pkg/authenticator"
	"github.com/rocketman2178/healthrocket-backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	dbKey          struct{}
	txKey          struct{}
	loggerKey      struct{}
	configsKey     struct{}
	clockKey       struct{}
	tokenEngineKey struct{}
	httpRequestKey struct{}
	httpWriterKey  struct{}
)

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the transaction began by WithDBTransaction if any, otherwise the
// root database connection.
func DB(ctx context.Context) *gorm.DB {
	if tx := txOf(ctx); tx != nil && !tx.done {
		return tx.db
	}

	if db, ok := ctx.Value(dbKey{}).(*gorm.DB); ok {
		return db
	}

	panic("no database in context")
}

type txState struct {
	db   *gorm.DB
	done bool
}

func txOf(ctx context.Context) *txState {
	tx, _ := ctx.Value(txKey{}).(*txState)
	return tx
}

// WithDBTransaction begins a database transaction and replaces the value
// returned by DB with it until the transaction is committed or rolled back.
func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, &txState{db: DB(ctx).Begin()})
}

// WithCommitDBTransaction commits the current transaction if it exists and is
// still open.
func WithCommitDBTransaction(ctx context.Context) context.Context {
	if tx := txOf(ctx); tx != nil && !tx.done {
		tx.db.Commit()
		tx.done = true
	}

	return ctx
}

// WithRollbackDBTransaction rollbacks the current transaction. It is a no-op
// after WithCommitDBTransaction, so it is safe to defer.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	if tx := txOf(ctx); tx != nil && !tx.done {
		tx.db.Rollback()
		tx.done = true
	}

	return ctx
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	if l, ok := ctx.Value(loggerKey{}).(logger.Logger); ok {
		return l
	}

	return logger.NewLogger(logger.INFO)
}

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		panic("no configs in context")
	}

	return cfg
}

// Clock abstracts wall-clock reads so that day-boundary logic is
// deterministically testable. No domain code calls time.Now directly.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func WithClock(ctx context.Context, c Clock) context.Context {
	return context.WithValue(ctx, clockKey{}, c)
}

func Now(ctx context.Context) time.Time {
	if c, ok := ctx.Value(clockKey{}).(Clock); ok {
		return c.Now()
	}

	return realClock{}.Now()
}

func WithTokenEngine(ctx context.Context, engine authenticator.TokenEngine[model.AccessToken]) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine[model.AccessToken] {
	engine, ok := ctx.Value(tokenEngineKey{}).(authenticator.TokenEngine[model.AccessToken])
	if !ok {
		panic("no token engine in context")
	}

	return engine
}

func WithHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

func HTTPRequest(ctx context.Context) *http.Request {
	r, _ := ctx.Value(httpRequestKey{}).(*http.Request)
	return r
}

func WithHTTPWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, httpWriterKey{}, w)
}

func HTTPWriter(ctx context.Context) http.ResponseWriter {
	w, _ := ctx.Value(httpWriterKey{}).(http.ResponseWriter)
	return w
}
