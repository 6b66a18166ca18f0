package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rocketman2178/healthrocket-backend/config"
	"github.com/rocketman2178/healthrocket-backend/internal/catalog"
	"github.com/rocketman2178/healthrocket-backend/internal/client"
	"github.com/rocketman2178/healthrocket-backend/internal/domain"
	"github.com/rocketman2178/healthrocket-backend/internal/domain/statistic"
	"github.com/rocketman2178/healthrocket-backend/internal/model"
	"github.com/rocketman2178/healthrocket-backend/internal/repository"
	"github.com/rocketman2178/healthrocket-backend/migration"
	"github.com/rocketman2178/healthrocket-backend/pkg/authenticator"
	"github.com/rocketman2178/healthrocket-backend/pkg/kafka"
	"github.com/rocketman2178/healthrocket-backend/pkg/logger"
	"github.com/rocketman2178/healthrocket-backend/pkg/pubsub"
	"github.com/rocketman2178/healthrocket-backend/pkg/router"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
	"github.com/rocketman2178/healthrocket-backend/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context
	app *cli.App

	userRepo     repository.UserRepository
	activityRepo repository.ActivityRepository
	fuelRepo     repository.FuelRepository
	prizeRepo    repository.PrizeRepository
	boostRepo    repository.BoostRepository

	activities *catalog.Catalog

	paymentCaller client.PaymentCaller
	notifier      client.Notifier
	publisher     pubsub.Publisher
	redisClient   xredis.Client
	leaderboard   statistic.Leaderboard

	userDomain      domain.UserDomain
	activityDomain  domain.ActivityDomain
	boostDomain     domain.BoostDomain
	statisticDomain domain.StatisticDomain
	lotteryDomain   domain.LotteryDomain
	contestDomain   domain.ContestDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig() {
	cfg := config.Load()

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.INFO))
	s.ctx = xcontext.WithTokenEngine(s.ctx,
		authenticator.NewTokenEngine[model.AccessToken](cfg.Auth.AccessToken))
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := migration.AutoMigrate(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.activityRepo = repository.NewActivityRepository()
	s.fuelRepo = repository.NewFuelRepository()
	s.prizeRepo = repository.NewPrizeRepository()
	s.boostRepo = repository.NewBoostRepository()
}

func (s *srv) loadCatalog() {
	activities, err := catalog.Load(s.ctx, s.activityRepo)
	if err != nil {
		panic(err)
	}

	s.activities = activities
}

func (s *srv) loadRedisClient() {
	redisClient, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = redisClient
}

func (s *srv) loadClients() {
	cfg := xcontext.Configs(s.ctx)

	rpcPaymentClient, err := rpc.DialContext(s.ctx, cfg.Payment.RPCEndpoint)
	if err != nil {
		panic(err)
	}
	s.paymentCaller = client.NewPaymentCaller(rpcPaymentClient)

	s.publisher = kafka.NewPublisher("healthrocket-backend", []string{cfg.Kafka.Addr})
	s.notifier = client.NewNotifier(s.publisher)
}

func (s *srv) loadDomains() {
	s.leaderboard = statistic.New(s.fuelRepo, s.redisClient)

	s.userDomain = domain.NewUserDomain(s.userRepo)
	s.activityDomain = domain.NewActivityDomain(
		s.activityRepo, s.userRepo, s.fuelRepo, s.activities,
		s.paymentCaller, s.notifier, s.leaderboard)
	s.boostDomain = domain.NewBoostDomain(
		s.boostRepo, s.activityRepo, s.userRepo, s.fuelRepo, s.leaderboard)
	s.statisticDomain = domain.NewStatisticDomain(
		s.userRepo, s.fuelRepo, s.leaderboard, s.notifier)
	s.lotteryDomain = domain.NewLotteryDomain(
		s.userRepo, s.fuelRepo, s.prizeRepo, s.notifier)
	s.contestDomain = domain.NewContestDomain(
		s.activityRepo, s.userRepo, s.prizeRepo, s.activities, s.paymentCaller)
}
