package main

import (
	"fmt"
	"net/http"

	"github.com/rocketman2178/healthrocket-backend/internal/middleware"
	"github.com/rocketman2178/healthrocket-backend/pkg/router"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
	"github.com/rs/cors"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRepos()
	s.loadCatalog()
	s.loadRedisClient()
	s.loadClients()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.ApiServer.AllowCORS,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
	}).Handler(s.router.Handler())

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ApiServer.Port),
		Handler: handler,
	}

	xcontext.Logger(s.ctx).Infof("Starting server on port: %s", cfg.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger())
	s.router.Before(middleware.WithAuthentication())

	// These following APIs need authentication.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.Authenticate())
	{
		// User API
		router.GET(authRouter, "/getMe", s.userDomain.GetMe)
		router.GET(authRouter, "/getStatusHistory", s.userDomain.GetStatusHistory)

		// Activity API
		router.GET(authRouter, "/getMyActivities", s.activityDomain.GetMyActivities)
		router.POST(authRouter, "/startActivity", s.activityDomain.Start)
		router.POST(authRouter, "/cancelActivity", s.activityDomain.Cancel)
		router.POST(authRouter, "/completeActivity", s.activityDomain.Complete)
		router.POST(authRouter, "/submitVerification", s.activityDomain.SubmitVerification)

		// Boost API
		router.POST(authRouter, "/completeBoost", s.boostDomain.CompleteBoost)

		// Prize API
		router.POST(authRouter, "/drawPrizes", s.lotteryDomain.DrawPrizes)
		router.POST(authRouter, "/settleContest", s.contestDomain.Settle)
	}

	// Public API.
	router.GET(s.router, "/getCatalog", s.activityDomain.GetCatalog)
	router.GET(s.router, "/getBoosts", s.boostDomain.GetBoosts)
	router.GET(s.router, "/getLeaderBoard", s.statisticDomain.GetLeaderBoard)
	router.GET(s.router, "/getPrizeDistributions", s.lotteryDomain.GetDistributions)
	router.GET(s.router, "/getContestPayouts", s.contestDomain.GetPayouts)
}
