package main

import (
	"github.com/rocketman2178/healthrocket-backend/internal/domain/cron"
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.loadConfig()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRepos()
	s.loadCatalog()
	s.loadRedisClient()
	s.loadClients()
	s.loadDomains()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewExpireActivitiesCronJob(s.activityDomain))
	cronJobManager.Register(cron.NewRefreshStatusCronJob(s.statisticDomain))
	cronJobManager.Register(cron.NewPrizeDrawCronJob(s.lotteryDomain))
	cronJobManager.Register(cron.NewSettleContestsCronJob(s.contestDomain, s.activities))
	cronJobManager.Start(s.ctx)

	return nil
}
