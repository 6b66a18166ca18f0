package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "HealthRocket"
	app.Usage = ""
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Flags:       []cli.Flag{},
			Category:    "Api",
			Description: `Serves every player-facing and admin endpoint.`,
		},
		{
			Action:      server.startCron,
			Name:        "cron",
			Usage:       "Start cron jobs",
			Flags:       []cli.Flag{},
			Category:    "Worker",
			Description: `Runs the expiry sweep, status refresh, prize draw and contest settlement jobs.`,
		},
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database",
			Flags:       []cli.Flag{},
			Category:    "Database",
			Description: `Applies the schema to the configured database and exits.`,
		},
	}

	s.app = app
}
