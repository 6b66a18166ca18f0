package main

import (
	"github.com/rocketman2178/healthrocket-backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(*cli.Context) error {
	s.loadConfig()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()

	return nil
}
