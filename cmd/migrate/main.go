// Command migrate applies or rolls back the ThreadNest schema.
//
//	migrate up            apply every pending migration
//	migrate down          roll back the last migration
//	migrate -version N    migrate up or down to version N
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/threadnest-api/internal/config"
	"github.com/threadnest-api/internal/database"
	"github.com/threadnest-api/pkg/logger"
)

func main() {
	version := flag.Int("version", -1, "migrate to this schema version")
	path := flag.String("path", "", "migrations directory (defaults to MIGRATIONS_PATH)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrate [-path dir] [-version N] [up|down]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logger.New()

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *path == "" {
		*path = dbCfg.MigrationsPath
	}

	db, err := database.New(dbCfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	switch {
	case *version >= 0:
		err = db.MigrateToVersion(*path, uint(*version))
	case flag.Arg(0) == "" || flag.Arg(0) == "up":
		err = db.RunMigrations(*path)
	case flag.Arg(0) == "down":
		err = db.MigrateDown(*path)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
