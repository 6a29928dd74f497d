package main

import (
	"flag"

	"github.com/deskhive/deskhive/internal/config"
	"github.com/deskhive/deskhive/internal/logger"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

func main() {
	dir := flag.String("dir", "migrations", "directory with migration files")
	down := flag.Bool("down", false, "roll back the most recent migration")
	flag.Parse()

	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := goose.OpenDBWithDriver("postgres", cfg.Postgres.GetDSN())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if *down {
		if err := goose.Down(db, *dir); err != nil {
			log.Fatalf("migration rollback failed: %v", err)
		}
		log.Info("migration rolled back")
		return
	}

	if err := goose.Up(db, *dir); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}
	log.Info("migrations applied")
}
