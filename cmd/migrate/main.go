package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"time"

	"melp-api/internal/config"
	"melp-api/internal/db"
	"melp-api/internal/logging"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	list := flag.Bool("list", false, "print the embedded migrations and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, os.Stdout)
	if err != nil {
		log.Fatalf("Logger error: %v", err)
	}

	if *list {
		migrations, err := db.Migrations()
		if err != nil {
			logger.WithError(err).Fatal("read migrations")
		}
		for _, m := range migrations {
			logger.WithField("checksum", m.Checksum).Info(m.Filename)
		}
		return
	}

	conn, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("open database")
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		logger.WithError(err).Fatal("ping database")
	}

	applied, err := db.Migrate(ctx, conn)
	if err != nil {
		logger.WithError(err).Fatal("migrate")
	}
	for _, name := range applied {
		logger.WithField("migration", name).Info("applied")
	}
	logger.WithField("count", len(applied)).Info("migrations up to date")
}
