// internal/db/db.go
package db

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/voxblast/callcenter-backend/internal/config"
)

func Init(cfg *config.Config) *sql.DB {
	logrus.Infof("connecting to database %s on %s:%s", cfg.DBName, cfg.DBHost, cfg.DBPort)

	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}

	if err = conn.Ping(); err != nil {
		logrus.Fatalf("failed to ping DB: %v", err)
	}

	logrus.Info("✅ Connected to database")
	return conn
}
