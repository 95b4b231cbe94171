package main

import (
	"fmt"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

func (app *application) ConnectToDB() (*sqlx.DB, error) {
	db, err := openDB(app.Config.DatabaseURL)
	if err != nil {
		return nil, err
	}

	log.Info("Database connection established")
	return db, nil
}

func openDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	return db, nil
}
