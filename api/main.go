package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"event-calendar-api/data/repository"
	"event-calendar-api/service"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type application struct {
	Config  Config
	Service service.EventService
}

func init() {
	log.SetFormatter(&log.TextFormatter{})
	log.SetOutput(os.Stdout)
}

func main() {
	_ = godotenv.Load()

	config, err := NewConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	app := &application{Config: config}

	db, err := app.ConnectToDB()
	if err != nil {
		log.Fatalf("Failed to connect to db: %v", err)
	}
	defer db.Close()

	repo := repository.NewSqlRepo(db)
	if err = repo.RunMigrations(config.DatabaseName); err != nil {
		log.Fatal(err.Error())
	}

	app.Service = service.New(repo)

	srv := &http.Server{
		Addr:    net.JoinHostPort(config.ServerHost, strconv.Itoa(config.ServerPort)),
		Handler: app.routes(),
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to stop http server: " + err.Error())
		}
	}()

	log.Infof("starting http server on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("http server failed: %v", err)
	}
}
