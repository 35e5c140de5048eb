package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pos/internal/config"
	"pos/internal/infra/db"
	"pos/internal/server"
	"pos/pkg/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	// .envは任意（なければ環境変数だけ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logger.NewSlogLogger(!cfg.IsProd())
	if err := run(cfg, log); err != nil {
		log.Errorf(err, "server exited")
		os.Exit(1)
	}
}

func run(cfg config.Config, log *logger.SlogLogger) error {
	//DB接続
	gormDB, err := db.Connect(cfg.DSN(), !cfg.IsProd())
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}

	srv, err := server.Build(context.Background(), server.Deps{
		DB:     gormDB,
		Config: cfg,
		Log:    log,
		Clock:  &realClock{},
		IDGen:  &uuidGenerator{},
	})
	if err != nil {
		return err
	}

	//シグナルを待つ
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	stop := make(chan struct{})
	go func() {
		<-sig
		close(stop)
	}()

	return srv.Run(":"+cfg.Port, stop, cfg.ShutdownTimeout)
}
