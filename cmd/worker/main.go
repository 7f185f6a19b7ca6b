package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pasarkirana/marketplace/internal/config"
	kafkax "github.com/pasarkirana/marketplace/internal/kafka"
	"github.com/pasarkirana/marketplace/internal/market"
	"github.com/pasarkirana/marketplace/internal/postgres"
	"github.com/pasarkirana/marketplace/internal/redisx"
	"github.com/pasarkirana/marketplace/internal/worker"
)

func main() {
	_ = godotenv.Load()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &worker.Service{
		Products:    &market.ProductRepo{DB: db},
		Dedup:       worker.RedisDedup{RDB: rdb},
		StatusCache: worker.RedisStatusCache{RDB: rdb},
		ServiceName: cfg.ServiceName + "-worker",
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.WorkerGroup, market.TopicOrderCreated, cfg.WorkerCount)

	go func() {
		log.Info().
			Str("group", cfg.WorkerGroup).
			Str("topic", market.TopicOrderCreated).
			Int("workers", cfg.WorkerCount).
			Msg("worker consumer started")
		if err := cons.Start(ctx, svc.HandleOrderCreated); err != nil {
			log.Error().Err(err).Msg("consumer exit")
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}
