package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pasarkirana/marketplace/internal/auth"
	"github.com/pasarkirana/marketplace/internal/cart"
	"github.com/pasarkirana/marketplace/internal/catalog"
	"github.com/pasarkirana/marketplace/internal/checkout"
	"github.com/pasarkirana/marketplace/internal/config"
	"github.com/pasarkirana/marketplace/internal/httpx"
	"github.com/pasarkirana/marketplace/internal/imagestore"
	kafkax "github.com/pasarkirana/marketplace/internal/kafka"
	"github.com/pasarkirana/marketplace/internal/market"
	"github.com/pasarkirana/marketplace/internal/postgres"
	"github.com/pasarkirana/marketplace/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB + migrations
	if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers
	prodCreated := kafkax.NewProducer(cfg.KafkaBrokers, market.TopicOrderCreated, 1024)
	prodCreated.Start(ctx)
	prodStatus := kafkax.NewProducer(cfg.KafkaBrokers, market.TopicOrderStatusChanged, 1024)
	prodStatus.Start(ctx)

	// Repos & services
	vendors := &market.VendorRepo{DB: db}
	products := &market.ProductRepo{DB: db}
	orders := &market.OrderRepo{DB: db}
	catalogSvc := &catalog.Service{
		Products: products,
		Cache:    catalog.RedisCache{RDB: rdb},
		TTL:      cfg.CatalogTTL,
	}
	carts := cart.NewStore(rdb, 0)
	checkoutSvc := &checkout.Service{
		Orders:   orders,
		Carts:    carts,
		Producer: prodCreated,
		Service:  cfg.ServiceName,
	}
	issuer := &auth.TokenIssuer{Secret: []byte(cfg.JWTSecret), TTL: cfg.SessionTTL}
	uploader := &imagestore.Local{Dir: cfg.ImageDir, BaseURL: cfg.ImageBaseURL}

	// Router
	router := httpx.NewRouter()
	(&httpx.ShopHandler{
		Catalog:  catalogSvc,
		Products: products,
		Vendors:  vendors,
		Orders:   orders,
		Carts:    carts,
		Checkout: checkoutSvc,
		Redis:    rdb,
	}).Register(router)
	(&httpx.VendorHandler{
		Vendors:     vendors,
		Products:    products,
		Orders:      orders,
		Catalog:     catalogSvc,
		Issuer:      issuer,
		Uploader:    uploader,
		Producer:    prodStatus,
		Redis:       rdb,
		ServiceName: cfg.ServiceName,
	}).Register(router)
	(&httpx.AdminHandler{
		Vendors:    vendors,
		Catalog:    catalogSvc,
		AdminToken: cfg.AdminToken,
	}).Register(router)
	router.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(cfg.ImageDir))))

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prodCreated.Close() // sinyal berhenti -> flush sisa inbox & close writer
	prodStatus.Close()
	cancel()
	prodCreated.WaitClosed()
	prodStatus.WaitClosed()
}
