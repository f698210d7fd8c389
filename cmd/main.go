package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"talentscout/talent-service/internal/api"
	"talentscout/talent-service/internal/config"
	"talentscout/talent-service/internal/db"
	"talentscout/talent-service/internal/scheduler"
	"talentscout/talent-service/internal/scraper"
	"talentscout/talent-service/internal/store"
)

const (
	version          = "0.1.0"
	talentCollection = "talents"
)

func main() {
	// Load .env if present; variables may also be set directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	once := flag.Bool("once", false, "run a single scrape run and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[talent-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongoDB, err := db.NewMongoDatabase(ctx, cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		log.Fatalf("[talent-service] Mongo error: %v", err)
	}
	defer func() {
		disconnectCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		if err := mongoDB.Client().Disconnect(disconnectCtx); err != nil {
			log.Printf("[talent-service] Mongo disconnect error: %v", err)
		}
	}()

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("[talent-service] Redis error: %v", err)
		}
		defer rdb.Close()
	} else {
		log.Println("[talent-service] REDIS_URL not set — roles cache and save events disabled")
	}

	talents := store.New(mongoDB, talentCollection, rdb)
	if err := talents.EnsureIndexes(ctx); err != nil {
		log.Fatalf("[talent-service] Index error: %v", err)
	}

	remote := scraper.NewRemoteClient(cfg.RemoteAPIBase, cfg.CustomLocation)
	worker := scraper.NewWorker(remote, talents, scraper.Policy{
		StartPage:       cfg.StartPage,
		EndPage:         cfg.EndPage,
		Delay:           time.Duration(cfg.DelayMS) * time.Millisecond,
		StopOnEmptyPage: cfg.StopOnEmptyPage,
	})

	if *once {
		report := worker.Run(ctx)
		if report.TotalErrors > 0 {
			os.Exit(1)
		}
		return
	}

	if cfg.ScrapeIntervalHours > 0 {
		sched := scheduler.New(worker, cfg.ScrapeIntervalHours)
		if err := sched.Start(ctx); err != nil {
			log.Fatalf("[talent-service] Scheduler error: %v", err)
		}
		defer sched.Stop()
	} else {
		log.Println("[talent-service] SCRAPE_INTERVAL_HOURS=0 — scheduler disabled")
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewRouter(talents, version),
	}

	go func() {
		log.Printf("[talent-service] Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[talent-service] Fatal: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("[talent-service] Received interrupt signal, shutting down...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[talent-service] Shutdown error: %v", err)
	}
}
