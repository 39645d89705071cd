package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"mescore/config"
	"mescore/dashboard"
	"mescore/messaging"
	"mescore/predict"
	"mescore/progress"
	"mescore/quality"
	"mescore/store"
	"mescore/www"
)

var Version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "mescore.yaml", "path to config file")
	flag.Parse()

	if *showVersion {
		fmt.Println("mescore", Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Database
	db, err := store.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	log.Printf("mescore: database open (%s)", cfg.Database.Driver)

	if err := db.SeedMasterData(); err != nil {
		log.Fatalf("seed master data: %v", err)
	}

	// Prediction models. Missing or corrupt artifacts are a deployment
	// error, not a runtime condition to limp through.
	models, err := predict.Load(cfg.Prediction.ModelDir, db)
	if err != nil {
		log.Fatalf("load prediction models: %v", err)
	}
	log.Printf("mescore: prediction models loaded from %s", cfg.Prediction.ModelDir)

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	redisOK := redisClient.Ping(ctx).Err() == nil
	cancel()
	if redisOK {
		log.Printf("mescore: redis connected (%s)", cfg.Redis.Address)
	} else {
		log.Printf("mescore: redis not available, running without dashboard cache")
	}
	defer redisClient.Close()

	// Progress engine + quality recorder
	eng := progress.New(db)
	recorder := quality.NewRecorder(db)

	// Dashboard service
	dash := dashboard.NewService(db)
	if redisOK {
		dash.SetCache(redisClient, cfg.Redis.CacheTTL)
	}
	dash.SetQuantityModel(models.Quantity)

	hub := www.NewEventHub()

	// Messaging (optional)
	var msgClient *messaging.Client
	if cfg.Messaging.Backend != "" {
		msgClient = messaging.NewClient(&cfg.Messaging)
		if err := msgClient.Connect(); err != nil {
			log.Printf("mescore: messaging connect failed (%v)", err)
		} else {
			log.Printf("mescore: messaging connected (%s)", cfg.Messaging.Backend)
		}
		defer msgClient.Close()

		drainer := messaging.NewOutboxDrainer(db, msgClient, &cfg.Messaging)
		drainer.Start()
		defer drainer.Stop()

		listener := messaging.NewStationListener(msgClient, &cfg.Messaging, eng)
		if err := listener.Start(); err != nil {
			log.Printf("mescore: station report subscribe failed: %v", err)
		} else {
			log.Printf("mescore: listening for station reports on %s", cfg.Messaging.ReportsTopic)
		}
	}

	// Every advance fans out to the outbox and connected browsers.
	enqueue := messaging.EnqueueAdvance(db, &cfg.Messaging)
	eng.SetNotify(func(ev progress.Event) {
		if cfg.Messaging.Backend != "" {
			enqueue(ev)
		}
		hub.Broadcast("order-update", fmt.Sprintf(`{"type":"advanced","order_id":"%s","operation_seq":%d}`, ev.OrderID, ev.OperationSeq))
	})

	// Web server
	handler, stopWeb := www.NewRouter(www.Deps{
		DB:       db,
		Config:   cfg,
		Progress: eng,
		Quality:  recorder,
		Dash:     dash,
		Models:   models,
		Msg:      msgClient,
		Hub:      hub,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		log.Printf("mescore: web server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("web server: %v", err)
		}
	}()

	log.Printf("mescore: ready")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Printf("mescore: shutting down...")
	stopWeb()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)

	log.Printf("mescore: stopped")
}
