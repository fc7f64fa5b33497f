package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/luckydip/raffle-backend/api/routes"
	"github.com/luckydip/raffle-backend/internal/config"
	"github.com/luckydip/raffle-backend/internal/dispatch"
	"github.com/luckydip/raffle-backend/internal/engine"
	"github.com/luckydip/raffle-backend/internal/handlers"
	"github.com/luckydip/raffle-backend/internal/repositories"
	mongorepo "github.com/luckydip/raffle-backend/internal/repositories/mongodb"
	"github.com/luckydip/raffle-backend/internal/scheduler"
	"github.com/luckydip/raffle-backend/internal/services"
	"github.com/luckydip/raffle-backend/pkg/crosschain"
	"github.com/luckydip/raffle-backend/pkg/feeledger"
	"github.com/luckydip/raffle-backend/pkg/mongodb"
	"github.com/luckydip/raffle-backend/pkg/randoracle"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// Environment file is optional; real deployments configure via env vars
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err = mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	var roundRepo repositories.RoundRepository = mongorepo.NewRoundRepository(db)
	var winnerRepo repositories.WinnerRepository = mongorepo.NewWinnerRepository(db)
	var eventRepo repositories.EventRepository = mongorepo.NewEventRepository(db)
	var contribRepo repositories.ContributionRepository = mongorepo.NewContributionRepository(db)
	var stateRepo repositories.EngineStateRepository = mongorepo.NewEngineStateRepository(db)
	var recordRepo repositories.ModuleRecordRepository = mongorepo.NewModuleRecordRepository(db)

	// External collaborators
	var ledger feeledger.Client
	if cfg.FeeLedger.MockLedger {
		ledger = feeledger.NewMockClient(cfg.Raffle.TreasuryAddress)
	} else {
		ledger = feeledger.NewHTTPClient(cfg.FeeLedger.BaseURL, cfg.FeeLedger.APIKey)
	}
	var oracle randoracle.Client
	if cfg.Oracle.MockOracle {
		oracle = randoracle.NewMockClient()
	} else {
		oracle = randoracle.NewHTTPClient(cfg.Oracle.BaseURL, cfg.Oracle.APIKey)
	}
	var transport crosschain.Transport
	if cfg.CrossChain.MockTransport {
		transport = crosschain.NewMockTransport(1)
	} else {
		transport = crosschain.NewHTTPTransport(cfg.CrossChain.BaseURL, cfg.CrossChain.APIKey)
	}

	// Services
	eventService := services.NewEventService(eventRepo)
	authService := services.NewAuthService(cfg)
	notifierService := services.NewNotifierService(transport, ledger, cfg.CrossChain.HolderAddress, eventService)

	// Engine and logic modules
	eng := engine.New(engine.Config{
		EntryFee:            cfg.Raffle.EntryFee,
		MinPlayers:          cfg.Raffle.MinPlayers,
		Cooldown:            cfg.Raffle.Cooldown,
		JackpotFeeDivisor:   cfg.Raffle.JackpotFeeDivisor,
		PrizePercent:        cfg.Raffle.PrizePercent,
		JackpotChanceBP:     cfg.Raffle.JackpotChanceBP,
		CancelRefundPercent: cfg.Raffle.CancelRefundPercent,
		TreasuryAddress:     cfg.Raffle.TreasuryAddress,
		RandomWordCount:     cfg.Oracle.WordCount,
		OracleConfirmations: cfg.Oracle.Confirmations,
	}, ledger, oracle, stateRepo, roundRepo, winnerRepo, contribRepo, eventService)

	if snapshot, err := stateRepo.Load(context.Background()); err == nil {
		eng.Restore(snapshot)
	} else if err != mongo.ErrNoDocuments {
		log.Fatalf("Failed to load engine state: %v", err)
	}

	dispatcher, err := dispatch.New(context.Background(), recordRepo, cfg.Admin.Email, "v1",
		eventService, engine.NewModuleV1(eng), engine.NewModuleV2(eng))
	if err != nil {
		log.Fatalf("Failed to build dispatcher: %v", err)
	}

	// Handlers
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:   handlers.NewAuthHandler(authService),
		RaffleHandler: handlers.NewRaffleHandler(dispatcher, roundRepo, winnerRepo),
		OracleHandler: handlers.NewOracleHandler(dispatcher),
		AdminHandler:  handlers.NewAdminHandler(dispatcher, notifierService, eventService),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Optional in-process trigger poller
	schedCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	if cfg.Scheduler.Enabled {
		go scheduler.New(dispatcher, cfg.Scheduler.Interval).Run(schedCtx)
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}
