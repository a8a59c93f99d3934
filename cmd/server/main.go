package main

import (
	"database/sql"
	"net/http"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"

	_ "github.com/J-Palomino/flow-actions-sub000/docs"
	"github.com/J-Palomino/flow-actions-sub000/internal/api"
	"github.com/J-Palomino/flow-actions-sub000/internal/client"
	"github.com/J-Palomino/flow-actions-sub000/internal/config"
	"github.com/J-Palomino/flow-actions-sub000/internal/ledger"
	"github.com/J-Palomino/flow-actions-sub000/internal/logger"
	"github.com/J-Palomino/flow-actions-sub000/internal/usage"
	"github.com/J-Palomino/flow-actions-sub000/vault"
)

// @title           Subscription Vault API
// @version         1.0
// @description     Credential protection and hybrid usage-billing reconciliation for ledger-held subscription vaults.
// @BasePath        /
func main() {
	log := logger.New("server")

	if err := config.Init(); err != nil {
		log.ErrorWithErr(0, "failed to load config", err, nil)
		return
	}
	cfg := config.Get()

	ledgerClient := client.NewLedgerClient()
	gatewayClient := client.NewGatewayClient()
	orch := ledger.NewOrchestrator(ledgerClient, config.GetTxPollInterval())

	var store usage.SnapshotStore = usage.NewMemoryStore()
	if cfg.RedisAddr != "" {
		store = usage.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
		log.Info(0, "using redis snapshot store", map[string]interface{}{"addr": cfg.RedisAddr})
	}

	var recorder *usage.EventRecorder
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.ErrorWithErr(0, "failed to open database", err, nil)
			return
		}
		recorder = usage.NewEventRecorder(db)
		log.Info(0, "usage event recording enabled", nil)
	}

	engine := usage.NewEngine(gatewayClient, store, recorder, config.GetMarkupPct())
	svc := vault.NewService(orch, engine, gatewayClient, config.GetTxAwaitTimeout())
	svc.EnableAutoPolling(config.GetPendingPollInterval())

	router := api.SetupRouter(svc)

	addr := ":" + config.GetPort()
	log.Info(0, "server listening", map[string]interface{}{"addr": addr})
	if err := http.ListenAndServe(addr, router); err != nil {
		log.ErrorWithErr(0, "server stopped", err, nil)
	}
}
