package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/unwrap-cash/unwrap/internal/api"
	"github.com/unwrap-cash/unwrap/internal/chain"
	"github.com/unwrap-cash/unwrap/internal/chainsync"
	"github.com/unwrap-cash/unwrap/internal/config"
	"github.com/unwrap-cash/unwrap/internal/ledger"
	"github.com/unwrap-cash/unwrap/internal/mail"
	"github.com/unwrap-cash/unwrap/internal/orchestrator"
	"github.com/unwrap-cash/unwrap/internal/store"
)

// backend is the escrow surface shared by the orchestrator and the event
// synchronizer.
type backend interface {
	orchestrator.Backend
	chainsync.Source
}

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Fatal("redis unreachable", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}

	st := store.New(rdb, time.Duration(cfg.Card.ExpiryDays)*24*time.Hour)

	var bk backend
	if cfg.DevMode() {
		log.Warn("RPC_URL not set, running with the in-process dev backend")
		bk = devBackend(cfg.Card.FeeBasisPoints)
	} else {
		client, err := chain.NewClient(cfg)
		if err != nil {
			log.Fatal("chain client", zap.Error(err))
		}
		bk = client
		log.Info("connected to chain",
			zap.String("rpc", cfg.Chain.RPCURL),
			zap.Int64("chain_id", cfg.Chain.ChainID),
			zap.String("operator", client.Operator().Hex()))
	}

	var sender mail.Sender
	if cfg.Email.APIKey == "" {
		log.Warn("EMAIL_API_KEY not set, emails will only be logged")
		sender = mail.NewLogSender(log)
	} else {
		sender = mail.NewClient(cfg.Email.BaseURL, cfg.Email.APIKey, cfg.Email.From)
	}

	svc := orchestrator.New(bk, st, sender, log, orchestrator.Config{
		FeeBasisPoints: cfg.Card.FeeBasisPoints,
		VerifyAttempts: cfg.Card.VerifyAttempts,
		VerifyDelay:    time.Duration(cfg.Card.VerifyDelaySec) * time.Second,
		SettleDelay:    time.Duration(cfg.Card.SettleDelaySec) * time.Second,
	})

	runner := chainsync.NewRunner(bk, st, log, time.Duration(cfg.Sync.IntervalSec)*time.Second)
	go runner.Run(ctx)

	r := newRouter(svc, st, bk, log)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}
	go func() {
		log.Info("listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT)
	<-sig
	log.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}

func newRouter(svc *orchestrator.Service, st *store.Store, bk backend, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	api.NewHandler(svc, st, bk, log).Register(r.Group("/api"))
	return r
}

// devBackend builds an in-process escrow with a funded, pre-approved
// operator so the full create and redeem flows work without a chain.
func devBackend(feeBps uint64) *ledger.Backend {
	operator := common.HexToAddress("0x00000000000000000000000000000000000caFe0")
	escrowAddr := common.HexToAddress("0x00000000000000000000000000000000000caFe1")
	feeCollector := common.HexToAddress("0x00000000000000000000000000000000000caFe2")

	token := ledger.NewToken()
	funds := new(big.Int).Mul(big.NewInt(1_000_000), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	token.Mint(operator, funds)
	token.Approve(operator, escrowAddr, funds)

	return ledger.NewBackend(ledger.NewEscrow(token, escrowAddr, feeCollector, feeBps), operator)
}
