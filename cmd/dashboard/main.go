package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"mirror_shop/internal/analytics"
	"mirror_shop/internal/config"
	"mirror_shop/internal/dashboard"
	"mirror_shop/internal/ids"
	"mirror_shop/internal/logger"
	"mirror_shop/internal/outbox"
	"mirror_shop/internal/redis"
	"mirror_shop/internal/remote"
)

const usage = `Usage: dashboard <command> [flags]

Commands:
  summary          KPIs and all tables (default)
  products         product list with stock status
  orders           order list, -id for one order's details
  customers        customer list
  add-product      add a product to the catalogue
  custom-order     record a custom project order
  delete-product   delete a product (asks for confirmation unless -yes)
  set-status       move an order to a new status
  threshold        show or -set the low stock threshold
  export           write orders or products as CSV
  sync             replay writes that did not reach the backend
`

type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	client     *remote.Client
	controller *dashboard.Controller
	reconciler *outbox.Reconciler
	pending    outbox.Store
	durable    bool // pending writes survive the process
	closers    []func() error
}

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	command := "summary"
	args := flag.Args()
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	cfg := config.Load()
	zlog, err := logger.Initialize(cfg)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zlog.Sync()

	a, err := newApp(cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to start dashboard", zap.Error(err))
	}

	code := 0
	if err := a.run(context.Background(), command, args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		code = 1
	}
	if err := a.close(); err != nil {
		zlog.Warn("shutdown incomplete", zap.Error(err))
	}
	if code != 0 {
		os.Exit(code)
	}
}

func newApp(cfg *config.Config, zlog *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: zlog}

	a.client = remote.NewClient(cfg.APIBaseURL, remote.Options{
		HealthTimeout:  cfg.HealthTimeout(),
		RequestTimeout: cfg.RequestTimeout(),
		SimulatedDelay: cfg.SimulatedDelay(),
		Logger:         zlog,
	})

	gen, err := ids.NewGenerator(cfg.NodeID)
	if err != nil {
		return nil, err
	}

	opts := dashboard.Options{
		LowStockThreshold: cfg.LowStockThreshold,
		KPIOptions:        analytics.KPIOptions{CalendarMonth: cfg.CalendarMonthRevenue},
		PoolSize:          cfg.WorkerPoolSize,
		IDs:               gen,
		Outbox:            outbox.NewMemoryStore(),
		Logger:            zlog,
	}
	if cfg.RedisURL != "" {
		rc, err := redis.Initialize(cfg.RedisURL)
		if err != nil {
			zlog.Warn("Redis unavailable, pending writes will not outlive this run", zap.Error(err))
		} else {
			opts.Outbox = outbox.NewRedisStore(rc)
			opts.Settings = rc
			a.durable = true
			a.closers = append(a.closers, rc.Close)
		}
	}

	a.controller, err = dashboard.NewController(a.client, opts)
	if err != nil {
		return nil, err
	}
	a.pending = opts.Outbox
	a.reconciler = outbox.NewReconciler(opts.Outbox, a.client, cfg.SyncMaxAttempts, zlog)
	a.reconciler.OnReplay(a.controller.NotifyReplayed)

	if err := a.controller.Subscribe(dashboard.TopicSyncFailed, func(f dashboard.SyncFailure) {
		note := "will retry on next sync"
		if !f.Queued {
			note = "not queued"
		}
		fmt.Fprintf(os.Stderr, "! %s did not reach the server (%s): %v\n", f.Kind, note, f.Err)
	}); err != nil {
		return nil, err
	}
	if err := a.controller.Subscribe(dashboard.TopicSyncReplayed, func(replayed, pending int) {
		fmt.Fprintf(os.Stderr, "synced %d pending write(s), %d still pending\n", replayed, pending)
	}); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) close() error {
	a.reconciler.Stop()
	err := a.controller.Close()
	if !a.durable {
		if n, _ := a.pending.Len(context.Background()); n > 0 {
			a.logger.Warn("writes lost on exit, set REDIS_URL to keep them for the next sync", zap.Int("pending", n))
		}
	}
	for _, c := range a.closers {
		if cerr := c(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
