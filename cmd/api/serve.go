package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	httpadp "impact-lending/internal/adapter/http"
	mw "impact-lending/internal/adapter/middleware"
	"impact-lending/internal/adapter/oracle"
	"impact-lending/internal/adapter/repository/mysql"
	"impact-lending/internal/config"
	"impact-lending/internal/domain/engine"
	"impact-lending/internal/events"
	"impact-lending/internal/infrastructure/cache"
	"impact-lending/internal/infrastructure/db"
	"impact-lending/internal/infrastructure/metrics"
	ucAuthority "impact-lending/internal/usecase/authority"
	ucDistribution "impact-lending/internal/usecase/distribution"
	ucImpact "impact-lending/internal/usecase/impact"
	ucLedger "impact-lending/internal/usecase/ledger"
	ucLoan "impact-lending/internal/usecase/loan"
)

const shutdownTimeout = 10 * time.Second

func serveCommand(conf func() *config.Config) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), conf(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "run schema migration before serving")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, migrate bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		return err
	}
	if migrate {
		if err := mysql.AutoMigrate(gdb); err != nil {
			return err
		}
	}
	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	loans := mysql.NewLoanRepository(gdb)
	engines := mysql.NewEngineRepository(gdb)
	ledger := mysql.NewLedgerRepository(gdb)
	tx := mysql.NewGormUoW(gdb)
	if _, err := engines.EnsureConfig(ctx, engine.NewConfig(cfg.MaxLoans, cfg.CreationFee)); err != nil {
		return err
	}

	bus := events.NewBus()
	sink := events.NewStreamSink(rdb, cfg.EventStream)
	bus.SubscribeOrdered(sink.Handle)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.New(reg).Subscribe(bus)

	verifier := ucImpact.NewVerifier(mysql.NewRegistryRepository(gdb), oracle.NewRedisOracle(rdb))
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	health := httpadp.NewHandler(
		httpadp.Check{Name: "mysql", Ping: sqlDB.PingContext},
		httpadp.Check{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
	)
	routes := httpadp.Routes{
		Health:    health,
		Loans:     httpadp.NewLoanHandler(ucLoan.NewUsecase(loans, engines, tx, bus)),
		Authority: httpadp.NewAuthorityHandler(ucAuthority.NewUsecase(engines, tx, bus)),
		Returns:   httpadp.NewReturnsHandler(verifier, ucDistribution.NewUsecase(loans, tx, verifier, bus)),
		Ledger:    httpadp.NewLedgerHandler(ucLedger.NewUsecase(ledger, tx)),
		Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())
	routes.Register(e, mw.CallerIdentity(), mw.IdempotencyMiddleware(rdb, cfg.IdempotencyTTL()))

	addr := ":" + cfg.AppPort
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	// in-flight requests are done; write out the events they raised
	if err := sink.Close(shutdownCtx); err != nil {
		log.WithField("error", err).Warn("Event stream not fully drained")
	}
	return nil
}
