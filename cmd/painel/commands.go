package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/painel-leads/internal/infra/http/handlers"
	"github.com/xavierca1/painel-leads/internal/infra/queue"
	"github.com/xavierca1/painel-leads/internal/infra/worker"
	"github.com/xavierca1/painel-leads/internal/logger"
	"github.com/xavierca1/painel-leads/internal/usecase"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Sobe a API HTTP e o worker de atualização periódica",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "sobrescreve http.addr",
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, log, err := bootstrap(c)
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.HTTP.Addr = addr
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Auditoria é opcional: sem broker as mutações seguem sem evento.
	var (
		audit  usecase.AuditPublisher = queue.NoopPublisher{}
		health handlers.HealthChecker
	)
	if cfg.AMQP.URL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQP.URL)
		if err != nil {
			log.Warn().Err(err).Msg("⚠️ RabbitMQ indisponível, auditoria desligada")
		} else {
			defer rabbitMQ.Close()
			audit = queue.NewAuditProducer(rabbitMQ.Ch, logger.Component(log, "audit"))
			health = rabbitMQ
		}
	}

	client := newWebhookClient(cfg, log)
	store := usecase.NewStore()
	loader := newLoader(cfg, client, store, log)
	loc := cfg.Location()

	mutLog := logger.Component(log, "mutations")
	editUC := usecase.NewEditLeadUseCase(client, audit, mutLog)
	deleteUC := usecase.NewDeleteLeadsUseCase(client, store, audit, mutLog)
	promptsUC := usecase.NewManagePromptsUseCase(client, store, audit, mutLog)

	httpLog := logger.Component(log, "http")
	router := handlers.NewRouter(
		handlers.RouterConfig{
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			Limiter:        handlers.NewRateLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateBurst),
			Log:            httpLog,
		},
		handlers.NewDashboardHandler(store, loader, loc, httpLog),
		handlers.NewLeadHandler(store, editUC, deleteUC, loc, httpLog),
		handlers.NewPromptHandler(store, promptsUC, httpLog),
		handlers.NewHealthHandler(store, health, cfg.Webhook.LeadsURL, version),
	)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	refresher := worker.NewRefreshWorker(loader, cfg.RefreshSchedule(), cfg.Refresh.Timeout, logger.Component(log, "refresh"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return refresher.Start(gctx)
	})
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTP.Addr).Str("version", version).Msg("🔥 Painel de leads rodando")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("servidor HTTP: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("⚠️ encerrando servidor HTTP")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func snapshotCommand() *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Faz uma carga única e imprime as métricas do painel em JSON",
		Action: func(c *cli.Context) error {
			cfg, log, err := bootstrap(c)
			if err != nil {
				return err
			}

			client := newWebhookClient(cfg, log)
			store := usecase.NewStore()
			loader := newLoader(cfg, client, store, log)

			ctx, cancel := context.WithTimeout(c.Context, cfg.Refresh.Timeout)
			defer cancel()
			res, err := loader.Execute(ctx)
			if err != nil {
				return err
			}

			leads := store.Leads()
			now := time.Now().In(cfg.Location())
			out := struct {
				UpdatedAt time.Time           `json:"updated_at"`
				Overview  usecase.Overview    `json:"overview"`
				Agenda    usecase.Agenda      `json:"agenda"`
				Prompts   usecase.PromptStats `json:"prompts"`
				Warnings  []string            `json:"warnings,omitempty"`
			}{
				UpdatedAt: res.UpdatedAt,
				Overview:  usecase.OverviewMetrics(leads),
				Agenda:    usecase.AgendaMetrics(leads, now),
				Prompts:   usecase.PromptMetrics(store.Prompts()),
				Warnings:  res.WarningMessages(),
			}

			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

func auditCommand() *cli.Command {
	return &cli.Command{
		Name:  "audit",
		Usage: "Consome os eventos de auditoria das mutações e registra no log",
		Action: func(c *cli.Context) error {
			cfg, log, err := bootstrap(c)
			if err != nil {
				return err
			}
			if cfg.AMQP.URL == "" {
				return errors.New("amqp.url não configurada (PAINEL_AMQP__URL)")
			}

			rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQP.URL)
			if err != nil {
				return err
			}
			defer rabbitMQ.Close()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := queue.NewAuditWorker(rabbitMQ.Ch, nil, logger.Component(log, "audit"))
			return w.Start(ctx, queue.QueueName)
		},
	}
}
