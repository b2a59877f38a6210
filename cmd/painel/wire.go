package main

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/xavierca1/painel-leads/internal/config"
	"github.com/xavierca1/painel-leads/internal/infra/integration/webhook"
	"github.com/xavierca1/painel-leads/internal/infra/mail"
	"github.com/xavierca1/painel-leads/internal/logger"
	"github.com/xavierca1/painel-leads/internal/usecase"
)

func bootstrap(c *cli.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(c.StringSlice("env-file")...)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	return cfg, log, nil
}

func newWebhookClient(cfg *config.Config, log zerolog.Logger) *webhook.Client {
	return webhook.NewClient(
		webhook.Endpoints{
			Leads:        cfg.Webhook.LeadsURL,
			DeleteLeads:  cfg.Webhook.DeleteLeadsURL,
			EditLead:     cfg.Webhook.EditLeadURL,
			Prompts:      cfg.Webhook.PromptsURL,
			CreatePrompt: cfg.Webhook.CreatePromptURL,
			EditPrompt:   cfg.Webhook.EditPromptURL,
			DeletePrompt: cfg.Webhook.DeletePromptURL,
		},
		&http.Client{Timeout: cfg.Webhook.Timeout},
		logger.Component(log, "webhook"),
		webhook.WithToken(cfg.Webhook.Token),
		webhook.WithUserAgent(cfg.Webhook.UserAgent),
	)
}

// newNotifier sempre registra no log; e-mail só entra quando configurado.
func newNotifier(cfg *config.Config, log zerolog.Logger) usecase.Notifier {
	alertLog := logger.Component(log, "alerts")
	fan := mail.Fanout{mail.NewLogNotifier(alertLog)}
	if cfg.MailEnabled() {
		sender := mail.NewAlertSender(
			cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Pass,
			cfg.Mail.From, splitList(cfg.Mail.AlertTo),
		)
		fan = append(fan, mail.NewMailNotifier(sender, alertLog))
	}
	return fan
}

func newLoader(cfg *config.Config, client *webhook.Client, store *usecase.Store, log zerolog.Logger) *usecase.LoadDataUseCase {
	loader := usecase.NewLoadDataUseCase(
		client,
		store,
		usecase.NewNormalizer(cfg.Normalizer.PreserveUnknown),
		newNotifier(cfg, log),
		logger.Component(log, "loader"),
	)
	if cfg.Refresh.Timeout > 0 {
		loader.Timeout = cfg.Refresh.Timeout
	}
	return loader
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
