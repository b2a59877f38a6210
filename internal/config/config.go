package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixa todas as variáveis de ambiente lidas pelo painel.
// PAINEL_WEBHOOK__LEADS_URL vira a chave webhook.leads_url.
const EnvPrefix = "PAINEL_"

type Config struct {
	HTTP struct {
		Addr           string   `koanf:"addr"`
		AllowedOrigins []string `koanf:"allowed_origins"`
		RateLimit      float64  `koanf:"rate_limit"`
		RateBurst      int      `koanf:"rate_burst"`
	} `koanf:"http"`

	Webhook struct {
		LeadsURL        string        `koanf:"leads_url"`
		DeleteLeadsURL  string        `koanf:"delete_leads_url"`
		EditLeadURL     string        `koanf:"edit_lead_url"`
		PromptsURL      string        `koanf:"prompts_url"`
		CreatePromptURL string        `koanf:"create_prompt_url"`
		EditPromptURL   string        `koanf:"edit_prompt_url"`
		DeletePromptURL string        `koanf:"delete_prompt_url"`
		Timeout         time.Duration `koanf:"timeout"`
		Token           string        `koanf:"token"`
		UserAgent       string        `koanf:"user_agent"`
	} `koanf:"webhook"`

	Refresh struct {
		Interval time.Duration `koanf:"interval"`
		Timeout  time.Duration `koanf:"timeout"`
	} `koanf:"refresh"`

	Normalizer struct {
		PreserveUnknown bool `koanf:"preserve_unknown"`
	} `koanf:"normalizer"`

	Log struct {
		Level  string `koanf:"level"`
		Pretty bool   `koanf:"pretty"`
	} `koanf:"log"`

	AMQP struct {
		URL string `koanf:"url"`
	} `koanf:"amqp"`

	Mail struct {
		Host    string `koanf:"host"`
		Port    int    `koanf:"port"`
		User    string `koanf:"user"`
		Pass    string `koanf:"pass"`
		From    string `koanf:"from"`
		AlertTo string `koanf:"alert_to"`
	} `koanf:"mail"`

	Timezone string `koanf:"timezone"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"http.addr":            ":8080",
		"http.allowed_origins": []string{"http://localhost:3000", "http://localhost:5173"},
		"http.rate_limit":      5.0,
		"http.rate_burst":      10,

		"webhook.leads_url":         "https://n8n.billzap.com.br/webhook/consulta-tabelas-agente-v8",
		"webhook.delete_leads_url":  "https://n8n.billzap.com.br/webhook/deletar-dados-dash",
		"webhook.edit_lead_url":     "https://n8n.billzap.com.br/webhook/editar-lead-dash",
		"webhook.prompts_url":       "https://n8n.billzap.com.br/webhook/consulta-prompts",
		"webhook.create_prompt_url": "https://n8n.billzap.com.br/webhook/criar-prompt",
		"webhook.edit_prompt_url":   "https://n8n.billzap.com.br/webhook/editar-prompt",
		"webhook.delete_prompt_url": "https://n8n.billzap.com.br/webhook/deletar-prompt",
		"webhook.timeout":           15 * time.Second,
		"webhook.user_agent":        "Dashboard-Leads/1.0",

		"refresh.interval": 5 * time.Minute,
		"refresh.timeout":  2 * time.Minute,

		"normalizer.preserve_unknown": true,

		"log.level":  "info",
		"log.pretty": false,

		"mail.port": 587,
		"mail.from": "nao-responda@billzap.com.br",

		"timezone": "America/Sao_Paulo",
	}
}

// Load lê o .env (se existir), aplica os defaults e sobrescreve com PAINEL_*.
func Load(envFiles ...string) (*Config, error) {
	// .env é opcional; em produção as variáveis vêm do ambiente
	_ = godotenv.Load(envFiles...)

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("erro ao carregar defaults: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("erro ao ler variáveis de ambiente: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("erro ao interpretar configuração: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func (c *Config) Validate() error {
	urls := map[string]string{
		"webhook.leads_url":         c.Webhook.LeadsURL,
		"webhook.delete_leads_url":  c.Webhook.DeleteLeadsURL,
		"webhook.edit_lead_url":     c.Webhook.EditLeadURL,
		"webhook.prompts_url":       c.Webhook.PromptsURL,
		"webhook.create_prompt_url": c.Webhook.CreatePromptURL,
		"webhook.edit_prompt_url":   c.Webhook.EditPromptURL,
		"webhook.delete_prompt_url": c.Webhook.DeletePromptURL,
	}
	for key, v := range urls {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is required", key)
		}
	}

	if c.Webhook.Timeout <= 0 {
		return fmt.Errorf("webhook.timeout must be positive")
	}
	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("refresh.interval must be positive")
	}
	if c.Refresh.Timeout <= 0 {
		return fmt.Errorf("refresh.timeout must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q is invalid: %w", c.Timezone, err)
	}
	return nil
}

// Location devolve o fuso usado para os cálculos de calendário.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) MailEnabled() bool {
	return c.Mail.Host != "" && c.Mail.AlertTo != ""
}

// RefreshSchedule converte o intervalo no formato do agendador cron.
func (c *Config) RefreshSchedule() string {
	return "@every " + c.Refresh.Interval.String()
}
