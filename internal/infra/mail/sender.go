package mail

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/painel-leads/internal/usecase"
)

type Message = gomail.Message

var alertTemplate = template.Must(template.New("alert").Parse(`<p>O painel <strong>{{.Dashboard}}</strong> não conseguiu carregar <strong>{{.Resource}}</strong>.</p>
<p>Erro: <code>{{.Message}}</code></p>
<p>Quando: {{.OccurredAt}}</p>
<p>Os dados anteriores continuam no painel até a próxima atualização bem-sucedida.</p>
`))

func NewAlertSender(host string, port int, user, password, from string, to []string) *AlertSender {
	return &AlertSender{
		From:      from,
		To:        to,
		Dashboard: "Dashboard Leads",
		dialer:    gomail.NewDialer(host, port, user, password),
		now:       time.Now,
	}
}

// BuildAlert monta o e-mail de aviso de recurso não carregado.
func (s *AlertSender) BuildAlert(warning *usecase.FetchFailedError) (*Message, error) {
	data := AlertEmailData{
		Resource:   warning.Resource,
		Message:    warning.Message,
		OccurredAt: s.now().Format("02/01/2006 15:04:05"),
		Dashboard:  s.Dashboard,
	}

	var body bytes.Buffer
	if err := alertTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To...)
	m.SetHeader("Subject", fmt.Sprintf("⚠️ Painel de leads: falha ao carregar %s", warning.Resource))
	m.SetBody("text/html", body.String())
	return m, nil
}

func (s *AlertSender) SendAlert(warning *usecase.FetchFailedError) error {
	m, err := s.BuildAlert(warning)
	if err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

// MailNotifier adapta o AlertSender para o Notifier do carregamento.
type MailNotifier struct {
	Sender *AlertSender
	log    zerolog.Logger
}

func NewMailNotifier(sender *AlertSender, log zerolog.Logger) *MailNotifier {
	return &MailNotifier{Sender: sender, log: log}
}

func (n *MailNotifier) NotifyFetchFailed(_ context.Context, warning *usecase.FetchFailedError) {
	if err := n.Sender.SendAlert(warning); err != nil {
		n.log.Error().Err(err).Str("resource", warning.Resource).Msg("❌ falha ao enviar alerta por e-mail")
		return
	}
	n.log.Info().Str("resource", warning.Resource).Str("to", strings.Join(n.Sender.To, ",")).Msg("📧 alerta enviado")
}

// LogNotifier só registra o aviso. Fica sempre ligado.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) LogNotifier {
	return LogNotifier{log: log}
}

func (n LogNotifier) NotifyFetchFailed(_ context.Context, warning *usecase.FetchFailedError) {
	n.log.Warn().Str("resource", warning.Resource).Str("message", warning.Message).Msg("⚠️ recurso não carregado")
}

// Fanout repassa o aviso para todos os notifiers, em ordem.
type Fanout []usecase.Notifier

func (f Fanout) NotifyFetchFailed(ctx context.Context, warning *usecase.FetchFailedError) {
	for _, n := range f {
		n.NotifyFetchFailed(ctx, warning)
	}
}
