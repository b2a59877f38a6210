package usecase

import (
	"strings"
	"time"

	"github.com/xavierca1/painel-leads/internal/entity"
)

const (
	fallbackChannel = "Não informado"
	fallbackStage   = "Sem etapa"
)

type ChannelStat struct {
	Channel     string `json:"canal"`
	Leads       int    `json:"leads"`
	Conversions int    `json:"conversoes"`
}

// ChannelStats agrupa por origem na ordem em que cada canal aparece.
func ChannelStats(leads []entity.Lead) []ChannelStat {
	index := make(map[string]int)
	out := []ChannelStat{}
	for _, l := range leads {
		channel := l.Origin
		if channel == "" {
			channel = fallbackChannel
		}
		i, ok := index[channel]
		if !ok {
			i = len(out)
			index[channel] = i
			out = append(out, ChannelStat{Channel: channel})
		}
		out[i].Leads++
		if l.IsConverted() {
			out[i].Conversions++
		}
	}
	return out
}

type FunnelStat struct {
	Stage string `json:"name"`
	Count int    `json:"value"`
}

func FunnelStats(leads []entity.Lead) []FunnelStat {
	index := make(map[string]int)
	out := []FunnelStat{}
	for _, l := range leads {
		stage := l.FunnelStage
		if stage == "" {
			stage = fallbackStage
		}
		i, ok := index[stage]
		if !ok {
			i = len(out)
			index[stage] = i
			out = append(out, FunnelStat{Stage: stage})
		}
		out[i].Count++
	}
	return out
}

// Coverage separa os leads em quatro grupos disjuntos; a soma é sempre o total.
type Coverage struct {
	PhoneOnly int `json:"phone_only"`
	EmailOnly int `json:"email_only"`
	Both      int `json:"both"`
	Neither   int `json:"neither"`
	// totais não disjuntos, como nos cards
	WithPhone int `json:"with_phone"`
	WithEmail int `json:"with_email"`
}

func (c Coverage) Total() int {
	return c.PhoneOnly + c.EmailOnly + c.Both + c.Neither
}

func ContactCoverage(leads []entity.Lead) Coverage {
	var c Coverage
	for _, l := range leads {
		phone, email := l.HasValidPhone(), l.HasValidEmail()
		if phone {
			c.WithPhone++
		}
		if email {
			c.WithEmail++
		}
		switch {
		case phone && email:
			c.Both++
		case phone:
			c.PhoneOnly++
		case email:
			c.EmailOnly++
		default:
			c.Neither++
		}
	}
	return c
}

type DailyPoint struct {
	Date        string `json:"date"`
	Label       string `json:"label"`
	Leads       int    `json:"leads"`
	Conversions int    `json:"conversoes"`
}

// DailySeries devolve sempre 7 pontos, do dia mais antigo até hoje (no fuso de now).
// O dia do lead é o prefixo AAAA-MM-DD de created_at.
func DailySeries(leads []entity.Lead, now time.Time) []DailyPoint {
	today := dateOnly(now)
	points := make([]DailyPoint, 7)
	index := make(map[string]int, 7)
	for i := range points {
		d := today.AddDate(0, 0, i-6)
		key := d.Format("2006-01-02")
		index[key] = i
		points[i] = DailyPoint{Date: key, Label: d.Format("02/01")}
	}

	for _, l := range leads {
		created := strings.TrimSpace(entity.StringValue(l.CreatedAt))
		if len(created) < 10 {
			continue
		}
		i, ok := index[created[:10]]
		if !ok {
			continue
		}
		points[i].Leads++
		if l.IsConverted() {
			points[i].Conversions++
		}
	}
	return points
}
