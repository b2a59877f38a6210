package usecase

import (
	"math"
	"strings"

	"github.com/xavierca1/painel-leads/internal/entity"
)

// FilterAll é o valor sentinela dos filtros categóricos.
const FilterAll = "all"

type LeadFilter struct {
	Search string
	Status string
	Origin string
	Period string
}

// Validate avisa quando o filtro por período foi pedido: ele ainda não filtra nada.
func (f LeadFilter) Validate() error {
	return validatePeriod(f.Period)
}

func validatePeriod(period string) error {
	if period != "" && period != FilterAll {
		return ErrDateRangeNotImplemented
	}
	return nil
}

func FilterLeads(leads []entity.Lead, f LeadFilter) []entity.Lead {
	term := strings.ToLower(f.Search)
	out := make([]entity.Lead, 0, len(leads))
	for _, l := range leads {
		if !matchesLeadSearch(l, term) {
			continue
		}
		if !matchesCategory(f.Status, l.Status) || !matchesCategory(f.Origin, l.Origin) {
			continue
		}
		if !matchesPeriod(f.Period, l) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func matchesLeadSearch(l entity.Lead, term string) bool {
	if term == "" {
		return true
	}
	return containsFold(l.Name, term) || containsFold(l.Phone, term) || containsFold(l.Email, term)
}

// matchesCategory compara exato (com caixa), ao contrário da busca textual.
func matchesCategory(filter, value string) bool {
	return filter == "" || filter == FilterAll || filter == value
}

// matchesPeriod aceita qualquer período.
// TODO: filtrar por created_at quando o front definir os períodos (hoje, semana, mês).
func matchesPeriod(_ string, _ entity.Lead) bool {
	return true
}

func containsFold(field *string, lowerTerm string) bool {
	return field != nil && strings.Contains(strings.ToLower(*field), lowerTerm)
}

type Overview struct {
	TotalLeads      int     `json:"total_leads"`
	ConvertedLeads  int     `json:"converted_leads"`
	ConversionRate  float64 `json:"conversion_rate"`
	WithPhone       int     `json:"with_phone"`
	WithEmail       int     `json:"with_email"`
	Scheduled       int     `json:"scheduled"`
	PhonePercentage float64 `json:"phone_percentage"`
	EmailPercentage float64 `json:"email_percentage"`
}

func OverviewMetrics(leads []entity.Lead) Overview {
	o := Overview{TotalLeads: len(leads)}
	for _, l := range leads {
		if l.IsConverted() {
			o.ConvertedLeads++
		}
		if l.HasValidPhone() {
			o.WithPhone++
		}
		if l.HasValidEmail() {
			o.WithEmail++
		}
		if l.IsScheduled() {
			o.Scheduled++
		}
	}
	o.ConversionRate = percentage(o.ConvertedLeads, o.TotalLeads)
	o.PhonePercentage = percentage(o.WithPhone, o.TotalLeads)
	o.EmailPercentage = percentage(o.WithEmail, o.TotalLeads)
	return o
}

// percentage arredonda para uma casa decimal; total zero dá 0.
func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

// Origins lista as origens distintas na ordem em que aparecem, para o select de filtros.
func Origins(leads []entity.Lead) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, l := range leads {
		if l.Origin == "" || seen[l.Origin] {
			continue
		}
		seen[l.Origin] = true
		out = append(out, l.Origin)
	}
	return out
}
