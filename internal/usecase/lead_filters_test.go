package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/painel-leads/internal/entity"
)

func sampleLeads() []entity.Lead {
	return []entity.Lead{
		{ID: 1, Name: strPtr("Maria Silva"), Phone: strPtr("11 98888-7777"), PhoneKey: "11988887777", Email: strPtr("maria@exemplo.com"), Origin: "Instagram", Status: "Convertido", ScheduledAt: strPtr("2024-03-01T09:00")},
		{ID: 2, Name: strPtr("João"), Phone: strPtr("5521977776666"), PhoneKey: "5521977776666", Origin: "Google", Status: "Em andamento"},
		{ID: 3, Email: strPtr("sem-arroba.com"), Origin: "Instagram", Status: "convertido", ScheduledAt: strPtr("   ")},
		{ID: 4, Name: strPtr("Carla"), Email: strPtr("CARLA@Empresa.com.br"), Status: "Perdido"},
	}
}

func ids(leads []entity.Lead) []int64 {
	out := make([]int64, len(leads))
	for i, l := range leads {
		out[i] = l.ID
	}
	return out
}

func TestFilterLeadsSearch(t *testing.T) {
	leads := sampleLeads()

	assert.Equal(t, []int64{1, 2, 3, 4}, ids(FilterLeads(leads, LeadFilter{})))
	assert.Equal(t, []int64{1}, ids(FilterLeads(leads, LeadFilter{Search: "MARIA"})))
	assert.Equal(t, []int64{2}, ids(FilterLeads(leads, LeadFilter{Search: "977776"})))
	assert.Equal(t, []int64{4}, ids(FilterLeads(leads, LeadFilter{Search: "empresa"})))
	// telefone é comparado no formato cru, não no limpo
	assert.Empty(t, FilterLeads(leads, LeadFilter{Search: "11988887777"}))
}

func TestFilterLeadsCategoricalIsExact(t *testing.T) {
	leads := sampleLeads()

	assert.Equal(t, []int64{1}, ids(FilterLeads(leads, LeadFilter{Status: "Convertido"})))
	assert.Equal(t, []int64{3}, ids(FilterLeads(leads, LeadFilter{Status: "convertido"})))
	assert.Equal(t, []int64{1, 3}, ids(FilterLeads(leads, LeadFilter{Origin: "Instagram", Status: FilterAll})))
	assert.Equal(t, []int64{1}, ids(FilterLeads(leads, LeadFilter{Origin: "Instagram", Search: "maria"})))
}

func TestDateRangeFilterIsNotImplemented(t *testing.T) {
	leads := sampleLeads()
	f := LeadFilter{Period: "today"}

	assert.ErrorIs(t, f.Validate(), ErrDateRangeNotImplemented)
	assert.Len(t, FilterLeads(leads, f), len(leads), "período ainda aceita todos os leads")
	assert.NoError(t, LeadFilter{Period: FilterAll}.Validate())
}

func TestOverviewMetrics(t *testing.T) {
	o := OverviewMetrics(sampleLeads())

	assert.Equal(t, 4, o.TotalLeads)
	assert.Equal(t, 2, o.ConvertedLeads)
	assert.Equal(t, 50.0, o.ConversionRate)
	assert.Equal(t, 2, o.WithPhone)
	assert.Equal(t, 2, o.WithEmail)
	assert.Equal(t, 1, o.Scheduled)
	assert.Equal(t, 50.0, o.PhonePercentage)

	assert.Equal(t, Overview{}, OverviewMetrics(nil))
}

func TestOrigins(t *testing.T) {
	assert.Equal(t, []string{"Instagram", "Google"}, Origins(sampleLeads()))
}
