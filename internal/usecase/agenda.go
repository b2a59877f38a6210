package usecase

import (
	"sort"
	"strings"
	"time"

	"github.com/xavierca1/painel-leads/internal/entity"
)

func ScheduledLeads(leads []entity.Lead) []entity.Lead {
	out := make([]entity.Lead, 0)
	for _, l := range leads {
		if l.IsScheduled() {
			out = append(out, l)
		}
	}
	return out
}

type AgendaFilter struct {
	Search string
	Status string
	Period string
}

func (f AgendaFilter) Validate() error {
	return validatePeriod(f.Period)
}

// FilterScheduled filtra os agendados. Aqui a busca olha só nome e email.
func FilterScheduled(leads []entity.Lead, f AgendaFilter) []entity.Lead {
	term := strings.ToLower(f.Search)
	out := make([]entity.Lead, 0)
	for _, l := range ScheduledLeads(leads) {
		if term != "" && !containsFold(l.Name, term) && !containsFold(l.Email, term) {
			continue
		}
		if !matchesCategory(f.Status, l.Status) || !matchesPeriod(f.Period, l) {
			continue
		}
		out = append(out, l)
	}
	return out
}

type Agenda struct {
	Today    int `json:"today"`
	Tomorrow int `json:"tomorrow"`
	ThisWeek int `json:"this_week"`
	Total    int `json:"total"`
}

// AgendaMetrics conta por data de calendário no fuso de now. A semana vai de domingo a sábado.
func AgendaMetrics(leads []entity.Lead, now time.Time) Agenda {
	scheduled := ScheduledLeads(leads)
	loc := now.Location()

	today := dateOnly(now)
	tomorrow := today.AddDate(0, 0, 1)
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 6)

	m := Agenda{Total: len(scheduled)}
	for _, l := range scheduled {
		t, ok := parseTime(*l.ScheduledAt, loc)
		if !ok {
			continue
		}
		day := dateOnly(t)
		if day.Equal(today) {
			m.Today++
		}
		if day.Equal(tomorrow) {
			m.Tomorrow++
		}
		if !day.Before(weekStart) && !day.After(weekEnd) {
			m.ThisWeek++
		}
	}
	return m
}

// SortBySchedule ordena por data_agendamento crescente, sem alterar a entrada.
// Sem data conta como epoch zero (vem primeiro); datas inválidas ficam onde estavam.
// Datas sem fuso são lidas em loc, como no calendário e nas métricas.
func SortBySchedule(leads []entity.Lead, loc *time.Location) []entity.Lead {
	out := make([]entity.Lead, len(leads))
	copy(out, leads)

	type keyed struct {
		lead entity.Lead
		at   time.Time
	}
	var slots []int
	var sortable []keyed
	for i, l := range out {
		at := time.Unix(0, 0).UTC()
		if l.ScheduledAt != nil && strings.TrimSpace(*l.ScheduledAt) != "" {
			t, ok := parseTime(*l.ScheduledAt, loc)
			if !ok {
				continue
			}
			at = t
		}
		slots = append(slots, i)
		sortable = append(sortable, keyed{lead: l, at: at})
	}

	sort.SliceStable(sortable, func(i, j int) bool {
		return sortable[i].at.Before(sortable[j].at)
	})
	for k, slot := range slots {
		out[slot] = sortable[k].lead
	}
	return out
}

type CalendarDay struct {
	Date    string        `json:"date"`
	Day     int           `json:"day"`
	InMonth bool          `json:"in_month"`
	Today   bool          `json:"today"`
	Events  []entity.Lead `json:"events"`
}

// CalendarMonth monta a grade de 6 semanas (42 dias) começando no domingo
// anterior ao dia 1, com os agendamentos de cada dia.
func CalendarMonth(leads []entity.Lead, year int, month time.Month, now time.Time) []CalendarDay {
	loc := now.Location()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	byDay := make(map[string][]entity.Lead)
	for _, l := range SortBySchedule(ScheduledLeads(leads), loc) {
		t, ok := parseTime(*l.ScheduledAt, loc)
		if !ok {
			continue
		}
		key := t.Format("2006-01-02")
		byDay[key] = append(byDay[key], l)
	}

	days := make([]CalendarDay, 42)
	for i := range days {
		d := start.AddDate(0, 0, i)
		key := d.Format("2006-01-02")
		events := byDay[key]
		if events == nil {
			events = []entity.Lead{}
		}
		days[i] = CalendarDay{
			Date:    key,
			Day:     d.Day(),
			InMonth: d.Month() == month,
			Today:   sameDay(d, now),
			Events:  events,
		}
	}
	return days
}
