package usecase

import (
	"sort"
	"strings"

	"github.com/xavierca1/painel-leads/internal/entity"
)

type PromptFilter struct {
	Search   string
	Category string
	Status   string
}

// FilterPrompts busca em título, conteúdo e descrição, sem caixa.
func FilterPrompts(prompts []entity.Prompt, f PromptFilter) []entity.Prompt {
	term := strings.ToLower(f.Search)
	out := make([]entity.Prompt, 0, len(prompts))
	for _, p := range prompts {
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Title), term) &&
			!strings.Contains(strings.ToLower(p.Content), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			continue
		}
		if !matchesCategory(f.Category, p.Category) || !matchesCategory(f.Status, string(p.Status)) {
			continue
		}
		out = append(out, p)
	}
	return out
}

type PromptStats struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	Inactive     int `json:"inactive"`
	HighPriority int `json:"high_priority"`
}

func PromptMetrics(prompts []entity.Prompt) PromptStats {
	s := PromptStats{Total: len(prompts)}
	for _, p := range prompts {
		switch p.Status {
		case entity.PromptActive:
			s.Active++
		case entity.PromptInactive:
			s.Inactive++
		}
		if p.Priority == entity.PriorityHigh {
			s.HighPriority++
		}
	}
	return s
}

// SortPrompts: ativos antes dos inativos, depois alta, média, baixa. Empates mantêm a ordem.
func SortPrompts(prompts []entity.Prompt) []entity.Prompt {
	out := make([]entity.Prompt, len(prompts))
	copy(out, prompts)
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := out[i].Status == entity.PromptActive, out[j].Status == entity.PromptActive
		if ai != aj {
			return ai
		}
		return out[i].PriorityRank() < out[j].PriorityRank()
	})
	return out
}

// Categories lista as categorias distintas na ordem em que aparecem.
func Categories(prompts []entity.Prompt) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, p := range prompts {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}
