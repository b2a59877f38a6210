package entity

import "regexp"

type PromptStatus string

const (
	PromptActive   PromptStatus = "ativo"
	PromptInactive PromptStatus = "inativo"
)

// Toggle alterna entre ativo e inativo. Qualquer valor desconhecido vira ativo.
func (s PromptStatus) Toggle() PromptStatus {
	if s == PromptActive {
		return PromptInactive
	}
	return PromptActive
}

type PromptPriority string

const (
	PriorityHigh   PromptPriority = "alta"
	PriorityMedium PromptPriority = "media"
	PriorityLow    PromptPriority = "baixa"
)

var priorityRank = map[PromptPriority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

var priorityLabel = map[PromptPriority]string{
	PriorityHigh:   "Alta",
	PriorityMedium: "Média",
	PriorityLow:    "Baixa",
}

// Prompt é um template de instrução para os agentes de IA.
type Prompt struct {
	ID          int64          `json:"id"`
	Title       string         `json:"titulo"`
	Category    string         `json:"categoria"`
	Description string         `json:"descricao,omitempty"`
	Content     string         `json:"conteudo"`
	Status      PromptStatus   `json:"status"`
	Priority    PromptPriority `json:"prioridade"`
	CreatedAt   string         `json:"created_at,omitempty"`
}

// PriorityRank ordena alta < media < baixa; prioridades desconhecidas vão para o fim.
func (p Prompt) PriorityRank() int {
	if r, ok := priorityRank[p.Priority]; ok {
		return r
	}
	return len(priorityRank)
}

func (p Prompt) PriorityLabel() string {
	if l, ok := priorityLabel[p.Priority]; ok {
		return l
	}
	return "Sem prioridade"
}

var variablePattern = regexp.MustCompile(`\{([^}]+)\}`)

// Variables extrai os tokens {variavel} do conteúdo, sem repetição, na ordem em que aparecem.
func (p Prompt) Variables() []string {
	vars := []string{}
	seen := make(map[string]bool)
	for _, m := range variablePattern.FindAllStringSubmatch(p.Content, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		vars = append(vars, m[1])
	}
	return vars
}
