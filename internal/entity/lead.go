package entity

import (
	"encoding/json"
	"strings"
)

// StatusConverted é o rótulo de status que conta como conversão (comparado sem caixa).
const StatusConverted = "Convertido"

// Lead é o registro canônico de um contato vindo do webhook de consulta.
// Campos opcionais são ponteiros: nil significa "não informado".
type Lead struct {
	ID             int64    `json:"id"`
	Name           *string  `json:"nomewpp"`
	Phone          *string  `json:"telefone"`
	PhoneKey       string   `json:"telefone_limpo"`
	Email          *string  `json:"email"`
	Origin         string   `json:"origem_lead,omitempty"`
	Status         string   `json:"status_atendimento,omitempty"`
	FunnelStage    string   `json:"etapa_funil,omitempty"`
	Score          *float64 `json:"pontuacao_lead"`
	ScheduledAt    *string  `json:"data_agendamento"`
	Summary        string   `json:"resumo_atendimento,omitempty"`
	CreatedAt      *string  `json:"created_at,omitempty"`
	Scheduled      bool     `json:"agendamento"`
	IsDuplicate    bool     `json:"is_duplicate"`
	DuplicateCount int      `json:"duplicate_count"`

	// Extra guarda campos do servidor que não fazem parte do formato canônico.
	Extra map[string]json.RawMessage `json:"extra,omitempty"`
}

func (l Lead) HasValidPhone() bool {
	return l.Phone != nil && *l.Phone != "" && len(l.PhoneKey) >= 10
}

func (l Lead) HasValidEmail() bool {
	return l.Email != nil && IsValidEmail(*l.Email)
}

// IsScheduled: data_agendamento presente e não vazio depois do trim.
func (l Lead) IsScheduled() bool {
	return l.ScheduledAt != nil && strings.TrimSpace(*l.ScheduledAt) != ""
}

func (l Lead) IsConverted() bool {
	return strings.EqualFold(l.Status, StatusConverted)
}

// StringValue devolve o conteúdo de um campo opcional ou "" quando ausente.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NullString converte "" em nil, como o resto do sistema espera para campos vazios.
func NullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
